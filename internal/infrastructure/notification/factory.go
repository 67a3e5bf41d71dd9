package notification

import (
	"github.com/ecclesia/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewSender picks SendGrid when e-mail is enabled and the log sender otherwise
func NewSender(cfg config.EmailConfig, logger *zap.Logger) Sender {
	if !cfg.Enabled {
		logger.Info("email disabled, messages will only be logged")
		return NewLogSender(logger)
	}
	return NewSendGridSender(cfg.APIKey, cfg.FromName, cfg.FromEmail, logger)
}
