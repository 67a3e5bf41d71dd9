// Package payment holds the built-in sandbox payment gateway used by the
// store checkout. It produces realistic PIX and boleto artifacts and applies
// a deterministic test-card rule, without talking to any provider.
package payment

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SandboxGateway implements store.PaymentGateway
type SandboxGateway struct {
	config *SandboxConfig
	logger *zap.Logger
	now    func() time.Time
}

// SandboxOption configures the gateway
type SandboxOption func(*SandboxGateway)

// WithClock overrides time.Now
func WithClock(now func() time.Time) SandboxOption {
	return func(g *SandboxGateway) { g.now = now }
}

// NewSandboxGateway creates a new sandbox gateway
func NewSandboxGateway(config *SandboxConfig, logger *zap.Logger, opts ...SandboxOption) (*SandboxGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &SandboxGateway{config: config, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Charge creates the charge for the requested method
func (g *SandboxGateway) Charge(ctx context.Context, req store.PaymentRequest) (*store.PaymentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := g.now()
	result := &store.PaymentResult{
		TransactionID: "SBX-" + uuid.NewString(),
		Method:        req.Method,
	}

	switch req.Method {
	case store.PaymentMethodPix:
		expires := now.Add(g.config.PixExpiry)
		result.Status = store.PaymentStatusPending
		result.PixPayload = BuildPixPayload(PixCharge{
			Key:          g.config.PixKey,
			MerchantName: g.config.MerchantName,
			MerchantCity: g.config.MerchantCity,
			Amount:       req.Amount,
			TxID:         req.OrderNumber,
		})
		result.ExpiresAt = &expires

	case store.PaymentMethodBoleto:
		due := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, g.config.BoletoDueDays)
		barcode := BoletoBarcode(g.config.BankCode, due, req.Amount, req.OrderID)
		result.Status = store.PaymentStatusPending
		result.BoletoLine = BoletoDigitableLine(barcode)
		result.BoletoDueDate = &due

	case store.PaymentMethodCreditCard:
		result.CardLast4 = lastFour(req.Card.Number)
		if reason := evaluateCard(req.Card, now); reason != "" {
			result.Status = store.PaymentStatusDeclined
			result.DeclineReason = reason
		} else {
			result.Status = store.PaymentStatusApproved
		}
	}

	g.logger.Info("sandbox charge",
		zap.String("order_number", req.OrderNumber),
		zap.String("method", string(req.Method)),
		zap.String("status", string(result.Status)),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("transaction_id", result.TransactionID))

	return result, nil
}

var _ store.PaymentGateway = (*SandboxGateway)(nil)
