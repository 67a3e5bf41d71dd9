package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/finance"
	"github.com/ecclesia/backend/internal/infrastructure/notification"
	"github.com/ecclesia/backend/internal/infrastructure/scheduler"
	"github.com/ecclesia/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillReminderService e-mails each church a digest of its pending bills that
// are overdue or fall due within the configured window. It runs as the
// executor of scheduler.JobKindBillReminder.
type BillReminderService struct {
	billRepo   finance.BillRepository
	churchRepo church.ChurchRepository
	sender     notification.Sender
	days       int
	metrics    *telemetry.AppMetrics
	logger     *zap.Logger
}

// NewBillReminderService creates a BillReminderService
func NewBillReminderService(
	billRepo finance.BillRepository,
	churchRepo church.ChurchRepository,
	sender notification.Sender,
	days int,
	metrics *telemetry.AppMetrics,
	logger *zap.Logger,
) *BillReminderService {
	return &BillReminderService{
		billRepo:   billRepo,
		churchRepo: churchRepo,
		sender:     sender,
		days:       days,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute implements scheduler.JobExecutor
func (s *BillReminderService) Execute(ctx context.Context, job *scheduler.Job) error {
	_, err := s.SendReminders(ctx, job.RunDate)
	return err
}

// SendReminders sends the digests for the given day and returns how many
// churches were notified. Bills already reminded that day are skipped, so a
// retried job does not send twice.
func (s *BillReminderService) SendReminders(ctx context.Context, day time.Time) (int, error) {
	today := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	due, err := s.billRepo.FindPendingDueBy(ctx, today.AddDate(0, 0, s.days))
	if err != nil {
		return 0, fmt.Errorf("loading due bills: %w", err)
	}

	byChurch := make(map[uuid.UUID][]finance.BillToPay)
	var order []uuid.UUID
	for _, b := range due {
		if b.RemindedOn(today) {
			continue
		}
		if _, seen := byChurch[b.ChurchID]; !seen {
			order = append(order, b.ChurchID)
		}
		byChurch[b.ChurchID] = append(byChurch[b.ChurchID], b)
	}

	var (
		sent int
		errs []error
	)
	for _, churchID := range order {
		if err := s.remind(ctx, churchID, byChurch[churchID], today); err != nil {
			s.logger.Warn("Bill reminder failed",
				zap.String("church_id", churchID.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		sent++
	}

	s.logger.Info("Bill reminders processed",
		zap.Time("day", today), zap.Int("churches", len(order)), zap.Int("sent", sent))
	return sent, errors.Join(errs...)
}

func (s *BillReminderService) remind(ctx context.Context, churchID uuid.UUID, bills []finance.BillToPay, today time.Time) error {
	c, err := s.churchRepo.FindByID(ctx, churchID)
	if err != nil {
		return err
	}
	to := notification.ParseRecipients(c.Email)
	if len(to) == 0 {
		s.logger.Debug("Church has no e-mail, skipping bill reminder", zap.String("church_id", churchID.String()))
		return nil
	}

	msg, err := notification.BillReminder(c.Name, to, bills)
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}
	s.metrics.ReminderSent(ctx)

	for i := range bills {
		bills[i].MarkReminded(today)
		if err := s.billRepo.Save(ctx, &bills[i]); err != nil {
			return fmt.Errorf("marking bill %s reminded: %w", bills[i].ID, err)
		}
	}
	return nil
}

var _ scheduler.JobExecutor = (*BillReminderService)(nil)
