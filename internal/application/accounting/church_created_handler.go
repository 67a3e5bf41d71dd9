package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecclesia/backend/internal/domain/church"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChartSeeder seeds the default chart of a church
type ChartSeeder interface {
	SeedDefaultChart(ctx context.Context, churchID uuid.UUID) ([]AccountResponse, error)
}

// ChurchCreatedHandler seeds the default chart of accounts when a church signs up
type ChurchCreatedHandler struct {
	seeder ChartSeeder
	logger *zap.Logger
}

// NewChurchCreatedHandler creates a new handler for church created events
func NewChurchCreatedHandler(seeder ChartSeeder, logger *zap.Logger) *ChurchCreatedHandler {
	return &ChurchCreatedHandler{seeder: seeder, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ChurchCreatedHandler) EventTypes() []string {
	return []string{church.EventTypeChurchCreated}
}

// Handle processes a ChurchCreatedEvent. A chart seeded earlier is left untouched.
func (h *ChurchCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*church.ChurchCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			church.EventTypeChurchCreated, event.EventType())
	}

	accounts, err := h.seeder.SeedDefaultChart(ctx, created.AggregateID())
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && de.Code == "CHART_ALREADY_SEEDED" {
			return nil
		}
		return fmt.Errorf("seed chart for church %s: %w", created.AggregateID(), err)
	}

	h.logger.Info("default chart seeded",
		zap.String("church_id", created.AggregateID().String()),
		zap.String("church_name", created.Name),
		zap.Int("accounts", len(accounts)),
	)
	return nil
}
