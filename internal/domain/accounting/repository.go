package accounting

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChartAccountRepository persists the chart of accounts
type ChartAccountRepository interface {
	// FindByID finds an account by ID within a church
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*ChartAccount, error)
	// FindByCode finds an account by its code within a church
	FindByCode(ctx context.Context, churchID uuid.UUID, code string) (*ChartAccount, error)
	// FindAll returns the full chart of a church in code order
	FindAll(ctx context.Context, churchID uuid.UUID) ([]ChartAccount, error)
	Save(ctx context.Context, account *ChartAccount) error
	SaveBatch(ctx context.Context, accounts []*ChartAccount) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	// CountEntries counts journal entries referencing the code
	CountEntries(ctx context.Context, churchID uuid.UUID, code string) (int64, error)
}

// JournalEntryFilter narrows journal entry listings
type JournalEntryFilter struct {
	shared.Filter
	From        *time.Time
	To          *time.Time
	AccountCode string
}

// JournalEntryRepository persists journal entries
type JournalEntryRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*JournalEntry, error)
	// FindAll lists entries with pagination
	FindAll(ctx context.Context, churchID uuid.UUID, filter JournalEntryFilter) ([]JournalEntry, int64, error)
	// FindUpTo returns every entry dated on or before the given date, the input of the statements
	FindUpTo(ctx context.Context, churchID uuid.UUID, to time.Time) ([]JournalEntry, error)
	Save(ctx context.Context, entry *JournalEntry) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}
