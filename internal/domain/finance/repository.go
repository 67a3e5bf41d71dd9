package finance

import (
	"context"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BankAccountRepository persists bank accounts
type BankAccountRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*BankAccount, error)
	FindAll(ctx context.Context, churchID uuid.UUID) ([]BankAccount, error)
	Save(ctx context.Context, account *BankAccount) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}

// EntryFilter narrows financial entry queries
type EntryFilter struct {
	shared.Filter
	From          *time.Time
	To            *time.Time
	Type          EntryType
	BankAccountID *uuid.UUID
}

// FinancialEntryRepository persists dashboard cash-flow rows
type FinancialEntryRepository interface {
	FindAll(ctx context.Context, churchID uuid.UUID, filter EntryFilter) ([]FinancialEntry, int64, error)
	FindByJournalEntry(ctx context.Context, churchID, journalEntryID uuid.UUID) (*FinancialEntry, error)
	Save(ctx context.Context, entry *FinancialEntry) error
	DeleteByJournalEntry(ctx context.Context, churchID, journalEntryID uuid.UUID) error
}

// BillFilter narrows bill queries
type BillFilter struct {
	shared.Filter
	Status    BillStatus
	DueBefore *time.Time
}

// BillRepository persists bills to pay
type BillRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*BillToPay, error)
	FindAll(ctx context.Context, churchID uuid.UUID, filter BillFilter) ([]BillToPay, int64, error)
	// FindPendingDueBy returns pending bills of every church due on or before the date
	FindPendingDueBy(ctx context.Context, date time.Time) ([]BillToPay, error)
	Save(ctx context.Context, bill *BillToPay) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
}
