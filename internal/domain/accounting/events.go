package accounting

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeJournalEntry = "JournalEntry"

const (
	EventTypeJournalEntryPosted  = "JournalEntryPosted"
	EventTypeJournalEntryDeleted = "JournalEntryDeleted"
)

// JournalEntryPostedEvent is raised when a journal entry is recorded
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryDate         time.Time       `json:"entry_date"`
	DebitAccountCode  string          `json:"debit_account_code"`
	CreditAccountCode string          `json:"credit_account_code"`
	Amount            decimal.Decimal `json:"amount"`
}

// NewJournalEntryPostedEvent creates the posted event for an entry
func NewJournalEntryPostedEvent(e *JournalEntry) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeJournalEntryPosted, AggregateTypeJournalEntry, e.ID, e.ChurchID),
		EntryDate:         e.EntryDate,
		DebitAccountCode:  e.DebitAccountCode,
		CreditAccountCode: e.CreditAccountCode,
		Amount:            e.Amount,
	}
}

// JournalEntryDeletedEvent is raised when a journal entry is removed
type JournalEntryDeletedEvent struct {
	shared.BaseDomainEvent
	EntryDate time.Time `json:"entry_date"`
}

// NewJournalEntryDeletedEvent creates the deleted event for an entry
func NewJournalEntryDeletedEvent(e *JournalEntry) *JournalEntryDeletedEvent {
	return &JournalEntryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryDeleted, AggregateTypeJournalEntry, e.ID, e.ChurchID),
		EntryDate:       e.EntryDate,
	}
}

var (
	_ shared.DomainEvent = (*JournalEntryPostedEvent)(nil)
	_ shared.DomainEvent = (*JournalEntryDeletedEvent)(nil)
)
