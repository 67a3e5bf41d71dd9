package accounting

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalEntry is a single double-entry posting: one debit account, one credit account, one amount
type JournalEntry struct {
	shared.ChurchAggregateRoot
	EntryDate         time.Time
	DebitAccountCode  string
	CreditAccountCode string
	Amount            decimal.Decimal
	History           string
	DocumentNumber    string
}

// NewJournalEntry creates a journal entry after validating its shape
func NewJournalEntry(
	churchID uuid.UUID,
	entryDate time.Time,
	debitCode, creditCode string,
	amount decimal.Decimal,
	history string,
) (*JournalEntry, error) {
	debitCode = strings.TrimSpace(debitCode)
	creditCode = strings.TrimSpace(creditCode)

	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date is required")
	}
	if !accountCodePattern.MatchString(debitCode) {
		return nil, shared.NewDomainError("INVALID_DEBIT_ACCOUNT", "Debit account code is invalid")
	}
	if !accountCodePattern.MatchString(creditCode) {
		return nil, shared.NewDomainError("INVALID_CREDIT_ACCOUNT", "Credit account code is invalid")
	}
	if debitCode == creditCode {
		return nil, shared.NewDomainError("SAME_ACCOUNT", "Debit and credit accounts must be different")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	history = strings.TrimSpace(history)
	if history == "" {
		return nil, shared.NewDomainError("INVALID_HISTORY", "History cannot be empty")
	}
	if len(history) > 500 {
		return nil, shared.NewDomainError("INVALID_HISTORY", "History cannot exceed 500 characters")
	}

	entry := &JournalEntry{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		EntryDate:           dateOnly(entryDate),
		DebitAccountCode:    debitCode,
		CreditAccountCode:   creditCode,
		Amount:              amount.Round(2),
		History:             history,
	}
	entry.AddDomainEvent(NewJournalEntryPostedEvent(entry))
	return entry, nil
}

// SetDocumentNumber attaches an external document reference (receipt, invoice)
func (e *JournalEntry) SetDocumentNumber(number string) {
	e.DocumentNumber = strings.TrimSpace(number)
	e.Touch()
}

// ValidateAgainstChart checks both accounts exist, are active and analytic
func (e *JournalEntry) ValidateAgainstChart(chart map[string]*ChartAccount) error {
	for _, side := range []struct {
		code  string
		label string
	}{
		{e.DebitAccountCode, "Debit"},
		{e.CreditAccountCode, "Credit"},
	} {
		account, ok := chart[side.code]
		if !ok {
			return shared.NewDomainError("ACCOUNT_NOT_FOUND", side.label+" account "+side.code+" does not exist in the chart of accounts")
		}
		if !account.IsAnalytic() {
			return shared.NewDomainError("SYNTHETIC_ACCOUNT", side.label+" account "+side.code+" is synthetic and cannot receive entries")
		}
		if !account.Active {
			return shared.NewDomainError("INACTIVE_ACCOUNT", side.label+" account "+side.code+" is inactive")
		}
	}
	return nil
}

// IsRevenue reports whether the entry credits a revenue account
func (e *JournalEntry) IsRevenue() bool {
	return GroupOf(e.CreditAccountCode) == GroupRevenue
}

// IsExpense reports whether the entry debits an expense account
func (e *JournalEntry) IsExpense() bool {
	return GroupOf(e.DebitAccountCode) == GroupExpense
}

// MarkDeleted raises the deletion event before the repository removes the row
func (e *JournalEntry) MarkDeleted() {
	e.AddDomainEvent(NewJournalEntryDeletedEvent(e))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
