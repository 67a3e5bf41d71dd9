package finance

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType is the direction of a cash-flow row
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// IsValid checks if the entry type is known
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// Categories used by automatic entries
const (
	CategoryOpeningBalance = "opening_balance"
	CategoryBillPayment    = "bill_payment"
	CategoryJournal        = "journal"
)

// FinancialEntry is a cash-flow row shown on the financial dashboard
type FinancialEntry struct {
	shared.ChurchAggregateRoot
	Type           EntryType
	Category       string
	Description    string
	Amount         decimal.Decimal
	EntryDate      time.Time
	BankAccountID  *uuid.UUID
	JournalEntryID *uuid.UUID
	BillID         *uuid.UUID
}

// NewFinancialEntry creates a cash-flow row
func NewFinancialEntry(churchID uuid.UUID, entryType EntryType, category, description string, amount decimal.Decimal, date time.Time) (*FinancialEntry, error) {
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type must be income or expense")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date is required")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = "general"
	}
	return &FinancialEntry{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		Type:                entryType,
		Category:            category,
		Description:         strings.TrimSpace(description),
		Amount:              amount.Round(2),
		EntryDate:           dateOnly(date),
	}, nil
}

// LinkBankAccount sets the account the money moved through
func (e *FinancialEntry) LinkBankAccount(id uuid.UUID) {
	e.BankAccountID = &id
}

// LinkJournalEntry records the accounting entry that produced this row
func (e *FinancialEntry) LinkJournalEntry(id uuid.UUID) {
	e.JournalEntryID = &id
}

// Signed returns the amount with expenses negative
func (e *FinancialEntry) Signed() decimal.Decimal {
	if e.Type == EntryTypeExpense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// CashFlowSummary totals the dashboard rows of a period
type CashFlowSummary struct {
	Income     decimal.Decimal            `json:"income"`
	Expense    decimal.Decimal            `json:"expense"`
	Balance    decimal.Decimal            `json:"balance"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}

// Summarize totals income and expense, and the signed amount per category
func Summarize(entries []FinancialEntry) CashFlowSummary {
	s := CashFlowSummary{
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
	}
	for i := range entries {
		e := &entries[i]
		if e.Type == EntryTypeIncome {
			s.Income = s.Income.Add(e.Amount)
		} else {
			s.Expense = s.Expense.Add(e.Amount)
		}
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Signed())
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
