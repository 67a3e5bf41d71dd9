package finance

import (
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillStatus represents the lifecycle of a bill to pay
type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusPaid      BillStatus = "paid"
	BillStatusCancelled BillStatus = "cancelled"
)

// BillToPay is an amount the church owes a supplier
type BillToPay struct {
	shared.ChurchAggregateRoot
	Supplier       string
	Description    string
	Amount         decimal.Decimal
	DueDate        time.Time
	Status         BillStatus
	PaidAt         *time.Time
	PaidFromID     *uuid.UUID
	ReceiptKey     string
	CancelReason   string
	LastRemindedAt *time.Time
}

// NewBillToPay creates a pending bill
func NewBillToPay(churchID uuid.UUID, supplier, description string, amount decimal.Decimal, dueDate time.Time) (*BillToPay, error) {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	return &BillToPay{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(churchID),
		Supplier:            supplier,
		Description:         strings.TrimSpace(description),
		Amount:              amount.Round(2),
		DueDate:             dateOnly(dueDate),
		Status:              BillStatusPending,
	}, nil
}

// Update changes the editable fields of a pending bill
func (b *BillToPay) Update(supplier, description string, amount decimal.Decimal, dueDate time.Time) error {
	if b.Status != BillStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending bills can be edited")
	}
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	b.Supplier = supplier
	b.Description = strings.TrimSpace(description)
	b.Amount = amount.Round(2)
	if !dueDate.IsZero() {
		b.DueDate = dateOnly(dueDate)
	}
	b.Touch()
	b.IncrementVersion()
	return nil
}

// IsOverdue reports whether the bill is pending and its due date is before today
func (b *BillToPay) IsOverdue(today time.Time) bool {
	return b.Status == BillStatusPending && b.DueDate.Before(dateOnly(today))
}

// IsDueWithin reports whether a pending bill falls due in the next n days (inclusive)
func (b *BillToPay) IsDueWithin(today time.Time, days int) bool {
	if b.Status != BillStatusPending {
		return false
	}
	t := dateOnly(today)
	return !b.DueDate.Before(t) && !b.DueDate.After(t.AddDate(0, 0, days))
}

// Pay settles the bill from a bank account and returns the expense entry to record.
// The caller persists the bill, the account and the entry together.
func (b *BillToPay) Pay(account *BankAccount, paidAt time.Time) (*FinancialEntry, error) {
	if b.Status != BillStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Only pending bills can be paid")
	}
	if account == nil {
		return nil, shared.NewDomainError("INVALID_BANK_ACCOUNT", "A bank account is required to pay a bill")
	}
	if !account.BelongsTo(b.ChurchID) {
		return nil, shared.NewDomainError("INVALID_BANK_ACCOUNT", "Bank account belongs to another church")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	entry, err := NewFinancialEntry(b.ChurchID, EntryTypeExpense, CategoryBillPayment, b.Supplier+" - "+b.Description, b.Amount, paidAt)
	if err != nil {
		return nil, err
	}
	if err := account.Debit(b.Amount); err != nil {
		return nil, err
	}
	entry.LinkBankAccount(account.ID)
	billID := b.ID
	entry.BillID = &billID

	accountID := account.ID
	b.Status = BillStatusPaid
	b.PaidAt = &paidAt
	b.PaidFromID = &accountID
	b.Touch()
	b.IncrementVersion()
	b.AddDomainEvent(NewBillPaidEvent(b))
	return entry, nil
}

// Cancel cancels a pending bill
func (b *BillToPay) Cancel(reason string) error {
	if b.Status != BillStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending bills can be cancelled")
	}
	b.Status = BillStatusCancelled
	b.CancelReason = strings.TrimSpace(reason)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// AttachReceipt stores the object key of an uploaded receipt
func (b *BillToPay) AttachReceipt(key string) {
	b.ReceiptKey = key
	b.Touch()
}

// MarkReminded records when the due reminder went out
func (b *BillToPay) MarkReminded(at time.Time) {
	b.LastRemindedAt = &at
}

// RemindedOn reports whether a reminder was already sent on the given day
func (b *BillToPay) RemindedOn(day time.Time) bool {
	return b.LastRemindedAt != nil && dateOnly(*b.LastRemindedAt).Equal(dateOnly(day))
}
