package finance

import (
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeBillPaid = "BillPaid"
	AggregateTypeBill = "BillToPay"
)

// BillPaidEvent is raised when a bill is settled
type BillPaidEvent struct {
	shared.BaseDomainEvent
	BillID        uuid.UUID       `json:"bill_id"`
	Supplier      string          `json:"supplier"`
	Amount        decimal.Decimal `json:"amount"`
	BankAccountID uuid.UUID       `json:"bank_account_id"`
}

// NewBillPaidEvent creates a BillPaidEvent
func NewBillPaidEvent(b *BillToPay) *BillPaidEvent {
	var accountID uuid.UUID
	if b.PaidFromID != nil {
		accountID = *b.PaidFromID
	}
	return &BillPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillPaid, AggregateTypeBill, b.ID, b.ChurchID),
		BillID:          b.ID,
		Supplier:        b.Supplier,
		Amount:          b.Amount,
		BankAccountID:   accountID,
	}
}
