package store

import (
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeOrderPaid = "OrderPaid"
	AggregateTypeOrder = "Order"
)

// OrderPaidEvent is raised when an order's payment is confirmed
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
	BuyerEmail  string          `json:"buyer_email"`
}

// NewOrderPaidEvent creates an OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID, o.ChurchID),
		OrderID:         o.ID,
		OrderNumber:     o.Number,
		Total:           o.Total,
		BuyerEmail:      o.BuyerEmail,
	}
}
