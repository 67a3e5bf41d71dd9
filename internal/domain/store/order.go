package store

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle of an order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

var cepPattern = regexp.MustCompile(`^\d{8}$`)

// FormatOrderNumber renders the human order number, e.g. PED-202501-00042
func FormatOrderNumber(at time.Time, seq int) string {
	return fmt.Sprintf("PED-%s-%05d", at.Format("200601"), seq)
}

// OrderNumberPrefix returns the per-month prefix used to find the next sequence
func OrderNumberPrefix(at time.Time) string {
	return "PED-" + at.Format("200601") + "-"
}

// ShippingAddress is where the order is delivered
type ShippingAddress struct {
	RecipientName string `json:"recipient_name"`
	PostalCode    string `json:"postal_code"`
	Street        string `json:"street"`
	Number        string `json:"number"`
	Complement    string `json:"complement,omitempty"`
	District      string `json:"district"`
	City          string `json:"city"`
	State         string `json:"state"`
}

// Normalize strips the CEP mask and upper-cases the state
func (a *ShippingAddress) Normalize() {
	a.PostalCode = strings.NewReplacer("-", "", ".", "", " ", "").Replace(a.PostalCode)
	a.State = strings.ToUpper(strings.TrimSpace(a.State))
	a.City = strings.TrimSpace(a.City)
	a.Street = strings.TrimSpace(a.Street)
}

// Validate checks CEP, state and the required fields
func (a *ShippingAddress) Validate() error {
	if !cepPattern.MatchString(a.PostalCode) {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "CEP must have 8 digits")
	}
	if !IsValidState(a.State) {
		return shared.NewDomainError("INVALID_STATE_CODE", "Destination state is not a valid UF")
	}
	if a.Street == "" || a.City == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street and city are required")
	}
	return nil
}

// OrderLine is a purchased product with the price at checkout
type OrderLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Total returns unit price times quantity
func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a placed purchase
type Order struct {
	shared.ChurchAggregateRoot
	Number        string
	UserID        uuid.UUID
	BuyerEmail    string
	Lines         []OrderLine
	Subtotal      decimal.Decimal
	Shipping      decimal.Decimal
	Total         decimal.Decimal
	DeliveryDays  int
	PaymentMethod PaymentMethod
	Status        OrderStatus
	Address       ShippingAddress
	TransactionID string
	PaymentCode   string
	PaymentDueAt  *time.Time
	PaidAt        *time.Time
	ShippedAt     *time.Time
	TrackingCode  string
	CancelReason  string
}

// NewOrder builds a pending order from the cart and a shipping quote
func NewOrder(cart *Cart, number, buyerEmail string, quote *ShippingQuote, method PaymentMethod, addr ShippingAddress) (*Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be pix, credit_card or boleto")
	}
	if quote == nil {
		return nil, shared.NewDomainError("INVALID_SHIPPING", "Shipping quote is required")
	}
	addr.Normalize()
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	lines := make([]OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, OrderLine{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}

	subtotal := cart.Subtotal().Round(2)
	o := &Order{
		ChurchAggregateRoot: shared.NewChurchAggregateRoot(cart.ChurchID),
		Number:              number,
		UserID:              cart.UserID,
		BuyerEmail:          buyerEmail,
		Lines:               lines,
		Subtotal:            subtotal,
		Shipping:            quote.Cost,
		Total:               subtotal.Add(quote.Cost),
		DeliveryDays:        quote.DeliveryDays,
		PaymentMethod:       method,
		Status:              OrderStatusPendingPayment,
		Address:             addr,
	}
	o.SetCreatedBy(cart.UserID)
	return o, nil
}

// ApplyPayment records the gateway result. Approved charges mark the order paid.
func (o *Order) ApplyPayment(res *PaymentResult, at time.Time) error {
	if o.Status != OrderStatusPendingPayment {
		return shared.NewDomainError("INVALID_STATE", "Order is not awaiting payment")
	}
	o.TransactionID = res.TransactionID
	switch res.Status {
	case PaymentStatusDeclined:
		return ErrPaymentDeclined
	case PaymentStatusApproved:
		return o.MarkPaid(at)
	case PaymentStatusPending:
		if res.PixPayload != "" {
			o.PaymentCode = res.PixPayload
			o.PaymentDueAt = res.ExpiresAt
		} else {
			o.PaymentCode = res.BoletoLine
			o.PaymentDueAt = res.BoletoDueDate
		}
		o.Touch()
		return nil
	default:
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}
}

// MarkPaid confirms the payment and raises OrderPaid
func (o *Order) MarkPaid(at time.Time) error {
	if o.Status != OrderStatusPendingPayment {
		return shared.NewDomainError("INVALID_STATE", "Only orders awaiting payment can be paid")
	}
	o.Status = OrderStatusPaid
	o.PaidAt = &at
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// Ship records the dispatch of a paid order
func (o *Order) Ship(trackingCode string, at time.Time) error {
	if o.Status != OrderStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Only paid orders can be shipped")
	}
	o.Status = OrderStatusShipped
	o.TrackingCode = strings.TrimSpace(trackingCode)
	o.ShippedAt = &at
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Cancel cancels an order that has not shipped yet
func (o *Order) Cancel(reason string) error {
	if o.Status == OrderStatusShipped || o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Shipped or cancelled orders cannot be cancelled")
	}
	o.Status = OrderStatusCancelled
	o.CancelReason = strings.TrimSpace(reason)
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Renumber gives an order that was never stored another number, including in
// the events it already raised
func (o *Order) Renumber(number string) {
	o.Number = number
	for _, e := range o.GetDomainEvents() {
		if paid, ok := e.(*OrderPaidEvent); ok {
			paid.OrderNumber = number
		}
	}
}

// ItemCount returns the number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}
