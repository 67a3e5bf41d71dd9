package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPaymentInvalidOrder  = errors.New("payment: invalid order reference")
	ErrPaymentInvalidAmount = errors.New("payment: invalid payment amount")
	ErrPaymentInvalidMethod = errors.New("payment: invalid payment method")
	ErrPaymentCardRequired  = errors.New("payment: card data is required for credit card payments")
	ErrPaymentDeclined      = errors.New("payment: declined by the issuer")
)

// PaymentMethod is how the buyer pays an order
type PaymentMethod string

const (
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodBoleto     PaymentMethod = "boleto"
)

// IsValid checks if the method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodPix, PaymentMethodCreditCard, PaymentMethodBoleto:
		return true
	}
	return false
}

// PaymentStatus is the gateway's verdict on a charge
type PaymentStatus string

const (
	// PaymentStatusApproved means the money is captured (card)
	PaymentStatusApproved PaymentStatus = "approved"
	// PaymentStatusPending means the buyer still has to pay (PIX, boleto)
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusDeclined means the charge was refused
	PaymentStatusDeclined PaymentStatus = "declined"
)

// CardInfo carries the card data of a credit card charge. It is never persisted.
type CardInfo struct {
	Number       string
	HolderName   string
	ExpiryMonth  int
	ExpiryYear   int
	CVV          string
	Installments int
}

// PaymentRequest asks the gateway to charge an order
type PaymentRequest struct {
	ChurchID      uuid.UUID
	OrderID       uuid.UUID
	OrderNumber   string
	Amount        decimal.Decimal
	Method        PaymentMethod
	Description   string
	PayerName     string
	PayerEmail    string
	PayerDocument string
	Card          *CardInfo
}

// Validate checks the request before it reaches the gateway
func (r *PaymentRequest) Validate() error {
	if r.OrderID == uuid.Nil || r.OrderNumber == "" {
		return ErrPaymentInvalidOrder
	}
	if !r.Amount.IsPositive() {
		return ErrPaymentInvalidAmount
	}
	if !r.Method.IsValid() {
		return ErrPaymentInvalidMethod
	}
	if r.Method == PaymentMethodCreditCard && r.Card == nil {
		return ErrPaymentCardRequired
	}
	return nil
}

// PaymentResult is the gateway's answer to a charge
type PaymentResult struct {
	TransactionID string        `json:"transaction_id"`
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	// PixPayload is the copy-and-paste code for PIX charges
	PixPayload string     `json:"pix_payload,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	// BoletoLine is the digitable line of a boleto
	BoletoLine    string     `json:"boleto_line,omitempty"`
	BoletoDueDate *time.Time `json:"boleto_due_date,omitempty"`
	CardLast4     string     `json:"card_last4,omitempty"`
	DeclineReason string     `json:"decline_reason,omitempty"`
}

// PaymentGateway charges orders. The sandbox implementation lives in infrastructure/payment.
type PaymentGateway interface {
	Charge(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}
