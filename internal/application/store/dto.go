package store

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRequest creates or updates a catalog product
type ProductRequest struct {
	SKU         string          `json:"sku" binding:"required,max=50"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	WeightGrams int             `json:"weight_grams" binding:"min=0"`
	MagazineID  *uuid.UUID      `json:"magazine_id"`
}

// RestockRequest adds units to a product
type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ProductResponse is a catalog product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	WeightGrams int             `json:"weight_grams"`
	Stock       int             `json:"stock"`
	Active      bool            `json:"active"`
	MagazineID  *uuid.UUID      `json:"magazine_id,omitempty"`
}

// ToProductResponse converts a product
func ToProductResponse(p *store.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		WeightGrams: p.WeightGrams,
		Stock:       p.Stock,
		Active:      p.Active,
		MagazineID:  p.MagazineID,
	}
}

// ProductListQuery is the query string of the catalog listing
type ProductListQuery struct {
	Search          string `form:"search"`
	MagazineID      string `form:"magazine_id" binding:"omitempty,uuid"`
	IncludeInactive bool   `form:"include_inactive"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CartItemRequest puts a product in the cart
type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
}

// UpdateCartItemRequest changes a line quantity; zero removes the line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=999"`
}

// CartLineResponse is one cart line
type CartLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// CartResponse is the user's cart
type CartResponse struct {
	Lines       []CartLineResponse `json:"lines"`
	ItemCount   int                `json:"item_count"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	WeightGrams int                `json:"weight_grams"`
}

// ToCartResponse converts a cart
func ToCartResponse(c *store.Cart) CartResponse {
	lines := make([]CartLineResponse, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = CartLineResponse{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Total:     l.Total(),
		}
	}
	return CartResponse{
		Lines:       lines,
		ItemCount:   c.ItemCount(),
		Subtotal:    c.Subtotal(),
		WeightGrams: c.TotalWeightGrams(),
	}
}

// ShippingQuoteQuery asks for a quote of the current cart
type ShippingQuoteQuery struct {
	State string `form:"state" binding:"required,len=2"`
}

// AddressDTO is a delivery address
type AddressDTO struct {
	RecipientName string `json:"recipient_name" binding:"required,max=200"`
	PostalCode    string `json:"postal_code" binding:"required,max=10"`
	Street        string `json:"street" binding:"required,max=200"`
	Number        string `json:"number" binding:"max=20"`
	Complement    string `json:"complement" binding:"max=100"`
	District      string `json:"district" binding:"max=100"`
	City          string `json:"city" binding:"required,max=100"`
	State         string `json:"state" binding:"required,len=2"`
}

func (a AddressDTO) toDomain() store.ShippingAddress {
	return store.ShippingAddress(a)
}

// CardDTO carries credit card data for a single charge
type CardDTO struct {
	Number       string `json:"number" binding:"required,min=12,max=23"`
	HolderName   string `json:"holder_name" binding:"required,max=100"`
	ExpiryMonth  int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear   int    `json:"expiry_year" binding:"required,min=2000"`
	CVV          string `json:"cvv" binding:"required,min=3,max=4"`
	Installments int    `json:"installments" binding:"omitempty,min=1,max=12"`
}

// CheckoutRequest places an order from the cart
type CheckoutRequest struct {
	PaymentMethod string     `json:"payment_method" binding:"required,oneof=pix credit_card boleto"`
	Address       AddressDTO `json:"address"`
	PayerName     string     `json:"payer_name" binding:"max=200"`
	PayerDocument string     `json:"payer_document" binding:"max=20"`
	Card          *CardDTO   `json:"card" binding:"required_if=PaymentMethod credit_card,omitempty"`
}

// Buyer identifies who is checking out
type Buyer struct {
	ChurchID uuid.UUID
	UserID   uuid.UUID
	Email    string
	IsAdmin  bool
}

// OrderLineResponse is a purchased line
type OrderLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID            uuid.UUID             `json:"id"`
	Number        string                `json:"number"`
	Status        string                `json:"status"`
	PaymentMethod string                `json:"payment_method"`
	Lines         []OrderLineResponse   `json:"lines"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Shipping      decimal.Decimal       `json:"shipping"`
	Total         decimal.Decimal       `json:"total"`
	DeliveryDays  int                   `json:"delivery_days"`
	Address       store.ShippingAddress `json:"address"`
	PaymentCode   string                `json:"payment_code,omitempty"`
	PaymentDueAt  *time.Time            `json:"payment_due_at,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	ShippedAt     *time.Time            `json:"shipped_at,omitempty"`
	TrackingCode  string                `json:"tracking_code,omitempty"`
	CancelReason  string                `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToOrderResponse converts an order
func ToOrderResponse(o *store.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineResponse{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Total:     l.Total(),
		}
	}
	return OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		Lines:         lines,
		Subtotal:      o.Subtotal,
		Shipping:      o.Shipping,
		Total:         o.Total,
		DeliveryDays:  o.DeliveryDays,
		Address:       o.Address,
		PaymentCode:   o.PaymentCode,
		PaymentDueAt:  o.PaymentDueAt,
		PaidAt:        o.PaidAt,
		ShippedAt:     o.ShippedAt,
		TrackingCode:  o.TrackingCode,
		CancelReason:  o.CancelReason,
		CreatedAt:     o.CreatedAt,
	}
}

// CheckoutResponse is the placed order with the gateway answer
type CheckoutResponse struct {
	Order   OrderResponse       `json:"order"`
	Payment store.PaymentResult `json:"payment"`
}

// OrderListQuery is the query string of the order listing
type OrderListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending_payment paid shipped cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ShipOrderRequest records the dispatch of an order
type ShipOrderRequest struct {
	TrackingCode string `json:"tracking_code" binding:"max=50"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SalespersonRequest registers a store sales representative
type SalespersonRequest struct {
	Name   string `json:"name" binding:"required,max=200"`
	Email  string `json:"email" binding:"required,email"`
	Region string `json:"region" binding:"max=100"`
}

// SalespersonResponse is a sales representative
type SalespersonResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Region string    `json:"region,omitempty"`
	Active bool      `json:"active"`
}

// LeadRequest opens a reactivation lead
type LeadRequest struct {
	Email      string `json:"email" binding:"required,email"`
	ChurchName string `json:"church_name" binding:"max=200"`
	Phone      string `json:"phone" binding:"max=20"`
}

// AdvanceLeadRequest moves a lead through the funnel
type AdvanceLeadRequest struct {
	Status string `json:"status" binding:"required,oneof=contacted won lost"`
	Notes  string `json:"notes" binding:"max=1000"`
}

// LeadResponse is a reactivation lead
type LeadResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	ChurchName string    `json:"church_name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toSalespersonResponse(s *store.Salesperson) SalespersonResponse {
	return SalespersonResponse{ID: s.ID, Name: s.Name, Email: s.Email, Region: s.Region, Active: s.Active}
}

func toLeadResponse(l *store.ReactivationLead) LeadResponse {
	return LeadResponse{
		ID:         l.ID,
		Email:      l.Email,
		ChurchName: l.ChurchName,
		Phone:      l.Phone,
		Status:     string(l.Status),
		Notes:      l.Notes,
		UpdatedAt:  l.UpdatedAt,
	}
}
