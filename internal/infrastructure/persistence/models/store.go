package models

import (
	"time"

	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the shared store catalog
type ProductModel struct {
	AggregateModel
	SKU         string          `gorm:"column:sku;type:varchar(30);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	WeightGrams int             `gorm:"not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
	MagazineID  *uuid.UUID      `gorm:"type:uuid;index"`
	ImageKey    string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *store.Product {
	p := &store.Product{
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		WeightGrams: m.WeightGrams,
		Stock:       m.Stock,
		Active:      m.Active,
		MagazineID:  m.MagazineID,
		ImageKey:    m.ImageKey,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	return p
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *store.Product) *ProductModel {
	m := &ProductModel{
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		WeightGrams: p.WeightGrams,
		Stock:       p.Stock,
		Active:      p.Active,
		MagazineID:  uuidPtr(p.MagazineID),
		ImageKey:    p.ImageKey,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// CartModel is the persistence model for a user's shopping cart
type CartModel struct {
	BaseModel
	ChurchID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items    []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// CartItemModel is one product line of a cart
type CartItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	CartID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	SKU         string          `gorm:"column:sku;type:varchar(30);not null"`
	Name        string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	WeightGrams int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain Cart
func (m *CartModel) ToDomain() *store.Cart {
	c := &store.Cart{
		BaseEntity: m.BaseModel.ToDomain(),
		ChurchID:   m.ChurchID,
		UserID:     m.UserID,
		Lines:      make([]store.CartLine, len(m.Items)),
	}
	for i, it := range m.Items {
		c.Lines[i] = store.CartLine{
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			Name:        it.Name,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			WeightGrams: it.WeightGrams,
		}
	}
	return c
}

// CartModelFromDomain creates a persistence model from a domain Cart.
// Items get fresh ids because lines are replaced wholesale on save.
func CartModelFromDomain(c *store.Cart) *CartModel {
	m := &CartModel{
		ChurchID: c.ChurchID,
		UserID:   c.UserID,
		Items:    make([]CartItemModel, len(c.Lines)),
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	for i, l := range c.Lines {
		m.Items[i] = CartItemModel{
			ID:          uuid.New(),
			CartID:      c.ID,
			Position:    i,
			ProductID:   l.ProductID,
			SKU:         l.SKU,
			Name:        l.Name,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			WeightGrams: l.WeightGrams,
		}
	}
	return m
}

// OrderModel is the persistence model for store orders
type OrderModel struct {
	ChurchAggregateModel
	Number        string           `gorm:"type:varchar(30);not null;uniqueIndex"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	BuyerEmail    string           `gorm:"type:varchar(200)"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Shipping      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Total         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	DeliveryDays  int              `gorm:"not null;default:0"`
	PaymentMethod string           `gorm:"type:varchar(20);not null"`
	Status        string           `gorm:"type:varchar(20);not null;index"`
	Address       AddressColumns   `gorm:"embedded;embeddedPrefix:ship_"`
	TransactionID string           `gorm:"type:varchar(100);index"`
	PaymentCode   string           `gorm:"type:text"`
	PaymentDueAt  *time.Time
	PaidAt        *time.Time
	ShippedAt     *time.Time
	TrackingCode  string `gorm:"type:varchar(50)"`
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// AddressColumns holds the shipping address of an order as prefixed columns
type AddressColumns struct {
	RecipientName string `gorm:"type:varchar(200)"`
	PostalCode    string `gorm:"type:varchar(8)"`
	Street        string `gorm:"type:varchar(200)"`
	Number        string `gorm:"type:varchar(20)"`
	Complement    string `gorm:"type:varchar(100)"`
	District      string `gorm:"type:varchar(100)"`
	City          string `gorm:"type:varchar(100)"`
	State         string `gorm:"type:varchar(2)"`
}

// OrderItemModel is one product line of an order
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	SKU       string          `gorm:"column:sku;type:varchar(30);not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *store.Order {
	o := &store.Order{
		Number:        m.Number,
		UserID:        m.UserID,
		BuyerEmail:    m.BuyerEmail,
		Lines:         make([]store.OrderLine, len(m.Items)),
		Subtotal:      m.Subtotal,
		Shipping:      m.Shipping,
		Total:         m.Total,
		DeliveryDays:  m.DeliveryDays,
		PaymentMethod: store.PaymentMethod(m.PaymentMethod),
		Status:        store.OrderStatus(m.Status),
		Address: store.ShippingAddress{
			RecipientName: m.Address.RecipientName,
			PostalCode:    m.Address.PostalCode,
			Street:        m.Address.Street,
			Number:        m.Address.Number,
			Complement:    m.Address.Complement,
			District:      m.Address.District,
			City:          m.Address.City,
			State:         m.Address.State,
		},
		TransactionID: m.TransactionID,
		PaymentCode:   m.PaymentCode,
		PaymentDueAt:  m.PaymentDueAt,
		PaidAt:        m.PaidAt,
		ShippedAt:     m.ShippedAt,
		TrackingCode:  m.TrackingCode,
		CancelReason:  m.CancelReason,
	}
	for i, it := range m.Items {
		o.Lines[i] = store.OrderLine{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	m.PopulateChurchAggregateRoot(&o.ChurchAggregateRoot)
	return o
}

// OrderModelFromDomain creates a persistence model from a domain Order.
// Order lines are immutable once placed; item ids are derived from the order
// id and position so repeated saves upsert the same rows.
func OrderModelFromDomain(o *store.Order) *OrderModel {
	a := o.Address
	m := &OrderModel{
		Number:        o.Number,
		UserID:        o.UserID,
		BuyerEmail:    o.BuyerEmail,
		Items:         make([]OrderItemModel, len(o.Lines)),
		Subtotal:      o.Subtotal,
		Shipping:      o.Shipping,
		Total:         o.Total,
		DeliveryDays:  o.DeliveryDays,
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		Address: AddressColumns{
			RecipientName: a.RecipientName,
			PostalCode:    a.PostalCode,
			Street:        a.Street,
			Number:        a.Number,
			Complement:    a.Complement,
			District:      a.District,
			City:          a.City,
			State:         a.State,
		},
		TransactionID: o.TransactionID,
		PaymentCode:   o.PaymentCode,
		PaymentDueAt:  o.PaymentDueAt,
		PaidAt:        o.PaidAt,
		ShippedAt:     o.ShippedAt,
		TrackingCode:  o.TrackingCode,
		CancelReason:  o.CancelReason,
	}
	for i, l := range o.Lines {
		m.Items[i] = OrderItemModel{
			ID:        orderItemID(o.ID, i),
			OrderID:   o.ID,
			Position:  i,
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}
	m.FromDomainChurchAggregateRoot(o.ChurchAggregateRoot)
	return m
}

func orderItemID(orderID uuid.UUID, position int) uuid.UUID {
	return uuid.NewSHA1(orderID, []byte{byte(position >> 8), byte(position)})
}

// SalespersonModel is the persistence model for the publisher's sales team
type SalespersonModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(200);not null"`
	Email  string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Region string `gorm:"type:varchar(50)"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SalespersonModel) TableName() string {
	return "salespeople"
}

// ToDomain converts the persistence model to a domain Salesperson
func (m *SalespersonModel) ToDomain() *store.Salesperson {
	return &store.Salesperson{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Region:     m.Region,
		Active:     m.Active,
	}
}

// SalespersonModelFromDomain creates a persistence model from a domain Salesperson
func SalespersonModelFromDomain(s *store.Salesperson) *SalespersonModel {
	m := &SalespersonModel{
		Name:   s.Name,
		Email:  s.Email,
		Region: s.Region,
		Active: s.Active,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// ReactivationLeadModel is the persistence model for former clients being won back
type ReactivationLeadModel struct {
	BaseModel
	Email      string `gorm:"type:varchar(200);not null;index"`
	ChurchName string `gorm:"type:varchar(200)"`
	Phone      string `gorm:"type:varchar(30)"`
	Status     string `gorm:"type:varchar(20);not null;index"`
	Notes      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReactivationLeadModel) TableName() string {
	return "reactivation_leads"
}

// ToDomain converts the persistence model to a domain ReactivationLead
func (m *ReactivationLeadModel) ToDomain() *store.ReactivationLead {
	return &store.ReactivationLead{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		ChurchName: m.ChurchName,
		Phone:      m.Phone,
		Status:     store.LeadStatus(m.Status),
		Notes:      m.Notes,
	}
}

// ReactivationLeadModelFromDomain creates a persistence model from a domain ReactivationLead
func ReactivationLeadModelFromDomain(l *store.ReactivationLead) *ReactivationLeadModel {
	m := &ReactivationLeadModel{
		Email:      l.Email,
		ChurchName: l.ChurchName,
		Phone:      l.Phone,
		Status:     string(l.Status),
		Notes:      l.Notes,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// AllModels lists every model for AutoMigrate in tests and development
func AllModels() []any {
	return []any{
		&ChurchModel{}, &MemberModel{}, &UserModel{},
		&ChartAccountModel{}, &JournalEntryModel{},
		&ClassroomModel{}, &MagazineModel{}, &StudentModel{}, &TeacherModel{},
		&LessonPlanModel{}, &RosterEntryModel{}, &AttendanceModel{},
		&BankAccountModel{}, &FinancialEntryModel{}, &BillModel{},
		&ProductModel{}, &CartModel{}, &CartItemModel{}, &OrderModel{}, &OrderItemModel{},
		&SalespersonModel{}, &ReactivationLeadModel{},
	}
}
