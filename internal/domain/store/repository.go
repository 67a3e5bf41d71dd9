package store

import (
	"context"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductFilter narrows catalog queries
type ProductFilter struct {
	shared.Filter
	ActiveOnly bool
	MagazineID *uuid.UUID
}

// ProductRepository persists the catalog
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Save(ctx context.Context, product *Product) error
	// DecrementStock removes qty units only if enough are left
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
}

// CartRepository persists one cart per user
type CartRepository interface {
	FindByUser(ctx context.Context, churchID, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}

// OrderFilter narrows order queries
type OrderFilter struct {
	shared.Filter
	Status OrderStatus
	UserID *uuid.UUID
}

// OrderRepository persists orders
type OrderRepository interface {
	FindByID(ctx context.Context, churchID, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindAll(ctx context.Context, churchID uuid.UUID, filter OrderFilter) ([]Order, int64, error)
	// CountByNumberPrefix returns how many orders share a month prefix
	CountByNumberPrefix(ctx context.Context, prefix string) (int64, error)
	Save(ctx context.Context, order *Order) error
}

// SalesRepository answers who belongs to the sales side of the store
type SalesRepository interface {
	FindSalespeople(ctx context.Context) ([]Salesperson, error)
	SaveSalesperson(ctx context.Context, s *Salesperson) error
	ExistsActiveSalesperson(ctx context.Context, email string) (bool, error)
	FindLeads(ctx context.Context, status LeadStatus) ([]ReactivationLead, error)
	FindLeadByID(ctx context.Context, id uuid.UUID) (*ReactivationLead, error)
	SaveLead(ctx context.Context, lead *ReactivationLead) error
	ExistsOpenLead(ctx context.Context, email string) (bool, error)
}
