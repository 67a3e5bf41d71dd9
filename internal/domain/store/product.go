package store

import (
	"regexp"
	"strings"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-_]{1,49}$`)

// Product is a catalog item sold by the store. Catalog rows are global (not church-owned).
type Product struct {
	shared.BaseAggregateRoot
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	WeightGrams int
	Stock       int
	Active      bool
	MagazineID  *uuid.UUID
	ImageKey    string
}

// NewProduct creates an active product with no stock
func NewProduct(sku, name string, price decimal.Decimal, weightGrams int) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if !skuPattern.MatchString(sku) {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU must be 2-50 letters, digits, hyphens or underscores")
	}
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Active:            true,
	}
	if err := p.Update(name, "", price, weightGrams); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the descriptive and pricing fields
func (p *Product) Update(name, description string, price decimal.Decimal, weightGrams int) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name must be 1-200 characters")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if weightGrams < 0 {
		return shared.NewDomainError("INVALID_WEIGHT", "Weight cannot be negative")
	}
	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.Price = price.Round(2)
	p.WeightGrams = weightGrams
	p.Touch()
	p.IncrementVersion()
	return nil
}

// LinkMagazine ties the product to a curriculum magazine
func (p *Product) LinkMagazine(magazineID uuid.UUID) {
	p.MagazineID = &magazineID
	p.Touch()
}

// Restock adds units to the stock
func (p *Product) Restock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	p.Stock += qty
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Reserve removes sold units from the stock
func (p *Product) Reserve(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if qty > p.Stock {
		return shared.ErrInsufficientStock
	}
	p.Stock -= qty
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Release returns units to the stock, e.g. when an order is cancelled
func (p *Product) Release(qty int) {
	if qty > 0 {
		p.Stock += qty
		p.Touch()
		p.IncrementVersion()
	}
}

// IsPurchasable reports whether qty units can be sold now
func (p *Product) IsPurchasable(qty int) bool {
	return p.Active && qty > 0 && qty <= p.Stock
}

// Activate puts the product back on sale
func (p *Product) Activate() {
	p.Active = true
	p.Touch()
}

// Deactivate hides the product from the catalog
func (p *Product) Deactivate() {
	p.Active = false
	p.Touch()
}
