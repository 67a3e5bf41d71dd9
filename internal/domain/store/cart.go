package store

import (
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the units of one product in a cart
const MaxLineQuantity = 999

// CartLine is a product in the cart with the price captured when it was added
type CartLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	WeightGrams int             `json:"weight_grams"`
}

// Total returns unit price times quantity
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the shopping cart of a single user
type Cart struct {
	shared.BaseEntity
	ChurchID uuid.UUID
	UserID   uuid.UUID
	Lines    []CartLine
}

// NewCart creates an empty cart for the user
func NewCart(churchID, userID uuid.UUID) *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		ChurchID:   churchID,
		UserID:     userID,
		Lines:      make([]CartLine, 0),
	}
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty units of the product in the cart, merging with an existing line
func (c *Cart) Add(p *Product, qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if !p.Active {
		return shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")
	}

	if i := c.indexOf(p.ID); i >= 0 {
		merged := c.Lines[i].Quantity + qty
		if merged > MaxLineQuantity {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the limit per product")
		}
		if merged > p.Stock {
			return shared.ErrInsufficientStock
		}
		c.Lines[i].Quantity = merged
		c.Lines[i].UnitPrice = p.Price
		c.Touch()
		return nil
	}

	if qty > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the limit per product")
	}
	if qty > p.Stock {
		return shared.ErrInsufficientStock
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID:   p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		UnitPrice:   p.Price,
		Quantity:    qty,
		WeightGrams: p.WeightGrams,
	})
	c.Touch()
	return nil
}

// SetQuantity changes a line's quantity. Zero removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	if qty < 0 || qty > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 0 and 999")
	}
	i := c.indexOf(productID)
	if i < 0 {
		return shared.NewDomainError("NOT_IN_CART", "Product is not in the cart")
	}
	if qty == 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	} else {
		c.Lines[i].Quantity = qty
	}
	c.Touch()
	return nil
}

// Remove drops the product from the cart
func (c *Cart) Remove(productID uuid.UUID) error {
	return c.SetQuantity(productID, 0)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Lines = c.Lines[:0]
	c.Touch()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Subtotal sums all line totals
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// TotalWeightGrams sums the weight of every unit in the cart
func (c *Cart) TotalWeightGrams() int {
	w := 0
	for _, l := range c.Lines {
		w += l.WeightGrams * l.Quantity
	}
	return w
}

// ItemCount returns the number of units in the cart
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
