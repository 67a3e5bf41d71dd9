package store

import (
	"context"
	"errors"

	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/google/uuid"
)

// CartService manages the per-user cart
type CartService struct {
	productRepo store.ProductRepository
	cartRepo    store.CartRepository
	shipping    *store.ShippingCalculator
}

// NewCartService creates a new CartService
func NewCartService(productRepo store.ProductRepository, cartRepo store.CartRepository, shipping *store.ShippingCalculator) *CartService {
	return &CartService{productRepo: productRepo, cartRepo: cartRepo, shipping: shipping}
}

// GetCart returns the user's cart, empty if none was saved yet
func (s *CartService) GetCart(ctx context.Context, buyer Buyer) (*CartResponse, error) {
	cart, err := loadCart(ctx, s.cartRepo, buyer)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(cart)
	return &resp, nil
}

// AddItem puts units of a product in the cart, merging with an existing line
func (s *CartService) AddItem(ctx context.Context, buyer Buyer, req CartItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, buyer, func(c *store.Cart) error {
		return c.Add(product, req.Quantity)
	})
}

// UpdateItem sets a line quantity; zero removes the line
func (s *CartService) UpdateItem(ctx context.Context, buyer Buyer, productID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	if req.Quantity > 0 {
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if req.Quantity > product.Stock {
			return nil, shared.ErrInsufficientStock
		}
	}
	return s.mutate(ctx, buyer, func(c *store.Cart) error {
		return c.SetQuantity(productID, req.Quantity)
	})
}

// RemoveItem drops a product from the cart
func (s *CartService) RemoveItem(ctx context.Context, buyer Buyer, productID uuid.UUID) (*CartResponse, error) {
	return s.mutate(ctx, buyer, func(c *store.Cart) error {
		return c.Remove(productID)
	})
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context, buyer Buyer) (*CartResponse, error) {
	return s.mutate(ctx, buyer, func(c *store.Cart) error {
		c.Clear()
		return nil
	})
}

// QuoteShipping prices the delivery of the current cart to a state
func (s *CartService) QuoteShipping(ctx context.Context, buyer Buyer, state string) (*store.ShippingQuote, error) {
	cart, err := loadCart(ctx, s.cartRepo, buyer)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}
	return s.shipping.Quote(cart.TotalWeightGrams(), state, cart.Subtotal())
}

func (s *CartService) mutate(ctx context.Context, buyer Buyer, fn func(*store.Cart) error) (*CartResponse, error) {
	cart, err := loadCart(ctx, s.cartRepo, buyer)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}
	resp := ToCartResponse(cart)
	return &resp, nil
}

func loadCart(ctx context.Context, repo store.CartRepository, buyer Buyer) (*store.Cart, error) {
	cart, err := repo.FindByUser(ctx, buyer.ChurchID, buyer.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return store.NewCart(buyer.ChurchID, buyer.UserID), nil
	}
	return cart, err
}
