package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	appstore "github.com/ecclesia/backend/internal/application/store"
	"github.com/ecclesia/backend/internal/domain/shared"
	"github.com/ecclesia/backend/internal/domain/store"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memProducts is an in-memory store.ProductRepository
type memProducts struct {
	byID map[uuid.UUID]*store.Product
}

func (m *memProducts) FindByID(_ context.Context, id uuid.UUID) (*store.Product, error) {
	if p, ok := m.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memProducts) FindBySKU(_ context.Context, sku string) (*store.Product, error) {
	for _, p := range m.byID {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]store.Product, error) {
	out := make([]store.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) FindAll(_ context.Context, _ store.ProductFilter) ([]store.Product, int64, error) {
	out := make([]store.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *memProducts) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := m.FindBySKU(ctx, sku)
	return err == nil, nil
}

func (m *memProducts) Save(_ context.Context, p *store.Product) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProducts) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	p, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	if p.Stock < qty {
		return shared.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

// memCarts is an in-memory store.CartRepository
type memCarts struct {
	byUser map[uuid.UUID]*store.Cart
}

func (m *memCarts) FindByUser(_ context.Context, _, userID uuid.UUID) (*store.Cart, error) {
	if c, ok := m.byUser[userID]; ok {
		cp := *c
		cp.Lines = append([]store.CartLine(nil), c.Lines...)
		return &cp, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memCarts) Save(_ context.Context, c *store.Cart) error {
	cp := *c
	m.byUser[c.UserID] = &cp
	return nil
}

type storeTestEnv struct {
	router   *gin.Engine
	products *memProducts
	churchID uuid.UUID
	userID   uuid.UUID
}

func newStoreTestEnv(t *testing.T) *storeTestEnv {
	t.Helper()
	env := &storeTestEnv{
		products: &memProducts{byID: map[uuid.UUID]*store.Product{}},
		churchID: uuid.New(),
		userID:   uuid.New(),
	}
	carts := &memCarts{byUser: map[uuid.UUID]*store.Cart{}}
	h := NewStoreHandler(
		appstore.NewCatalogService(env.products, zap.NewNop()),
		appstore.NewCartService(env.products, carts, store.NewShippingCalculator("SP", decimal.Zero)),
	)

	env.router = gin.New()
	env.router.Use(func(c *gin.Context) {
		setIdentity(c, env.churchID, env.userID, "user")
		c.Next()
	})
	s := env.router.Group("/api/v1/store")
	s.GET("/products/:id", h.GetProduct)
	s.GET("/cart", h.GetCart)
	s.POST("/cart/items", h.AddItem)
	s.PUT("/cart/items/:productId", h.UpdateItem)
	s.DELETE("/cart/items/:productId", h.RemoveItem)
	s.DELETE("/cart", h.ClearCart)
	s.GET("/cart/shipping", h.QuoteShipping)
	return env
}

func (e *storeTestEnv) addProduct(t *testing.T, sku string, price float64, stock int) *store.Product {
	t.Helper()
	p, err := store.NewProduct(sku, "Revista "+sku, decimal.NewFromFloat(price), 250)
	require.NoError(t, err)
	p.Stock = stock
	e.products.byID[p.ID] = p
	return p
}

func (e *storeTestEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) appstore.CartResponse {
	t.Helper()
	var resp struct {
		Data appstore.CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data
}

func TestStoreHandler_CartFlow(t *testing.T) {
	env := newStoreTestEnv(t)
	adult := env.addProduct(t, "EBD-ADULTO-1", 12.5, 10)
	youth := env.addProduct(t, "EBD-JOVEM-1", 9.9, 3)

	w := env.do(http.MethodGet, "/api/v1/store/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Lines)

	w = env.do(http.MethodPost, "/api/v1/store/cart/items", appstore.CartItemRequest{ProductID: adult.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/v1/store/cart/items", appstore.CartItemRequest{ProductID: adult.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)
	cart := decodeCart(t, w)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)

	w = env.do(http.MethodPost, "/api/v1/store/cart/items", appstore.CartItemRequest{ProductID: youth.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)
	cart = decodeCart(t, w)
	assert.Equal(t, 5, cart.ItemCount)
	assert.True(t, decimal.RequireFromString("57.3").Equal(cart.Subtotal), cart.Subtotal.String())
	assert.Equal(t, 1250, cart.WeightGrams)

	w = env.do(http.MethodPut, "/api/v1/store/cart/items/"+youth.ID.String(), appstore.UpdateCartItemRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeCart(t, w).Lines, 1)

	w = env.do(http.MethodDelete, "/api/v1/store/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeCart(t, w).Lines)
}

func TestStoreHandler_AddItem_Errors(t *testing.T) {
	env := newStoreTestEnv(t)
	p := env.addProduct(t, "EBD-KIDS-1", 8, 2)

	tests := []struct {
		name     string
		body     any
		status   int
		wantCode string
	}{
		{"over stock", appstore.CartItemRequest{ProductID: p.ID, Quantity: 3}, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"unknown product", appstore.CartItemRequest{ProductID: uuid.New(), Quantity: 1}, http.StatusNotFound, dto.ErrCodeNotFound},
		{"zero quantity", map[string]any{"product_id": p.ID, "quantity": 0}, http.StatusBadRequest, dto.ErrCodeValidation},
		{"missing product", map[string]any{"quantity": 1}, http.StatusBadRequest, dto.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/v1/store/cart/items", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestStoreHandler_AddItem_InactiveProduct(t *testing.T) {
	env := newStoreTestEnv(t)
	p := env.addProduct(t, "EBD-OLD-1", 8, 5)
	p.Active = false

	w := env.do(http.MethodPost, "/api/v1/store/cart/items", appstore.CartItemRequest{ProductID: p.ID, Quantity: 1})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "PRODUCT_UNAVAILABLE", decodeResponse(t, w).Error.Code)
}

func TestStoreHandler_QuoteShipping(t *testing.T) {
	env := newStoreTestEnv(t)
	p := env.addProduct(t, "EBD-ADULTO-2", 15, 10)

	w := env.do(http.MethodGet, "/api/v1/store/cart/shipping?state=SP", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "EMPTY_CART", decodeResponse(t, w).Error.Code)

	w = env.do(http.MethodPost, "/api/v1/store/cart/items", appstore.CartItemRequest{ProductID: p.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/store/cart/shipping", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/store/cart/shipping?state=SP", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.NotNil(t, resp.Data)
}

func TestStoreHandler_GetProduct(t *testing.T) {
	env := newStoreTestEnv(t)
	p := env.addProduct(t, "EBD-ADULTO-3", 12, 1)

	w := env.do(http.MethodGet, "/api/v1/store/products/"+p.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data appstore.ProductResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EBD-ADULTO-3", resp.Data.SKU)

	w = env.do(http.MethodGet, "/api/v1/store/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/v1/store/products/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
