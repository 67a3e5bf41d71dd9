package handler

import (
	appstore "github.com/ecclesia/backend/internal/application/store"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// StoreHandler serves the global product catalog and the per-user cart
type StoreHandler struct {
	BaseHandler
	catalogService *appstore.CatalogService
	cartService    *appstore.CartService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(catalogService *appstore.CatalogService, cartService *appstore.CartService) *StoreHandler {
	return &StoreHandler{
		catalogService: catalogService,
		cartService:    cartService,
	}
}

// SetActiveRequest toggles catalog visibility of a product
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// CreateProduct godoc
// @Summary      Create product
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        request body appstore.ProductRequest true "Product"
// @Success      201 {object} dto.Response{data=appstore.ProductResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store/products [post]
func (h *StoreHandler) CreateProduct(c *gin.Context) {
	var req appstore.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// ListProducts godoc
// @Summary      List products
// @Tags         store
// @Produce      json
// @Param        search query string false "Name or SKU"
// @Param        magazine_id query string false "Magazine ID"
// @Param        include_inactive query bool false "Include inactive products"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appstore.ProductResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /store/products [get]
func (h *StoreHandler) ListProducts(c *gin.Context) {
	var q appstore.ProductListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(q.Page, q.PageSize)
	h.SuccessWithMeta(c, products, total, page, size)
}

// GetProduct godoc
// @Summary      Get product
// @Tags         store
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=appstore.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store/products/{id} [get]
func (h *StoreHandler) GetProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UpdateProduct godoc
// @Summary      Update product
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body appstore.ProductRequest true "Product"
// @Success      200 {object} dto.Response{data=appstore.ProductResponse}
// @Security     BearerAuth
// @Router       /store/products/{id} [put]
func (h *StoreHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appstore.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Restock godoc
// @Summary      Restock product
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body appstore.RestockRequest true "Quantity"
// @Success      200 {object} dto.Response{data=appstore.ProductResponse}
// @Security     BearerAuth
// @Router       /store/products/{id}/restock [post]
func (h *StoreHandler) Restock(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appstore.RestockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.Restock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetActive godoc
// @Summary      Activate or deactivate product
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body SetActiveRequest true "Visibility"
// @Success      200 {object} dto.Response{data=appstore.ProductResponse}
// @Security     BearerAuth
// @Router       /store/products/{id}/active [put]
func (h *StoreHandler) SetActive(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req SetActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetCart godoc
// @Summary      Get cart
// @Tags         store
// @Produce      json
// @Success      200 {object} dto.Response{data=appstore.CartResponse}
// @Security     BearerAuth
// @Router       /store/cart [get]
func (h *StoreHandler) GetCart(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), buyer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add product to cart
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        request body appstore.CartItemRequest true "Item"
// @Success      200 {object} dto.Response{data=appstore.CartResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store/cart/items [post]
func (h *StoreHandler) AddItem(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}
	var req appstore.CartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), buyer, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateItem godoc
// @Summary      Change cart line quantity
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID"
// @Param        request body appstore.UpdateCartItemRequest true "Quantity"
// @Success      200 {object} dto.Response{data=appstore.CartResponse}
// @Security     BearerAuth
// @Router       /store/cart/items/{productId} [put]
func (h *StoreHandler) UpdateItem(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}
	var req appstore.UpdateCartItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), buyer, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove cart line
// @Tags         store
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response{data=appstore.CartResponse}
// @Security     BearerAuth
// @Router       /store/cart/items/{productId} [delete]
func (h *StoreHandler) RemoveItem(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "productId")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), buyer, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ClearCart godoc
// @Summary      Empty cart
// @Tags         store
// @Produce      json
// @Success      200 {object} dto.Response{data=appstore.CartResponse}
// @Security     BearerAuth
// @Router       /store/cart [delete]
func (h *StoreHandler) ClearCart(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}

	cart, err := h.cartService.ClearCart(c.Request.Context(), buyer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// QuoteShipping godoc
// @Summary      Quote shipping for the cart
// @Tags         store
// @Produce      json
// @Param        state query string true "Destination state (UF)"
// @Success      200 {object} dto.Response{data=store.ShippingQuote}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store/cart/shipping [get]
func (h *StoreHandler) QuoteShipping(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}
	var q appstore.ShippingQuoteQuery
	if !h.bindQuery(c, &q) {
		return
	}

	quote, err := h.cartService.QuoteShipping(c.Request.Context(), buyer, q.State)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}
