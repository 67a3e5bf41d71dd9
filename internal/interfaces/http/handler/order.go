package handler

import (
	appstore "github.com/ecclesia/backend/internal/application/store"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves checkout and the order lifecycle
type OrderHandler struct {
	BaseHandler
	checkoutService *appstore.CheckoutService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *appstore.CheckoutService) *OrderHandler {
	return &OrderHandler{checkoutService: checkoutService}
}

// Checkout godoc
// @Summary      Checkout cart
// @Description  Charges the payment gateway and turns the cart into an order
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        request body appstore.CheckoutRequest true "Checkout"
// @Success      201 {object} dto.Response{data=appstore.CheckoutResponse}
// @Failure      402 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}
	var req appstore.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), buyer, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListOrders godoc
// @Summary      List orders
// @Description  Admins see every order of the church; other users see their own
// @Tags         store
// @Produce      json
// @Param        status query string false "Status" Enums(pending_payment, paid, shipped, cancelled)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appstore.OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /store/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}
	var q appstore.OrderListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	orders, total, err := h.checkoutService.ListOrders(c.Request.Context(), buyer, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(q.Page, q.PageSize)
	h.SuccessWithMeta(c, orders, total, page, size)
}

// GetOrder godoc
// @Summary      Get order
// @Tags         store
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=appstore.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	buyer, ok := h.requireBuyer(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), buyer, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ConfirmPayment godoc
// @Summary      Confirm pending payment
// @Description  Marks a pix or boleto order as paid once the gateway settles it
// @Tags         store
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=appstore.OrderResponse}
// @Security     BearerAuth
// @Router       /store/orders/{id}/confirm-payment [post]
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.checkoutService.ConfirmPayment(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ShipOrder godoc
// @Summary      Ship order
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body appstore.ShipOrderRequest false "Tracking"
// @Success      200 {object} dto.Response{data=appstore.OrderResponse}
// @Security     BearerAuth
// @Router       /store/orders/{id}/ship [post]
func (h *OrderHandler) ShipOrder(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appstore.ShipOrderRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	order, err := h.checkoutService.ShipOrder(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// CancelOrder godoc
// @Summary      Cancel order
// @Description  Cancels an unshipped order and releases its stock
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body appstore.CancelOrderRequest false "Reason"
// @Success      200 {object} dto.Response{data=appstore.OrderResponse}
// @Security     BearerAuth
// @Router       /store/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appstore.CancelOrderRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	order, err := h.checkoutService.CancelOrder(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
