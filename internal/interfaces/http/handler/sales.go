package handler

import (
	appstore "github.com/ecclesia/backend/internal/application/store"
	"github.com/gin-gonic/gin"
)

// SalesHandler serves the store sales team and its reactivation leads
type SalesHandler struct {
	BaseHandler
	salesService *appstore.SalesService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(salesService *appstore.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// AddSalesperson godoc
// @Summary      Register salesperson
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body appstore.SalespersonRequest true "Salesperson"
// @Success      201 {object} dto.Response{data=appstore.SalespersonResponse}
// @Security     BearerAuth
// @Router       /store/salespeople [post]
func (h *SalesHandler) AddSalesperson(c *gin.Context) {
	var req appstore.SalespersonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	person, err := h.salesService.AddSalesperson(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, person)
}

// ListSalespeople godoc
// @Summary      List salespeople
// @Tags         sales
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appstore.SalespersonResponse}
// @Security     BearerAuth
// @Router       /store/salespeople [get]
func (h *SalesHandler) ListSalespeople(c *gin.Context) {
	people, err := h.salesService.ListSalespeople(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, people)
}

// OpenLead godoc
// @Summary      Open reactivation lead
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body appstore.LeadRequest true "Lead"
// @Success      201 {object} dto.Response{data=appstore.LeadResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store/leads [post]
func (h *SalesHandler) OpenLead(c *gin.Context) {
	var req appstore.LeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.salesService.OpenLead(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lead)
}

// ListLeads godoc
// @Summary      List leads
// @Tags         sales
// @Produce      json
// @Param        status query string false "Status" Enums(open, contacted, won, lost)
// @Success      200 {object} dto.Response{data=[]appstore.LeadResponse}
// @Security     BearerAuth
// @Router       /store/leads [get]
func (h *SalesHandler) ListLeads(c *gin.Context) {
	leads, err := h.salesService.ListLeads(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leads)
}

// AdvanceLead godoc
// @Summary      Advance lead
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID"
// @Param        request body appstore.AdvanceLeadRequest true "Status"
// @Success      200 {object} dto.Response{data=appstore.LeadResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /store/leads/{id} [put]
func (h *SalesHandler) AdvanceLead(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appstore.AdvanceLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lead, err := h.salesService.AdvanceLead(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lead)
}
