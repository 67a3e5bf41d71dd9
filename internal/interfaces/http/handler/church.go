package handler

import (
	"time"

	appchurch "github.com/ecclesia/backend/internal/application/church"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChurchHandler handles church registration and settings
type ChurchHandler struct {
	BaseHandler
	churchService *appchurch.ChurchService
}

// NewChurchHandler creates a new church handler
func NewChurchHandler(churchService *appchurch.ChurchService) *ChurchHandler {
	return &ChurchHandler{churchService: churchService}
}

// Create godoc
// @Summary      Register church
// @Description  Register a church. A default chart of accounts is seeded for it.
// @Tags         churches
// @Accept       json
// @Produce      json
// @Param        request body appchurch.ChurchRequest true "Church"
// @Success      201 {object} dto.Response{data=appchurch.ChurchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /churches [post]
func (h *ChurchHandler) Create(c *gin.Context) {
	var req appchurch.ChurchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	church, err := h.churchService.CreateChurch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, church)
}

// List godoc
// @Summary      List churches
// @Tags         churches
// @Produce      json
// @Param        search query string false "Name or CNPJ"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appchurch.ChurchResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /churches [get]
func (h *ChurchHandler) List(c *gin.Context) {
	var q appchurch.ChurchListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	churches, total, err := h.churchService.ListChurches(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(q.Page, q.PageSize)
	h.SuccessWithMeta(c, churches, total, page, size)
}

// Current godoc
// @Summary      Get current church
// @Description  The church the caller is signed in to
// @Tags         churches
// @Produce      json
// @Success      200 {object} dto.Response{data=appchurch.ChurchResponse}
// @Security     BearerAuth
// @Router       /churches/current [get]
func (h *ChurchHandler) Current(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}

	church, err := h.churchService.GetChurch(c.Request.Context(), churchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, church)
}

// GetByID godoc
// @Summary      Get church
// @Tags         churches
// @Produce      json
// @Param        id path string true "Church ID"
// @Success      200 {object} dto.Response{data=appchurch.ChurchResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /churches/{id} [get]
func (h *ChurchHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	church, err := h.churchService.GetChurch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, church)
}

// Update godoc
// @Summary      Update church
// @Tags         churches
// @Accept       json
// @Produce      json
// @Param        id path string true "Church ID"
// @Param        request body appchurch.ChurchRequest true "Church"
// @Success      200 {object} dto.Response{data=appchurch.ChurchResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /churches/{id} [put]
func (h *ChurchHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appchurch.ChurchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	church, err := h.churchService.UpdateChurch(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, church)
}

// Deactivate godoc
// @Summary      Deactivate church
// @Tags         churches
// @Param        id path string true "Church ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /churches/{id}/deactivate [post]
func (h *ChurchHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.churchService.DeactivateChurch(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AppointSuperintendent godoc
// @Summary      Appoint Sunday school superintendent
// @Description  A null user_id clears the appointment
// @Tags         churches
// @Accept       json
// @Produce      json
// @Param        id path string true "Church ID"
// @Param        request body appchurch.SuperintendentRequest true "Superintendent"
// @Success      200 {object} dto.Response{data=appchurch.ChurchResponse}
// @Security     BearerAuth
// @Router       /churches/{id}/superintendent [put]
func (h *ChurchHandler) AppointSuperintendent(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appchurch.SuperintendentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	church, err := h.churchService.AppointSuperintendent(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, church)
}

// MemberHandler handles the membership roll of the caller's church
type MemberHandler struct {
	BaseHandler
	memberService *appchurch.MemberService
	now           func() time.Time
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *appchurch.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService, now: time.Now}
}

// Create godoc
// @Summary      Create member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body appchurch.MemberRequest true "Member"
// @Success      201 {object} dto.Response{data=appchurch.MemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appchurch.MemberRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var createdBy *uuid.UUID
	if userID, err := getUserID(c); err == nil {
		createdBy = &userID
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), churchID, req, createdBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// List godoc
// @Summary      List members
// @Tags         members
// @Produce      json
// @Param        search query string false "Name, email or phone"
// @Param        status query string false "Membership status" Enums(active, inactive, transferred, deceased)
// @Param        birthday_month query int false "Birthday month (1-12)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appchurch.MemberResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var q appchurch.MemberListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	members, total, err := h.memberService.ListMembers(c.Request.Context(), churchID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(q.Page, q.PageSize)
	h.SuccessWithMeta(c, members, total, page, size)
}

// GetByID godoc
// @Summary      Get member
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID"
// @Success      200 {object} dto.Response{data=appchurch.MemberResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members/{id} [get]
func (h *MemberHandler) GetByID(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Update godoc
// @Summary      Update member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID"
// @Param        request body appchurch.MemberRequest true "Member"
// @Success      200 {object} dto.Response{data=appchurch.MemberResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appchurch.MemberRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Delete godoc
// @Summary      Delete member
// @Tags         members
// @Param        id path string true "Member ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Birthdays godoc
// @Summary      Birthdays of the month
// @Tags         members
// @Produce      json
// @Param        month query int false "Month (1-12), defaults to the current month"
// @Success      200 {object} dto.Response{data=[]appchurch.BirthdayResponse}
// @Security     BearerAuth
// @Router       /members/birthdays [get]
func (h *MemberHandler) Birthdays(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	month := queryInt(c, "month", int(h.now().Month()))
	if month < 1 || month > 12 {
		h.BadRequest(c, "month must be between 1 and 12")
		return
	}

	list, err := h.memberService.Birthdays(c.Request.Context(), churchID, time.Month(month))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Stats godoc
// @Summary      Member statistics
// @Tags         members
// @Produce      json
// @Success      200 {object} dto.Response{data=appchurch.MemberStatsResponse}
// @Security     BearerAuth
// @Router       /members/stats [get]
func (h *MemberHandler) Stats(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}

	stats, err := h.memberService.Stats(c.Request.Context(), churchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
