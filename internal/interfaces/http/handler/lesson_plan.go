package handler

import (
	appschool "github.com/ecclesia/backend/internal/application/school"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LessonPlanHandler serves lesson plans, the onboarding wizard and attendance
type LessonPlanHandler struct {
	BaseHandler
	planService *appschool.LessonPlanService
}

// NewLessonPlanHandler creates a new lesson plan handler
func NewLessonPlanHandler(planService *appschool.LessonPlanService) *LessonPlanHandler {
	return &LessonPlanHandler{planService: planService}
}

// GeneratePlan godoc
// @Summary      Generate lesson plan
// @Description  Lays the magazine lessons over the classroom weekday starting at start_date
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request body appschool.GeneratePlanRequest true "Plan"
// @Success      201 {object} dto.Response{data=appschool.LessonPlanResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/plans [post]
func (h *LessonPlanHandler) GeneratePlan(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appschool.GeneratePlanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// Onboard godoc
// @Summary      School onboarding
// @Description  Creates magazine, classroom and lesson plan in one step
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request body appschool.OnboardingRequest true "Onboarding"
// @Success      201 {object} dto.Response{data=appschool.OnboardingResponse}
// @Security     BearerAuth
// @Router       /school/onboarding [post]
func (h *LessonPlanHandler) Onboard(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appschool.OnboardingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.planService.Onboard(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListPlans godoc
// @Summary      List lesson plans of a classroom
// @Tags         school
// @Produce      json
// @Param        classroom_id query string true "Classroom ID"
// @Success      200 {object} dto.Response{data=[]appschool.LessonPlanResponse}
// @Security     BearerAuth
// @Router       /school/plans [get]
func (h *LessonPlanHandler) ListPlans(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	classroomID, err := parseUUIDQuery(c, "classroom_id")
	if err != nil {
		h.BadRequest(c, "classroom_id is required")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), churchID, classroomID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plans)
}

// GetPlan godoc
// @Summary      Get lesson plan
// @Tags         school
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200 {object} dto.Response{data=appschool.LessonPlanResponse}
// @Security     BearerAuth
// @Router       /school/plans/{id} [get]
func (h *LessonPlanHandler) GetPlan(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// DeletePlan godoc
// @Summary      Delete lesson plan
// @Tags         school
// @Param        id path string true "Plan ID"
// @Success      204
// @Security     BearerAuth
// @Router       /school/plans/{id} [delete]
func (h *LessonPlanHandler) DeletePlan(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignTeacher godoc
// @Summary      Assign teacher to a lesson
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID"
// @Param        entryId path string true "Lesson entry ID"
// @Param        request body appschool.AssignTeacherRequest true "Teacher"
// @Success      200 {object} dto.Response{data=appschool.LessonPlanResponse}
// @Security     BearerAuth
// @Router       /school/plans/{id}/entries/{entryId}/teacher [put]
func (h *LessonPlanHandler) AssignTeacher(c *gin.Context) {
	churchID, planID, entryID, ok := h.entryParams(c)
	if !ok {
		return
	}
	var req appschool.AssignTeacherRequest
	if !h.bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.AssignTeacher(c.Request.Context(), churchID, planID, entryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// MarkNoClass godoc
// @Summary      Mark lesson date without class
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID"
// @Param        entryId path string true "Lesson entry ID"
// @Param        request body appschool.NoClassRequest true "Reason"
// @Success      200 {object} dto.Response{data=appschool.LessonPlanResponse}
// @Security     BearerAuth
// @Router       /school/plans/{id}/entries/{entryId}/no-class [post]
func (h *LessonPlanHandler) MarkNoClass(c *gin.Context) {
	churchID, planID, entryID, ok := h.entryParams(c)
	if !ok {
		return
	}
	var req appschool.NoClassRequest
	if !h.bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.MarkNoClass(c.Request.Context(), churchID, planID, entryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// UnmarkNoClass godoc
// @Summary      Restore a lesson date
// @Tags         school
// @Produce      json
// @Param        id path string true "Plan ID"
// @Param        entryId path string true "Lesson entry ID"
// @Success      200 {object} dto.Response{data=appschool.LessonPlanResponse}
// @Security     BearerAuth
// @Router       /school/plans/{id}/entries/{entryId}/no-class [delete]
func (h *LessonPlanHandler) UnmarkNoClass(c *gin.Context) {
	churchID, planID, entryID, ok := h.entryParams(c)
	if !ok {
		return
	}

	plan, err := h.planService.UnmarkNoClass(c.Request.Context(), churchID, planID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// Progress godoc
// @Summary      Lesson plan progress
// @Tags         school
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200 {object} dto.Response{data=ProgressData}
// @Security     BearerAuth
// @Router       /school/plans/{id}/progress [get]
func (h *LessonPlanHandler) Progress(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	progress, err := h.planService.PlanProgress(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ProgressData{Progress: progress})
}

// RecordAttendance godoc
// @Summary      Record lesson attendance
// @Description  Replaces the roll of one lesson date
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID"
// @Param        request body appschool.RecordAttendanceRequest true "Roll"
// @Success      200 {object} dto.Response{data=appschool.LessonAttendanceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/plans/{id}/attendance [put]
func (h *LessonPlanHandler) RecordAttendance(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appschool.RecordAttendanceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	roll, err := h.planService.RecordAttendance(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roll)
}

// LessonAttendance godoc
// @Summary      Get lesson attendance
// @Tags         school
// @Produce      json
// @Param        id path string true "Plan ID"
// @Param        date query string true "Lesson date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=appschool.LessonAttendanceResponse}
// @Security     BearerAuth
// @Router       /school/plans/{id}/attendance [get]
func (h *LessonPlanHandler) LessonAttendance(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		h.BadRequest(c, "date is required")
		return
	}

	roll, err := h.planService.LessonAttendance(c.Request.Context(), churchID, id, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roll)
}

// AttendanceOverview godoc
// @Summary      Attendance per lesson date
// @Tags         school
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200 {object} dto.Response{data=[]school.AttendanceSummary}
// @Security     BearerAuth
// @Router       /school/plans/{id}/attendance/overview [get]
func (h *LessonPlanHandler) AttendanceOverview(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	overview, err := h.planService.AttendanceOverview(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

func (h *LessonPlanHandler) entryParams(c *gin.Context) (churchID, planID, entryID uuid.UUID, ok bool) {
	if churchID, ok = h.requireChurch(c); !ok {
		return
	}
	if planID, ok = h.pathID(c, "id"); !ok {
		return
	}
	entryID, ok = h.pathID(c, "entryId")
	return
}
