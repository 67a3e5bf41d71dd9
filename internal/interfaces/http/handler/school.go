package handler

import (
	appschool "github.com/ecclesia/backend/internal/application/school"
	"github.com/ecclesia/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SchoolHandler serves the Sunday school registers: classrooms, magazines,
// students and teachers
type SchoolHandler struct {
	BaseHandler
	classroomService *appschool.ClassroomService
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(classroomService *appschool.ClassroomService) *SchoolHandler {
	return &SchoolHandler{classroomService: classroomService}
}

// CreateClassroom godoc
// @Summary      Create classroom
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request body appschool.ClassroomRequest true "Classroom"
// @Success      201 {object} dto.Response{data=appschool.ClassroomResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/classrooms [post]
func (h *SchoolHandler) CreateClassroom(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appschool.ClassroomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	classroom, err := h.classroomService.CreateClassroom(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, classroom)
}

// ListClassrooms godoc
// @Summary      List classrooms
// @Tags         school
// @Produce      json
// @Param        search query string false "Name"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appschool.ClassroomResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /school/classrooms [get]
func (h *SchoolHandler) ListClassrooms(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var q appschool.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	classrooms, total, err := h.classroomService.ListClassrooms(c.Request.Context(), churchID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(q.Page, q.PageSize)
	h.SuccessWithMeta(c, classrooms, total, page, size)
}

// GetClassroom godoc
// @Summary      Get classroom
// @Tags         school
// @Produce      json
// @Param        id path string true "Classroom ID"
// @Success      200 {object} dto.Response{data=appschool.ClassroomResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/classrooms/{id} [get]
func (h *SchoolHandler) GetClassroom(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	classroom, err := h.classroomService.GetClassroom(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, classroom)
}

// UpdateClassroom godoc
// @Summary      Update classroom
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id path string true "Classroom ID"
// @Param        request body appschool.ClassroomRequest true "Classroom"
// @Success      200 {object} dto.Response{data=appschool.ClassroomResponse}
// @Security     BearerAuth
// @Router       /school/classrooms/{id} [put]
func (h *SchoolHandler) UpdateClassroom(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appschool.ClassroomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	classroom, err := h.classroomService.UpdateClassroom(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, classroom)
}

// DeleteClassroom godoc
// @Summary      Delete classroom
// @Description  Classrooms with lesson plans are archived instead of deleted
// @Tags         school
// @Param        id path string true "Classroom ID"
// @Success      204
// @Security     BearerAuth
// @Router       /school/classrooms/{id} [delete]
func (h *SchoolHandler) DeleteClassroom(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.classroomService.DeleteClassroom(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateMagazine godoc
// @Summary      Create magazine
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request body appschool.MagazineRequest true "Magazine"
// @Success      201 {object} dto.Response{data=appschool.MagazineResponse}
// @Security     BearerAuth
// @Router       /school/magazines [post]
func (h *SchoolHandler) CreateMagazine(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appschool.MagazineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	magazine, err := h.classroomService.CreateMagazine(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, magazine)
}

// ListMagazines godoc
// @Summary      List magazines
// @Tags         school
// @Produce      json
// @Param        search query string false "Title"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appschool.MagazineResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /school/magazines [get]
func (h *SchoolHandler) ListMagazines(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var q appschool.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	magazines, total, err := h.classroomService.ListMagazines(c.Request.Context(), churchID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(q.Page, q.PageSize)
	h.SuccessWithMeta(c, magazines, total, page, size)
}

// GetMagazine godoc
// @Summary      Get magazine
// @Tags         school
// @Produce      json
// @Param        id path string true "Magazine ID"
// @Success      200 {object} dto.Response{data=appschool.MagazineResponse}
// @Security     BearerAuth
// @Router       /school/magazines/{id} [get]
func (h *SchoolHandler) GetMagazine(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	magazine, err := h.classroomService.GetMagazine(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, magazine)
}

// UpdateMagazine godoc
// @Summary      Update magazine
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id path string true "Magazine ID"
// @Param        request body appschool.MagazineRequest true "Magazine"
// @Success      200 {object} dto.Response{data=appschool.MagazineResponse}
// @Security     BearerAuth
// @Router       /school/magazines/{id} [put]
func (h *SchoolHandler) UpdateMagazine(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appschool.MagazineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	magazine, err := h.classroomService.UpdateMagazine(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, magazine)
}

// DeleteMagazine godoc
// @Summary      Delete magazine
// @Tags         school
// @Param        id path string true "Magazine ID"
// @Success      204
// @Security     BearerAuth
// @Router       /school/magazines/{id} [delete]
func (h *SchoolHandler) DeleteMagazine(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.classroomService.DeleteMagazine(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CoverUploadURL godoc
// @Summary      Magazine cover upload URL
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id path string true "Magazine ID"
// @Param        request body appschool.CoverUploadRequest true "File"
// @Success      200 {object} dto.Response{data=appschool.UploadURLResponse}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/magazines/{id}/cover [post]
func (h *SchoolHandler) CoverUploadURL(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appschool.CoverUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.classroomService.CoverUploadURL(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// CreateStudent godoc
// @Summary      Enroll student
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request body appschool.StudentRequest true "Student"
// @Success      201 {object} dto.Response{data=appschool.StudentResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/students [post]
func (h *SchoolHandler) CreateStudent(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appschool.StudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.classroomService.CreateStudent(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, student)
}

// ListStudents godoc
// @Summary      List students
// @Tags         school
// @Produce      json
// @Param        classroom_id query string false "Classroom ID"
// @Param        search query string false "Name"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appschool.StudentResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /school/students [get]
func (h *SchoolHandler) ListStudents(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var q appschool.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	var classroomID *uuid.UUID
	if raw := c.Query("classroom_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid classroom_id format")
			return
		}
		classroomID = &id
	}

	students, total, err := h.classroomService.ListStudents(c.Request.Context(), churchID, classroomID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(q.Page, q.PageSize)
	h.SuccessWithMeta(c, students, total, page, size)
}

// GetStudent godoc
// @Summary      Get student
// @Tags         school
// @Produce      json
// @Param        id path string true "Student ID"
// @Success      200 {object} dto.Response{data=appschool.StudentResponse}
// @Security     BearerAuth
// @Router       /school/students/{id} [get]
func (h *SchoolHandler) GetStudent(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	student, err := h.classroomService.GetStudent(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// UpdateStudent godoc
// @Summary      Update student
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id path string true "Student ID"
// @Param        request body appschool.StudentRequest true "Student"
// @Success      200 {object} dto.Response{data=appschool.StudentResponse}
// @Security     BearerAuth
// @Router       /school/students/{id} [put]
func (h *SchoolHandler) UpdateStudent(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appschool.StudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.classroomService.UpdateStudent(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, student)
}

// DeleteStudent godoc
// @Summary      Remove student
// @Tags         school
// @Param        id path string true "Student ID"
// @Success      204
// @Security     BearerAuth
// @Router       /school/students/{id} [delete]
func (h *SchoolHandler) DeleteStudent(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.classroomService.DeleteStudent(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateTeacher godoc
// @Summary      Register teacher
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request body appschool.TeacherRequest true "Teacher"
// @Success      201 {object} dto.Response{data=appschool.TeacherResponse}
// @Security     BearerAuth
// @Router       /school/teachers [post]
func (h *SchoolHandler) CreateTeacher(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var req appschool.TeacherRequest
	if !h.bindJSON(c, &req) {
		return
	}

	teacher, err := h.classroomService.CreateTeacher(c.Request.Context(), churchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, teacher)
}

// ListTeachers godoc
// @Summary      List teachers
// @Tags         school
// @Produce      json
// @Param        search query string false "Name"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appschool.TeacherResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /school/teachers [get]
func (h *SchoolHandler) ListTeachers(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	var q appschool.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	teachers, total, err := h.classroomService.ListTeachers(c.Request.Context(), churchID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := dto.PageParams(q.Page, q.PageSize)
	h.SuccessWithMeta(c, teachers, total, page, size)
}

// GetTeacher godoc
// @Summary      Get teacher
// @Tags         school
// @Produce      json
// @Param        id path string true "Teacher ID"
// @Success      200 {object} dto.Response{data=appschool.TeacherResponse}
// @Security     BearerAuth
// @Router       /school/teachers/{id} [get]
func (h *SchoolHandler) GetTeacher(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	teacher, err := h.classroomService.GetTeacher(c.Request.Context(), churchID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teacher)
}

// UpdateTeacher godoc
// @Summary      Update teacher
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id path string true "Teacher ID"
// @Param        request body appschool.TeacherRequest true "Teacher"
// @Success      200 {object} dto.Response{data=appschool.TeacherResponse}
// @Security     BearerAuth
// @Router       /school/teachers/{id} [put]
func (h *SchoolHandler) UpdateTeacher(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req appschool.TeacherRequest
	if !h.bindJSON(c, &req) {
		return
	}

	teacher, err := h.classroomService.UpdateTeacher(c.Request.Context(), churchID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, teacher)
}

// DeleteTeacher godoc
// @Summary      Remove teacher
// @Tags         school
// @Param        id path string true "Teacher ID"
// @Success      204
// @Security     BearerAuth
// @Router       /school/teachers/{id} [delete]
func (h *SchoolHandler) DeleteTeacher(c *gin.Context) {
	churchID, ok := h.requireChurch(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.classroomService.DeleteTeacher(c.Request.Context(), churchID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
