package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk-api/internal/service"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
	"github.com/campusdesk/campusdesk-api/pkg/response"
)

// StudentHandler serves the student surface: the personal dashboard,
// enrolled classes, assignments and attendance history.
type StudentHandler struct {
	dashboards  *service.DashboardService
	students    *service.StudentService
	assignments *service.AssignmentService
	attendance  *service.AttendanceService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(
	dashboards *service.DashboardService,
	students *service.StudentService,
	assignments *service.AssignmentService,
	attendance *service.AttendanceService,
) *StudentHandler {
	return &StudentHandler{
		dashboards:  dashboards,
		students:    students,
		assignments: assignments,
		attendance:  attendance,
	}
}

// Dashboard godoc
// @Summary Student dashboard
// @Description Enrollment-scoped figures for the calling student
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/dashboard [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.dashboards.Student(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Profile godoc
// @Summary Own student profile
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/profile [get]
func (h *StudentHandler) Profile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	student, err := h.students.Self(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Classes godoc
// @Summary Own classes
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/classes [get]
func (h *StudentHandler) Classes(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classes, err := h.students.ClassesForSelf(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Assignments godoc
// @Summary Own assignments
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/assignments [get]
func (h *StudentHandler) Assignments(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	student, err := h.students.Self(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments, err := h.assignments.ListForStudent(c.Request.Context(), claims, student)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// SubmitAssignment godoc
// @Summary Submit work for an assignment
// @Tags Student
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /student/assignments/{id}/submit [post]
func (h *StudentHandler) SubmitAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var payload struct {
		Submission string `json:"submission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "submission content required"))
		return
	}
	student, err := h.students.Self(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.assignments.Submit(c.Request.Context(), claims, student, c.Param("id"), payload.Submission); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetByID godoc
// @Summary Student record by id
// @Description Admins and teachers may read any tenant student; students only themselves
// @Tags Student
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) GetByID(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	student, err := h.students.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// AttendanceByID godoc
// @Summary Attendance history of one student
// @Description Admins and teachers may read any tenant student's history; students only their own
// @Tags Student
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/attendance [get]
func (h *StudentHandler) AttendanceByID(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	rows, err := h.attendance.ForStudent(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Attendance godoc
// @Summary Own attendance history
// @Tags Student
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/attendance [get]
func (h *StudentHandler) Attendance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	student, err := h.students.Self(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.attendance.ForStudent(c.Request.Context(), claims, student.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
