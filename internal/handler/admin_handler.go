package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk-api/internal/models"
	"github.com/campusdesk/campusdesk-api/internal/service"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
	"github.com/campusdesk/campusdesk-api/pkg/response"
)

// AdminHandler serves the college-admin surface: the tenant dashboard,
// staff directory, student roll and tenant-wide announcements.
type AdminHandler struct {
	dashboards    *service.DashboardService
	teachers      *service.TeacherService
	students      *service.StudentService
	classes       *service.ClassService
	announcements *service.AnnouncementService
	activities    *service.ActivityService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(
	dashboards *service.DashboardService,
	teachers *service.TeacherService,
	students *service.StudentService,
	classes *service.ClassService,
	announcements *service.AnnouncementService,
	activities *service.ActivityService,
) *AdminHandler {
	return &AdminHandler{
		dashboards:    dashboards,
		teachers:      teachers,
		students:      students,
		classes:       classes,
		announcements: announcements,
		activities:    activities,
	}
}

// Dashboard godoc
// @Summary Admin dashboard
// @Description Tenant-wide counts and recent activity
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.dashboards.Admin(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/teachers [get]
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	teachers, err := h.teachers.ListTeachers(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// ListStaff godoc
// @Summary List non-teaching staff
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/staff [get]
func (h *AdminHandler) ListStaff(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	staff, err := h.teachers.ListStaff(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff, nil)
}

// ListStudents godoc
// @Summary List students
// @Tags Admin
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param class_id query string false "Filter by class"
// @Param search query string false "Name or email search"
// @Success 200 {object} response.Envelope
// @Router /admin/students [get]
func (h *AdminHandler) ListStudents(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, size := pageParams(c)
	filter := models.StudentFilter{
		ClassID:  c.Query("class_id"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: size,
	}
	students, pagination, err := h.students.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// AddStudent godoc
// @Summary Enroll a student
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.AddStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/students [post]
func (h *AdminHandler) AddStudent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	student, err := h.students.Add(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// ListClasses godoc
// @Summary List classes
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/classes [get]
func (h *AdminHandler) ListClasses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, size := pageParams(c)
	filter := models.ClassFilter{
		Department: c.Query("department"),
		Page:       page,
		PageSize:   size,
	}
	classes, pagination, err := h.classes.ListForCollege(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, pagination)
}

// ListAnnouncements godoc
// @Summary List announcements
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/announcements [get]
func (h *AdminHandler) ListAnnouncements(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, size := pageParams(c)
	announcements, pagination, err := h.announcements.ListForCollege(c.Request.Context(), claims, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcements, pagination)
}

// SaveAnnouncement godoc
// @Summary Create or update an announcement
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.SaveAnnouncementRequest true "Announcement payload"
// @Success 200 {object} response.Envelope
// @Router /admin/announcements [post]
func (h *AdminHandler) SaveAnnouncement(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SaveAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid announcement payload"))
		return
	}
	announcement, err := h.announcements.Save(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.ID == "" {
		response.Created(c, announcement)
		return
	}
	response.JSON(c, http.StatusOK, announcement, nil)
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags Admin
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 204 {object} response.Envelope
// @Router /admin/announcements/{id} [delete]
func (h *AdminHandler) DeleteAnnouncement(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.announcements.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListActivities godoc
// @Summary Recent tenant activity
// @Tags Admin
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Envelope
// @Router /admin/activities [get]
func (h *AdminHandler) ListActivities(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := parsePositiveInt(raw); err == nil {
			limit = parsed
		}
	}
	activities, err := h.activities.RecentForCollege(c.Request.Context(), claims.CollegeCode, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, nil)
}
