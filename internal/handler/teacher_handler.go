package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk-api/internal/service"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
	"github.com/campusdesk/campusdesk-api/pkg/response"
)

// TeacherHandler serves the teacher surface: the ownership-scoped
// dashboard, class and assignment management, announcements and the
// attendance register.
type TeacherHandler struct {
	dashboards    *service.DashboardService
	classes       *service.ClassService
	assignments   *service.AssignmentService
	announcements *service.AnnouncementService
	attendance    *service.AttendanceService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(
	dashboards *service.DashboardService,
	classes *service.ClassService,
	assignments *service.AssignmentService,
	announcements *service.AnnouncementService,
	attendance *service.AttendanceService,
) *TeacherHandler {
	return &TeacherHandler{
		dashboards:    dashboards,
		classes:       classes,
		assignments:   assignments,
		announcements: announcements,
		attendance:    attendance,
	}
}

// Dashboard godoc
// @Summary Teacher dashboard
// @Description Ownership-scoped counts, recent activity and today's classes
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/dashboard [get]
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.dashboards.Teacher(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ListClasses godoc
// @Summary List own classes
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/classes [get]
func (h *TeacherHandler) ListClasses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classes, err := h.classes.ListForTeacher(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// GetClass godoc
// @Summary Get one class
// @Tags Teacher
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/classes/{id} [get]
func (h *TeacherHandler) GetClass(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	class, err := h.classes.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// ClassRoster godoc
// @Summary List students of a class
// @Tags Teacher
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/classes/{id}/students [get]
func (h *TeacherHandler) ClassRoster(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	students, err := h.classes.Roster(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// SaveClass godoc
// @Summary Create or update a class
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body service.SaveClassRequest true "Class payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/classes [post]
func (h *TeacherHandler) SaveClass(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SaveClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}
	class, err := h.classes.Save(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.ID == "" {
		response.Created(c, class)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// DeleteClass godoc
// @Summary Delete a class
// @Tags Teacher
// @Produce json
// @Param id path string true "Class ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/classes/{id} [delete]
func (h *TeacherHandler) DeleteClass(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.classes.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAssignments godoc
// @Summary List own assignments
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/assignments [get]
func (h *TeacherHandler) ListAssignments(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	assignments, err := h.assignments.ListForTeacher(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// SaveAssignment godoc
// @Summary Create or update an assignment
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body service.SaveAssignmentRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/assignments [post]
func (h *TeacherHandler) SaveAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SaveAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	assignment, err := h.assignments.Save(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.ID == "" {
		response.Created(c, assignment)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// DeleteAssignment godoc
// @Summary Delete an assignment
// @Tags Teacher
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/assignments/{id} [delete]
func (h *TeacherHandler) DeleteAssignment(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.assignments.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AssignmentSubmissions godoc
// @Summary List submissions for an assignment
// @Tags Teacher
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/assignments/{id}/submissions [get]
func (h *TeacherHandler) AssignmentSubmissions(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	submissions, err := h.assignments.Submissions(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, nil)
}

// ListAnnouncements godoc
// @Summary List own announcements
// @Tags Teacher
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/announcements [get]
func (h *TeacherHandler) ListAnnouncements(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	announcements, err := h.announcements.ListForAuthor(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcements, nil)
}

// SaveAnnouncement godoc
// @Summary Create or update an announcement
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body service.SaveAnnouncementRequest true "Announcement payload"
// @Success 200 {object} response.Envelope
// @Router /teacher/announcements [post]
func (h *TeacherHandler) SaveAnnouncement(c *gin.Context) {
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
// @Tags Teacher
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 204 {object} response.Envelope
// @Router /teacher/announcements/{id} [delete]
func (h *TeacherHandler) DeleteAnnouncement(c *gin.Context) {
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

// AttendanceRegister godoc
// @Summary Get the register for a class and date
// @Tags Teacher
// @Produce json
// @Param id path string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/classes/{id}/attendance [get]
func (h *TeacherHandler) AttendanceRegister(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.attendance.Register(c.Request.Context(), claims, c.Param("id"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// RecordAttendance godoc
// @Summary Replace the register for a class and date
// @Description Atomically swaps the day's marks for the class
// @Tags Teacher
// @Accept json
// @Produce json
// @Param payload body service.RecordAttendanceRequest true "Attendance payload"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/attendance [post]
func (h *TeacherHandler) RecordAttendance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}
	if err := h.attendance.Record(c.Request.Context(), claims, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportAttendance godoc
// @Summary Export the register for a class
// @Tags Teacher
// @Produce text/csv
// @Param id path string true "Class ID"
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /teacher/classes/{id}/attendance/export [get]
func (h *TeacherHandler) ExportAttendance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be formatted YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be formatted YYYY-MM-DD"))
		return
	}

	result, err := h.attendance.Export(c.Request.Context(), claims, service.ExportOptions{
		ClassID: c.Param("id"),
		From:    from,
		To:      to,
		Format:  c.DefaultQuery("format", "csv"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
