package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk-api/internal/service"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
	"github.com/campusdesk/campusdesk-api/pkg/response"
)

// RegisterHandler exposes public tenant onboarding.
type RegisterHandler struct {
	service *service.RegistrationService
}

// NewRegisterHandler creates a new handler.
func NewRegisterHandler(svc *service.RegistrationService) *RegisterHandler {
	return &RegisterHandler{service: svc}
}

// Register godoc
// @Summary Register a college
// @Description Create a new college tenant together with its admin account
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body service.RegisterCollegeRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register [post]
func (h *RegisterHandler) Register(c *gin.Context) {
	var req service.RegisterCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	res, err := h.service.RegisterCollege(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}
