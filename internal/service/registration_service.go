package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdesk/campusdesk-api/internal/models"
	"github.com/campusdesk/campusdesk-api/internal/repository"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type collegeRegistrar interface {
	CreateWithAdmin(ctx context.Context, college *models.College, admin *models.User) error
}

// RegisterCollegeRequest carries the tenant bootstrap payload: the
// college itself plus its principal, who becomes the first admin user.
type RegisterCollegeRequest struct {
	InstitutionCode  string `json:"institution_code" validate:"required"`
	CollegeName      string `json:"college_name" validate:"required"`
	CollegeEmail     string `json:"college_email" validate:"required,email"`
	CollegeContact   string `json:"college_contact" validate:"required"`
	PrincipalName    string `json:"principal_name" validate:"required"`
	PrincipalEmail   string `json:"principal_email" validate:"required,email"`
	PrincipalContact string `json:"principal_contact" validate:"required"`
	Password         string `json:"password" validate:"required,min=6"`
	Area             string `json:"area" validate:"required"`
	City             string `json:"city" validate:"required"`
	State            string `json:"state" validate:"required"`
	Pincode          string `json:"pincode" validate:"required"`
}

// RegisterCollegeResponse confirms the created tenant.
type RegisterCollegeResponse struct {
	Message   string `json:"message"`
	CollegeID string `json:"college_id"`
}

// RegistrationService bootstraps new tenants.
type RegistrationService struct {
	colleges  collegeRegistrar
	activity  *ActivityService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(colleges collegeRegistrar, activity *ActivityService, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{colleges: colleges, activity: activity, validator: validate, logger: logger}
}

// RegisterCollege creates the college and its bootstrap admin in one
// transaction. A duplicate institution code surfaces as Conflict.
func (s *RegistrationService) RegisterCollege(ctx context.Context, req RegisterCollegeRequest) (*RegisterCollegeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all required fields must be provided")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	college := &models.College{
		Name:         req.CollegeName,
		Code:         req.InstitutionCode,
		Address:      req.Area,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		ContactEmail: req.CollegeEmail,
		ContactPhone: req.CollegeContact,
	}
	admin := &models.User{
		FullName:     req.PrincipalName,
		Email:        req.PrincipalEmail,
		PasswordHash: string(hash),
		MobileNumber: req.PrincipalContact,
		Role:         models.RoleAdmin,
	}

	if err := s.colleges.CreateWithAdmin(ctx, college, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "college code already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to register college")
	}

	s.activity.Record(ctx, models.Activity{
		CollegeCode: college.Code,
		UserID:      admin.ID,
		UserRole:    models.RoleAdmin,
		Action:      models.ActivityActionRegisterCollege,
		Details:     "college registered: " + college.Name,
		ReferenceID: &college.ID,
	})

	return &RegisterCollegeResponse{
		Message:   "college and admin user registered successfully",
		CollegeID: college.ID,
	}, nil
}
