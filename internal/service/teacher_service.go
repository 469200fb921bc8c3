package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type teacherDirectoryRepository interface {
	ListTeachers(ctx context.Context, collegeCode string) ([]models.TeacherProfile, error)
	ListStaff(ctx context.Context, collegeCode string) ([]models.StaffProfile, error)
}

// TeacherService serves the admin directory of teaching and non-teaching
// staff.
type TeacherService struct {
	repo   teacherDirectoryRepository
	logger *zap.Logger
}

// NewTeacherService constructs the service.
func NewTeacherService(repo teacherDirectoryRepository, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, logger: logger}
}

// ListTeachers returns the tenant's teachers.
func (s *TeacherService) ListTeachers(ctx context.Context, claims *models.JWTClaims) ([]models.TeacherProfile, error) {
	if claims.CollegeCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "college code is required")
	}
	teachers, err := s.repo.ListTeachers(ctx, claims.CollegeCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list teachers")
	}
	return teachers, nil
}

// ListStaff returns the tenant's non-teaching staff.
func (s *TeacherService) ListStaff(ctx context.Context, claims *models.JWTClaims) ([]models.StaffProfile, error) {
	if claims.CollegeCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "college code is required")
	}
	staff, err := s.repo.ListStaff(ctx, claims.CollegeCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list staff")
	}
	return staff, nil
}
