package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type classRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Class, error)
	TodayByTeacher(ctx context.Context, collegeCode, teacherUserID string, weekday time.Weekday) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) error
}

type classRosterRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
}

// SaveClassRequest carries create-or-update payload for a class. An
// empty ID means create.
type SaveClassRequest struct {
	ID           string `json:"id"`
	CourseName   string `json:"course_name" validate:"required"`
	Department   string `json:"department"`
	Semester     *int   `json:"semester"`
	Section      string `json:"section"`
	RoomNumber   string `json:"room_number"`
	ScheduleDay  *int   `json:"schedule_day" validate:"omitempty,min=0,max=6"`
	ScheduleTime string `json:"schedule_time"`
}

// ClassService coordinates class operations with tenant and ownership
// scoping.
type ClassService struct {
	repo      classRepository
	roster    classRosterRepository
	activity  *ActivityService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(repo classRepository, roster classRosterRepository, activity *ActivityService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, roster: roster, activity: activity, validator: validate, logger: logger}
}

// ListForCollege returns every class in the caller's tenant.
func (s *ClassService) ListForCollege(ctx context.Context, claims *models.JWTClaims, filter models.ClassFilter) ([]models.Class, *models.Pagination, error) {
	if claims.CollegeCode == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "college code is required")
	}
	filter.CollegeCode = claims.CollegeCode
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list classes")
	}
	return classes, paginationFor(filter.Page, filter.PageSize, total), nil
}

// ListForTeacher returns the classes where the caller is the assigned
// teacher.
func (s *ClassService) ListForTeacher(ctx context.Context, claims *models.JWTClaims) ([]models.Class, error) {
	if claims.CollegeCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "college code is required")
	}
	classes, _, err := s.repo.List(ctx, models.ClassFilter{
		CollegeCode: claims.CollegeCode,
		TeacherID:   claims.UserID,
		PageSize:    200,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns one class after verifying the caller may see it: same
// tenant always required, and teachers must own the class.
func (s *ClassService) Get(ctx context.Context, claims *models.JWTClaims, classID string) (*models.Class, error) {
	class, err := s.authorizeRead(ctx, claims, classID)
	if err != nil {
		return nil, err
	}
	return class, nil
}

// Roster returns the students enrolled in a class the caller may see.
func (s *ClassService) Roster(ctx context.Context, claims *models.JWTClaims, classID string) ([]models.Student, error) {
	if _, err := s.authorizeRead(ctx, claims, classID); err != nil {
		return nil, err
	}
	students, err := s.roster.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load roster")
	}
	return students, nil
}

// Save creates or updates a class. The tenant code and owning teacher
// come from the verified token, never from the payload.
func (s *ClassService) Save(ctx context.Context, claims *models.JWTClaims, req SaveClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	if req.ID == "" {
		teacherID := claims.UserID
		class := &models.Class{
			CollegeCode:    claims.CollegeCode,
			CourseName:     req.CourseName,
			Department:     req.Department,
			Semester:       req.Semester,
			Section:        req.Section,
			RoomNumber:     req.RoomNumber,
			ClassTeacherID: &teacherID,
			ScheduleDay:    req.ScheduleDay,
			ScheduleTime:   req.ScheduleTime,
		}
		if err := s.repo.Create(ctx, class); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create class")
		}
		s.recordClassActivity(ctx, claims, models.ActivityActionSaveClass, "class created: "+class.CourseName, class.ID)
		return class, nil
	}

	class, err := s.authorizeWrite(ctx, claims, req.ID)
	if err != nil {
		return nil, err
	}
	class.CourseName = req.CourseName
	class.Department = req.Department
	class.Semester = req.Semester
	class.Section = req.Section
	class.RoomNumber = req.RoomNumber
	class.ScheduleDay = req.ScheduleDay
	class.ScheduleTime = req.ScheduleTime
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update class")
	}
	s.recordClassActivity(ctx, claims, models.ActivityActionSaveClass, "class updated: "+class.CourseName, class.ID)
	return class, nil
}

// Delete removes a class the caller owns.
func (s *ClassService) Delete(ctx context.Context, claims *models.JWTClaims, classID string) error {
	class, err := s.authorizeWrite(ctx, claims, classID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, classID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete class")
	}
	s.recordClassActivity(ctx, claims, models.ActivityActionDeleteClass, "class deleted: "+class.CourseName, class.ID)
	return nil
}

// authorizeRead loads the class and checks tenant plus, for teachers,
// ownership. A cross-tenant ID reads as NotFound so nothing about the
// other tenant leaks.
func (s *ClassService) authorizeRead(ctx context.Context, claims *models.JWTClaims, classID string) (*models.Class, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}
	class, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load class")
	}
	if class.CollegeCode != claims.CollegeCode {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	if claims.Role == models.RoleTeacher && !classOwnedBy(class, claims.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class is not assigned to you")
	}
	return class, nil
}

// authorizeWrite is authorizeRead plus the mutation predicate: only the
// assigned teacher or a tenant admin may mutate.
func (s *ClassService) authorizeWrite(ctx context.Context, claims *models.JWTClaims, classID string) (*models.Class, error) {
	class, err := s.authorizeRead(ctx, claims, classID)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && !classOwnedBy(class, claims.UserID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class is not assigned to you")
	}
	return class, nil
}

func (s *ClassService) recordClassActivity(ctx context.Context, claims *models.JWTClaims, action, details, classID string) {
	s.activity.Record(ctx, models.Activity{
		CollegeCode:   claims.CollegeCode,
		UserID:        claims.UserID,
		UserRole:      claims.Role,
		Action:        action,
		Details:       details,
		ReferenceID:   &classID,
		ReferenceType: "class",
	})
}

func classOwnedBy(class *models.Class, userID string) bool {
	return class.ClassTeacherID != nil && *class.ClassTeacherID == userID
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
