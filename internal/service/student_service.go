package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdesk/campusdesk-api/internal/models"
	"github.com/campusdesk/campusdesk-api/internal/repository"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Create(ctx context.Context, student *models.Student) error
	CreateWithAccount(ctx context.Context, student *models.Student, account *models.User) error
}

type studentClassLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Class, error)
}

// AddStudentRequest is the admin payload for enrolling a student. When
// Password is set a login account is provisioned alongside the record.
type AddStudentRequest struct {
	FullName        string     `json:"full_name" validate:"required"`
	Email           string     `json:"email" validate:"omitempty,email"`
	Password        string     `json:"password" validate:"omitempty,min=8"`
	MobileNumber    string     `json:"mobile_number"`
	ClassID         string     `json:"class_id"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Gender          string     `json:"gender"`
	Course          string     `json:"course"`
	Department      string     `json:"department"`
	CurrentSemester *int       `json:"current_semester"`
	EnrollmentNo    string     `json:"enrollment_number"`
	GuardianName    string     `json:"guardian_name"`
	GuardianContact string     `json:"guardian_contact"`
}

// StudentService coordinates student records and their login accounts.
type StudentService struct {
	students  studentRepository
	classes   studentClassLister
	activity  *ActivityService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(students studentRepository, classes studentClassLister, activity *ActivityService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, classes: classes, activity: activity, validator: validate, logger: logger}
}

// Add enrolls a student into the caller's college. The tenant code comes
// from the verified token, never from the payload.
func (s *StudentService) Add(ctx context.Context, claims *models.JWTClaims, req AddStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if req.Password != "" && req.Email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required when provisioning a login account")
	}

	student := &models.Student{
		CollegeCode:     claims.CollegeCode,
		FullName:        req.FullName,
		Email:           req.Email,
		MobileNumber:    req.MobileNumber,
		DateOfBirth:     req.DateOfBirth,
		Gender:          req.Gender,
		Course:          req.Course,
		Department:      req.Department,
		CurrentSemester: req.CurrentSemester,
		EnrollmentNo:    req.EnrollmentNo,
		GuardianName:    req.GuardianName,
		GuardianContact: req.GuardianContact,
	}
	if req.ClassID != "" {
		student.ClassID = &req.ClassID
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		account := &models.User{
			CollegeCode:  claims.CollegeCode,
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: string(hash),
			MobileNumber: req.MobileNumber,
			Role:         models.RoleStudent,
		}
		// Record and account land in one transaction so a failed
		// profile insert never leaves a working login behind.
		if err := s.students.CreateWithAccount(ctx, student, account); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "email or enrollment number already registered")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to enroll student")
		}
	} else if err := s.students.Create(ctx, student); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "enrollment number already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create student")
	}

	s.activity.Record(ctx, models.Activity{
		CollegeCode:   claims.CollegeCode,
		UserID:        claims.UserID,
		UserRole:      claims.Role,
		Action:        models.ActivityActionCreateStudent,
		Details:       "student enrolled: " + student.FullName,
		ReferenceID:   &student.ID,
		ReferenceType: "student",
	})
	return student, nil
}

// List returns the caller's tenant students with pagination.
func (s *StudentService) List(ctx context.Context, claims *models.JWTClaims, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if claims.CollegeCode == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "college code is required")
	}
	filter.CollegeCode = claims.CollegeCode
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list students")
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns one student in the caller's tenant. Records in other
// tenants are reported as missing.
func (s *StudentService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student")
	}
	if student.CollegeCode != claims.CollegeCode {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

// Self resolves the caller's own student profile, preferring the
// student_id token claim and falling back to the account link.
func (s *StudentService) Self(ctx context.Context, claims *models.JWTClaims) (*models.Student, error) {
	if claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "caller is not a student")
	}
	if claims.StudentID != "" {
		return s.Get(ctx, claims, claims.StudentID)
	}
	student, err := s.students.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student profile")
	}
	if student.CollegeCode != claims.CollegeCode {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
	}
	return student, nil
}

// ClassesForSelf returns the classes the calling student is part of.
func (s *StudentService) ClassesForSelf(ctx context.Context, claims *models.JWTClaims) ([]models.Class, error) {
	student, err := s.Self(ctx, claims)
	if err != nil {
		return nil, err
	}
	classes, err := s.classes.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list classes")
	}
	return classes, nil
}
