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

type assignmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByAuthor(ctx context.Context, userID string) ([]models.Assignment, error)
	ListByClass(ctx context.Context, classID string) ([]models.Assignment, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
	UpsertSubmission(ctx context.Context, sub *models.StudentSubmission) error
	ListSubmissions(ctx context.Context, assignmentID string) ([]models.StudentSubmission, error)
}

type assignmentClassLookup interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type assignmentEnrollmentChecker interface {
	IsEnrolled(ctx context.Context, studentID, classID string) (bool, error)
}

// SaveAssignmentRequest carries create-or-update payload; an empty ID
// means create.
type SaveAssignmentRequest struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id" validate:"required"`
	Subject     string    `json:"subject"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// AssignmentService coordinates assignment operations. Every mutation
// re-checks ownership server-side; the author is always taken from the
// verified token.
type AssignmentService struct {
	repo       assignmentRepository
	classes    assignmentClassLookup
	enrollment assignmentEnrollmentChecker
	activity   *ActivityService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(repo assignmentRepository, classes assignmentClassLookup, enrollment assignmentEnrollmentChecker, activity *ActivityService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, classes: classes, enrollment: enrollment, activity: activity, validator: validate, logger: logger}
}

// ListForTeacher returns the caller's own assignments.
func (s *AssignmentService) ListForTeacher(ctx context.Context, claims *models.JWTClaims) ([]models.Assignment, error) {
	assignments, err := s.repo.ListByAuthor(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list assignments")
	}
	return assignments, nil
}

// ListForStudent returns the assignments attached to the student's
// class. The caller must already have been resolved to a tenant-local
// student profile.
func (s *AssignmentService) ListForStudent(ctx context.Context, claims *models.JWTClaims, student *models.Student) ([]models.Assignment, error) {
	if student == nil || student.CollegeCode != claims.CollegeCode {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
	}
	assignments, err := s.repo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Save creates or updates an assignment. The target class must exist,
// belong to the caller's tenant and be taught by the caller.
func (s *AssignmentService) Save(ctx context.Context, claims *models.JWTClaims, req SaveAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	class, err := s.classes.FindByID(ctx, req.ClassID)
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

	if req.ID == "" {
		assignment := &models.Assignment{
			ClassID:     req.ClassID,
			Subject:     req.Subject,
			Title:       req.Title,
			Description: req.Description,
			DueDate:     req.DueDate,
			CreatedBy:   claims.UserID,
		}
		if err := s.repo.Create(ctx, assignment); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create assignment")
		}
		s.recordAssignmentActivity(ctx, claims, models.ActivityActionSaveAssignment, "assignment created: "+assignment.Title, assignment.ID)
		return assignment, nil
	}

	assignment, err := s.authorizeWrite(ctx, claims, req.ID)
	if err != nil {
		return nil, err
	}
	assignment.Subject = req.Subject
	assignment.Title = req.Title
	assignment.Description = req.Description
	assignment.DueDate = req.DueDate
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update assignment")
	}
	s.recordAssignmentActivity(ctx, claims, models.ActivityActionSaveAssignment, "assignment updated: "+assignment.Title, assignment.ID)
	return assignment, nil
}

// Delete removes an assignment the caller authored.
func (s *AssignmentService) Delete(ctx context.Context, claims *models.JWTClaims, assignmentID string) error {
	assignment, err := s.authorizeWrite(ctx, claims, assignmentID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, assignmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete assignment")
	}
	s.recordAssignmentActivity(ctx, claims, models.ActivityActionDeleteAssignment, "assignment deleted: "+assignment.Title, assignment.ID)
	return nil
}

// Submissions lists the submitted responses for an assignment the
// caller authored.
func (s *AssignmentService) Submissions(ctx context.Context, claims *models.JWTClaims, assignmentID string) ([]models.StudentSubmission, error) {
	if _, err := s.authorizeWrite(ctx, claims, assignmentID); err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubmissions(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list submissions")
	}
	return subs, nil
}

// Submit records a student's response. The student may only submit for
// an assignment of their own enrolled class.
func (s *AssignmentService) Submit(ctx context.Context, claims *models.JWTClaims, student *models.Student, assignmentID, submission string) error {
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load assignment")
	}
	enrolled, err := s.enrollment.IsEnrolled(ctx, student.ID, assignment.ClassID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check enrollment")
	}
	if !enrolled {
		return appErrors.Clone(appErrors.ErrForbidden, "assignment is not for your class")
	}
	now := time.Now().UTC()
	sub := &models.StudentSubmission{
		AssignmentID: assignmentID,
		StudentID:    student.ID,
		Submission:   submission,
		SubmittedAt:  &now,
	}
	if err := s.repo.UpsertSubmission(ctx, sub); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to store submission")
	}
	return nil
}

// authorizeWrite loads the assignment and verifies the caller authored
// it (admins may manage any assignment in their tenant via the class
// tenant check).
func (s *AssignmentService) authorizeWrite(ctx context.Context, claims *models.JWTClaims, assignmentID string) (*models.Assignment, error) {
	if assignmentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignment id is required")
	}
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load assignment")
	}

	class, err := s.classes.FindByID(ctx, assignment.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load class")
	}
	if class.CollegeCode != claims.CollegeCode {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	if claims.Role != models.RoleAdmin && assignment.CreatedBy != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment does not belong to you")
	}
	return assignment, nil
}

func (s *AssignmentService) recordAssignmentActivity(ctx context.Context, claims *models.JWTClaims, action, details, assignmentID string) {
	s.activity.Record(ctx, models.Activity{
		CollegeCode:   claims.CollegeCode,
		UserID:        claims.UserID,
		UserRole:      claims.Role,
		Action:        action,
		Details:       details,
		ReferenceID:   &assignmentID,
		ReferenceType: "assignment",
	})
}
