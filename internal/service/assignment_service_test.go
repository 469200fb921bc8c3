package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type mockAssignmentRepo struct {
	assignments map[string]*models.Assignment
	created     *models.Assignment
	updated     *models.Assignment
	deleted     string
	submitted   *models.StudentSubmission
}

func newMockAssignmentRepo(assignments ...*models.Assignment) *mockAssignmentRepo {
	repo := &mockAssignmentRepo{assignments: make(map[string]*models.Assignment)}
	for _, a := range assignments {
		repo.assignments[a.ID] = a
	}
	return repo
}

func (m *mockAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *assignment
	return &copy, nil
}

func (m *mockAssignmentRepo) ListByAuthor(ctx context.Context, userID string) ([]models.Assignment, error) {
	var result []models.Assignment
	for _, a := range m.assignments {
		if a.CreatedBy == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	var result []models.Assignment
	for _, a := range m.assignments {
		if a.ClassID == classID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Assignment, error) {
	var result []models.Assignment
	for _, a := range m.assignments {
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = "assignment-new"
	m.created = assignment
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	m.updated = assignment
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, id string) error {
	m.deleted = id
	delete(m.assignments, id)
	return nil
}

func (m *mockAssignmentRepo) UpsertSubmission(ctx context.Context, sub *models.StudentSubmission) error {
	m.submitted = sub
	return nil
}

func (m *mockAssignmentRepo) ListSubmissions(ctx context.Context, assignmentID string) ([]models.StudentSubmission, error) {
	if m.submitted == nil || m.submitted.AssignmentID != assignmentID {
		return nil, nil
	}
	return []models.StudentSubmission{*m.submitted}, nil
}

// mockEnrollment answers enrollment checks from an explicit pair set, so
// both the junction and the direct-link path can be exercised without a
// database.
type mockEnrollment struct {
	pairs map[string]bool
}

func (m *mockEnrollment) IsEnrolled(ctx context.Context, studentID, classID string) (bool, error) {
	return m.pairs[studentID+"/"+classID], nil
}

func dueAssignment(id, classID, author string) *models.Assignment {
	return &models.Assignment{ID: id, ClassID: classID, Title: "Normal forms", DueDate: time.Now().Add(48 * time.Hour), CreatedBy: author}
}

func newAssignmentService(repo *mockAssignmentRepo, classes *mockClassRepo, enrollment *mockEnrollment) *AssignmentService {
	if enrollment == nil {
		enrollment = &mockEnrollment{pairs: map[string]bool{}}
	}
	return NewAssignmentService(repo, classes, enrollment, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop())
}

func TestAssignmentServiceSaveRejectsForeignClass(t *testing.T) {
	classes := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-9"))
	repo := newMockAssignmentRepo()
	svc := newAssignmentService(repo, classes, nil)

	_, err := svc.Save(context.Background(), teacherClaims("CLG001", "teacher-1"), SaveAssignmentRequest{
		ClassID: "class-1",
		Title:   "Normal forms",
		DueDate: time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestAssignmentServiceSaveCreatesForOwnClass(t *testing.T) {
	classes := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-1"))
	repo := newMockAssignmentRepo()
	svc := newAssignmentService(repo, classes, nil)

	assignment, err := svc.Save(context.Background(), teacherClaims("CLG001", "teacher-1"), SaveAssignmentRequest{
		ClassID: "class-1",
		Title:   "Normal forms",
		DueDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "assignment-new", assignment.ID)
	assert.Equal(t, "teacher-1", assignment.CreatedBy)
}

func TestAssignmentServiceSubmitAllowsJunctionEnrolledStudent(t *testing.T) {
	classes := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-1"))
	repo := newMockAssignmentRepo(dueAssignment("assignment-1", "class-1", "teacher-1"))
	enrollment := &mockEnrollment{pairs: map[string]bool{"student-1/class-1": true}}
	svc := newAssignmentService(repo, classes, enrollment)

	// No direct class link on the profile; membership comes from the
	// junction table only.
	student := &models.Student{ID: "student-1", CollegeCode: "CLG001", FullName: "Ravi Kumar"}
	claims := &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent, CollegeCode: "CLG001"}

	err := svc.Submit(context.Background(), claims, student, "assignment-1", "my answer")
	require.NoError(t, err)
	require.NotNil(t, repo.submitted)
	assert.Equal(t, "student-1", repo.submitted.StudentID)
	assert.Equal(t, "my answer", repo.submitted.Submission)
}

func TestAssignmentServiceSubmitRejectsUnenrolledStudent(t *testing.T) {
	classes := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-1"))
	repo := newMockAssignmentRepo(dueAssignment("assignment-1", "class-1", "teacher-1"))
	svc := newAssignmentService(repo, classes, nil)

	otherClass := "class-2"
	student := &models.Student{ID: "student-2", CollegeCode: "CLG001", FullName: "Anita Rao", ClassID: &otherClass}
	claims := &models.JWTClaims{UserID: "user-2", Role: models.RoleStudent, CollegeCode: "CLG001"}

	err := svc.Submit(context.Background(), claims, student, "assignment-1", "late answer")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.submitted)
}

func TestAssignmentServiceDeleteRequiresAuthor(t *testing.T) {
	classes := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-1"))
	repo := newMockAssignmentRepo(dueAssignment("assignment-1", "class-1", "teacher-1"))
	svc := newAssignmentService(repo, classes, nil)

	err := svc.Delete(context.Background(), teacherClaims("CLG001", "teacher-2"), "assignment-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), teacherClaims("CLG001", "teacher-1"), "assignment-1"))
	assert.Equal(t, "assignment-1", repo.deleted)
}
