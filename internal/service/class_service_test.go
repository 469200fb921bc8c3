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

type mockClassRepo struct {
	classes map[string]*models.Class
	created *models.Class
	updated *models.Class
	deleted string
}

func newMockClassRepo(classes ...*models.Class) *mockClassRepo {
	repo := &mockClassRepo{classes: make(map[string]*models.Class)}
	for _, class := range classes {
		repo.classes[class.ID] = class
	}
	return repo
}

func (m *mockClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	class, ok := m.classes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *class
	return &copy, nil
}

func (m *mockClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	var result []models.Class
	for _, class := range m.classes {
		if class.CollegeCode != filter.CollegeCode {
			continue
		}
		if filter.TeacherID != "" && !classOwnedBy(class, filter.TeacherID) {
			continue
		}
		result = append(result, *class)
	}
	return result, len(result), nil
}

func (m *mockClassRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Class, error) {
	return nil, nil
}

func (m *mockClassRepo) TodayByTeacher(ctx context.Context, collegeCode, teacherUserID string, weekday time.Weekday) ([]models.Class, error) {
	return nil, nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	class.ID = "class-new"
	m.created = class
	m.classes[class.ID] = class
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) error {
	m.updated = class
	m.classes[class.ID] = class
	return nil
}

func (m *mockClassRepo) Delete(ctx context.Context, id string) error {
	m.deleted = id
	delete(m.classes, id)
	return nil
}

type mockRosterRepo struct {
	students []models.Student
}

func (m *mockRosterRepo) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return m.students, nil
}

func ownedClass(id, college, teacherID string) *models.Class {
	return &models.Class{ID: id, CollegeCode: college, CourseName: "Databases", ClassTeacherID: &teacherID}
}

func teacherClaims(college, userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleTeacher, CollegeCode: college}
}

func newClassService(repo *mockClassRepo) *ClassService {
	return NewClassService(repo, &mockRosterRepo{}, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop())
}

func TestClassServiceGetCrossTenantReadsAsNotFound(t *testing.T) {
	repo := newMockClassRepo(ownedClass("class-1", "CLG002", "teacher-9"))
	svc := newClassService(repo)

	_, err := svc.Get(context.Background(), teacherClaims("CLG001", "teacher-1"), "class-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestClassServiceGetNonOwnerTeacherForbidden(t *testing.T) {
	repo := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-9"))
	svc := newClassService(repo)

	_, err := svc.Get(context.Background(), teacherClaims("CLG001", "teacher-1"), "class-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestClassServiceAdminReadsAnyTenantClass(t *testing.T) {
	repo := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-9"))
	svc := newClassService(repo)

	class, err := svc.Get(context.Background(), &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, CollegeCode: "CLG001"}, "class-1")
	require.NoError(t, err)
	assert.Equal(t, "class-1", class.ID)
}

func TestClassServiceSaveCreateTakesTenantFromClaims(t *testing.T) {
	repo := newMockClassRepo()
	svc := newClassService(repo)

	class, err := svc.Save(context.Background(), teacherClaims("CLG001", "teacher-1"), SaveClassRequest{CourseName: "Algorithms"})
	require.NoError(t, err)
	assert.Equal(t, "CLG001", class.CollegeCode)
	require.NotNil(t, class.ClassTeacherID)
	assert.Equal(t, "teacher-1", *class.ClassTeacherID)
}

func TestClassServiceSaveUpdateNonOwnerForbidden(t *testing.T) {
	repo := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-9"))
	svc := newClassService(repo)

	_, err := svc.Save(context.Background(), teacherClaims("CLG001", "teacher-1"), SaveClassRequest{ID: "class-1", CourseName: "Algorithms"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Nil(t, repo.updated)
}

func TestClassServiceDeleteOwner(t *testing.T) {
	repo := newMockClassRepo(ownedClass("class-1", "CLG001", "teacher-1"))
	activityRepo := &recordingActivityRepo{}
	svc := NewClassService(repo, &mockRosterRepo{}, newTestActivityService(activityRepo), validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), teacherClaims("CLG001", "teacher-1"), "class-1")
	require.NoError(t, err)
	assert.Equal(t, "class-1", repo.deleted)
	require.Len(t, activityRepo.activities, 1)
	assert.Equal(t, models.ActivityActionDeleteClass, activityRepo.activities[0].Action)
}

func TestClassServiceListForTeacherScopesToOwner(t *testing.T) {
	repo := newMockClassRepo(
		ownedClass("class-1", "CLG001", "teacher-1"),
		ownedClass("class-2", "CLG001", "teacher-9"),
	)
	svc := newClassService(repo)

	classes, err := svc.ListForTeacher(context.Background(), teacherClaims("CLG001", "teacher-1"))
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "class-1", classes[0].ID)
}

func TestClassServiceListForCollegeRequiresTenant(t *testing.T) {
	svc := newClassService(newMockClassRepo())

	_, _, err := svc.ListForCollege(context.Background(), &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}, models.ClassFilter{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
