package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.entries = make(map[string][]byte)
	return nil
}

type mockDashboardCounters struct {
	teachers      int
	staff         int
	students      int
	classes       int
	announcements int
	assignments   int
	present       int
	student       *models.Student
}

func (m *mockDashboardCounters) CountTeachers(ctx context.Context, collegeCode string) (int, error) {
	return m.teachers, nil
}

func (m *mockDashboardCounters) CountStaff(ctx context.Context, collegeCode string) (int, error) {
	return m.staff, nil
}

func (m *mockDashboardCounters) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return m.student, nil
}

func (m *mockDashboardCounters) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	return m.student, nil
}

func (m *mockDashboardCounters) CountByCollege(ctx context.Context, collegeCode string) (int, error) {
	return m.students, nil
}

func (m *mockDashboardCounters) CountByTeacher(ctx context.Context, collegeCode, teacherUserID string) (int, error) {
	return m.students, nil
}

func (m *mockDashboardCounters) TodayByTeacher(ctx context.Context, collegeCode, teacherUserID string, weekday time.Weekday) ([]models.Class, error) {
	return nil, nil
}

func (m *mockDashboardCounters) CountByAuthor(ctx context.Context, userID string) (int, error) {
	return m.assignments, nil
}

func (m *mockDashboardCounters) CountByStudent(ctx context.Context, studentID string) (int, error) {
	return m.assignments, nil
}

func (m *mockDashboardCounters) CountPresent(ctx context.Context, studentID string) (int, error) {
	return m.present, nil
}

type dashboardClassMock struct {
	classes int
}

func (m *dashboardClassMock) CountByCollege(ctx context.Context, collegeCode string) (int, error) {
	return m.classes, nil
}

func (m *dashboardClassMock) CountByTeacher(ctx context.Context, collegeCode, teacherUserID string) (int, error) {
	return m.classes, nil
}

func (m *dashboardClassMock) TodayByTeacher(ctx context.Context, collegeCode, teacherUserID string, weekday time.Weekday) ([]models.Class, error) {
	return nil, nil
}

type dashboardAnnouncementMock struct {
	announcements int
}

func (m *dashboardAnnouncementMock) CountByAuthor(ctx context.Context, userID string) (int, error) {
	return m.announcements, nil
}

func (m *dashboardAnnouncementMock) CountByCollege(ctx context.Context, collegeCode string) (int, error) {
	return m.announcements, nil
}

func newDashboardFixture(counters *mockDashboardCounters, cacheRepo *memoryCacheRepo) *DashboardService {
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), cacheRepo != nil)
	return NewDashboardService(
		counters,
		counters,
		&dashboardClassMock{classes: counters.classes},
		counters,
		&dashboardAnnouncementMock{announcements: counters.announcements},
		counters,
		newTestActivityService(&recordingActivityRepo{}),
		cache,
		NewMetricsService(),
		zap.NewNop(),
		time.Minute,
		10,
	)
}

func TestDashboardAdminAggregatesTenantCounts(t *testing.T) {
	counters := &mockDashboardCounters{teachers: 4, staff: 2, students: 120, classes: 9, announcements: 3}
	svc := newDashboardFixture(counters, nil)

	resp, err := svc.Admin(context.Background(), &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, CollegeCode: "CLG001"})
	require.NoError(t, err)
	assert.Equal(t, "CLG001", resp.CollegeCode)
	assert.Equal(t, 4, resp.Counts.Teachers)
	assert.Equal(t, 2, resp.Counts.Staff)
	assert.Equal(t, 120, resp.Counts.Students)
	assert.Equal(t, 9, resp.Counts.Classes)
	assert.Equal(t, 3, resp.Counts.Announcements)
}

func TestDashboardRejectsMissingTenant(t *testing.T) {
	svc := newDashboardFixture(&mockDashboardCounters{}, nil)

	claims := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	for _, call := range []func() error{
		func() error { _, err := svc.Admin(context.Background(), claims); return err },
		func() error { _, err := svc.Teacher(context.Background(), claims); return err },
		func() error { _, err := svc.Student(context.Background(), claims); return err },
	} {
		err := call()
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	}
}

func TestDashboardAdminServesSecondReadFromCache(t *testing.T) {
	counters := &mockDashboardCounters{teachers: 4}
	cacheRepo := newMemoryCacheRepo()
	svc := newDashboardFixture(counters, cacheRepo)

	claims := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin, CollegeCode: "CLG001"}
	first, err := svc.Admin(context.Background(), claims)
	require.NoError(t, err)
	require.Equal(t, 1, cacheRepo.sets)

	counters.teachers = 99
	second, err := svc.Admin(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, first.Counts.Teachers, second.Counts.Teachers)
	assert.Equal(t, 1, cacheRepo.sets)
}

func TestDashboardStudentCrossTenantProfileNotFound(t *testing.T) {
	counters := &mockDashboardCounters{student: &models.Student{ID: "student-1", CollegeCode: "CLG002"}}
	svc := newDashboardFixture(counters, nil)

	_, err := svc.Student(context.Background(), &models.JWTClaims{
		UserID:      "user-1",
		Role:        models.RoleStudent,
		CollegeCode: "CLG001",
		StudentID:   "student-1",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDashboardStudentCountsAttendance(t *testing.T) {
	counters := &mockDashboardCounters{
		assignments: 7,
		present:     15,
		student:     &models.Student{ID: "student-1", CollegeCode: "CLG001"},
	}
	svc := newDashboardFixture(counters, nil)

	resp, err := svc.Student(context.Background(), &models.JWTClaims{
		UserID:      "user-1",
		Role:        models.RoleStudent,
		CollegeCode: "CLG001",
		StudentID:   "student-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "student-1", resp.StudentID)
	assert.Equal(t, 7, resp.TotalAssignments)
	assert.Equal(t, 15, resp.DaysPresent)
}

func TestDashboardAdminRecordsBuildTiming(t *testing.T) {
	counters := &mockDashboardCounters{teachers: 1, students: 10}
	metrics := NewMetricsService()
	svc := NewDashboardService(
		counters,
		counters,
		&dashboardClassMock{classes: 2},
		counters,
		&dashboardAnnouncementMock{},
		counters,
		newTestActivityService(&recordingActivityRepo{}),
		NewCacheService(nil, nil, time.Minute, zap.NewNop(), false),
		metrics,
		zap.NewNop(),
		time.Minute,
		10,
	)

	_, err := svc.Admin(context.Background(), adminClaims("CLG001"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `db_query_duration_seconds_count{query="dashboard_admin"} 1`)
}
