package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusdesk/campusdesk-api/internal/dto"
	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type dashboardTeacherCounter interface {
	CountTeachers(ctx context.Context, collegeCode string) (int, error)
	CountStaff(ctx context.Context, collegeCode string) (int, error)
}

type dashboardStudentCounter interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	CountByCollege(ctx context.Context, collegeCode string) (int, error)
	CountByTeacher(ctx context.Context, collegeCode, teacherUserID string) (int, error)
}

type dashboardClassCounter interface {
	CountByCollege(ctx context.Context, collegeCode string) (int, error)
	CountByTeacher(ctx context.Context, collegeCode, teacherUserID string) (int, error)
	TodayByTeacher(ctx context.Context, collegeCode, teacherUserID string, weekday time.Weekday) ([]models.Class, error)
}

type dashboardAssignmentCounter interface {
	CountByAuthor(ctx context.Context, userID string) (int, error)
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

type dashboardAnnouncementCounter interface {
	CountByAuthor(ctx context.Context, userID string) (int, error)
	CountByCollege(ctx context.Context, collegeCode string) (int, error)
}

type dashboardAttendanceCounter interface {
	CountPresent(ctx context.Context, studentID string) (int, error)
}

// DashboardService aggregates role-scoped dashboard snapshots. Every
// query it issues carries the caller's tenant code; a token without one
// is rejected outright rather than silently widening the scope.
type DashboardService struct {
	teachers      dashboardTeacherCounter
	students      dashboardStudentCounter
	classes       dashboardClassCounter
	assignments   dashboardAssignmentCounter
	announcements dashboardAnnouncementCounter
	attendance    dashboardAttendanceCounter
	activity      *ActivityService
	cache         *CacheService
	metrics       *MetricsService
	logger        *zap.Logger
	cacheTTL      time.Duration
	recentLimit   int
	now           func() time.Time
}

// NewDashboardService constructs the service.
func NewDashboardService(
	teachers dashboardTeacherCounter,
	students dashboardStudentCounter,
	classes dashboardClassCounter,
	assignments dashboardAssignmentCounter,
	announcements dashboardAnnouncementCounter,
	attendance dashboardAttendanceCounter,
	activity *ActivityService,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	cacheTTL time.Duration,
	recentLimit int,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &DashboardService{
		teachers:      teachers,
		students:      students,
		classes:       classes,
		assignments:   assignments,
		announcements: announcements,
		attendance:    attendance,
		activity:      activity,
		cache:         cache,
		metrics:       metrics,
		logger:        logger,
		cacheTTL:      cacheTTL,
		recentLimit:   recentLimit,
		now:           time.Now,
	}
}

// Admin returns tenant-wide counts plus the tenant's recent activity.
func (s *DashboardService) Admin(ctx context.Context, claims *models.JWTClaims) (*dto.AdminDashboardResponse, error) {
	if err := requireTenant(claims); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:%s:admin", claims.CollegeCode)
	var cached dto.AdminDashboardResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}
	defer s.observeBuild("dashboard_admin", time.Now())

	resp := dto.AdminDashboardResponse{CollegeCode: claims.CollegeCode}
	var err error
	if resp.Counts.Teachers, err = s.teachers.CountTeachers(ctx, claims.CollegeCode); err != nil {
		return nil, wrapDashboardErr(err, "count teachers")
	}
	if resp.Counts.Staff, err = s.teachers.CountStaff(ctx, claims.CollegeCode); err != nil {
		return nil, wrapDashboardErr(err, "count staff")
	}
	if resp.Counts.Students, err = s.students.CountByCollege(ctx, claims.CollegeCode); err != nil {
		return nil, wrapDashboardErr(err, "count students")
	}
	if resp.Counts.Classes, err = s.classes.CountByCollege(ctx, claims.CollegeCode); err != nil {
		return nil, wrapDashboardErr(err, "count classes")
	}
	if resp.Counts.Announcements, err = s.announcements.CountByCollege(ctx, claims.CollegeCode); err != nil {
		return nil, wrapDashboardErr(err, "count announcements")
	}
	if resp.Activities, err = s.activity.RecentForCollege(ctx, claims.CollegeCode, s.recentLimit); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, resp)
	return &resp, nil
}

// Teacher returns ownership-scoped counts, the caller's recent activity,
// and the classes scheduled for today.
func (s *DashboardService) Teacher(ctx context.Context, claims *models.JWTClaims) (*dto.TeacherDashboardResponse, error) {
	if err := requireTenant(claims); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:%s:teacher:%s", claims.CollegeCode, claims.UserID)
	var cached dto.TeacherDashboardResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}
	defer s.observeBuild("dashboard_teacher", time.Now())

	resp := dto.TeacherDashboardResponse{TeacherID: claims.UserID}
	var err error
	if resp.Counts.Students, err = s.students.CountByTeacher(ctx, claims.CollegeCode, claims.UserID); err != nil {
		return nil, wrapDashboardErr(err, "count students")
	}
	if resp.Counts.Classes, err = s.classes.CountByTeacher(ctx, claims.CollegeCode, claims.UserID); err != nil {
		return nil, wrapDashboardErr(err, "count classes")
	}
	if resp.Counts.Assignments, err = s.assignments.CountByAuthor(ctx, claims.UserID); err != nil {
		return nil, wrapDashboardErr(err, "count assignments")
	}
	if resp.Counts.Announcements, err = s.announcements.CountByAuthor(ctx, claims.UserID); err != nil {
		return nil, wrapDashboardErr(err, "count announcements")
	}
	if resp.Activities, err = s.activity.RecentForUser(ctx, claims.UserID, s.recentLimit); err != nil {
		return nil, err
	}
	if resp.TodayClasses, err = s.classes.TodayByTeacher(ctx, claims.CollegeCode, claims.UserID, s.now().Weekday()); err != nil {
		return nil, wrapDashboardErr(err, "list today's classes")
	}

	s.cacheSet(ctx, cacheKey, resp)
	return &resp, nil
}

// Student returns enrollment-scoped figures for the calling student.
func (s *DashboardService) Student(ctx context.Context, claims *models.JWTClaims) (*dto.StudentDashboardResponse, error) {
	if err := requireTenant(claims); err != nil {
		return nil, err
	}

	student, err := s.resolveStudent(ctx, claims)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("dashboard:%s:student:%s", claims.CollegeCode, student.ID)
	var cached dto.StudentDashboardResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}
	defer s.observeBuild("dashboard_student", time.Now())

	resp := dto.StudentDashboardResponse{StudentID: student.ID}
	if resp.TotalAssignments, err = s.assignments.CountByStudent(ctx, student.ID); err != nil {
		return nil, wrapDashboardErr(err, "count assignments")
	}
	if resp.DaysPresent, err = s.attendance.CountPresent(ctx, student.ID); err != nil {
		return nil, wrapDashboardErr(err, "count present days")
	}
	if resp.Activities, err = s.activity.RecentForUser(ctx, claims.UserID, s.recentLimit); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, resp)
	return &resp, nil
}

func (s *DashboardService) resolveStudent(ctx context.Context, claims *models.JWTClaims) (*models.Student, error) {
	var (
		student *models.Student
		err     error
	)
	if claims.StudentID != "" {
		student, err = s.students.FindByID(ctx, claims.StudentID)
	} else {
		student, err = s.students.FindByUserID(ctx, claims.UserID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, wrapDashboardErr(err, "load student profile")
	}
	if student.CollegeCode != claims.CollegeCode {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
	}
	return student, nil
}

// observeBuild times a cache-miss dashboard rebuild, which is where all
// the counting queries run.
func (s *DashboardService) observeBuild(label string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(label, time.Since(start))
	}
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// requireTenant rejects tokens without a tenant code so no dashboard
// query can ever run unscoped.
func requireTenant(claims *models.JWTClaims) error {
	if claims == nil || claims.CollegeCode == "" {
		return appErrors.Clone(appErrors.ErrValidation, "college code is required")
	}
	return nil
}

func wrapDashboardErr(err error, op string) error {
	return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to "+op)
}
