package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusdesk/campusdesk-api/internal/models"
	"github.com/campusdesk/campusdesk-api/pkg/export"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
	"github.com/campusdesk/campusdesk-api/pkg/storage"
)

type attendanceRepository interface {
	ListByClassDate(ctx context.Context, classID string, date time.Time) ([]models.AttendanceRecord, error)
	ListByClass(ctx context.Context, classID string, from, to time.Time, limit int) ([]models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error)
	Replace(ctx context.Context, classID string, date time.Time, entries []models.AttendanceEntry) error
}

type attendanceClassLookup interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type attendanceStudentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// RecordAttendanceRequest replaces the full register for one class and
// date with the supplied set of marks.
type RecordAttendanceRequest struct {
	ClassID string                   `json:"class_id" validate:"required"`
	Date    string                   `json:"date" validate:"required"`
	Entries []models.AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// ExportOptions controls the register export.
type ExportOptions struct {
	ClassID string
	From    time.Time
	To      time.Time
	Format  string // "csv" or "pdf"
}

// ExportResult is a rendered register document.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// AttendanceService coordinates register reads, the atomic day replace,
// and register exports.
type AttendanceService struct {
	attendance    attendanceRepository
	classes       attendanceClassLookup
	students      attendanceStudentLookup
	activity      *ActivityService
	csv           *export.CSVExporter
	pdf           *export.PDFExporter
	archive       *storage.LocalStorage
	validator     *validator.Validate
	logger        *zap.Logger
	exportEnabled bool
	exportMaxRows int
}

// NewAttendanceService constructs the service.
func NewAttendanceService(attendance attendanceRepository, classes attendanceClassLookup, students attendanceStudentLookup, activity *ActivityService, archive *storage.LocalStorage, validate *validator.Validate, logger *zap.Logger, exportEnabled bool, exportMaxRows int) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		attendance:    attendance,
		classes:       classes,
		students:      students,
		activity:      activity,
		csv:           export.NewCSVExporter(),
		pdf:           export.NewPDFExporter(),
		archive:       archive,
		validator:     validate,
		logger:        logger,
		exportEnabled: exportEnabled,
		exportMaxRows: exportMaxRows,
	}
}

// Register returns the marks for one class and date.
func (s *AttendanceService) Register(ctx context.Context, claims *models.JWTClaims, classID, date string) ([]models.AttendanceRecord, error) {
	day, err := parseAttendanceDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeClass(ctx, claims, classID); err != nil {
		return nil, err
	}
	records, err := s.attendance.ListByClassDate(ctx, classID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load register")
	}
	return records, nil
}

// Record atomically replaces the register for the request's class and
// date. The prior set is discarded and the new one written in a single
// transaction, so a failure never leaves a half-saved day.
func (s *AttendanceService) Record(ctx context.Context, claims *models.JWTClaims, req RecordAttendanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	day, err := parseAttendanceDate(req.Date)
	if err != nil {
		return err
	}
	for _, entry := range req.Entries {
		if !entry.Status.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown attendance status %q", entry.Status))
		}
	}

	class, err := s.authorizeClass(ctx, claims, req.ClassID)
	if err != nil {
		return err
	}
	if err := s.attendance.Replace(ctx, req.ClassID, day, req.Entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to save register")
	}

	s.activity.Record(ctx, models.Activity{
		CollegeCode:   claims.CollegeCode,
		UserID:        claims.UserID,
		UserRole:      claims.Role,
		Action:        models.ActivityActionRecordAttendance,
		Details:       fmt.Sprintf("attendance recorded for %s on %s", class.CourseName, req.Date),
		ReferenceID:   &class.ID,
		ReferenceType: "class",
	})
	return nil
}

// ForStudent returns one student's attendance history plus the count of
// present days. Students may only read their own history.
func (s *AttendanceService) ForStudent(ctx context.Context, claims *models.JWTClaims, studentID string) ([]models.Attendance, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load student")
	}
	if student.CollegeCode != claims.CollegeCode {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if claims.Role == models.RoleStudent {
		linked := student.UserID != nil && *student.UserID == claims.UserID
		if claims.StudentID != studentID && !linked {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "attendance history does not belong to you")
		}
	}
	rows, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load attendance history")
	}
	return rows, nil
}

// Export renders a class register over a date range as CSV or PDF.
func (s *AttendanceService) Export(ctx context.Context, claims *models.JWTClaims, opts ExportOptions) (*ExportResult, error) {
	if !s.exportEnabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "register export is disabled")
	}
	if opts.From.IsZero() || opts.To.IsZero() || opts.To.Before(opts.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid export date range")
	}

	class, err := s.authorizeClass(ctx, claims, opts.ClassID)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.ListByClass(ctx, opts.ClassID, opts.From, opts.To, s.exportMaxRows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load register")
	}

	data := export.Dataset{
		Headers: []string{"Date", "Student", "Status", "Notes"},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, record := range records {
		data.Rows = append(data.Rows, []string{
			record.Date.Format("2006-01-02"),
			record.StudentName,
			string(record.Status),
			record.Notes,
		})
	}

	span := fmt.Sprintf("%s_%s", opts.From.Format("20060102"), opts.To.Format("20060102"))
	var result *ExportResult
	switch opts.Format {
	case "", "csv":
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		result = &ExportResult{
			Filename:    fmt.Sprintf("attendance_%s_%s.csv", class.ID, span),
			ContentType: "text/csv",
			Content:     content,
		}
	case "pdf":
		title := fmt.Sprintf("Attendance Register - %s", class.CourseName)
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		result = &ExportResult{
			Filename:    fmt.Sprintf("attendance_%s_%s.pdf", class.ID, span),
			ContentType: "application/pdf",
			Content:     content,
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", opts.Format))
	}

	// Archive a copy on disk, best effort.
	if s.archive != nil {
		if _, err := s.archive.Save(result.Filename, result.Content); err != nil {
			s.logger.Warn("failed to archive register export", zap.String("filename", result.Filename), zap.Error(err))
		}
	}
	return result, nil
}

// authorizeClass loads the class and checks the caller may touch its
// register: same tenant always, and teachers only for their own classes.
func (s *AttendanceService) authorizeClass(ctx context.Context, claims *models.JWTClaims, classID string) (*models.Class, error) {
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}
	class, err := s.classes.FindByID(ctx, classID)
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
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class does not belong to you")
	}
	return class, nil
}

func parseAttendanceDate(raw string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	return day, nil
}
