package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

// AttendanceRepository provides persistence for attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByClassDate returns the register for one class and date joined
// with student names.
func (r *AttendanceRepository) ListByClassDate(ctx context.Context, classID string, date time.Time) ([]models.AttendanceRecord, error) {
	const query = `SELECT a.id, a.class_id, a.student_id, a.date, a.status, a.notes, a.created_at, s.full_name AS student_name
FROM attendance a
JOIN students s ON s.id = a.student_id
WHERE a.class_id = $1 AND a.date = $2
ORDER BY s.full_name ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, classID, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list attendance by class and date: %w", err)
	}
	return records, nil
}

// ListByClass returns every register row of one class within a date
// range, used by the export.
func (r *AttendanceRepository) ListByClass(ctx context.Context, classID string, from, to time.Time, limit int) ([]models.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 5000
	}
	query := fmt.Sprintf(`SELECT a.id, a.class_id, a.student_id, a.date, a.status, a.notes, a.created_at, s.full_name AS student_name
FROM attendance a
JOIN students s ON s.id = a.student_id
WHERE a.class_id = $1 AND a.date >= $2 AND a.date <= $3
ORDER BY a.date ASC, s.full_name ASC
LIMIT %d`, limit)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, classID, from.Format("2006-01-02"), to.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list attendance by class: %w", err)
	}
	return records, nil
}

// ListByStudent returns a student's full attendance history, newest
// first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error) {
	const query = `SELECT id, class_id, student_id, date, status, notes, created_at
FROM attendance WHERE student_id = $1 ORDER BY date DESC`
	var rows []models.Attendance
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance by student: %w", err)
	}
	return rows, nil
}

// CountPresent returns how many days a student was marked present.
func (r *AttendanceRepository) CountPresent(ctx context.Context, studentID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM attendance WHERE student_id = $1 AND status = 'present'`, studentID); err != nil {
		return 0, fmt.Errorf("count present days: %w", err)
	}
	return count, nil
}

// Replace swaps the full attendance set for one (class, date) inside a
// single transaction: all prior rows for that day are deleted, then the
// new set is inserted. Any failure rolls everything back so the day's
// register is never partially overwritten.
func (r *AttendanceRepository) Replace(ctx context.Context, classID string, date time.Time, entries []models.AttendanceEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	day := date.Format("2006-01-02")
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance WHERE class_id = $1 AND date = $2`, classID, day); err != nil {
		return fmt.Errorf("clear attendance for date: %w", err)
	}

	const insertQuery = `INSERT INTO attendance (id, class_id, student_id, date, status, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	now := time.Now().UTC()
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, insertQuery, uuid.NewString(), classID, entry.StudentID, day, entry.Status, entry.Notes, now); err != nil {
			if IsUniqueViolation(err) {
				return err
			}
			return fmt.Errorf("insert attendance row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance replace: %w", err)
	}
	return nil
}
