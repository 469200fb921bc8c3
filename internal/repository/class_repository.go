package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

// ClassRepository provides persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, college_code, course_name, department, semester, section, room_number, class_teacher_id, schedule_day, schedule_time, created_at, updated_at`

// FindByID returns a class by identifier.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE id = $1 LIMIT 1`, classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	return &class, nil
}

// List returns classes matching the filter with total count. The tenant
// code is always part of the WHERE clause.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	base := `FROM classes WHERE college_code = $1`
	args := []interface{}{filter.CollegeCode}

	if filter.TeacherID != "" {
		base += fmt.Sprintf(" AND class_teacher_id = $%d", len(args)+1)
		args = append(args, filter.TeacherID)
	}
	if filter.Department != "" {
		base += fmt.Sprintf(" AND department = $%d", len(args)+1)
		args = append(args, filter.Department)
	}
	if filter.Semester != nil {
		base += fmt.Sprintf(" AND semester = $%d", len(args)+1)
		args = append(args, *filter.Semester)
	}

	_, size, offset := normalizePage(filter.Page, filter.PageSize, 200)

	query := fmt.Sprintf("SELECT %s %s ORDER BY course_name ASC LIMIT %d OFFSET %d", classColumns, base, size, offset)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// ListByStudent returns the classes a student is enrolled in, via the
// direct class link and the class_students junction.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Class, error) {
	const query = `SELECT DISTINCT c.id, c.college_code, c.course_name, c.department, c.semester, c.section, c.room_number, c.class_teacher_id, c.schedule_day, c.schedule_time, c.created_at, c.updated_at
FROM classes c
LEFT JOIN class_students cs ON cs.class_id = c.id
LEFT JOIN students s ON s.class_id = c.id
WHERE cs.student_id = $1 OR s.id = $1
ORDER BY c.course_name ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, studentID); err != nil {
		return nil, fmt.Errorf("list classes by student: %w", err)
	}
	return classes, nil
}

// TodayByTeacher returns the teacher's classes scheduled on the given
// weekday (time.Weekday numbering).
func (r *ClassRepository) TodayByTeacher(ctx context.Context, collegeCode, teacherUserID string, weekday time.Weekday) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes WHERE college_code = $1 AND class_teacher_id = $2 AND schedule_day = $3 ORDER BY schedule_time ASC`, classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, collegeCode, teacherUserID, int(weekday)); err != nil {
		return nil, fmt.Errorf("list today classes: %w", err)
	}
	return classes, nil
}

// CountByTeacher returns how many classes a teacher is assigned within
// the tenant.
func (r *ClassRepository) CountByTeacher(ctx context.Context, collegeCode, teacherUserID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM classes WHERE college_code = $1 AND class_teacher_id = $2`, collegeCode, teacherUserID); err != nil {
		return 0, fmt.Errorf("count classes by teacher: %w", err)
	}
	return count, nil
}

// CountByCollege returns the number of classes in a tenant.
func (r *ClassRepository) CountByCollege(ctx context.Context, collegeCode string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM classes WHERE college_code = $1`, collegeCode); err != nil {
		return 0, fmt.Errorf("count classes by college: %w", err)
	}
	return count, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, college_code, course_name, department, semester, section, room_number, class_teacher_id, schedule_day, schedule_time, created_at, updated_at)
VALUES (:id, :college_code, :course_name, :department, :semester, :section, :room_number, :class_teacher_id, :schedule_day, :schedule_time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies mutable class fields. The tenant code is immutable.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET course_name = :course_name, department = :department, semester = :semester, section = :section,
room_number = :room_number, class_teacher_id = :class_teacher_id, schedule_day = :schedule_day, schedule_time = :schedule_time, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
