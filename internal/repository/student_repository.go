package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

// StudentRepository provides persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, college_code, user_id, class_id, full_name, email, mobile_number, date_of_birth, gender, course, department, current_semester, enrollment_number, guardian_name, guardian_contact, created_at, updated_at`

// FindByID returns a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1 LIMIT 1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// FindByUserID returns the student profile linked to a login account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE user_id = $1 LIMIT 1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by user id: %w", err)
	}
	return &student, nil
}

// List returns students matching the filter with total count. The tenant
// code is always part of the WHERE clause.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := `FROM students WHERE college_code = $1`
	args := []interface{}{filter.CollegeCode}

	if filter.ClassID != "" {
		base += fmt.Sprintf(" AND class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	_, size, offset := normalizePage(filter.Page, filter.PageSize, 200)

	query := fmt.Sprintf("SELECT %s %s ORDER BY full_name ASC LIMIT %d OFFSET %d", studentColumns, base, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListByClass returns the roster of a class: junction-enrolled students
// plus those linked through the direct class_id column.
func (r *StudentRepository) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students
WHERE class_id = $1 OR id IN (SELECT student_id FROM class_students WHERE class_id = $1)
ORDER BY full_name ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list students by class: %w", err)
	}
	return students, nil
}

// IsEnrolled reports whether the student belongs to the class, through
// either enrollment path.
func (r *StudentRepository) IsEnrolled(ctx context.Context, studentID, classID string) (bool, error) {
	const query = `SELECT EXISTS (
	SELECT 1 FROM class_students WHERE student_id = $1 AND class_id = $2
	UNION
	SELECT 1 FROM students WHERE id = $1 AND class_id = $2
)`
	var enrolled bool
	if err := r.db.GetContext(ctx, &enrolled, query, studentID, classID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return enrolled, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	const query = `INSERT INTO students (id, college_code, user_id, class_id, full_name, email, mobile_number, date_of_birth, gender, course, department, current_semester, enrollment_number, guardian_name, guardian_contact, created_at, updated_at)
VALUES (:id, :college_code, :user_id, :class_id, :full_name, :email, :mobile_number, :date_of_birth, :gender, :course, :department, :current_semester, :enrollment_number, :guardian_name, :guardian_contact, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// CreateWithAccount inserts a student and their login account in one
// transaction. Either both rows exist afterwards or neither does. A
// unique-violation on the account email or enrollment number is
// returned unwrapped so the caller can surface Conflict.
func (r *StudentRepository) CreateWithAccount(ctx context.Context, student *models.Student, account *models.User) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.Email = strings.ToLower(account.Email)
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	student.UserID = &account.ID
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enroll student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const accountQuery = `INSERT INTO users (id, college_code, full_name, email, password_hash, mobile_number, role, created_at, updated_at)
VALUES (:id, :college_code, :full_name, :email, :password_hash, :mobile_number, :role, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, accountQuery, account); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("insert student account: %w", err)
	}

	const studentQuery = `INSERT INTO students (id, college_code, user_id, class_id, full_name, email, mobile_number, date_of_birth, gender, course, department, current_semester, enrollment_number, guardian_name, guardian_contact, created_at, updated_at)
VALUES (:id, :college_code, :user_id, :class_id, :full_name, :email, :mobile_number, :date_of_birth, :gender, :course, :department, :current_semester, :enrollment_number, :guardian_name, :guardian_contact, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, studentQuery, student); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("insert student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enroll student: %w", err)
	}
	return nil
}

// CountByCollege returns the number of students in a tenant.
func (r *StudentRepository) CountByCollege(ctx context.Context, collegeCode string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE college_code = $1`, collegeCode); err != nil {
		return 0, fmt.Errorf("count students by college: %w", err)
	}
	return count, nil
}

// CountByTeacher returns how many students sit in classes taught by the
// given teacher within the tenant.
func (r *StudentRepository) CountByTeacher(ctx context.Context, collegeCode, teacherUserID string) (int, error) {
	const query = `SELECT COUNT(DISTINCT s.id) FROM students s
JOIN classes c ON c.id = s.class_id
	OR s.id IN (SELECT student_id FROM class_students cs WHERE cs.class_id = c.id)
WHERE s.college_code = $1 AND c.class_teacher_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, collegeCode, teacherUserID); err != nil {
		return 0, fmt.Errorf("count students by teacher: %w", err)
	}
	return count, nil
}
