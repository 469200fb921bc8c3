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

// AssignmentRepository provides persistence for assignments and
// student submissions.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, class_id, subject, title, description, due_date, created_by, created_at, updated_at`

// FindByID returns an assignment by identifier.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE id = $1 LIMIT 1`, assignmentColumns)
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return &assignment, nil
}

// ListByAuthor returns assignments created by one user, newest first.
func (r *AssignmentRepository) ListByAuthor(ctx context.Context, userID string) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE created_by = $1 ORDER BY due_date DESC`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, userID); err != nil {
		return nil, fmt.Errorf("list assignments by author: %w", err)
	}
	return assignments, nil
}

// ListByClass returns assignments for a class ordered by due date.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE class_id = $1 ORDER BY due_date ASC`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list assignments by class: %w", err)
	}
	return assignments, nil
}

// ListByStudent returns assignments for every class the student is
// enrolled in, through the class_students junction or the direct
// students.class_id link.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Assignment, error) {
	const query = `SELECT a.id, a.class_id, a.subject, a.title, a.description, a.due_date, a.created_by, a.created_at, a.updated_at
FROM assignments a
WHERE a.class_id IN (
	SELECT cs.class_id FROM class_students cs WHERE cs.student_id = $1
	UNION
	SELECT s.class_id FROM students s WHERE s.id = $1 AND s.class_id IS NOT NULL
)
ORDER BY a.due_date ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, studentID); err != nil {
		return nil, fmt.Errorf("list assignments by student: %w", err)
	}
	return assignments, nil
}

// CountByAuthor returns the number of assignments created by a user.
func (r *AssignmentRepository) CountByAuthor(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM assignments WHERE created_by = $1`, userID); err != nil {
		return 0, fmt.Errorf("count assignments by author: %w", err)
	}
	return count, nil
}

// CountByStudent returns the number of assignments across the student's
// enrolled classes.
func (r *AssignmentRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM assignments a
WHERE a.class_id IN (
	SELECT cs.class_id FROM class_students cs WHERE cs.student_id = $1
	UNION
	SELECT s.class_id FROM students s WHERE s.id = $1 AND s.class_id IS NOT NULL
)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count assignments by student: %w", err)
	}
	return count, nil
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO assignments (id, class_id, subject, title, description, due_date, created_by, created_at, updated_at)
VALUES (:id, :class_id, :subject, :title, :description, :due_date, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update modifies mutable assignment fields.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET subject = :subject, title = :title, description = :description, due_date = :due_date, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment; submissions cascade.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// UpsertSubmission records a student's submission; the (assignment,
// student) pair is unique so resubmission overwrites.
func (r *AssignmentRepository) UpsertSubmission(ctx context.Context, sub *models.StudentSubmission) error {
	const query = `INSERT INTO student_assignments (assignment_id, student_id, submission, grade, submitted_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (assignment_id, student_id)
DO UPDATE SET submission = EXCLUDED.submission, grade = EXCLUDED.grade, submitted_at = EXCLUDED.submitted_at`
	if _, err := r.db.ExecContext(ctx, query, sub.AssignmentID, sub.StudentID, sub.Submission, sub.Grade, sub.SubmittedAt); err != nil {
		return fmt.Errorf("upsert submission: %w", err)
	}
	return nil
}

// ListSubmissions returns all submissions for an assignment.
func (r *AssignmentRepository) ListSubmissions(ctx context.Context, assignmentID string) ([]models.StudentSubmission, error) {
	const query = `SELECT assignment_id, student_id, submission, grade, submitted_at
FROM student_assignments WHERE assignment_id = $1 ORDER BY submitted_at ASC`
	var subs []models.StudentSubmission
	if err := r.db.SelectContext(ctx, &subs, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}
