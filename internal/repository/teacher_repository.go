package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

// TeacherRepository provides read access to teacher and staff profiles.
// Profiles join user rows with their role-specific extension tables.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListTeachers returns teacher profiles within a tenant.
func (r *TeacherRepository) ListTeachers(ctx context.Context, collegeCode string) ([]models.TeacherProfile, error) {
	const query = `SELECT tp.id, tp.user_id, tp.department, tp.qualification, tp.experience_years, tp.subjects_taught,
u.full_name, u.email, u.college_code, u.mobile_number
FROM teacher_profiles tp
JOIN users u ON u.id = tp.user_id
WHERE u.college_code = $1
ORDER BY u.full_name ASC`
	var teachers []models.TeacherProfile
	if err := r.db.SelectContext(ctx, &teachers, query, collegeCode); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// ListStaff returns staff profiles within a tenant.
func (r *TeacherRepository) ListStaff(ctx context.Context, collegeCode string) ([]models.StaffProfile, error) {
	const query = `SELECT sp.id, sp.user_id, sp.department, sp.designation, sp.shift_time, sp.assigned_tasks,
u.full_name, u.email, u.college_code
FROM staff_profiles sp
JOIN users u ON u.id = sp.user_id
WHERE u.college_code = $1
ORDER BY u.full_name ASC`
	var staff []models.StaffProfile
	if err := r.db.SelectContext(ctx, &staff, query, collegeCode); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// CountTeachers returns the number of teacher-role users in a tenant.
func (r *TeacherRepository) CountTeachers(ctx context.Context, collegeCode string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE college_code = $1 AND role = 'teacher'`, collegeCode); err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return count, nil
}

// CountStaff returns the number of staff-role users in a tenant.
func (r *TeacherRepository) CountStaff(ctx context.Context, collegeCode string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE college_code = $1 AND role = 'staff'`, collegeCode); err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return count, nil
}
