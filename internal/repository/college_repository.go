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

// CollegeRepository provides persistence for tenants.
type CollegeRepository struct {
	db *sqlx.DB
}

// NewCollegeRepository creates the repository.
func NewCollegeRepository(db *sqlx.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

const collegeColumns = `id, name, code, address, city, state, pincode, contact_email, contact_phone, created_at`

// FindByCode returns a college by its tenant code.
func (r *CollegeRepository) FindByCode(ctx context.Context, code string) (*models.College, error) {
	query := fmt.Sprintf(`SELECT %s FROM colleges WHERE code = $1 LIMIT 1`, collegeColumns)
	var college models.College
	if err := r.db.GetContext(ctx, &college, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find college by code: %w", err)
	}
	return &college, nil
}

// CreateWithAdmin inserts a college and its bootstrap admin user in one
// transaction. Either both rows exist afterwards or neither does. A
// unique-violation on the college code or admin email is returned
// unwrapped so the caller can surface Conflict.
func (r *CollegeRepository) CreateWithAdmin(ctx context.Context, college *models.College, admin *models.User) error {
	if college.ID == "" {
		college.ID = uuid.NewString()
	}
	if college.CreatedAt.IsZero() {
		college.CreatedAt = time.Now().UTC()
	}
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	admin.CollegeCode = college.Code
	admin.Email = strings.ToLower(admin.Email)
	now := time.Now().UTC()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register college: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const collegeQuery = `INSERT INTO colleges (id, name, code, address, city, state, pincode, contact_email, contact_phone, created_at)
VALUES (:id, :name, :code, :address, :city, :state, :pincode, :contact_email, :contact_phone, :created_at)`
	if _, err := tx.NamedExecContext(ctx, collegeQuery, college); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("insert college: %w", err)
	}

	const adminQuery = `INSERT INTO users (id, college_code, full_name, email, password_hash, mobile_number, role, created_at, updated_at)
VALUES (:id, :college_code, :full_name, :email, :password_hash, :mobile_number, :role, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, adminQuery, admin); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("insert bootstrap admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit register college: %w", err)
	}
	return nil
}
