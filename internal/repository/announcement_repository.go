package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

const announcementColumns = `id, college_code, title, content, audience, created_by, created_at, updated_at`

// FindByID returns an announcement by identifier.
func (r *AnnouncementRepository) FindByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcements WHERE id = $1 LIMIT 1`, announcementColumns)
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find announcement by id: %w", err)
	}
	return &announcement, nil
}

// List returns announcements within a tenant, newest first. When the
// filter names audiences only those rows are returned; when it names an
// author the result is restricted to that author's rows.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	base := `FROM announcements WHERE college_code = $1`
	args := []interface{}{filter.CollegeCode}

	if filter.CreatedBy != "" {
		base += fmt.Sprintf(" AND created_by = $%d", len(args)+1)
		args = append(args, filter.CreatedBy)
	}
	if len(filter.Audiences) > 0 {
		values := make([]string, 0, len(filter.Audiences))
		for _, audience := range filter.Audiences {
			values = append(values, string(audience))
		}
		base += fmt.Sprintf(" AND audience = ANY($%d)", len(args)+1)
		args = append(args, pq.Array(values))
	}

	_, size, offset := normalizePage(filter.Page, filter.PageSize, 100)

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", announcementColumns, base, size, offset)
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + base
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return announcements, total, nil
}

// CountByAuthor returns the number of announcements created by a user.
func (r *AnnouncementRepository) CountByAuthor(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM announcements WHERE created_by = $1`, userID); err != nil {
		return 0, fmt.Errorf("count announcements by author: %w", err)
	}
	return count, nil
}

// CountByCollege returns the number of announcements in a tenant.
func (r *AnnouncementRepository) CountByCollege(ctx context.Context, collegeCode string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM announcements WHERE college_code = $1`, collegeCode); err != nil {
		return 0, fmt.Errorf("count announcements by college: %w", err)
	}
	return count, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = now
	}
	announcement.UpdatedAt = now

	const query = `INSERT INTO announcements (id, college_code, title, content, audience, created_by, created_at, updated_at)
VALUES (:id, :college_code, :title, :content, :audience, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies title, content and audience.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()
	const query = `UPDATE announcements SET title = :title, content = :content, audience = :audience, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
