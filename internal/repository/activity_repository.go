package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

// ActivityRepository provides insert-and-read access to the append-only
// activity trail. There are deliberately no update or delete methods.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `id, college_code, user_id, user_role, action, details, reference_id, reference_type, created_at`

// Create appends an activity entry.
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO activities (id, college_code, user_id, user_role, action, details, reference_id, reference_type, created_at)
VALUES (:id, :college_code, :user_id, :user_role, :action, :details, :reference_id, :reference_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, activity); err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// RecentByUser returns the most recent entries for one actor,
// descending by creation time.
func (r *ActivityRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE user_id = $1 ORDER BY created_at DESC LIMIT %d`, activityColumns, limit)
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, userID); err != nil {
		return nil, fmt.Errorf("recent activities by user: %w", err)
	}
	return activities, nil
}

// RecentByCollege returns the most recent entries within a tenant,
// descending by creation time.
func (r *ActivityRepository) RecentByCollege(ctx context.Context, collegeCode string, limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE college_code = $1 ORDER BY created_at DESC LIMIT %d`, activityColumns, limit)
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, collegeCode); err != nil {
		return nil, fmt.Errorf("recent activities by college: %w", err)
	}
	return activities, nil
}
