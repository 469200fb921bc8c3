package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type activityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]models.Activity, error)
	RecentByCollege(ctx context.Context, collegeCode string, limit int) ([]models.Activity, error)
}

// ActivityService wraps the append-only activity trail. Writes are
// best-effort: a failed insert is logged, never surfaced to the caller.
type ActivityService struct {
	repo    activityRepository
	logger  *zap.Logger
	enabled bool
}

// NewActivityService constructs the service.
func NewActivityService(repo activityRepository, logger *zap.Logger, enabled bool) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, logger: logger, enabled: enabled}
}

// Record appends an activity entry.
func (s *ActivityService) Record(ctx context.Context, activity models.Activity) {
	if s == nil || !s.enabled || s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, &activity); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("action", activity.Action),
			zap.String("user_id", activity.UserID),
			zap.Error(err))
	}
}

// RecentForUser returns the actor's latest entries, newest first.
func (s *ActivityService) RecentForUser(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	activities, err := s.repo.RecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load activities")
	}
	return activities, nil
}

// RecentForCollege returns the tenant's latest entries, newest first.
func (s *ActivityService) RecentForCollege(ctx context.Context, collegeCode string, limit int) ([]models.Activity, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	if collegeCode == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "college code is required")
	}
	activities, err := s.repo.RecentByCollege(ctx, collegeCode, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load activities")
	}
	return activities, nil
}
