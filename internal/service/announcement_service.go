package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type announcementRepository interface {
	FindByID(ctx context.Context, id string) (*models.Announcement, error)
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// SaveAnnouncementRequest carries create-or-update payload; an empty ID
// means create.
type SaveAnnouncementRequest struct {
	ID       string                      `json:"id"`
	Title    string                      `json:"title" validate:"required"`
	Content  string                      `json:"content" validate:"required"`
	Audience models.AnnouncementAudience `json:"audience"`
}

// AnnouncementService coordinates announcement operations.
type AnnouncementService struct {
	repo      announcementRepository
	activity  *ActivityService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, activity *ActivityService, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, activity: activity, validator: validate, logger: logger}
}

// ListForCollege returns the tenant's announcements visible to the
// caller's role, newest first.
func (s *AnnouncementService) ListForCollege(ctx context.Context, claims *models.JWTClaims, page, pageSize int) ([]models.Announcement, *models.Pagination, error) {
	if claims.CollegeCode == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "college code is required")
	}
	filter := models.AnnouncementFilter{
		CollegeCode: claims.CollegeCode,
		Audiences:   audiencesForRole(claims.Role),
		Page:        page,
		PageSize:    pageSize,
	}
	announcements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list announcements")
	}
	return announcements, paginationFor(page, pageSize, total), nil
}

// ListForAuthor returns announcements created by the caller.
func (s *AnnouncementService) ListForAuthor(ctx context.Context, claims *models.JWTClaims) ([]models.Announcement, error) {
	announcements, _, err := s.repo.List(ctx, models.AnnouncementFilter{
		CollegeCode: claims.CollegeCode,
		CreatedBy:   claims.UserID,
		PageSize:    100,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list announcements")
	}
	return announcements, nil
}

// Save creates or updates an announcement authored by the caller.
func (s *AnnouncementService) Save(ctx context.Context, claims *models.JWTClaims, req SaveAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	if req.Audience == "" {
		req.Audience = models.AudienceAll
	}
	if !req.Audience.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown target audience")
	}

	if req.ID == "" {
		announcement := &models.Announcement{
			CollegeCode: claims.CollegeCode,
			Title:       req.Title,
			Content:     req.Content,
			Audience:    req.Audience,
			CreatedBy:   claims.UserID,
		}
		if err := s.repo.Create(ctx, announcement); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create announcement")
		}
		s.recordAnnouncementActivity(ctx, claims, models.ActivityActionSaveAnnouncement, "announcement created: "+announcement.Title, announcement.ID)
		return announcement, nil
	}

	announcement, err := s.authorizeWrite(ctx, claims, req.ID)
	if err != nil {
		return nil, err
	}
	announcement.Title = req.Title
	announcement.Content = req.Content
	announcement.Audience = req.Audience
	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to update announcement")
	}
	s.recordAnnouncementActivity(ctx, claims, models.ActivityActionSaveAnnouncement, "announcement updated: "+announcement.Title, announcement.ID)
	return announcement, nil
}

// Delete removes an announcement the caller authored (or any tenant
// announcement for admins).
func (s *AnnouncementService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	announcement, err := s.authorizeWrite(ctx, claims, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to delete announcement")
	}
	s.recordAnnouncementActivity(ctx, claims, models.ActivityActionDeleteAnnouncement, "announcement deleted: "+announcement.Title, announcement.ID)
	return nil
}

func (s *AnnouncementService) authorizeWrite(ctx context.Context, claims *models.JWTClaims, id string) (*models.Announcement, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "announcement id is required")
	}
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load announcement")
	}
	if announcement.CollegeCode != claims.CollegeCode {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	if claims.Role != models.RoleAdmin && announcement.CreatedBy != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "announcement does not belong to you")
	}
	return announcement, nil
}

func (s *AnnouncementService) recordAnnouncementActivity(ctx context.Context, claims *models.JWTClaims, action, details, id string) {
	s.activity.Record(ctx, models.Activity{
		CollegeCode:   claims.CollegeCode,
		UserID:        claims.UserID,
		UserRole:      claims.Role,
		Action:        action,
		Details:       details,
		ReferenceID:   &id,
		ReferenceType: "announcement",
	})
}

// audiencesForRole maps a caller role onto the announcement audiences it
// may read. Every role sees "all".
func audiencesForRole(role models.UserRole) []models.AnnouncementAudience {
	switch role {
	case models.RoleStudent:
		return []models.AnnouncementAudience{models.AudienceAll, models.AudienceStudents}
	case models.RoleTeacher:
		return []models.AnnouncementAudience{models.AudienceAll, models.AudienceTeachers}
	case models.RoleStaff:
		return []models.AnnouncementAudience{models.AudienceAll, models.AudienceStaff}
	default:
		// Admins see every audience.
		return nil
	}
}
