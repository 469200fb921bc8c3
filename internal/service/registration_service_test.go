package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type mockCollegeRegistrar struct {
	college *models.College
	admin   *models.User
	err     error
}

func (m *mockCollegeRegistrar) CreateWithAdmin(ctx context.Context, college *models.College, admin *models.User) error {
	if m.err != nil {
		return m.err
	}
	college.ID = "college-1"
	admin.ID = "admin-1"
	m.college = college
	m.admin = admin
	return nil
}

func validRegisterRequest() RegisterCollegeRequest {
	return RegisterCollegeRequest{
		InstitutionCode:  "CLG001",
		CollegeName:      "Riverside College",
		CollegeEmail:     "office@riverside.edu",
		CollegeContact:   "9000000000",
		PrincipalName:    "Asha Verma",
		PrincipalEmail:   "principal@riverside.edu",
		PrincipalContact: "9000000001",
		Password:         "secret123",
		Area:             "MG Road",
		City:             "Pune",
		State:            "Maharashtra",
		Pincode:          "411001",
	}
}

func TestRegisterCollegeSuccess(t *testing.T) {
	registrar := &mockCollegeRegistrar{}
	activityRepo := &recordingActivityRepo{}
	svc := NewRegistrationService(registrar, newTestActivityService(activityRepo), validator.New(), zap.NewNop())

	resp, err := svc.RegisterCollege(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, "college-1", resp.CollegeID)

	require.NotNil(t, registrar.admin)
	assert.Equal(t, models.RoleAdmin, registrar.admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(registrar.admin.PasswordHash), []byte("secret123")))

	require.Len(t, activityRepo.activities, 1)
	assert.Equal(t, models.ActivityActionRegisterCollege, activityRepo.activities[0].Action)
}

func TestRegisterCollegeDuplicateCodeConflict(t *testing.T) {
	registrar := &mockCollegeRegistrar{err: &pq.Error{Code: "23505"}}
	svc := NewRegistrationService(registrar, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop())

	_, err := svc.RegisterCollege(context.Background(), validRegisterRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestRegisterCollegeRejectsIncompletePayload(t *testing.T) {
	svc := NewRegistrationService(&mockCollegeRegistrar{}, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop())

	req := validRegisterRequest()
	req.PrincipalEmail = ""
	_, err := svc.RegisterCollege(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
