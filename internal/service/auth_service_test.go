package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusdesk/campusdesk-api/internal/models"
	appErrors "github.com/campusdesk/campusdesk-api/pkg/errors"
)

type mockUserRepo struct {
	userByEmail    *models.User
	userByID       *models.User
	findByEmailErr error
	findByIDErr    error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.userByEmail, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.userByID != nil {
		return m.userByID, nil
	}
	return m.userByEmail, nil
}

type mockStudentFinder struct {
	student *models.Student
	err     error
}

func (m *mockStudentFinder) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.student, nil
}

type recordingActivityRepo struct {
	activities []models.Activity
	createErr  error
}

func (m *recordingActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.activities = append(m.activities, *activity)
	return nil
}

func (m *recordingActivityRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	return m.activities, nil
}

func (m *recordingActivityRepo) RecentByCollege(ctx context.Context, collegeCode string, limit int) ([]models.Activity, error) {
	return m.activities, nil
}

func newTestActivityService(repo *recordingActivityRepo) *ActivityService {
	return NewActivityService(repo, zap.NewNop(), true)
}

func testAuthConfig() AuthConfig {
	return AuthConfig{TokenSecret: "secret", TokenExpiry: time.Hour, Issuer: "campusdesk-api"}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockUserRepo{userByEmail: &models.User{
		ID:           "user-1",
		CollegeCode:  "CLG001",
		Email:        "admin@example.com",
		PasswordHash: string(password),
		Role:         models.RoleAdmin,
	}}
	activityRepo := &recordingActivityRepo{}
	svc := NewAuthService(repo, nil, newTestActivityService(activityRepo), validator.New(), zap.NewNop(), testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "user-1", res.User.ID)
	require.Len(t, activityRepo.activities, 1)
	assert.Equal(t, models.ActivityActionLogin, activityRepo.activities[0].Action)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "CLG001", claims.CollegeCode)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Empty(t, claims.StudentID)
}

func TestAuthServiceLoginStudentCarriesStudentID(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockUserRepo{userByEmail: &models.User{
		ID:           "user-2",
		CollegeCode:  "CLG001",
		Email:        "student@example.com",
		PasswordHash: string(password),
		Role:         models.RoleStudent,
	}}
	students := &mockStudentFinder{student: &models.Student{ID: "stud-9", CollegeCode: "CLG001"}}
	svc := NewAuthService(repo, students, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop(), testAuthConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@example.com", Password: "password"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "stud-9", claims.StudentID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	password, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := &mockUserRepo{userByEmail: &models.User{
		ID:           "user-1",
		CollegeCode:  "CLG001",
		Email:        "admin@example.com",
		PasswordHash: string(password),
		Role:         models.RoleAdmin,
	}}
	svc := NewAuthService(repo, nil, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "nope"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownEmailSameError(t *testing.T) {
	repo := &mockUserRepo{findByEmailErr: sql.ErrNoRows}
	svc := NewAuthService(repo, nil, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Message, appErr.Message)
}

func TestAuthServiceValidateTokenRejectsIncompleteClaims(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, nil, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop(), testAuthConfig())

	// Signed with the right secret but missing college_code.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthServiceValidateTokenRejectsWrongAlg(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, nil, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop(), testAuthConfig())

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, &models.JWTClaims{
		UserID:      "user-1",
		Role:        models.RoleAdmin,
		CollegeCode: "CLG001",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
}

func TestAuthServiceLoginStoreFailure(t *testing.T) {
	repo := &mockUserRepo{findByEmailErr: errors.New("connection refused")}
	svc := NewAuthService(repo, nil, newTestActivityService(&recordingActivityRepo{}), validator.New(), zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "password"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErr.Code)
}
