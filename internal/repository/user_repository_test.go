package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func userRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "college_code", "full_name", "email", "password_hash", "mobile_number", "role", "created_at", "updated_at"}).
		AddRow("user-1", "CLG001", "Asha Verma", "asha@riverside.edu", "hash", "9000000000", string(models.RoleAdmin), now, now)
}

func TestUserFindByEmailLowercases(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, college_code, full_name, email, password_hash, mobile_number, role, created_at, updated_at FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("asha@riverside.edu").
		WillReturnRows(userRows(time.Now()))

	user, err := repo.FindByEmail(context.Background(), "Asha@Riverside.EDU")
	require.NoError(t, err)
	assert.Equal(t, "asha@riverside.edu", user.Email)
	assert.Equal(t, "CLG001", user.CollegeCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateAssignsIDAndLowercasesEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		CollegeCode:  "CLG001",
		FullName:     "Asha Verma",
		Email:        "Asha@Riverside.EDU",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
	}
	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "asha@riverside.edu", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserListByCollege(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, college_code, full_name, email, password_hash, mobile_number, role, created_at, updated_at FROM users WHERE college_code = $1 AND role = $2 ORDER BY full_name ASC")).
		WithArgs("CLG001", models.RoleTeacher).
		WillReturnRows(userRows(time.Now()))

	users, err := repo.ListByCollege(context.Background(), "CLG001", models.RoleTeacher)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
