package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

func TestStudentCreateWithAccountCommitsBothRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	student := &models.Student{CollegeCode: "CLG001", FullName: "Ravi Kumar", Email: "ravi@riverside.edu"}
	account := &models.User{CollegeCode: "CLG001", FullName: "Ravi Kumar", Email: "Ravi@Riverside.EDU", PasswordHash: "hash", Role: models.RoleStudent}

	err := repo.CreateWithAccount(context.Background(), student, account)
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "ravi@riverside.edu", account.Email)
	require.NotNil(t, student.UserID)
	assert.Equal(t, account.ID, *student.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentCreateWithAccountRollsBackOnProfileFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO students").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	student := &models.Student{CollegeCode: "CLG001", FullName: "Ravi Kumar"}
	account := &models.User{CollegeCode: "CLG001", FullName: "Ravi Kumar", Email: "ravi@riverside.edu", PasswordHash: "hash", Role: models.RoleStudent}

	err := repo.CreateWithAccount(context.Background(), student, account)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentIsEnrolledChecksBothPaths(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("student-1", "class-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	enrolled, err := repo.IsEnrolled(context.Background(), "student-1", "class-1")
	require.NoError(t, err)
	assert.True(t, enrolled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentListByClassIncludesJunctionMembers(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "college_code", "full_name"}).
		AddRow("student-1", "CLG001", "Anita Rao").
		AddRow("student-2", "CLG001", "Ravi Kumar")
	mock.ExpectQuery(`WHERE class_id = \$1 OR id IN \(SELECT student_id FROM class_students WHERE class_id = \$1\)`).
		WithArgs("class-1").
		WillReturnRows(rows)

	students, err := repo.ListByClass(context.Background(), "class-1")
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
