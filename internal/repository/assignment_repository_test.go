package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignmentRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "class_id", "subject", "title", "description", "due_date", "created_by", "created_at", "updated_at"}).
		AddRow("assignment-1", "class-1", "DBMS", "Normal forms", "", now.Add(48*time.Hour), "teacher-1", now, now)
}

func TestAssignmentListByStudentSpansBothEnrollmentPaths(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(`SELECT cs\.class_id FROM class_students cs WHERE cs\.student_id = \$1\s+UNION\s+SELECT s\.class_id FROM students s WHERE s\.id = \$1`).
		WithArgs("student-1").
		WillReturnRows(assignmentRows(time.Now()))

	assignments, err := repo.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
	assert.Equal(t, "class-1", assignments[0].ClassID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentCountByStudentUsesEnrollmentPredicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assignments a\s+WHERE a\.class_id IN`).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
