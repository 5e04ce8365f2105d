package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

func setupMockAssignmentDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *AssignmentRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewAssignmentRepository(db, zap.NewNop())

	return db, mock, repo
}

func TestAssignments_Success(t *testing.T) {
	db, mock, repo := setupMockAssignmentDB(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"assignment_id", "person_id", "part_id", "type_code", "week_key", "created_at",
	}).
		AddRow("a1", "p1", "part-1", "CLEANING", "2026-01-05", now).
		AddRow("a2", "p2", "part-2", "ATTENDANT", "2026-01-12", now)

	mock.ExpectQuery(`SELECT`).
		WithArgs("2026-01-05", "2026-01-26").
		WillReturnRows(rows)

	assignments, err := repo.Assignments(context.Background(), "2026-01-05", "2026-01-26")

	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "a1", assignments[0].AssignmentID)
	assert.Equal(t, "CLEANING", assignments[0].TypeCode)
	assert.Equal(t, "2026-01-12", assignments[1].WeekKey)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignments_MissingRange(t *testing.T) {
	db, mock, repo := setupMockAssignmentDB(t)
	defer db.Close()

	_, err := repo.Assignments(context.Background(), "", "2026-01-26")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignment_Success(t *testing.T) {
	db, mock, repo := setupMockAssignmentDB(t)
	defer db.Close()

	now := time.Now()
	assignment := &models.Assignment{
		AssignmentID: "a1",
		PersonID:     "p1",
		PartID:       "part-1",
		TypeCode:     "CLEANING",
		WeekKey:      "2026-01-05",
		CreatedAt:    now,
	}

	mock.ExpectExec(`INSERT INTO assignments`).
		WithArgs("a1", "p1", "part-1", "CLEANING", "2026-01-05", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateAssignment(context.Background(), assignment)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignment_Invalid(t *testing.T) {
	db, mock, repo := setupMockAssignmentDB(t)
	defer db.Close()

	err := repo.CreateAssignment(context.Background(), &models.Assignment{AssignmentID: "a1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid assignment")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_DelegatesToCreate(t *testing.T) {
	db, mock, repo := setupMockAssignmentDB(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`INSERT INTO assignments`).
		WithArgs("a1", "p1", "part-1", "CLEANING", "2026-01-05", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Commit(context.Background(), models.Assignment{
		AssignmentID: "a1",
		PersonID:     "p1",
		PartID:       "part-1",
		TypeCode:     "CLEANING",
		WeekKey:      "2026-01-05",
		CreatedAt:    now,
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAssignment_Success(t *testing.T) {
	db, mock, repo := setupMockAssignmentDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM assignments`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteAssignment(context.Background(), "a1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAssignment_NotFound(t *testing.T) {
	db, mock, repo := setupMockAssignmentDB(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM assignments`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteAssignment(context.Background(), "missing")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByPerson_Success(t *testing.T) {
	db, mock, repo := setupMockAssignmentDB(t)
	defer db.Close()

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("p1", "2026-01-05", "2026-03-02").
		WillReturnRows(countRows)

	count, err := repo.CountByPerson(context.Background(), "p1", "2026-01-05", "2026-03-02")

	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, mock.ExpectationsWereMet())
}
