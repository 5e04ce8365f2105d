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

func setupMockPersonDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PersonRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPersonRepository(db, zap.NewNop())

	return db, mock, repo
}

func personRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"person_id", "first_name", "last_name", "sex", "active",
		"may_assist", "may_lead", "suspended", "created_at", "updated_at",
	})
}

func TestActivePersons_Success(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	now := time.Now()
	rows := personRows().
		AddRow("p1", "Ada", "Moretti", "female", true, true, false, false, now, now).
		AddRow("p2", "Bruno", "Ricci", "male", true, true, true, false, now, now)

	mock.ExpectQuery(`SELECT`).
		WillReturnRows(rows)

	persons, err := repo.ActivePersons(context.Background())

	require.NoError(t, err)
	require.Len(t, persons, 2)
	assert.Equal(t, "p1", persons[0].PersonID)
	assert.Equal(t, "Ada", persons[0].FirstName)
	assert.True(t, persons[0].Active)
	assert.Equal(t, "p2", persons[1].PersonID)
	assert.True(t, persons[1].MayLead)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivePersons_Empty(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WillReturnRows(personRows())

	persons, err := repo.ActivePersons(context.Background())

	require.NoError(t, err)
	assert.Empty(t, persons)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPerson_Success(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	now := time.Now()
	rows := personRows().
		AddRow("p1", "Ada", "Moretti", "female", true, true, false, false, now, now)

	mock.ExpectQuery(`SELECT`).
		WithArgs("p1").
		WillReturnRows(rows)

	person, err := repo.GetPerson(context.Background(), "p1")

	require.NoError(t, err)
	require.NotNil(t, person)
	assert.Equal(t, "p1", person.PersonID)
	assert.Equal(t, "Ada Moretti", person.FullName())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPerson_NotFound(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	person, err := repo.GetPerson(context.Background(), "missing")

	assert.Error(t, err)
	assert.Nil(t, person)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPerson_MissingID(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	person, err := repo.GetPerson(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, person)
	assert.Contains(t, err.Error(), "person_id is required")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePerson_Success(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	now := time.Now()
	person := &models.Person{
		PersonID:  "p1",
		FirstName: "Ada",
		LastName:  "Moretti",
		Sex:       models.SexFemale,
		Active:    true,
		MayAssist: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO persons`).
		WithArgs("p1", "Ada", "Moretti", "female", true, true, false, false, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreatePerson(context.Background(), person)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePerson_Invalid(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	err := repo.CreatePerson(context.Background(), &models.Person{PersonID: "p1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid person")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEligibility_Success(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE persons`).
		WithArgs(true, false, true, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateEligibility(context.Background(), "p1", true, false, true)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEligibility_NotFound(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE persons`).
		WithArgs(true, true, false, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateEligibility(context.Background(), "missing", true, true, false)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivatePerson_Success(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE persons`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeactivatePerson(context.Background(), "p1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivatePerson_NotFound(t *testing.T) {
	db, mock, repo := setupMockPersonDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE persons`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeactivatePerson(context.Background(), "missing")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	require.NoError(t, mock.ExpectationsWereMet())
}
