package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// PersonRepository loads and mutates the roster (persons table). It is the
// owner of eligibility changes; the engine only ever reads snapshots.
type PersonRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPersonRepository creates a person repository.
func NewPersonRepository(db *sql.DB, logger *zap.Logger) *PersonRepository {
	return &PersonRepository{
		db:     db,
		logger: logger,
	}
}

const personColumns = `
	person_id,
	first_name,
	last_name,
	sex,
	active,
	may_assist,
	may_lead,
	suspended,
	created_at,
	updated_at
`

// ActivePersons returns the active roster ordered by name. Implements the
// planner roster provider.
func (r *PersonRepository) ActivePersons(ctx context.Context) ([]models.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM persons
		WHERE active = TRUE
		ORDER BY last_name, first_name, person_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		var p models.Person
		if err := scanPerson(rows, &p); err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return persons, nil
}

// Persons returns the full roster, inactive people included. The
// validator needs them to flag assignments they still hold.
func (r *PersonRepository) Persons(ctx context.Context) ([]models.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM persons
		ORDER BY last_name, first_name, person_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		var p models.Person
		if err := scanPerson(rows, &p); err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return persons, nil
}

// GetPerson fetches one person by ID.
func (r *PersonRepository) GetPerson(ctx context.Context, personID string) (*models.Person, error) {
	if personID == "" {
		return nil, fmt.Errorf("person_id is required")
	}

	query := `
		SELECT ` + personColumns + `
		FROM persons
		WHERE person_id = $1
	`

	var p models.Person
	err := scanPerson(r.db.QueryRowContext(ctx, query, personID), &p)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("person not found: %s", personID)
		}
		return nil, err
	}

	return &p, nil
}

// CreatePerson inserts a validated person.
func (r *PersonRepository) CreatePerson(ctx context.Context, person *models.Person) error {
	if person == nil {
		return fmt.Errorf("person is required")
	}
	if err := person.Validate(); err != nil {
		return fmt.Errorf("invalid person: %w", err)
	}

	query := `
		INSERT INTO persons (
			person_id,
			first_name,
			last_name,
			sex,
			active,
			may_assist,
			may_lead,
			suspended,
			created_at,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		person.PersonID,
		person.FirstName,
		person.LastName,
		person.Sex,
		person.Active,
		person.MayAssist,
		person.MayLead,
		person.Suspended,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}

	return nil
}

// UpdateEligibility changes the three eligibility flags of a person.
func (r *PersonRepository) UpdateEligibility(ctx context.Context, personID string, mayAssist, mayLead, suspended bool) error {
	if personID == "" {
		return fmt.Errorf("person_id is required")
	}

	query := `
		UPDATE persons
		SET may_assist = $1,
		    may_lead = $2,
		    suspended = $3,
		    updated_at = CURRENT_TIMESTAMP
		WHERE person_id = $4
	`

	result, err := r.db.ExecContext(ctx, query, mayAssist, mayLead, suspended, personID)
	if err != nil {
		return fmt.Errorf("failed to update eligibility: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("person not found: %s", personID)
	}

	return nil
}

// DeactivatePerson removes a person from the active roster without
// deleting history.
func (r *PersonRepository) DeactivatePerson(ctx context.Context, personID string) error {
	if personID == "" {
		return fmt.Errorf("person_id is required")
	}

	query := `
		UPDATE persons
		SET active = FALSE,
		    updated_at = CURRENT_TIMESTAMP
		WHERE person_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, personID)
	if err != nil {
		return fmt.Errorf("failed to deactivate person: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("person not found: %s", personID)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row rowScanner, p *models.Person) error {
	err := row.Scan(
		&p.PersonID,
		&p.FirstName,
		&p.LastName,
		&p.Sex,
		&p.Active,
		&p.MayAssist,
		&p.MayLead,
		&p.Suspended,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to scan person: %w", err)
	}
	return nil
}
