package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// AssignmentRepository owns the assignments table. It is both the history
// source for constraint checks and the commit sink of the orchestrator.
type AssignmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssignmentRepository creates an assignment repository.
func NewAssignmentRepository(db *sql.DB, logger *zap.Logger) *AssignmentRepository {
	return &AssignmentRepository{
		db:     db,
		logger: logger,
	}
}

// Assignments returns the history whose week key falls in [fromKey, toKey],
// ordered deterministically.
func (r *AssignmentRepository) Assignments(ctx context.Context, fromKey, toKey string) ([]models.Assignment, error) {
	if fromKey == "" || toKey == "" {
		return nil, fmt.Errorf("from and to week keys are required")
	}

	query := `
		SELECT assignment_id, person_id, part_id, type_code, week_key, created_at
		FROM assignments
		WHERE week_key >= $1 AND week_key <= $2
		ORDER BY week_key, part_id, person_id
	`

	rows, err := r.db.QueryContext(ctx, query, fromKey, toKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		err := rows.Scan(
			&a.AssignmentID,
			&a.PersonID,
			&a.PartID,
			&a.TypeCode,
			&a.WeekKey,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}

	return assignments, nil
}

// Commit durably records one decided assignment. Implements the planner
// commit sink.
func (r *AssignmentRepository) Commit(ctx context.Context, assignment models.Assignment) error {
	return r.CreateAssignment(ctx, &assignment)
}

// CreateAssignment inserts a validated assignment. The unique index on
// (person_id, part_id) backs the no-duplicate invariant.
func (r *AssignmentRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if assignment == nil {
		return fmt.Errorf("assignment is required")
	}
	if err := assignment.Validate(); err != nil {
		return fmt.Errorf("invalid assignment: %w", err)
	}

	query := `
		INSERT INTO assignments (
			assignment_id, person_id, part_id, type_code, week_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		assignment.AssignmentID,
		assignment.PersonID,
		assignment.PartID,
		assignment.TypeCode,
		assignment.WeekKey,
		assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	r.logger.Debug("Assignment created",
		zap.String("assignment_id", assignment.AssignmentID),
		zap.String("person_id", assignment.PersonID),
		zap.String("part_id", assignment.PartID),
		zap.String("week_key", assignment.WeekKey),
	)
	return nil
}

// DeleteAssignment removes one assignment.
func (r *AssignmentRepository) DeleteAssignment(ctx context.Context, assignmentID string) error {
	if assignmentID == "" {
		return fmt.Errorf("assignment_id is required")
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE assignment_id = $1`,
		assignmentID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("assignment not found: %s", assignmentID)
	}

	return nil
}

// CountByPerson counts a person's assignments in [fromKey, toKey].
func (r *AssignmentRepository) CountByPerson(ctx context.Context, personID, fromKey, toKey string) (int, error) {
	if personID == "" {
		return 0, fmt.Errorf("person_id is required")
	}

	query := `
		SELECT COUNT(*)
		FROM assignments
		WHERE person_id = $1 AND week_key >= $2 AND week_key <= $3
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, personID, fromKey, toKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}

	return count, nil
}
