package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// PartTypeRepository serves the part-type catalog (part_types table). Rows
// are written by catalog import and read-only to everything else.
type PartTypeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPartTypeRepository creates a part-type repository.
func NewPartTypeRepository(db *sql.DB, logger *zap.Logger) *PartTypeRepository {
	return &PartTypeRepository{
		db:     db,
		logger: logger,
	}
}

// PartTypes returns the full catalog keyed by code. Implements the planner
// catalog provider.
func (r *PartTypeRepository) PartTypes(ctx context.Context) (map[string]models.PartType, error) {
	query := `
		SELECT
			part_type_id,
			code,
			label,
			headcount,
			sex_rule,
			requires,
			fixed,
			sort_order
		FROM part_types
		ORDER BY sort_order, code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query part types: %w", err)
	}
	defer rows.Close()

	catalog := make(map[string]models.PartType)
	for rows.Next() {
		var t models.PartType
		err := rows.Scan(
			&t.PartTypeID,
			&t.Code,
			&t.Label,
			&t.Headcount,
			&t.SexRule,
			&t.Requires,
			&t.Fixed,
			&t.SortOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan part type: %w", err)
		}
		catalog[t.Code] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate part types: %w", err)
	}

	return catalog, nil
}

// UpsertPartType inserts or updates a catalog entry by code. Used by the
// catalog import job.
func (r *PartTypeRepository) UpsertPartType(ctx context.Context, partType *models.PartType) error {
	if partType == nil {
		return fmt.Errorf("part type is required")
	}
	if err := partType.Validate(); err != nil {
		return fmt.Errorf("invalid part type: %w", err)
	}

	query := `
		INSERT INTO part_types (
			part_type_id,
			code,
			label,
			headcount,
			sex_rule,
			requires,
			fixed,
			sort_order
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (code) DO UPDATE SET
			label = EXCLUDED.label,
			headcount = EXCLUDED.headcount,
			sex_rule = EXCLUDED.sex_rule,
			requires = EXCLUDED.requires,
			fixed = EXCLUDED.fixed,
			sort_order = EXCLUDED.sort_order
	`

	_, err := r.db.ExecContext(ctx, query,
		partType.PartTypeID,
		partType.Code,
		partType.Label,
		partType.Headcount,
		partType.SexRule,
		partType.Requires,
		partType.Fixed,
		partType.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert part type: %w", err)
	}

	r.logger.Debug("Part type upserted",
		zap.String("code", partType.Code),
		zap.String("label", partType.Label),
	)
	return nil
}

// GetPartTypeByCode fetches one catalog entry.
func (r *PartTypeRepository) GetPartTypeByCode(ctx context.Context, code string) (*models.PartType, error) {
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}

	query := `
		SELECT
			part_type_id,
			code,
			label,
			headcount,
			sex_rule,
			requires,
			fixed,
			sort_order
		FROM part_types
		WHERE code = $1
	`

	var t models.PartType
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&t.PartTypeID,
		&t.Code,
		&t.Label,
		&t.Headcount,
		&t.SexRule,
		&t.Requires,
		&t.Fixed,
		&t.SortOrder,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("part type not found: %s", code)
		}
		return nil, fmt.Errorf("failed to query part type: %w", err)
	}

	return &t, nil
}
