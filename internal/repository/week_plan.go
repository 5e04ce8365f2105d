package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// WeekPlanRepository serves week plans and their parts (week_plans and
// weekly_parts tables) plus the coverage snapshot projection.
type WeekPlanRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWeekPlanRepository creates a week-plan repository.
func NewWeekPlanRepository(db *sql.DB, logger *zap.Logger) *WeekPlanRepository {
	return &WeekPlanRepository{
		db:     db,
		logger: logger,
	}
}

// WeekPlan returns the plan of one week with its parts in slot order, or
// nil when the week has no plan.
func (r *WeekPlanRepository) WeekPlan(ctx context.Context, weekKey string) (*models.WeekPlan, error) {
	if weekKey == "" {
		return nil, fmt.Errorf("week_key is required")
	}

	query := `
		SELECT plan_id, week_key, created_at, updated_at
		FROM week_plans
		WHERE week_key = $1
	`

	var plan models.WeekPlan
	err := r.db.QueryRowContext(ctx, query, weekKey).Scan(
		&plan.PlanID,
		&plan.WeekKey,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // unplanned week
		}
		return nil, fmt.Errorf("failed to query week plan: %w", err)
	}

	parts, err := r.partsForPlans(ctx, []string{plan.PlanID})
	if err != nil {
		return nil, err
	}
	plan.Parts = parts[plan.PlanID]

	return &plan, nil
}

// WeekPlansInRange returns the plans whose week key falls in
// [fromKey, toKey], ordered by week.
func (r *WeekPlanRepository) WeekPlansInRange(ctx context.Context, fromKey, toKey string) ([]models.WeekPlan, error) {
	if fromKey == "" || toKey == "" {
		return nil, fmt.Errorf("from and to week keys are required")
	}

	query := `
		SELECT plan_id, week_key, created_at, updated_at
		FROM week_plans
		WHERE week_key >= $1 AND week_key <= $2
		ORDER BY week_key
	`

	rows, err := r.db.QueryContext(ctx, query, fromKey, toKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query week plans: %w", err)
	}
	defer rows.Close()

	var plans []models.WeekPlan
	var planIDs []string
	for rows.Next() {
		var plan models.WeekPlan
		err := rows.Scan(&plan.PlanID, &plan.WeekKey, &plan.CreatedAt, &plan.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan week plan: %w", err)
		}
		plans = append(plans, plan)
		planIDs = append(planIDs, plan.PlanID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate week plans: %w", err)
	}
	if len(plans) == 0 {
		return plans, nil
	}

	parts, err := r.partsForPlans(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i].Parts = parts[plans[i].PlanID]
	}

	return plans, nil
}

// CreateWeekPlan inserts a plan and its parts in one transaction.
func (r *WeekPlanRepository) CreateWeekPlan(ctx context.Context, plan *models.WeekPlan) error {
	if plan == nil {
		return fmt.Errorf("plan is required")
	}
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("invalid week plan: %w", err)
	}
	for i := range plan.Parts {
		if err := plan.Parts[i].Validate(); err != nil {
			return fmt.Errorf("invalid part %s: %w", plan.Parts[i].PartID, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO week_plans (plan_id, week_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, plan.PlanID, plan.WeekKey, plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create week plan: %w", err)
	}

	for i := range plan.Parts {
		part := &plan.Parts[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO weekly_parts (
				part_id, plan_id, week_key, type_code, title,
				headcount, sex_rule, sort_order
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, part.PartID, plan.PlanID, part.WeekKey, part.TypeCode,
			part.Title, part.Headcount, part.SexRule, part.SortOrder)
		if err != nil {
			return fmt.Errorf("failed to create weekly part: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit week plan: %w", err)
	}

	r.logger.Debug("Week plan created",
		zap.String("week_key", plan.WeekKey),
		zap.Int("parts", len(plan.Parts)),
	)
	return nil
}

// CoverageSnapshot projects one week into its raw coverage counts: total
// required headcount units versus units holding an assignment.
func (r *WeekPlanRepository) CoverageSnapshot(ctx context.Context, weekKey string) (models.WeekCoverageSnapshot, error) {
	snapshot := models.WeekCoverageSnapshot{WeekKey: weekKey}
	if weekKey == "" {
		return snapshot, fmt.Errorf("week_key is required")
	}

	var planID string
	err := r.db.QueryRowContext(ctx,
		`SELECT plan_id FROM week_plans WHERE week_key = $1`,
		weekKey,
	).Scan(&planID)
	if err != nil {
		if err == sql.ErrNoRows {
			return snapshot, nil // no plan recorded
		}
		return snapshot, fmt.Errorf("failed to query week plan: %w", err)
	}
	snapshot.HasWeekPlan = true

	query := `
		SELECT
			(SELECT COALESCE(SUM(headcount), 0) FROM weekly_parts WHERE plan_id = $1),
			(SELECT COUNT(*)
			 FROM assignments a
			 JOIN weekly_parts wp ON a.part_id = wp.part_id
			 WHERE wp.plan_id = $1)
	`

	err = r.db.QueryRowContext(ctx, query, planID).Scan(
		&snapshot.TotalUnits,
		&snapshot.AssignedUnits,
	)
	if err != nil {
		return snapshot, fmt.Errorf("failed to query coverage counts: %w", err)
	}

	return snapshot, nil
}

// partsForPlans loads the parts of the given plans in slot order, grouped
// by plan ID.
func (r *WeekPlanRepository) partsForPlans(ctx context.Context, planIDs []string) (map[string][]models.WeeklyPart, error) {
	query := `
		SELECT part_id, plan_id, week_key, type_code, title,
		       headcount, sex_rule, sort_order
		FROM weekly_parts
		WHERE plan_id = ANY($1)
		ORDER BY week_key, sort_order, part_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(planIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly parts: %w", err)
	}
	defer rows.Close()

	parts := make(map[string][]models.WeeklyPart)
	for rows.Next() {
		var p models.WeeklyPart
		err := rows.Scan(
			&p.PartID,
			&p.PlanID,
			&p.WeekKey,
			&p.TypeCode,
			&p.Title,
			&p.Headcount,
			&p.SexRule,
			&p.SortOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weekly part: %w", err)
		}
		parts[p.PlanID] = append(parts[p.PlanID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weekly parts: %w", err)
	}

	return parts, nil
}
