package planner

import (
	"context"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// The engine never talks to storage directly. Collaborators hand it
// consistent snapshots through these contracts and persist whatever it
// decides through the commit sink.

// RosterProvider returns the people of the congregation. ActivePersons is
// the candidate pool; Persons includes inactive people so the validator
// can flag assignments they still hold.
type RosterProvider interface {
	ActivePersons(ctx context.Context) ([]models.Person, error)
	Persons(ctx context.Context) ([]models.Person, error)
}

// CatalogProvider returns the part-type definitions keyed by code,
// including which eligibility flag each part type requires.
type CatalogProvider interface {
	PartTypes(ctx context.Context) (map[string]models.PartType, error)
}

// WeekPlanProvider returns week plans and coverage projections. WeekPlan
// returns nil (no error) for an unplanned week.
type WeekPlanProvider interface {
	WeekPlan(ctx context.Context, weekKey string) (*models.WeekPlan, error)
	WeekPlansInRange(ctx context.Context, fromKey, toKey string) ([]models.WeekPlan, error)
	CoverageSnapshot(ctx context.Context, weekKey string) (models.WeekCoverageSnapshot, error)
}

// HistoryProvider returns the assignment history needed for duplicate,
// cooldown and fairness checks.
type HistoryProvider interface {
	Assignments(ctx context.Context, fromKey, toKey string) ([]models.Assignment, error)
}

// CommitSink durably records one decided assignment. A failed commit is
// fatal only for that unit; the orchestrator logs it and continues.
type CommitSink interface {
	Commit(ctx context.Context, assignment models.Assignment) error
}

// Settings are the externally configured knobs of the engine.
type Settings struct {
	// CooldownWeeks is the minimum spacing, in weeks, between two
	// assignments of the same person to the same part type. A gap equal
	// to the window is allowed; anything shorter is rejected.
	CooldownWeeks int

	// LookaheadWeeks bounds the window inspected for coverage alerts.
	LookaheadWeeks int
}
