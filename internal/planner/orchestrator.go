package planner

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// Reasons a slot unit can remain open after an auto-assignment run.
const (
	UnresolvedNoCandidates = "no_eligible_candidates"
	UnresolvedCommitFailed = "commit_failed"
	UnresolvedInvalidPart  = "invalid_part"
)

// UnresolvedUnit is one headcount unit the run could not fill.
type UnresolvedUnit struct {
	PartID  string `json:"part_id"`
	WeekKey string `json:"week_key"`
	Reason  string `json:"reason"`
}

// Report is the terminal outcome of an auto-assignment run.
type Report struct {
	Filled     int              `json:"filled"`
	Unresolved []UnresolvedUnit `json:"unresolved"`
}

// Orchestrator drives ranking across all open slot units of a program and
// commits the winners. The run is best effort: one unfillable unit never
// aborts the rest, and a commit failure is fatal only for its own unit.
// Callers must hold the program lock; two concurrent runs over the same
// slots would race the duplicate and cooldown checks.
type Orchestrator struct {
	evaluator *Evaluator
	sink      CommitSink
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrchestrator creates an orchestrator committing through sink.
func NewOrchestrator(evaluator *Evaluator, sink CommitSink, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		evaluator: evaluator,
		sink:      sink,
		logger:    logger,
		now:       time.Now,
	}
}

// Run fills the open headcount units of the given week plans in a fixed
// order: week, then part sort order, then remaining headcount (largest
// first). Every committed assignment is appended to history before the
// next unit is ranked, so the run never double-books a person within
// itself. Cancelling ctx stops the run between slots; a single commit is
// never interrupted.
func (o *Orchestrator) Run(ctx context.Context, plans []models.WeekPlan, roster []models.Person, history *History) Report {
	var report Report

	ordered := make([]models.WeekPlan, len(plans))
	copy(ordered, plans)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].WeekKey < ordered[j].WeekKey })

	for _, plan := range ordered {
		if ctx.Err() != nil {
			o.logger.Warn("Auto-assignment run cancelled",
				zap.String("week_key", plan.WeekKey),
				zap.Int("filled", report.Filled),
			)
			return report
		}
		o.runWeek(ctx, plan, roster, history, &report)
	}

	o.logger.Info("Auto-assignment run finished",
		zap.Int("filled", report.Filled),
		zap.Int("unresolved", len(report.Unresolved)),
	)
	return report
}

func (o *Orchestrator) runWeek(ctx context.Context, plan models.WeekPlan, roster []models.Person, history *History, report *Report) {
	parts := make([]models.WeeklyPart, len(plan.Parts))
	copy(parts, plan.Parts)
	sort.Slice(parts, func(i, j int) bool {
		a, b := parts[i], parts[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		openA := a.Headcount - history.AssignedCount(a.PartID)
		openB := b.Headcount - history.AssignedCount(b.PartID)
		if openA != openB {
			return openA > openB
		}
		return a.PartID < b.PartID
	})

	for _, part := range parts {
		if err := part.Validate(); err != nil {
			o.logger.Warn("Skipping malformed part",
				zap.String("part_id", part.PartID),
				zap.String("week_key", plan.WeekKey),
				zap.Error(err),
			)
			report.Unresolved = append(report.Unresolved, UnresolvedUnit{
				PartID:  part.PartID,
				WeekKey: plan.WeekKey,
				Reason:  UnresolvedInvalidPart,
			})
			continue
		}

		open := part.Headcount - history.AssignedCount(part.PartID)
		for unit := 0; unit < open; unit++ {
			candidates := o.evaluator.RankCandidates(part, roster, history)
			if len(candidates) == 0 {
				// The remaining units of this part can only see the
				// same roster against a grown history, so they are
				// unfillable too.
				for ; unit < open; unit++ {
					report.Unresolved = append(report.Unresolved, UnresolvedUnit{
						PartID:  part.PartID,
						WeekKey: part.WeekKey,
						Reason:  UnresolvedNoCandidates,
					})
				}
				o.logger.Warn("No eligible candidates for part",
					zap.String("part_id", part.PartID),
					zap.String("week_key", part.WeekKey),
					zap.String("title", part.Title),
				)
				break
			}

			assignment := models.Assignment{
				AssignmentID: uuid.New().String(),
				PersonID:     candidates[0].Person.PersonID,
				PartID:       part.PartID,
				TypeCode:     part.TypeCode,
				WeekKey:      part.WeekKey,
				CreatedAt:    o.now(),
			}
			if err := o.sink.Commit(ctx, assignment); err != nil {
				o.logger.Error("Failed to commit assignment",
					zap.String("part_id", part.PartID),
					zap.String("person_id", assignment.PersonID),
					zap.String("week_key", part.WeekKey),
					zap.Error(err),
				)
				report.Unresolved = append(report.Unresolved, UnresolvedUnit{
					PartID:  part.PartID,
					WeekKey: part.WeekKey,
					Reason:  UnresolvedCommitFailed,
				})
				continue
			}

			history.Add(assignment)
			report.Filled++
			o.logger.Debug("Assignment committed",
				zap.String("part_id", part.PartID),
				zap.String("person_id", assignment.PersonID),
				zap.String("week_key", part.WeekKey),
				zap.Int("score", candidates[0].Score),
			)
		}
	}
}
