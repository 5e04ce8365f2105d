package planner

import (
	"fmt"
	"sort"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// Validator replays an assignment set against the hard constraints and
// reports every violation as alert data. Nothing is thrown and nothing is
// deleted; resolving a violation is up to a human or the orchestrator.
type Validator struct {
	evaluator *Evaluator
}

// NewValidator creates a validator sharing the evaluator's constraint set.
func NewValidator(catalog map[string]models.PartType, settings Settings) *Validator {
	return &Validator{evaluator: NewEvaluator(catalog, settings)}
}

// Validate re-checks every assignment as if it were being made fresh,
// ignoring the assignment itself. Persons and parts are keyed by ID;
// assignments referencing unknown persons or parts are skipped. Each
// violation is reported once per (kind, person, part-or-type, week), so
// the output is stable under re-runs and traversal order.
func (v *Validator) Validate(
	assignments []models.Assignment,
	persons map[string]models.Person,
	parts map[string]models.WeeklyPart,
) []models.PlanningAlert {
	history := NewHistory(assignments)

	// Deterministic traversal: by week, part order, person, then ID.
	ordered := make([]models.Assignment, len(assignments))
	copy(ordered, assignments)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.WeekKey != b.WeekKey {
			return a.WeekKey < b.WeekKey
		}
		pa, pb := parts[a.PartID], parts[b.PartID]
		if pa.SortOrder != pb.SortOrder {
			return pa.SortOrder < pb.SortOrder
		}
		if a.PersonID != b.PersonID {
			return a.PersonID < b.PersonID
		}
		return a.AssignmentID < b.AssignmentID
	})

	var alerts []models.PlanningAlert
	seen := make(map[string]bool)
	emit := func(kind, dedupeKey string, a models.Assignment, person models.Person, part models.WeeklyPart) {
		key := kind + "|" + dedupeKey
		if seen[key] {
			return
		}
		seen[key] = true
		alerts = append(alerts, models.PlanningAlert{
			Kind:       kind,
			WeekKeys:   []string{a.WeekKey},
			PersonID:   person.PersonID,
			PersonName: person.FullName(),
			PartType:   v.partTypeName(part.TypeCode),
		})
	}

	for _, a := range ordered {
		person, okPerson := persons[a.PersonID]
		part, okPart := parts[a.PartID]
		if !okPerson || !okPart {
			// Dangling reference from a misbehaving collaborator;
			// exclude the record and keep scanning.
			continue
		}

		if history.HoldsPartExcluding(a.PersonID, a.PartID, a.AssignmentID) {
			emit(models.AlertDuplicate,
				fmt.Sprintf("%s|%s|%s", a.PersonID, a.PartID, a.WeekKey),
				a, person, part)
		}
		if v.evaluator.inCooldown(a.PersonID, part, history, a.AssignmentID) {
			emit(models.AlertCooldown,
				fmt.Sprintf("%s|%s|%s", a.PersonID, part.TypeCode, a.WeekKey),
				a, person, part)
		}
		if _, ok := v.evaluator.personReason(person, part); !ok {
			emit(models.AlertIneligible,
				fmt.Sprintf("%s|%s|%s", a.PersonID, a.PartID, a.WeekKey),
				a, person, part)
		}
	}

	return alerts
}

// partTypeName resolves a type code to its catalog label, falling back to
// the code for types missing from the catalog.
func (v *Validator) partTypeName(typeCode string) string {
	if partType, ok := v.evaluator.catalog[typeCode]; ok {
		return partType.Label
	}
	return typeCode
}
