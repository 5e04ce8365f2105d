package planner

import (
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// RejectionReason tags why a candidate may not occupy a slot.
type RejectionReason string

const (
	ReasonInactive    RejectionReason = "inactive"
	ReasonSuspended   RejectionReason = "suspended"
	ReasonSexRule     RejectionReason = "sex_rule"
	ReasonNotEligible RejectionReason = "not_eligible"
	ReasonDuplicate   RejectionReason = "duplicate"
	ReasonCooldown    RejectionReason = "cooldown"
)

// Soft-score weights. One prior assignment outweighs a month of idleness;
// the idle bonus is capped so a long-absent person does not dominate the
// ranking forever.
const (
	assignmentLoadWeight = 4
	idleWeeksCap         = 52
)

// Evaluation is the outcome of checking one candidate against one slot:
// either a rejection with a reason, or an eligibility confirmation with a
// desirability score.
type Evaluation struct {
	Eligible bool
	Reason   RejectionReason
	Score    int
}

// Evaluator applies the hard constraints and the soft scoring of candidate
// selection. It is pure computation over the snapshots it is given.
type Evaluator struct {
	catalog  map[string]models.PartType
	settings Settings
}

// NewEvaluator creates an evaluator over a part-type catalog.
func NewEvaluator(catalog map[string]models.PartType, settings Settings) *Evaluator {
	return &Evaluator{
		catalog:  catalog,
		settings: settings,
	}
}

// Evaluate decides whether person may occupy one unit of part, and how
// desirable that assignment would be. Hard constraints are checked in a
// fixed order; the first violated one becomes the rejection reason.
func (e *Evaluator) Evaluate(person models.Person, part models.WeeklyPart, history *History) Evaluation {
	if reason, ok := e.personReason(person, part); !ok {
		return Evaluation{Reason: reason}
	}
	if history.HoldsPartExcluding(person.PersonID, part.PartID, "") {
		return Evaluation{Reason: ReasonDuplicate}
	}
	if e.inCooldown(person.PersonID, part, history, "") {
		return Evaluation{Reason: ReasonCooldown}
	}
	return Evaluation{
		Eligible: true,
		Score:    e.score(person, part, history),
	}
}

// personReason checks the constraints that depend only on the person and
// the slot definition: active, not suspended, sex rule, eligibility flag.
func (e *Evaluator) personReason(person models.Person, part models.WeeklyPart) (RejectionReason, bool) {
	if !person.Active {
		return ReasonInactive, false
	}
	if person.Suspended {
		return ReasonSuspended, false
	}
	if part.SexRule == models.SexRuleMaleOnly && person.Sex != models.SexMale {
		return ReasonSexRule, false
	}
	switch e.catalog[part.TypeCode].Requires {
	case models.RequiresAssist:
		if !person.MayAssist {
			return ReasonNotEligible, false
		}
	case models.RequiresLead:
		if !person.MayLead {
			return ReasonNotEligible, false
		}
	}
	return "", true
}

// inCooldown reports whether the person held the same part type within the
// cooldown window before the target week. A gap equal to the window is
// allowed; a shorter one is not. Assignments after the target week never
// trigger the cooldown.
func (e *Evaluator) inCooldown(personID string, part models.WeeklyPart, history *History, excludeID string) bool {
	window := e.settings.CooldownWeeks
	if window <= 0 {
		return false
	}
	target, ok := models.WeekIndex(part.WeekKey)
	if !ok {
		return false
	}

	violated := false
	history.SameType(personID, part.TypeCode, excludeID, func(weekIndex int) bool {
		gap := target - weekIndex
		if gap >= 0 && gap < window {
			violated = true
			return false
		}
		return true
	})
	return violated
}

// score computes the soft desirability of the assignment: fewer prior
// assignments and a longer idle stretch both rank higher.
func (e *Evaluator) score(person models.Person, part models.WeeklyPart, history *History) int {
	idle := idleWeeksCap
	if last, ok := history.LastWeekIndex(person.PersonID); ok {
		if target, ok := models.WeekIndex(part.WeekKey); ok {
			gap := target - last
			if gap < 0 {
				gap = 0
			}
			if gap < idle {
				idle = gap
			}
		}
	}
	return idle - history.TotalFor(person.PersonID)*assignmentLoadWeight
}
