package planner

import (
	"sort"

	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// Candidate is one eligible person together with its soft score.
type Candidate struct {
	Person models.Person
	Score  int
}

// RankCandidates evaluates every roster member against the slot, drops the
// ineligible ones and orders the rest descending by score. Ties break
// ascending by person ID, so two runs over identical input produce the
// identical ordering. An empty result is a valid outcome, not an error.
func (e *Evaluator) RankCandidates(part models.WeeklyPart, roster []models.Person, history *History) []Candidate {
	var candidates []Candidate
	for _, person := range roster {
		evaluation := e.Evaluate(person, part, history)
		if !evaluation.Eligible {
			continue
		}
		candidates = append(candidates, Candidate{Person: person, Score: evaluation.Score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Person.PersonID < candidates[j].Person.PersonID
	})

	return candidates
}

// TopCandidates returns at most limit candidates off the front of the
// ranking. limit <= 0 means no truncation.
func (e *Evaluator) TopCandidates(part models.WeeklyPart, roster []models.Person, history *History, limit int) []Candidate {
	candidates := e.RankCandidates(part, roster, history)
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
