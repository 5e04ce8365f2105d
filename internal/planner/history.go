package planner

import (
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// History indexes an assignment snapshot for the duplicate, cooldown and
// fairness checks. The orchestrator appends to it as it commits, so later
// slots in the same run see earlier decisions.
type History struct {
	byPerson map[string][]models.Assignment
	byPart   map[string]int // occupancy per part_id
}

// NewHistory builds an index over an assignment snapshot.
func NewHistory(assignments []models.Assignment) *History {
	h := &History{
		byPerson: make(map[string][]models.Assignment),
		byPart:   make(map[string]int),
	}
	for _, a := range assignments {
		h.Add(a)
	}
	return h
}

// Add records one assignment.
func (h *History) Add(a models.Assignment) {
	h.byPerson[a.PersonID] = append(h.byPerson[a.PersonID], a)
	h.byPart[a.PartID]++
}

// AssignedCount returns the current occupancy of a part.
func (h *History) AssignedCount(partID string) int {
	return h.byPart[partID]
}

// TotalFor returns how many assignments a person holds in the snapshot.
func (h *History) TotalFor(personID string) int {
	return len(h.byPerson[personID])
}

// HoldsPartExcluding reports whether the person holds an assignment for the
// part, ignoring the assignment with excludeID (used when re-validating an
// existing assignment against the rest of the set).
func (h *History) HoldsPartExcluding(personID, partID, excludeID string) bool {
	for _, a := range h.byPerson[personID] {
		if a.PartID == partID && a.AssignmentID != excludeID {
			return true
		}
	}
	return false
}

// LastWeekIndex returns the week index of the person's most recent
// assignment of any kind. Assignments with malformed week keys are skipped.
func (h *History) LastWeekIndex(personID string) (int, bool) {
	last, found := 0, false
	for _, a := range h.byPerson[personID] {
		idx, ok := models.WeekIndex(a.WeekKey)
		if !ok {
			continue
		}
		if !found || idx > last {
			last, found = idx, true
		}
	}
	return last, found
}

// SameType iterates the person's assignments of one part type, ignoring
// excludeID, and hands each valid week index to fn. Iteration stops early
// when fn returns false.
func (h *History) SameType(personID, typeCode, excludeID string, fn func(weekIndex int) bool) {
	for _, a := range h.byPerson[personID] {
		if a.TypeCode != typeCode || a.AssignmentID == excludeID {
			continue
		}
		idx, ok := models.WeekIndex(a.WeekKey)
		if !ok {
			continue
		}
		if !fn(idx) {
			return
		}
	}
}
