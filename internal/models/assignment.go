package models

import (
	"fmt"
	"time"
)

// Assignment binds a person to one headcount unit of a weekly part
// (assignments table). TypeCode is denormalized from the part so cooldown
// checks do not need a plan lookup per history row.
// Invariant: at most one assignment per (person_id, part_id).
type Assignment struct {
	AssignmentID string    `json:"assignment_id" db:"assignment_id"`
	PersonID     string    `json:"person_id" db:"person_id"`
	PartID       string    `json:"part_id" db:"part_id"`
	TypeCode     string    `json:"type_code" db:"type_code"`
	WeekKey      string    `json:"week_key" db:"week_key"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Validate checks construction-time invariants.
func (a *Assignment) Validate() error {
	if a.AssignmentID == "" {
		return fmt.Errorf("assignment_id is required")
	}
	if a.PersonID == "" {
		return fmt.Errorf("person_id is required")
	}
	if a.PartID == "" {
		return fmt.Errorf("part_id is required")
	}
	if _, err := ParseWeekKey(a.WeekKey); err != nil {
		return err
	}
	return nil
}
