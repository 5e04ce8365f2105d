package models

import (
	"fmt"
	"time"
)

// WeekPlan is the program of one week (week_plans table) together with its
// ordered parts. A week with no record, or a record with zero parts, counts
// as unplanned.
type WeekPlan struct {
	PlanID    string       `json:"plan_id" db:"plan_id"`
	WeekKey   string       `json:"week_key" db:"week_key"`
	Parts     []WeeklyPart `json:"parts"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// Validate checks construction-time invariants.
func (w *WeekPlan) Validate() error {
	if w.PlanID == "" {
		return fmt.Errorf("plan_id is required")
	}
	if _, err := ParseWeekKey(w.WeekKey); err != nil {
		return err
	}
	return nil
}

// TotalUnits is the sum of the required headcount over all parts.
func (w *WeekPlan) TotalUnits() int {
	total := 0
	for i := range w.Parts {
		total += w.Parts[i].Headcount
	}
	return total
}
