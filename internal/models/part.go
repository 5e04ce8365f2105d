package models

import (
	"fmt"
	"strings"
)

// Sex rules for a part (who may be assigned)
const (
	SexRuleMaleOnly = "male_only"
	SexRuleOpen     = "open"
)

// Eligibility requirement of a part type. Which flag a part type needs is
// catalog data, imported with the part type, never computed by the engine.
const (
	RequiresNone   = ""
	RequiresAssist = "assist"
	RequiresLead   = "lead"
)

// PartType is the catalog definition of a recurring duty kind
// (part_types table). Created and updated by catalog import only.
type PartType struct {
	PartTypeID string `json:"part_type_id" db:"part_type_id"`
	Code       string `json:"code" db:"code"`
	Label      string `json:"label" db:"label"`
	Headcount  int    `json:"headcount" db:"headcount"`
	SexRule    string `json:"sex_rule" db:"sex_rule"`
	Requires   string `json:"requires" db:"requires"`
	Fixed      bool   `json:"fixed" db:"fixed"` // slot content is template-driven
	SortOrder  int    `json:"sort_order" db:"sort_order"`
}

// Validate checks construction-time invariants.
func (t *PartType) Validate() error {
	if t.PartTypeID == "" {
		return fmt.Errorf("part_type_id is required")
	}
	if strings.TrimSpace(t.Code) == "" {
		return fmt.Errorf("code is required")
	}
	if strings.TrimSpace(t.Label) == "" {
		return fmt.Errorf("label is required")
	}
	if t.Headcount < 1 {
		return fmt.Errorf("headcount must be >= 1, got %d", t.Headcount)
	}
	if t.SexRule != SexRuleMaleOnly && t.SexRule != SexRuleOpen {
		return fmt.Errorf("invalid sex_rule: %s", t.SexRule)
	}
	if t.Requires != RequiresNone && t.Requires != RequiresAssist && t.Requires != RequiresLead {
		return fmt.Errorf("invalid requires: %s", t.Requires)
	}
	return nil
}

// WeeklyPart is one slot of a week plan (weekly_parts table). Headcount and
// sex rule are copied from the part type template when the plan is created.
// Occupancy is derived from the assignment set, never stored here.
type WeeklyPart struct {
	PartID    string `json:"part_id" db:"part_id"`
	PlanID    string `json:"plan_id" db:"plan_id"`
	WeekKey   string `json:"week_key" db:"week_key"`
	TypeCode  string `json:"type_code" db:"type_code"`
	Title     string `json:"title" db:"title"`
	Headcount int    `json:"headcount" db:"headcount"`
	SexRule   string `json:"sex_rule" db:"sex_rule"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
}

// Validate checks construction-time invariants.
func (p *WeeklyPart) Validate() error {
	if p.PartID == "" {
		return fmt.Errorf("part_id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if p.Headcount < 1 {
		return fmt.Errorf("headcount must be >= 1, got %d", p.Headcount)
	}
	if _, err := ParseWeekKey(p.WeekKey); err != nil {
		return err
	}
	return nil
}
