package models

// Week coverage statuses
const (
	WeekUnplanned = "unplanned"
	WeekPartial   = "partial"
	WeekPlanned   = "planned"
)

// WeekCoverageSnapshot is the raw slot-count projection for one week:
// total required headcount units versus units that hold an assignment.
type WeekCoverageSnapshot struct {
	WeekKey       string `json:"week_key"`
	HasWeekPlan   bool   `json:"has_week_plan"`
	TotalUnits    int    `json:"total_units"`
	AssignedUnits int    `json:"assigned_units"`
}

// WeekCoverageStatus is a snapshot plus its derived status.
type WeekCoverageStatus struct {
	WeekKey       string `json:"week_key"`
	Status        string `json:"status"`
	TotalUnits    int    `json:"total_units"`
	AssignedUnits int    `json:"assigned_units"`
}

// PlanningProgress summarizes how far planning has progressed over an
// ordered sequence of weeks. PlannedThroughWeekKey is the last key of the
// unbroken fully-planned prefix ("" when the first week already has a gap);
// PlannedWeeks counts every fully-planned week, gap or not.
type PlanningProgress struct {
	PlannedThroughWeekKey string `json:"planned_through_week_key"`
	PlannedWeeks          int    `json:"planned_weeks"`
	TotalWeeks            int    `json:"total_weeks"`
}
