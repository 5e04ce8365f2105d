package models

// Planning alert kinds
const (
	AlertCoverage   = "COVERAGE"
	AlertCooldown   = "COOLDOWN_VIOLATION"
	AlertDuplicate  = "DUPLICATE_ASSIGNMENT"
	AlertIneligible = "INELIGIBLE_ASSIGNMENT"
)

// PlanningAlert flags a problem found while scanning a planning horizon.
// Alerts are recomputed on demand and never persisted; the short-lived
// Redis cache in the service layer is the only copy outside a response.
type PlanningAlert struct {
	Kind       string   `json:"kind"`
	WeekKeys   []string `json:"week_keys"`
	PersonID   string   `json:"person_id,omitempty"`
	PersonName string   `json:"person_name,omitempty"`
	PartType   string   `json:"part_type,omitempty"` // catalog label, code as fallback
}
