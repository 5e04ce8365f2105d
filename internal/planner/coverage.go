package planner

import (
	"github.com/fabiorizzello/ministero-del-regno-planner-sub001/internal/models"
)

// ClassifyWeek derives the coverage status of one week from its raw slot
// counts. Rules are evaluated in order, first match wins:
//  1. no week plan or nothing required  -> unplanned
//  2. assigned units cover total units  -> planned
//  3. anything assigned                 -> partial
//  4. otherwise                         -> unplanned
func ClassifyWeek(snapshot models.WeekCoverageSnapshot) models.WeekCoverageStatus {
	status := models.WeekCoverageStatus{
		WeekKey:       snapshot.WeekKey,
		TotalUnits:    snapshot.TotalUnits,
		AssignedUnits: snapshot.AssignedUnits,
	}

	switch {
	case !snapshot.HasWeekPlan || snapshot.TotalUnits <= 0:
		status.Status = models.WeekUnplanned
	case snapshot.AssignedUnits >= snapshot.TotalUnits:
		status.Status = models.WeekPlanned
	case snapshot.AssignedUnits > 0:
		status.Status = models.WeekPartial
	default:
		status.Status = models.WeekUnplanned
	}

	return status
}

// AggregateProgress folds a chronological sequence of week statuses into a
// single progress summary. The planned-through marker stops at the first
// week that is not fully planned; planned weeks past a gap still count in
// PlannedWeeks.
func AggregateProgress(statuses []models.WeekCoverageStatus) models.PlanningProgress {
	progress := models.PlanningProgress{TotalWeeks: len(statuses)}

	prefixUnbroken := true
	for _, status := range statuses {
		if status.Status != models.WeekPlanned {
			prefixUnbroken = false
			continue
		}
		progress.PlannedWeeks++
		if prefixUnbroken {
			progress.PlannedThroughWeekKey = status.WeekKey
		}
	}

	return progress
}

// CoverageAlerts scans the first weeksToCheck entries of a chronological
// status sequence and reports the weeks that are not fully planned. At most
// one COVERAGE alert is emitted, listing the offending week keys in order.
func CoverageAlerts(statuses []models.WeekCoverageStatus, weeksToCheck int) []models.PlanningAlert {
	if weeksToCheck <= 0 {
		return nil
	}
	if weeksToCheck > len(statuses) {
		weeksToCheck = len(statuses)
	}

	var gaps []string
	for _, status := range statuses[:weeksToCheck] {
		if status.Status != models.WeekPlanned {
			gaps = append(gaps, status.WeekKey)
		}
	}
	if len(gaps) == 0 {
		return nil
	}

	return []models.PlanningAlert{{
		Kind:     models.AlertCoverage,
		WeekKeys: gaps,
	}}
}
