package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPerson() Person {
	return Person{
		PersonID:  "p1",
		FirstName: "Ada",
		LastName:  "Moretti",
		Sex:       SexFemale,
		Active:    true,
	}
}

func TestPersonValidate(t *testing.T) {
	p := validPerson()
	require.NoError(t, p.Validate())

	p = validPerson()
	p.PersonID = ""
	assert.ErrorContains(t, p.Validate(), "person_id is required")

	p = validPerson()
	p.FirstName = "   "
	assert.ErrorContains(t, p.Validate(), "first_name is required")

	p = validPerson()
	p.LastName = ""
	assert.ErrorContains(t, p.Validate(), "last_name is required")

	p = validPerson()
	p.Sex = "other"
	assert.ErrorContains(t, p.Validate(), "invalid sex")
}

func TestPersonFullName(t *testing.T) {
	p := validPerson()
	assert.Equal(t, "Ada Moretti", p.FullName())

	p.LastName = ""
	assert.Equal(t, "Ada", p.FullName())
}

func TestPartTypeValidate(t *testing.T) {
	valid := PartType{
		PartTypeID: "pt-1",
		Code:       "ATTENDANT",
		Label:      "Attendant",
		Headcount:  2,
		SexRule:    SexRuleMaleOnly,
		Requires:   RequiresAssist,
	}
	require.NoError(t, valid.Validate())

	noRequires := valid
	noRequires.Requires = RequiresNone
	require.NoError(t, noRequires.Validate())

	tests := []struct {
		name    string
		mutate  func(*PartType)
		message string
	}{
		{"missing id", func(p *PartType) { p.PartTypeID = "" }, "part_type_id is required"},
		{"blank code", func(p *PartType) { p.Code = " " }, "code is required"},
		{"blank label", func(p *PartType) { p.Label = "" }, "label is required"},
		{"zero headcount", func(p *PartType) { p.Headcount = 0 }, "headcount must be >= 1"},
		{"bad sex rule", func(p *PartType) { p.SexRule = "mixed" }, "invalid sex_rule"},
		{"bad requires", func(p *PartType) { p.Requires = "drive" }, "invalid requires"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.ErrorContains(t, p.Validate(), tt.message)
		})
	}
}

func TestWeeklyPartValidate(t *testing.T) {
	valid := WeeklyPart{
		PartID:    "part-1",
		PlanID:    "plan-1",
		WeekKey:   "2026-01-05",
		TypeCode:  "CLEANING",
		Title:     "Cleaning",
		Headcount: 1,
	}
	require.NoError(t, valid.Validate())

	p := valid
	p.PartID = ""
	assert.ErrorContains(t, p.Validate(), "part_id is required")

	p = valid
	p.Title = "  "
	assert.ErrorContains(t, p.Validate(), "title is required")

	p = valid
	p.Headcount = -1
	assert.ErrorContains(t, p.Validate(), "headcount must be >= 1")

	p = valid
	p.WeekKey = "2026-01-07"
	assert.ErrorContains(t, p.Validate(), "not a Monday")
}

func TestAssignmentValidate(t *testing.T) {
	valid := Assignment{
		AssignmentID: "a1",
		PersonID:     "p1",
		PartID:       "part-1",
		TypeCode:     "CLEANING",
		WeekKey:      "2026-01-05",
	}
	require.NoError(t, valid.Validate())

	a := valid
	a.AssignmentID = ""
	assert.ErrorContains(t, a.Validate(), "assignment_id is required")

	a = valid
	a.PersonID = ""
	assert.ErrorContains(t, a.Validate(), "person_id is required")

	a = valid
	a.PartID = ""
	assert.ErrorContains(t, a.Validate(), "part_id is required")

	a = valid
	a.WeekKey = "2026-01-04"
	assert.Error(t, a.Validate())
}

func TestWeekPlanValidateAndTotals(t *testing.T) {
	plan := WeekPlan{
		PlanID:  "plan-1",
		WeekKey: "2026-01-05",
		Parts: []WeeklyPart{
			{PartID: "part-1", Headcount: 2},
			{PartID: "part-2", Headcount: 3},
		},
	}
	require.NoError(t, plan.Validate())
	assert.Equal(t, 5, plan.TotalUnits())

	empty := WeekPlan{PlanID: "plan-2", WeekKey: "2026-01-12"}
	require.NoError(t, empty.Validate())
	assert.Equal(t, 0, empty.TotalUnits())

	plan.PlanID = ""
	assert.ErrorContains(t, plan.Validate(), "plan_id is required")

	plan.PlanID = "plan-1"
	plan.WeekKey = "2026-01-06"
	assert.Error(t, plan.Validate())
}
