package models

import (
	"fmt"
	"strings"
	"time"
)

// Sex values (persons table CHECK constraint)
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Person (persons table). Immutable value once loaded; eligibility flags
// change only through the person repository operations.
type Person struct {
	PersonID  string    `json:"person_id" db:"person_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Sex       string    `json:"sex" db:"sex"`
	Active    bool      `json:"active" db:"active"`
	MayAssist bool      `json:"may_assist" db:"may_assist"`
	MayLead   bool      `json:"may_lead" db:"may_lead"`
	Suspended bool      `json:"suspended" db:"suspended"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks construction-time invariants.
func (p *Person) Validate() error {
	if p.PersonID == "" {
		return fmt.Errorf("person_id is required")
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return fmt.Errorf("first_name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("last_name is required")
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		return fmt.Errorf("invalid sex: %s", p.Sex)
	}
	return nil
}

// FullName returns "First Last".
func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
