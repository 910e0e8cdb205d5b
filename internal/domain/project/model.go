// Package project holds the project entity: a research project with role-
// tagged person associations and attached results.
package project

import (
	"strings"

	"labtrack/internal/api"
	"labtrack/internal/domain/person"
	"labtrack/internal/domain/result"
)

// Role tags a person's association with a project.
type Role string

const (
	RoleCoordinator Role = "coordinator"
	RoleMember      Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCoordinator || r == RoleMember
}

// Member is a person associated with a project under a role.
type Member struct {
	person.Person
	Role Role `json:"role"`
}

// Project is a research project. ID 0 marks an unsaved draft.
type Project struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Sponsor     string          `json:"sponsor,omitempty"`
	StartDate   api.Time        `json:"startDate"`
	FinishDate  api.Time        `json:"finishDate"`
	IsFinished  bool            `json:"isFinished"`
	Persons     []Member        `json:"persons,omitempty"`
	Results     []result.Result `json:"results"`
	CreatedAt   api.Time        `json:"created_at"`
	UpdatedAt   api.Time        `json:"updated_at"`
}

// Validate checks the fields a save requires: title and start date present,
// finish date (when set) not before the start date, known roles.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if p.StartDate.IsZero() {
		return ErrStartDateRequired
	}
	if !p.FinishDate.IsZero() && p.FinishDate.Before(p.StartDate.Time) {
		return ErrFinishBeforeStart
	}
	for _, m := range p.Persons {
		if !m.Role.Valid() {
			return ErrUnknownRole
		}
	}
	return nil
}

// PersonIDs returns the IDs of the associated persons, in association order.
func (p Project) PersonIDs() []int64 {
	ids := make([]int64, 0, len(p.Persons))
	for _, m := range p.Persons {
		ids = append(ids, m.ID)
	}
	return ids
}

// ResultIDs returns the IDs of the attached results.
func (p Project) ResultIDs() []int64 {
	ids := make([]int64, 0, len(p.Results))
	for _, r := range p.Results {
		ids = append(ids, r.ID)
	}
	return ids
}
