// Package result holds the result entity: a project output such as a
// publication, dataset, or software artifact.
package result

import (
	"strings"

	"labtrack/internal/domain/person"
)

// ProjectRef identifies the owning project. Responses nest the full project
// record; only the identity fields matter on this side.
type ProjectRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}

// Result is a persisted project output. ID 0 marks a result that has not
// been persisted yet.
type Result struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Project     *ProjectRef     `json:"project,omitempty"`
	Persons     []person.Person `json:"persons,omitempty"`
}

// ProjectID returns the owning project's ID, or 0 when unset.
func (r Result) ProjectID() int64 {
	if r.Project == nil {
		return 0
	}
	return r.Project.ID
}

// Draft is a result the user has composed for a project that may not have a
// server-assigned ID yet. Members are person IDs drawn from the owning
// project's person set.
type Draft struct {
	Description string
	MemberIDs   []int64
}

// Validate checks the fields a save requires.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Description) == "" {
		return ErrDescriptionRequired
	}
	return nil
}

// ValidateMembers checks that every draft member is one of the allowed
// person IDs (the owning project's person set).
func (d Draft) ValidateMembers(allowed []int64) error {
	set := make(map[int64]struct{}, len(allowed))
	for _, id := range allowed {
		set[id] = struct{}{}
	}
	for _, id := range d.MemberIDs {
		if _, ok := set[id]; !ok {
			return ErrMemberNotOnProject
		}
	}
	return nil
}
