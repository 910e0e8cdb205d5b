package store

import (
	"sync"

	"github.com/google/uuid"

	"labtrack/internal/domain/result"
)

// DraftSession holds the results a user has composed for a project that may
// not have a server-assigned ID yet. One session belongs to one project-edit
// workflow and is passed explicitly to the save pipeline, so concurrent edit
// workflows cannot see each other's drafts.
type DraftSession struct {
	id string

	mu      sync.Mutex
	pending []result.Draft
}

// NewDraftSession creates an empty session.
func NewDraftSession() *DraftSession {
	return &DraftSession{id: uuid.NewString()}
}

// ID returns the session identifier.
func (s *DraftSession) ID() string { return s.id }

// Add validates the draft against the owning project's person set and
// appends it.
func (s *DraftSession) Add(d result.Draft, projectPersonIDs []int64) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := d.ValidateMembers(projectPersonIDs); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, d)
	return nil
}

// Pending returns a copy of the drafts in insertion order.
func (s *DraftSession) Pending() []result.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]result.Draft, len(s.pending))
	copy(out, s.pending)
	return out
}

// Len returns the number of drafts held.
func (s *DraftSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Clear empties the session. Called when the edit workflow is cancelled and
// at the end of every completed save cycle, success or not.
func (s *DraftSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// PlaceholderID returns the display ID for the draft at position i. Drafts
// have no server ID yet; listings use a negative placeholder that must never
// reach the backend.
func PlaceholderID(i int) int64 {
	return -int64(i) - 1
}
