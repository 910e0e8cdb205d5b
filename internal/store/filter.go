package store

import (
	"strings"
	"time"

	"labtrack/internal/domain/project"
)

// StatusFilter narrows projects by their finished flag.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusOngoing  StatusFilter = "ongoing"
	StatusFinished StatusFilter = "finished"
)

// ProjectFilter is a client-side filter over the mirrored project list,
// matching the listing surface's filter panel. Zero fields match everything.
type ProjectFilter struct {
	Description     string
	Sponsor         string
	Status          StatusFilter
	StartDateAfter  time.Time
	StartDateBefore time.Time
}

// Apply returns the projects matching f, preserving order.
func (f ProjectFilter) Apply(projects []project.Project) []project.Project {
	out := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f ProjectFilter) matches(p project.Project) bool {
	if f.Description != "" && !containsFold(p.Description, f.Description) {
		return false
	}
	if f.Sponsor != "" && !containsFold(p.Sponsor, f.Sponsor) {
		return false
	}
	switch f.Status {
	case StatusOngoing:
		if p.IsFinished {
			return false
		}
	case StatusFinished:
		if !p.IsFinished {
			return false
		}
	}
	if !f.StartDateAfter.IsZero() && (p.StartDate.IsZero() || !p.StartDate.After(f.StartDateAfter)) {
		return false
	}
	if !f.StartDateBefore.IsZero() && (p.StartDate.IsZero() || !p.StartDate.Before(f.StartDateBefore)) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
