package store

import (
	"labtrack/internal/domain/person"
	"labtrack/internal/domain/project"
	"labtrack/internal/domain/result"
)

// Mirrored-list mutations are expressed as events consumed by pure reducer
// functions. Reducers never mutate their input slice; stores apply the
// returned slice under their own lock. This keeps every state transition
// unit-testable without I/O.

type projectsFetched struct{ projects []project.Project }
type projectReplaced struct{ project project.Project }
type projectsDeleted struct{ ids []int64 }

type personsFetched struct{ persons []person.Person }
type personSaved struct {
	person  person.Person
	created bool
}

type resultsFetched struct{ results []result.Result }
type resultsDeleted struct{ ids []int64 }

func reduceProjects(state []project.Project, ev any) []project.Project {
	switch e := ev.(type) {
	case projectsFetched:
		next := make([]project.Project, len(e.projects))
		copy(next, e.projects)
		return next
	case projectReplaced:
		next := make([]project.Project, len(state))
		copy(next, state)
		for i := range next {
			if next[i].ID == e.project.ID {
				next[i] = e.project
			}
		}
		return next
	case projectsDeleted:
		drop := idSet(e.ids)
		next := make([]project.Project, 0, len(state))
		for _, p := range state {
			if _, gone := drop[p.ID]; !gone {
				next = append(next, p)
			}
		}
		return next
	}
	return state
}

func reducePersons(state []person.Person, ev any) []person.Person {
	switch e := ev.(type) {
	case personsFetched:
		next := make([]person.Person, len(e.persons))
		copy(next, e.persons)
		return next
	case personSaved:
		if e.created {
			next := make([]person.Person, len(state), len(state)+1)
			copy(next, state)
			return append(next, e.person)
		}
		next := make([]person.Person, len(state))
		copy(next, state)
		for i := range next {
			if next[i].ID == e.person.ID {
				next[i] = e.person
			}
		}
		return next
	}
	return state
}

func reduceResults(state []result.Result, ev any) []result.Result {
	switch e := ev.(type) {
	case resultsFetched:
		next := make([]result.Result, len(e.results))
		copy(next, e.results)
		return next
	case resultsDeleted:
		drop := idSet(e.ids)
		next := make([]result.Result, 0, len(state))
		for _, r := range state {
			if _, gone := drop[r.ID]; !gone {
				next = append(next, r)
			}
		}
		return next
	}
	return state
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
