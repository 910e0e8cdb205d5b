// Package store mirrors the backend's entity collections in memory and
// carries the save orchestration. Each store holds the last fetched list,
// replaces it wholesale on refresh, and applies local mutations through
// pure reducers.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"labtrack/internal/api"
	"labtrack/internal/domain/person"
)

// Snapshotter persists a fetched collection for later offline listing.
// Stores treat it as best-effort; a nil Snapshotter disables snapshots.
type Snapshotter interface {
	Save(ctx context.Context, kind string, v any) error
}

// Snapshot kinds.
const (
	KindPersons  = "persons"
	KindProjects = "projects"
	KindResults  = "results"
)

// PersonStore mirrors the persons collection.
type PersonStore struct {
	client *api.Client
	snap   Snapshotter
	logger *slog.Logger

	mu      sync.RWMutex
	persons []person.Person
}

// NewPersonStore creates a PersonStore. snap may be nil.
func NewPersonStore(client *api.Client, snap Snapshotter, logger *slog.Logger) *PersonStore {
	return &PersonStore{client: client, snap: snap, logger: logger}
}

// FindAll fetches the full persons list and replaces the mirrored state.
// On failure the last-known list is kept.
func (s *PersonStore) FindAll(ctx context.Context) ([]person.Person, error) {
	var fetched []person.Person
	if err := s.client.Get(ctx, "/persons", &fetched); err != nil {
		return nil, &FetchError{Kind: KindPersons, Err: err}
	}

	s.mu.Lock()
	s.persons = reducePersons(s.persons, personsFetched{persons: fetched})
	s.mu.Unlock()

	s.writeSnapshot(ctx, KindPersons, fetched)
	return s.All(), nil
}

// Save persists p: PUT when it carries an ID, POST otherwise. The mirrored
// list is updated with the server's response.
func (s *PersonStore) Save(ctx context.Context, p person.Person) (person.Person, error) {
	if err := p.Validate(); err != nil {
		return person.Person{}, err
	}

	var saved person.Person
	if p.ID != 0 {
		if err := s.client.Put(ctx, fmt.Sprintf("/persons/%d", p.ID), p, &saved); err != nil {
			return person.Person{}, &PersistenceError{Op: "updating person", Err: err}
		}
	} else {
		if err := s.client.Post(ctx, "/persons", p, &saved); err != nil {
			return person.Person{}, &PersistenceError{Op: "creating person", Err: err}
		}
	}

	s.mu.Lock()
	s.persons = reducePersons(s.persons, personSaved{person: saved, created: p.ID == 0})
	s.mu.Unlock()

	return saved, nil
}

// All returns a copy of the mirrored list.
func (s *PersonStore) All() []person.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]person.Person, len(s.persons))
	copy(out, s.persons)
	return out
}

// Hydrate seeds the mirrored list without a network call, typically from a
// snapshot.
func (s *PersonStore) Hydrate(persons []person.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons = reducePersons(s.persons, personsFetched{persons: persons})
}

func (s *PersonStore) writeSnapshot(ctx context.Context, kind string, v any) {
	if s.snap == nil {
		return
	}
	if err := s.snap.Save(ctx, kind, v); err != nil {
		s.logger.Warn("snapshot write failed", "kind", kind, "error", err)
	}
}
