package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"labtrack/internal/api"
	"labtrack/internal/domain/project"
)

// ResultDeleter is the slice of the result store the project store needs for
// cascading deletes.
type ResultDeleter interface {
	Delete(ctx context.Context, ids []int64) error
}

// ProjectStore mirrors the projects collection and carries the save
// orchestration (see pipeline.go).
type ProjectStore struct {
	client  *api.Client
	snap    Snapshotter
	results ResultDeleter
	logger  *slog.Logger

	mu       sync.RWMutex
	projects []project.Project
}

// NewProjectStore creates a ProjectStore. snap may be nil; results must not
// be (batch deletion cascades through it).
func NewProjectStore(client *api.Client, results ResultDeleter, snap Snapshotter, logger *slog.Logger) *ProjectStore {
	return &ProjectStore{client: client, results: results, snap: snap, logger: logger}
}

// FindAll fetches the full projects list and replaces the mirrored state.
// On failure the last-known list is kept.
func (s *ProjectStore) FindAll(ctx context.Context) ([]project.Project, error) {
	var fetched []project.Project
	if err := s.client.Get(ctx, "/projects", &fetched); err != nil {
		return nil, &FetchError{Kind: KindProjects, Err: err}
	}

	s.mu.Lock()
	s.projects = reduceProjects(s.projects, projectsFetched{projects: fetched})
	s.mu.Unlock()

	s.writeSnapshot(ctx, KindProjects, fetched)
	return s.All(), nil
}

// Get fetches a single project with its nested persons and results.
func (s *ProjectStore) Get(ctx context.Context, id int64) (project.Project, error) {
	var p project.Project
	if err := s.client.Get(ctx, fmt.Sprintf("/projects/%d", id), &p); err != nil {
		return project.Project{}, &FetchError{Kind: KindProjects, Err: err}
	}
	return p, nil
}

// ChangeStatus flips the finished flag of a mirrored project. The local
// record is replaced with the server's response rather than the locally
// flipped copy, in case server-side rules reject or adjust the toggle. On
// failure local state is untouched.
func (s *ProjectStore) ChangeStatus(ctx context.Context, id int64) (project.Project, error) {
	local, ok := s.find(id)
	if !ok {
		return project.Project{}, project.ErrNotFound
	}

	flipped := local
	flipped.IsFinished = !local.IsFinished
	flipped.UpdatedAt = api.Now()

	var saved project.Project
	if err := s.client.Put(ctx, fmt.Sprintf("/projects/%d", id), flipped, &saved); err != nil {
		return project.Project{}, &PersistenceError{Op: "updating project status", Err: err}
	}

	s.mu.Lock()
	s.projects = reduceProjects(s.projects, projectReplaced{project: saved})
	s.mu.Unlock()
	return saved, nil
}

// DeleteProjects removes the given projects. Results attached to them (as
// known client-side) are deleted first; if that phase fails the project
// phase is skipped entirely. Results already deleted are not restored when
// the project phase fails afterwards.
func (s *ProjectStore) DeleteProjects(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	var resultIDs []int64
	drop := idSet(ids)
	s.mu.RLock()
	for _, p := range s.projects {
		if _, selected := drop[p.ID]; selected {
			resultIDs = append(resultIDs, p.ResultIDs()...)
		}
	}
	s.mu.RUnlock()

	if err := s.results.Delete(ctx, resultIDs); err != nil {
		return fmt.Errorf("deleting attached results: %w", err)
	}

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			if err := s.client.Delete(ctx, fmt.Sprintf("/projects/%d", id), nil); err != nil {
				return fmt.Errorf("project %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &PersistenceError{Op: "deleting projects", Err: err}
	}

	s.mu.Lock()
	s.projects = reduceProjects(s.projects, projectsDeleted{ids: ids})
	s.mu.Unlock()
	return nil
}

// RemovePersons detaches specific persons from a project.
func (s *ProjectStore) RemovePersons(ctx context.Context, projectID int64, personIDs []int64) error {
	if len(personIDs) == 0 {
		return nil
	}
	body := struct {
		PersonsIDs []int64 `json:"personsIds"`
	}{PersonsIDs: personIDs}
	if err := s.client.Delete(ctx, fmt.Sprintf("/projects/persons/%d", projectID), body); err != nil {
		return &AssociationError{ProjectID: projectID, Err: err}
	}

	if _, err := s.FindAll(ctx); err != nil {
		s.logger.Warn("projects refresh after person removal failed", "error", err)
	}
	return nil
}

// All returns a copy of the mirrored list.
func (s *ProjectStore) All() []project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]project.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Hydrate seeds the mirrored list without a network call.
func (s *ProjectStore) Hydrate(projects []project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = reduceProjects(s.projects, projectsFetched{projects: projects})
}

func (s *ProjectStore) find(id int64) (project.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return project.Project{}, false
}

func (s *ProjectStore) writeSnapshot(ctx context.Context, kind string, v any) {
	if s.snap == nil {
		return
	}
	if err := s.snap.Save(ctx, kind, v); err != nil {
		s.logger.Warn("snapshot write failed", "kind", kind, "error", err)
	}
}
