package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"labtrack/internal/api"
	"labtrack/internal/domain/result"
)

// createResultBody is the POST /results wire format. Members are person IDs
// drawn from the owning project's person set.
type createResultBody struct {
	Description string  `json:"description"`
	ProjectID   int64   `json:"projectId"`
	Members     []int64 `json:"members"`
}

// ResultStore mirrors the results collection.
type ResultStore struct {
	client *api.Client
	snap   Snapshotter
	logger *slog.Logger

	mu      sync.RWMutex
	results []result.Result
}

// NewResultStore creates a ResultStore. snap may be nil.
func NewResultStore(client *api.Client, snap Snapshotter, logger *slog.Logger) *ResultStore {
	return &ResultStore{client: client, snap: snap, logger: logger}
}

// FindAll fetches the full results list and replaces the mirrored state.
func (s *ResultStore) FindAll(ctx context.Context) ([]result.Result, error) {
	var fetched []result.Result
	if err := s.client.Get(ctx, "/results", &fetched); err != nil {
		return nil, &FetchError{Kind: KindResults, Err: err}
	}

	s.mu.Lock()
	s.results = reduceResults(s.results, resultsFetched{results: fetched})
	s.mu.Unlock()

	s.writeSnapshot(ctx, KindResults, fetched)
	return s.All(), nil
}

// Get fetches a single result.
func (s *ResultStore) Get(ctx context.Context, id int64) (result.Result, error) {
	var r result.Result
	if err := s.client.Get(ctx, fmt.Sprintf("/results/%d", id), &r); err != nil {
		return result.Result{}, &FetchError{Kind: KindResults, Err: err}
	}
	return r, nil
}

// Create persists a result draft against an existing project, then refreshes
// the mirrored list. The refresh is best-effort: the result is already
// persisted, so a refresh failure is only logged.
func (s *ResultStore) Create(ctx context.Context, d result.Draft, projectID int64) (result.Result, error) {
	if err := d.Validate(); err != nil {
		return result.Result{}, err
	}
	if projectID <= 0 {
		return result.Result{}, &PersistenceError{Op: "creating result", Err: fmt.Errorf("missing project id")}
	}

	saved, err := s.post(ctx, d, projectID)
	if err != nil {
		return result.Result{}, err
	}

	if _, err := s.FindAll(ctx); err != nil {
		s.logger.Warn("results refresh after create failed", "error", err)
	}
	return saved, nil
}

// post issues the creation request without touching mirrored state; the save
// pipeline fans out over it during a flush.
func (s *ResultStore) post(ctx context.Context, d result.Draft, projectID int64) (result.Result, error) {
	members := d.MemberIDs
	if members == nil {
		members = []int64{}
	}
	body := createResultBody{
		Description: d.Description,
		ProjectID:   projectID,
		Members:     members,
	}
	var saved result.Result
	if err := s.client.Post(ctx, "/results", body, &saved); err != nil {
		return result.Result{}, &PersistenceError{Op: "creating result", Err: err}
	}
	return saved, nil
}

// Save rejects updates of persisted results: the backend has no result
// update endpoint. Use Create for new results.
func (s *ResultStore) Save(ctx context.Context, r result.Result) (result.Result, error) {
	if r.ID != 0 {
		return result.Result{}, result.ErrUpdateUnsupported
	}
	return s.Create(ctx, result.Draft{Description: r.Description, MemberIDs: personIDs(r)}, r.ProjectID())
}

// Delete removes the given results, one request per ID, all issued
// concurrently. Any failure is reported after every request has settled.
func (s *ResultStore) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			if err := s.client.Delete(ctx, fmt.Sprintf("/results/%d", id), nil); err != nil {
				return fmt.Errorf("result %d: %w", id, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &PersistenceError{Op: "deleting results", Err: err}
	}

	s.mu.Lock()
	s.results = reduceResults(s.results, resultsDeleted{ids: ids})
	s.mu.Unlock()
	return nil
}

// All returns a copy of the mirrored list.
func (s *ResultStore) All() []result.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]result.Result, len(s.results))
	copy(out, s.results)
	return out
}

// Hydrate seeds the mirrored list without a network call.
func (s *ResultStore) Hydrate(results []result.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = reduceResults(s.results, resultsFetched{results: results})
}

func (s *ResultStore) writeSnapshot(ctx context.Context, kind string, v any) {
	if s.snap == nil {
		return
	}
	if err := s.snap.Save(ctx, kind, v); err != nil {
		s.logger.Warn("snapshot write failed", "kind", kind, "error", err)
	}
}

func personIDs(r result.Result) []int64 {
	ids := make([]int64, 0, len(r.Persons))
	for _, p := range r.Persons {
		ids = append(ids, p.ID)
	}
	return ids
}
