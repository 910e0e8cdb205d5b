package store_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"labtrack/internal/api"
	"labtrack/internal/domain/person"
	"labtrack/internal/domain/project"
	"labtrack/internal/domain/result"
)

// recordedRequest is one request the fake backend observed.
type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

func (r recordedRequest) String() string {
	return r.Method + " " + r.Path
}

// fakeBackend is a recording in-process stand-in for the research tracking
// backend. Requests matching an entry in fail return 500.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	fail     map[string]bool
	nextID   int64
	persons  []person.Person
	projects []project.Project
	results  []result.Result
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{
		t:      t,
		fail:   make(map[string]bool),
		nextID: 100,
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) client() *api.Client {
	return api.New(b.srv.URL, 0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failOn makes every request whose exact "METHOD /path" matches return 500.
func (b *fakeBackend) failOn(methodAndPath string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[methodAndPath] = true
}

// recorded returns the observed requests in arrival order.
func (b *fakeBackend) recorded() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]recordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

// matching returns the observed requests whose "METHOD /path" matches the
// regular expression pattern.
func (b *fakeBackend) matching(pattern string) []recordedRequest {
	re := regexp.MustCompile(pattern)
	var out []recordedRequest
	for _, r := range b.recorded() {
		if re.MatchString(r.String()) {
			out = append(out, r)
		}
	}
	return out
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	failed := b.fail[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if failed {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	method, path := r.Method, r.URL.Path
	switch {
	case method == http.MethodGet && path == "/persons":
		b.writeJSON(w, b.snapshotPersons())
	case method == http.MethodPost && path == "/persons":
		var p person.Person
		json.Unmarshal(body, &p)
		p.ID = b.allocID()
		b.writeJSON(w, p)
	case method == http.MethodPut && strings.HasPrefix(path, "/persons/"):
		var p person.Person
		json.Unmarshal(body, &p)
		b.writeJSON(w, p)

	case method == http.MethodPut && strings.HasPrefix(path, "/projects/persons/"):
		b.writeJSON(w, map[string]any{})
	case method == http.MethodGet && path == "/projects":
		b.writeJSON(w, b.snapshotProjects())
	case method == http.MethodGet && strings.HasPrefix(path, "/projects/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/projects/"), 10, 64)
		for _, p := range b.snapshotProjects() {
			if p.ID == id {
				b.writeJSON(w, p)
				return
			}
		}
		http.NotFound(w, r)
	case method == http.MethodPost && path == "/projects":
		b.writeJSON(w, b.projectFromBody(body, b.allocID()))
	case method == http.MethodPut && strings.HasPrefix(path, "/projects/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(path, "/projects/"), 10, 64)
		b.writeJSON(w, b.projectFromBody(body, id))

	case method == http.MethodGet && path == "/results":
		b.writeJSON(w, b.snapshotResults())
	case method == http.MethodPost && path == "/results":
		var req struct {
			Description string  `json:"description"`
			ProjectID   int64   `json:"projectId"`
			Members     []int64 `json:"members"`
		}
		json.Unmarshal(body, &req)
		b.writeJSON(w, result.Result{
			ID:          b.allocID(),
			Description: req.Description,
			Project:     &result.ProjectRef{ID: req.ProjectID},
		})

	case method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, fmt.Sprintf("unexpected request %s %s", method, path), http.StatusNotFound)
	}
}

// projectFromBody builds the authoritative server response for a create or
// update: the submitted core fields under the given id.
func (b *fakeBackend) projectFromBody(body []byte, id int64) project.Project {
	var p project.Project
	json.Unmarshal(body, &p)
	p.ID = id
	if p.Results == nil {
		p.Results = []result.Result{}
	}
	return p
}

func (b *fakeBackend) allocID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return b.nextID
}

func (b *fakeBackend) setProjects(projects []project.Project) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects = projects
}

func (b *fakeBackend) setPersons(persons []person.Person) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.persons = persons
}

func (b *fakeBackend) setResults(results []result.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = results
}

func (b *fakeBackend) snapshotProjects() []project.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.projects == nil {
		return []project.Project{}
	}
	return b.projects
}

func (b *fakeBackend) snapshotPersons() []person.Person {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.persons == nil {
		return []person.Person{}
	}
	return b.persons
}

func (b *fakeBackend) snapshotResults() []result.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.results == nil {
		return []result.Result{}
	}
	return b.results
}

func (b *fakeBackend) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		b.t.Errorf("encode response: %v", err)
	}
}
