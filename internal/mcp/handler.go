// Package mcp exposes the store operations as MCP tools, so an agent can
// administer people, projects, and results the same way the CLI does.
package mcp

import (
	"context"
	"fmt"
	"time"

	"labtrack/internal/api"
	"labtrack/internal/domain/person"
	"labtrack/internal/domain/project"
	"labtrack/internal/domain/result"
	"labtrack/internal/store"
)

// Handler dispatches tool calls to the stores.
type Handler struct {
	persons  *store.PersonStore
	projects *store.ProjectStore
	results  *store.ResultStore
}

// NewHandler creates a Handler over the three stores.
func NewHandler(persons *store.PersonStore, projects *store.ProjectStore, results *store.ResultStore) *Handler {
	return &Handler{persons: persons, projects: projects, results: results}
}

// ListPersons fetches the persons list.
func (h *Handler) ListPersons(ctx context.Context, _ ListPersonsParams) (PersonsResponse, error) {
	persons, err := h.persons.FindAll(ctx)
	if err != nil {
		return PersonsResponse{}, MapError(err)
	}
	return PersonsResponse{Persons: persons}, nil
}

// SavePerson creates or updates a person.
func (h *Handler) SavePerson(ctx context.Context, params SavePersonParams) (PersonResponse, error) {
	saved, err := h.persons.Save(ctx, person.Person{
		ID:          params.ID,
		Name:        params.Name,
		Email:       params.Email,
		Institution: params.Institution,
	})
	if err != nil {
		return PersonResponse{}, MapError(err)
	}
	return PersonResponse{Person: saved}, nil
}

// ListProjects fetches the projects list, filtered client-side.
func (h *Handler) ListProjects(ctx context.Context, params ListProjectsParams) (ProjectsResponse, error) {
	projects, err := h.projects.FindAll(ctx)
	if err != nil {
		return ProjectsResponse{}, MapError(err)
	}
	filter := store.ProjectFilter{
		Description: params.Description,
		Sponsor:     params.Sponsor,
		Status:      store.StatusFilter(params.Status),
	}
	return ProjectsResponse{Projects: filter.Apply(projects)}, nil
}

// GetProject fetches one project with nested persons and results.
func (h *Handler) GetProject(ctx context.Context, params GetProjectParams) (ProjectResponse, error) {
	p, err := h.projects.Get(ctx, params.ID)
	if err != nil {
		return ProjectResponse{}, MapError(err)
	}
	return ProjectResponse{Project: p}, nil
}

// SaveProject creates or updates a project with its person associations and
// pending results, running the full save cycle.
func (h *Handler) SaveProject(ctx context.Context, params SaveProjectParams) (ProjectResponse, error) {
	startDate, err := parseDate(params.StartDate)
	if err != nil {
		return ProjectResponse{}, &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	}
	finishDate, err := parseDate(params.FinishDate)
	if err != nil {
		return ProjectResponse{}, &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	}

	req := store.SaveRequest{
		ID:          params.ID,
		Title:       params.Title,
		Description: params.Description,
		Sponsor:     params.Sponsor,
		StartDate:   startDate,
		FinishDate:  finishDate,
		IsFinished:  params.IsFinished,
	}
	personIDs := make([]int64, 0, len(params.Persons))
	for _, pa := range params.Persons {
		req.Persons = append(req.Persons, store.PersonAssignment{ID: pa.ID, Role: project.Role(pa.Role)})
		personIDs = append(personIDs, pa.ID)
	}

	drafts := store.NewDraftSession()
	for _, d := range params.Results {
		draft := result.Draft{Description: d.Description, MemberIDs: d.Members}
		if err := drafts.Add(draft, personIDs); err != nil {
			return ProjectResponse{}, MapError(err)
		}
	}

	saved, err := h.projects.Save(ctx, req, drafts)
	if err != nil {
		return ProjectResponse{}, MapError(err)
	}
	return ProjectResponse{Project: saved}, nil
}

// SetProjectStatus flips a project's finished flag.
func (h *Handler) SetProjectStatus(ctx context.Context, params SetProjectStatusParams) (ProjectResponse, error) {
	saved, err := h.projects.ChangeStatus(ctx, params.ID)
	if err != nil {
		return ProjectResponse{}, MapError(err)
	}
	return ProjectResponse{Project: saved}, nil
}

// DeleteProjects removes projects and their attached results.
func (h *Handler) DeleteProjects(ctx context.Context, params DeleteProjectsParams) (DeleteProjectsResponse, error) {
	if err := h.projects.DeleteProjects(ctx, params.IDs); err != nil {
		return DeleteProjectsResponse{}, MapError(err)
	}
	return DeleteProjectsResponse{Deleted: params.IDs}, nil
}

// ListResults fetches the results list.
func (h *Handler) ListResults(ctx context.Context, _ ListResultsParams) (ResultsResponse, error) {
	results, err := h.results.FindAll(ctx)
	if err != nil {
		return ResultsResponse{}, MapError(err)
	}
	return ResultsResponse{Results: results}, nil
}

// SaveResult creates a result against an existing project.
func (h *Handler) SaveResult(ctx context.Context, params SaveResultParams) (ResultResponse, error) {
	draft := result.Draft{Description: params.Description, MemberIDs: params.Members}
	saved, err := h.results.Create(ctx, draft, params.ProjectID)
	if err != nil {
		return ResultResponse{}, MapError(err)
	}
	return ResultResponse{Result: saved}, nil
}

// parseDate accepts a plain date or a full timestamp. Empty means unset.
func parseDate(s string) (api.Time, error) {
	if s == "" {
		return api.Time{}, nil
	}
	if t, ok, err := api.ParseTimestamp(s); ok {
		if err != nil {
			return api.Time{}, err
		}
		return api.NewTime(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return api.NewTime(t), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return api.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or ISO-8601)", s)
	}
	return api.NewTime(t), nil
}
