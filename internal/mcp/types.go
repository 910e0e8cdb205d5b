package mcp

import (
	"labtrack/internal/domain/person"
	"labtrack/internal/domain/project"
	"labtrack/internal/domain/result"
)

type ListPersonsParams struct{}

type SavePersonParams struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Institution string `json:"institution,omitempty"`
}

type ListProjectsParams struct {
	Status      string `json:"status,omitempty"`
	Sponsor     string `json:"sponsor,omitempty"`
	Description string `json:"description,omitempty"`
}

type GetProjectParams struct {
	ID int64 `json:"id"`
}

type PersonAssignmentParams struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

type ResultDraftParams struct {
	Description string  `json:"description"`
	Members     []int64 `json:"members,omitempty"`
}

type SaveProjectParams struct {
	ID          int64                    `json:"id,omitempty"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	Sponsor     string                   `json:"sponsor,omitempty"`
	StartDate   string                   `json:"start_date"`
	FinishDate  string                   `json:"finish_date,omitempty"`
	IsFinished  bool                     `json:"is_finished,omitempty"`
	Persons     []PersonAssignmentParams `json:"persons,omitempty"`
	Results     []ResultDraftParams      `json:"results,omitempty"`
}

type SetProjectStatusParams struct {
	ID int64 `json:"id"`
}

type DeleteProjectsParams struct {
	IDs []int64 `json:"ids"`
}

type ListResultsParams struct{}

type SaveResultParams struct {
	ProjectID   int64   `json:"project_id"`
	Description string  `json:"description"`
	Members     []int64 `json:"members,omitempty"`
}

type PersonsResponse struct {
	Persons []person.Person `json:"persons"`
}

type ProjectsResponse struct {
	Projects []project.Project `json:"projects"`
}

type ProjectResponse struct {
	Project project.Project `json:"project"`
}

type PersonResponse struct {
	Person person.Person `json:"person"`
}

type ResultsResponse struct {
	Results []result.Result `json:"results"`
}

type ResultResponse struct {
	Result result.Result `json:"result"`
}

type DeleteProjectsResponse struct {
	Deleted []int64 `json:"deleted"`
}
