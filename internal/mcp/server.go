package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"labtrack/internal/store"
)

const serverInstructions = `labtrack administers an academic research tracking backend: people,
projects (with role-tagged person associations), and project results.

Typical flows:
- list_projects / get_project to inspect current state.
- save_project creates or updates a project; pass persons as {id, role}
  (role is "coordinator" or "member") and results as drafts that will be
  attached once the project has its server id.
- set_project_status toggles a project's finished flag; finished projects
  refuse further edits.
- delete_projects removes projects after deleting their attached results.`

// Config contains server configuration.
type Config struct {
	Persons  *store.PersonStore
	Projects *store.ProjectStore
	Results  *store.ResultStore
	Logger   *slog.Logger
}

// NewServer creates an MCP server exposing the store operations as tools.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "labtrack",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	h := NewHandler(cfg.Persons, cfg.Projects, cfg.Results)
	registerTools(server, h)
	return server
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_persons",
		Description: "List all known persons",
	}, wrap(h.ListPersons))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_person",
		Description: "Create a person, or update one when id is set",
	}, wrap(h.SavePerson))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects, optionally filtered by status (all/ongoing/finished), sponsor, or description substring",
	}, wrap(h.ListProjects))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project with its persons and results",
	}, wrap(h.GetProject))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_project",
		Description: "Create a project (or update one when id is set) together with its person associations and pending results",
	}, wrap(h.SaveProject))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_project_status",
		Description: "Toggle a project's finished flag",
	}, wrap(h.SetProjectStatus))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_projects",
		Description: "Delete projects by id, removing their attached results first",
	}, wrap(h.DeleteProjects))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_results",
		Description: "List all project results",
	}, wrap(h.ListResults))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_result",
		Description: "Create a result for an existing project",
	}, wrap(h.SaveResult))
}

// wrap adapts a handler method to the SDK's typed tool handler shape.
func wrap[In, Out any](fn func(context.Context, In) (Out, error)) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := fn(ctx, input)
		return nil, out, err
	}
}
