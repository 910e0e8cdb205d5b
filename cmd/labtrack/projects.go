package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"labtrack/internal/api"
	"labtrack/internal/cache"
	"labtrack/internal/domain/project"
	"labtrack/internal/domain/result"
	"labtrack/internal/store"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List, save, and delete research projects",
}

var projectsListFlags struct {
	cached      bool
	status      string
	sponsor     string
	description string
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, filtered client-side",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		var projects []project.Project
		if projectsListFlags.cached {
			projects, err = cachedProjects(cmd, a)
		} else {
			projects, err = a.projects.FindAll(cmd.Context())
		}
		if err != nil {
			return err
		}

		filter := store.ProjectFilter{
			Description: projectsListFlags.description,
			Sponsor:     projectsListFlags.sponsor,
			Status:      store.StatusFilter(projectsListFlags.status),
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSPONSOR\tSTART\tFINISH\tPEOPLE\tRESULTS\tFINISHED")
		for _, p := range filter.Apply(projects) {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%v\n",
				p.ID, p.Title, p.Sponsor,
				formatDate(p.StartDate), formatDate(p.FinishDate),
				len(p.Persons), len(p.Results), p.IsFinished)
		}
		return w.Flush()
	},
}

func cachedProjects(cmd *cobra.Command, a *app) ([]project.Project, error) {
	if a.snap == nil {
		return nil, errors.New("snapshot cache unavailable")
	}
	var projects []project.Project
	fetchedAt, err := a.snap.Load(cmd.Context(), store.KindProjects, &projects)
	if errors.Is(err, cache.ErrNoSnapshot) {
		return nil, errors.New("no cached projects; run without --cached first")
	}
	if err != nil {
		return nil, err
	}
	a.projects.Hydrate(projects)
	fmt.Fprintf(os.Stderr, "showing snapshot from %s\n", fetchedAt.Format("2006-01-02 15:04"))
	return projects, nil
}

var saveProjectFlags struct {
	id          int64
	title       string
	description string
	sponsor     string
	start       string
	finish      string
	persons     []string
	results     []string
}

var projectsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create a project (or update with --id), with persons and pending results",
	Long: `Create or update a project and run the full save cycle: core record,
person associations, pending results, refresh.

Persons are given as id:role (role: coordinator or member), results as
description:members where members is a comma-separated list of person ids
already assigned to the project (omit the colon for a result without
members).`,
	Example: `  labtrack projects save --title "Alpha" --start 2024-05-01
  labtrack projects save --title "Beta" --start 2024-05-01 \
      --person 3:coordinator --person 7:member \
      --result "Preliminary dataset:3,7" --result "Kickoff report"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		req := store.SaveRequest{
			ID:          saveProjectFlags.id,
			Title:       saveProjectFlags.title,
			Description: saveProjectFlags.description,
			Sponsor:     saveProjectFlags.sponsor,
		}
		if req.StartDate, err = parseDateFlag(saveProjectFlags.start); err != nil {
			return err
		}
		if req.FinishDate, err = parseDateFlag(saveProjectFlags.finish); err != nil {
			return err
		}

		var personIDs []int64
		for _, spec := range saveProjectFlags.persons {
			pa, err := parsePersonSpec(spec)
			if err != nil {
				return err
			}
			req.Persons = append(req.Persons, pa)
			personIDs = append(personIDs, pa.ID)
		}

		drafts := store.NewDraftSession()
		for _, spec := range saveProjectFlags.results {
			draft, err := parseResultSpec(spec)
			if err != nil {
				return err
			}
			if err := drafts.Add(draft, personIDs); err != nil {
				return err
			}
		}

		saved, err := a.projects.Save(cmd.Context(), req, drafts)
		if err != nil {
			if saved.ID == 0 {
				// Validation or core-record failure; nothing was persisted.
				return err
			}
			// The core record went through; report the partial failure but
			// still show the authoritative id.
			fmt.Printf("saved project %d (%s) with failures:\n  %v\n", saved.ID, saved.Title, err)
			return nil
		}
		fmt.Printf("saved project %d (%s)\n", saved.ID, saved.Title)
		return nil
	},
}

var projectsStatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Toggle a project's finished flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		// The toggle reads the mirrored record; fetch first.
		if _, err := a.projects.FindAll(cmd.Context()); err != nil {
			return err
		}
		saved, err := a.projects.ChangeStatus(cmd.Context(), id)
		if err != nil {
			return err
		}
		state := "ongoing"
		if saved.IsFinished {
			state = "finished"
		}
		fmt.Printf("project %d (%s) is now %s\n", saved.ID, saved.Title, state)
		return nil
	},
}

var projectsDeleteYes bool

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete projects, removing their attached results first",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid project id %q", arg)
			}
			ids = append(ids, id)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		// Fetch first: the cascade collects result ids from the mirrored
		// project records.
		projects, err := a.projects.FindAll(cmd.Context())
		if err != nil {
			return err
		}

		children := 0
		for _, p := range projects {
			for _, id := range ids {
				if p.ID == id {
					children += len(p.Results)
				}
			}
		}
		if !projectsDeleteYes {
			prompt := fmt.Sprintf("Delete %d project(s)", len(ids))
			if children > 0 {
				prompt += fmt.Sprintf(" and their %d attached result(s)", children)
			}
			if !confirm(prompt + "? [y/N] ") {
				fmt.Println("aborted")
				return nil
			}
		}

		if err := a.projects.DeleteProjects(cmd.Context(), ids); err != nil {
			return err
		}
		fmt.Printf("deleted %d project(s)\n", len(ids))
		return nil
	},
}

var projectsRemovePersonCmd = &cobra.Command{
	Use:   "remove-person <project-id> <person-id>...",
	Short: "Detach persons from a project",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project id %q", args[0])
		}
		personIDs := make([]int64, 0, len(args)-1)
		for _, arg := range args[1:] {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid person id %q", arg)
			}
			personIDs = append(personIDs, id)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.projects.RemovePersons(cmd.Context(), projectID, personIDs); err != nil {
			return err
		}
		fmt.Printf("removed %d person(s) from project %d\n", len(personIDs), projectID)
		return nil
	},
}

// parsePersonSpec parses "id:role".
func parsePersonSpec(spec string) (store.PersonAssignment, error) {
	idStr, roleStr, ok := strings.Cut(spec, ":")
	if !ok {
		return store.PersonAssignment{}, fmt.Errorf("invalid person %q (want id:role)", spec)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return store.PersonAssignment{}, fmt.Errorf("invalid person id in %q", spec)
	}
	role := project.Role(roleStr)
	if !role.Valid() {
		return store.PersonAssignment{}, fmt.Errorf("invalid role %q (want coordinator or member)", roleStr)
	}
	return store.PersonAssignment{ID: id, Role: role}, nil
}

// parseResultSpec parses "description" or "description:id,id,...". The last
// colon splits description from members so descriptions may contain colons.
func parseResultSpec(spec string) (result.Draft, error) {
	description := spec
	var memberIDs []int64
	if i := strings.LastIndex(spec, ":"); i >= 0 {
		if ids, err := parseIDList(spec[i+1:]); err == nil {
			description = spec[:i]
			memberIDs = ids
		}
	}
	return result.Draft{Description: description, MemberIDs: memberIDs}, nil
}

func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDateFlag(s string) (api.Time, error) {
	if s == "" {
		return api.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return api.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return api.NewTime(t), nil
}

func formatDate(t api.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	projectsListCmd.Flags().BoolVar(&projectsListFlags.cached, "cached", false, "list from the local snapshot without contacting the backend")
	projectsListCmd.Flags().StringVar(&projectsListFlags.status, "status", "all", "filter by status: all, ongoing, finished")
	projectsListCmd.Flags().StringVar(&projectsListFlags.sponsor, "sponsor", "", "filter by sponsor substring")
	projectsListCmd.Flags().StringVar(&projectsListFlags.description, "description", "", "filter by description substring")

	projectsSaveCmd.Flags().Int64Var(&saveProjectFlags.id, "id", 0, "project id (update instead of create)")
	projectsSaveCmd.Flags().StringVar(&saveProjectFlags.title, "title", "", "project title")
	projectsSaveCmd.Flags().StringVar(&saveProjectFlags.description, "description", "", "project description")
	projectsSaveCmd.Flags().StringVar(&saveProjectFlags.sponsor, "sponsor", "", "project sponsor")
	projectsSaveCmd.Flags().StringVar(&saveProjectFlags.start, "start", "", "start date (YYYY-MM-DD)")
	projectsSaveCmd.Flags().StringVar(&saveProjectFlags.finish, "finish", "", "finish date (YYYY-MM-DD)")
	projectsSaveCmd.Flags().StringArrayVar(&saveProjectFlags.persons, "person", nil, "person association as id:role (repeatable)")
	projectsSaveCmd.Flags().StringArrayVar(&saveProjectFlags.results, "result", nil, "pending result as description[:memberIds] (repeatable)")
	projectsSaveCmd.MarkFlagRequired("title")
	projectsSaveCmd.MarkFlagRequired("start")

	projectsDeleteCmd.Flags().BoolVarP(&projectsDeleteYes, "yes", "y", false, "skip the confirmation prompt")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsSaveCmd)
	projectsCmd.AddCommand(projectsStatusCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsCmd.AddCommand(projectsRemovePersonCmd)
}
