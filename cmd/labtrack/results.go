package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"labtrack/internal/cache"
	"labtrack/internal/domain/result"
	"labtrack/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List and save project results",
}

var resultsListCached bool

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all results",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		var results []result.Result
		if resultsListCached {
			results, err = cachedResults(cmd, a)
		} else {
			results, err = a.results.FindAll(cmd.Context())
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDESCRIPTION\tPROJECT\tPERSONS")
		for _, r := range results {
			names := make([]string, 0, len(r.Persons))
			for _, p := range r.Persons {
				names = append(names, p.Name)
			}
			projectLabel := "-"
			if r.Project != nil {
				projectLabel = fmt.Sprintf("%d (%s)", r.Project.ID, r.Project.Title)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Description, projectLabel, strings.Join(names, ", "))
		}
		return w.Flush()
	},
}

func cachedResults(cmd *cobra.Command, a *app) ([]result.Result, error) {
	if a.snap == nil {
		return nil, errors.New("snapshot cache unavailable")
	}
	var results []result.Result
	fetchedAt, err := a.snap.Load(cmd.Context(), store.KindResults, &results)
	if errors.Is(err, cache.ErrNoSnapshot) {
		return nil, errors.New("no cached results; run without --cached first")
	}
	if err != nil {
		return nil, err
	}
	a.results.Hydrate(results)
	fmt.Fprintf(os.Stderr, "showing snapshot from %s\n", fetchedAt.Format("2006-01-02 15:04"))
	return results, nil
}

var saveResultFlags struct {
	projectID   int64
	description string
	members     []int64
}

var resultsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Create a result for an existing project",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		draft := result.Draft{
			Description: saveResultFlags.description,
			MemberIDs:   saveResultFlags.members,
		}
		saved, err := a.results.Create(cmd.Context(), draft, saveResultFlags.projectID)
		if err != nil {
			return err
		}
		fmt.Printf("saved result %d (%s)\n", saved.ID, saved.Description)
		return nil
	},
}

func init() {
	resultsListCmd.Flags().BoolVar(&resultsListCached, "cached", false, "list from the local snapshot without contacting the backend")

	resultsSaveCmd.Flags().Int64Var(&saveResultFlags.projectID, "project", 0, "owning project id")
	resultsSaveCmd.Flags().StringVar(&saveResultFlags.description, "description", "", "result description")
	resultsSaveCmd.Flags().Int64SliceVar(&saveResultFlags.members, "member", nil, "member person id (repeatable)")
	resultsSaveCmd.MarkFlagRequired("project")
	resultsSaveCmd.MarkFlagRequired("description")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsSaveCmd)
}
