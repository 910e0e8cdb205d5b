package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"labtrack/internal/domain/project"
	"labtrack/internal/domain/result"
	"labtrack/internal/store"
)

func TestProjectFindAllReplacesMirror(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	b.setProjects([]project.Project{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}})
	got, err := projects.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	b.setProjects([]project.Project{{ID: 3, Title: "Three"}})
	got, err = projects.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(3), got[0].ID)
}

func TestProjectFindAllFailureKeepsLastKnown(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	b.setProjects([]project.Project{{ID: 1, Title: "One"}})
	_, err := projects.FindAll(context.Background())
	require.NoError(t, err)

	b.failOn("GET /projects")
	_, err = projects.FindAll(context.Background())
	var fetch *store.FetchError
	require.ErrorAs(t, err, &fetch)
	require.Equal(t, store.KindProjects, fetch.Kind)

	require.Len(t, projects.All(), 1, "mirror keeps the last successful fetch")
}

func TestChangeStatusAdoptsServerResponse(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	b.setProjects([]project.Project{{ID: 5, Title: "Toggle me", IsFinished: false}})
	_, err := projects.FindAll(context.Background())
	require.NoError(t, err)

	saved, err := projects.ChangeStatus(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, saved.IsFinished)

	require.Len(t, b.matching(`^PUT /projects/5$`), 1)
	require.True(t, projects.All()[0].IsFinished, "mirror carries the server's record")
}

func TestChangeStatusUnknownProject(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	_, err := projects.ChangeStatus(context.Background(), 99)
	require.ErrorIs(t, err, project.ErrNotFound)
	require.Empty(t, b.recorded())
}

func TestChangeStatusFailureLeavesMirrorUntouched(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	b.setProjects([]project.Project{{ID: 5, Title: "Toggle me"}})
	_, err := projects.FindAll(context.Background())
	require.NoError(t, err)

	b.failOn("PUT /projects/5")
	_, err = projects.ChangeStatus(context.Background(), 5)
	var persistence *store.PersistenceError
	require.ErrorAs(t, err, &persistence)
	require.False(t, projects.All()[0].IsFinished)
}

func TestDeleteProjectsCascadesThroughResults(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	b.setProjects([]project.Project{
		{ID: 1, Title: "Doomed", Results: []result.Result{{ID: 10}, {ID: 11}}},
		{ID: 2, Title: "Spared", Results: []result.Result{{ID: 12}}},
	})
	_, err := projects.FindAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, projects.DeleteProjects(context.Background(), []int64{1}))

	resultDeletes := b.matching(`^DELETE /results/(10|11)$`)
	require.Len(t, resultDeletes, 2)
	require.Empty(t, b.matching(`^DELETE /results/12$`), "results of unselected projects survive")

	projectDeletes := b.matching(`^DELETE /projects/1$`)
	require.Len(t, projectDeletes, 1)

	// Result deletion settles before any project deletion starts.
	recorded := b.recorded()
	lastResult, firstProject := -1, len(recorded)
	for i, r := range recorded {
		switch r.String() {
		case "DELETE /results/10", "DELETE /results/11":
			lastResult = i
		case "DELETE /projects/1":
			if i < firstProject {
				firstProject = i
			}
		}
	}
	require.Less(t, lastResult, firstProject)

	require.Len(t, projects.All(), 1)
	require.Equal(t, int64(2), projects.All()[0].ID)
}

func TestDeleteProjectsResultPhaseFailureSkipsProjects(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	b.setProjects([]project.Project{
		{ID: 1, Title: "Doomed", Results: []result.Result{{ID: 10}}},
	})
	_, err := projects.FindAll(context.Background())
	require.NoError(t, err)

	b.failOn("DELETE /results/10")
	err = projects.DeleteProjects(context.Background(), []int64{1})
	require.Error(t, err)

	require.Empty(t, b.matching(`^DELETE /projects/`), "project phase must not run")
	require.Len(t, projects.All(), 1, "mirror untouched on failure")
}

func TestDeleteProjectsNoIDs(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	require.NoError(t, projects.DeleteProjects(context.Background(), nil))
	require.Empty(t, b.recorded())
}

func TestRemovePersonsDetachesAndRefreshes(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	err := projects.RemovePersons(context.Background(), 7, []int64{3, 4})
	require.NoError(t, err)

	detach := b.matching(`^DELETE /projects/persons/7$`)
	require.Len(t, detach, 1)
	require.Contains(t, detach[0].Body, `"personsIds":[3,4]`)
	require.Len(t, b.matching(`^GET /projects$`), 1)
}

func TestRemovePersonsFailure(t *testing.T) {
	b := newFakeBackend(t)
	projects, _ := newStores(t, b)

	b.failOn("DELETE /projects/persons/7")
	err := projects.RemovePersons(context.Background(), 7, []int64{3})
	var association *store.AssociationError
	require.ErrorAs(t, err, &association)
	require.Empty(t, b.matching(`^GET /projects$`), "no refresh after a failed detach")
}
