package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"labtrack/internal/api"
	"labtrack/internal/domain/project"
	"labtrack/internal/store"
)

func filterFixture() []project.Project {
	return []project.Project{
		{
			ID:          1,
			Title:       "Genome mapping",
			Description: "Large-scale sequencing effort",
			Sponsor:     "NSF",
			StartDate:   api.NewTime(time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID:          2,
			Title:       "Climate model",
			Description: "Regional climate simulation",
			Sponsor:     "ERC",
			StartDate:   api.NewTime(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
			IsFinished:  true,
		},
		{
			ID:      3,
			Title:   "Undated pilot",
			Sponsor: "NSF",
		},
	}
}

func TestFilterZeroValueMatchesEverything(t *testing.T) {
	got := store.ProjectFilter{}.Apply(filterFixture())
	require.Len(t, got, 3)
}

func TestFilterByStatus(t *testing.T) {
	ongoing := store.ProjectFilter{Status: store.StatusOngoing}.Apply(filterFixture())
	require.Len(t, ongoing, 2)

	finished := store.ProjectFilter{Status: store.StatusFinished}.Apply(filterFixture())
	require.Len(t, finished, 1)
	require.Equal(t, int64(2), finished[0].ID)
}

func TestFilterBySponsorIsCaseInsensitive(t *testing.T) {
	got := store.ProjectFilter{Sponsor: "nsf"}.Apply(filterFixture())
	require.Len(t, got, 2)
}

func TestFilterByDescriptionSubstring(t *testing.T) {
	got := store.ProjectFilter{Description: "climate"}.Apply(filterFixture())
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)
}

func TestFilterByStartDateWindow(t *testing.T) {
	f := store.ProjectFilter{
		StartDateAfter:  time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		StartDateBefore: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	got := f.Apply(filterFixture())
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)
}

func TestFilterDateBoundsExcludeUndated(t *testing.T) {
	f := store.ProjectFilter{StartDateAfter: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, p := range f.Apply(filterFixture()) {
		require.NotEqual(t, int64(3), p.ID)
	}
}

func TestFilterCombinesCriteria(t *testing.T) {
	f := store.ProjectFilter{Sponsor: "NSF", Status: store.StatusOngoing, Description: "sequencing"}
	got := f.Apply(filterFixture())
	require.Len(t, got, 1)
	require.Equal(t, int64(1), got[0].ID)
}
