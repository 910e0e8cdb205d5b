package result_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"labtrack/internal/domain/result"
)

func TestDraftValidate(t *testing.T) {
	require.NoError(t, result.Draft{Description: "a paper"}.Validate())
	require.ErrorIs(t, result.Draft{}.Validate(), result.ErrDescriptionRequired)
	require.ErrorIs(t, result.Draft{Description: "  "}.Validate(), result.ErrDescriptionRequired)
}

func TestDraftValidateMembers(t *testing.T) {
	allowed := []int64{3, 4}

	require.NoError(t, result.Draft{Description: "ok", MemberIDs: []int64{3}}.ValidateMembers(allowed))
	require.NoError(t, result.Draft{Description: "ok"}.ValidateMembers(allowed))
	require.NoError(t, result.Draft{Description: "ok"}.ValidateMembers(nil))

	err := result.Draft{Description: "ok", MemberIDs: []int64{9}}.ValidateMembers(allowed)
	require.ErrorIs(t, err, result.ErrMemberNotOnProject)

	err = result.Draft{Description: "ok", MemberIDs: []int64{3}}.ValidateMembers(nil)
	require.ErrorIs(t, err, result.ErrMemberNotOnProject)
}

func TestResultProjectID(t *testing.T) {
	require.Zero(t, result.Result{}.ProjectID())
	require.Equal(t, int64(7), result.Result{Project: &result.ProjectRef{ID: 7}}.ProjectID())
}

func TestResultDecodesNestedProject(t *testing.T) {
	payload := `{
		"id": 10,
		"description": "a dataset",
		"project": {"id": 7, "title": "Alpha", "sponsor": "NSF"},
		"persons": [{"id": 3, "name": "Ada", "email": "ada@example.org"}]
	}`
	var r result.Result
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	require.Equal(t, int64(10), r.ID)
	require.Equal(t, int64(7), r.ProjectID())
	require.Equal(t, "Alpha", r.Project.Title)
	require.Len(t, r.Persons, 1)
	require.Equal(t, "Ada", r.Persons[0].Name)
}
