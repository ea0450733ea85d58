package store

import (
	"path/filepath"
	"testing"

	"github.com/repoharvest/ci-crawler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "candidates.json")

	candidates := []model.Candidate{
		{ID: 1, Name: "alice/a", Stargazers: 500, Topics: []string{"node", "cli"}},
		{ID: 2, Name: "bob/b", Stargazers: 300},
	}
	require.NoError(t, SaveCandidates(path, candidates))

	loaded, found, err := LoadCandidates(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, candidates, loaded)
}

func TestLoadCandidatesMissingFile(t *testing.T) {
	_, found, err := LoadCandidates(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRecordsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")

	records := []model.Record{
		{ID: 1, Name: "alice/a", HasManifest: true, HasNativeCi: true, HasCi: true},
	}
	require.NoError(t, SaveRecords(path, records))

	loaded, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "alice/a", loaded[0].Name)
	assert.True(t, loaded[0].HasCi)
}

func TestSaveRecordsOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")

	require.NoError(t, SaveRecords(path, []model.Record{{ID: 1, Name: "alice/a"}, {ID: 2, Name: "bob/b"}}))
	require.NoError(t, SaveRecords(path, []model.Record{{ID: 3, Name: "carol/c"}}))

	loaded, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "carol/c", loaded[0].Name)
}
