package crawler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/repoharvest/ci-crawler/cfg"
	githubapi "github.com/repoharvest/ci-crawler/internal/github_api"
	"github.com/repoharvest/ci-crawler/internal/model"
	"github.com/repoharvest/ci-crawler/internal/store"
	"github.com/repoharvest/ci-crawler/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost serves the two GitHub endpoints the pipeline consumes:
// directory listings keyed by path, and the quota status.
func fakeHost(listings map[string][]githubapi.ContentEntry, remaining int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rate_limit" {
			resp := githubapi.RateLimitResponse{}
			resp.Resources.Core.Limit = 5000
			resp.Resources.Core.Remaining = remaining
			json.NewEncoder(w).Encode(resp)
			return
		}

		entries, ok := listings[r.URL.Path]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(entries)
	})
}

// Repo A has a manifest and a native workflow, repo B only a manifest,
// repo C only a third-party CI marker. Only A satisfies the predicate.
var scenarioListings = map[string][]githubapi.ContentEntry{
	"/repos/alice/a/contents": {
		{Name: "package.json", Type: "file"},
		{Name: ".github", Type: "dir"},
	},
	"/repos/alice/a/contents/.github/workflows": {
		{Name: "ci.yml", Type: "file"},
	},
	"/repos/bob/b/contents": {
		{Name: "package.json", Type: "file"},
		{Name: "README.md", Type: "file"},
	},
	"/repos/carol/c/contents": {
		{Name: ".travis.yml", Type: "file"},
	},
}

var scenarioCandidates = []model.Candidate{
	{ID: 1, Name: "alice/a", Stargazers: 900},
	{ID: 2, Name: "bob/b", Stargazers: 800},
	{ID: 3, Name: "carol/c", Stargazers: 700},
}

func scenarioConfig(t *testing.T, hostUrl string) *cfg.Config {
	t.Helper()
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)

	dir := t.TempDir()
	config.Storage.CandidatesFile = filepath.Join(dir, "candidates.json")
	config.Storage.OutputFile = filepath.Join(dir, "records.json")
	config.GithubApi.ApiUrl = hostUrl
	config.GithubApi.RequestsPerSecond = 1000
	config.GithubApi.ProbeDelayMs = 0
	config.Mysql.Enabled = false
	config.Kafka.Enabled = false

	require.NoError(t, store.SaveCandidates(config.Storage.CandidatesFile, scenarioCandidates))
	return config
}

func runScenario(t *testing.T, version string) []model.Record {
	t.Helper()
	server := httptest.NewServer(fakeHost(scenarioListings, 5000))
	t.Cleanup(server.Close)

	config := scenarioConfig(t, server.URL)
	logger, _ := log.NewCslLogger()

	c, err := FactoryCrawler(version, logger, config, nil)
	require.NoError(t, err)
	require.True(t, c.Crawl())

	records, err := store.LoadRecords(config.Storage.OutputFile)
	require.NoError(t, err)
	return records
}

func TestSeqCrawlRetainsOnlyManifestWithCi(t *testing.T) {
	records := runScenario(t, "seq")
	require.Len(t, records, 1)
	assert.Equal(t, "alice/a", records[0].Name)
	assert.True(t, records[0].HasManifest)
	assert.True(t, records[0].HasNativeCi)
	assert.False(t, records[0].HasOtherCi)
}

func TestFanoutCrawlRetainsOnlyManifestWithCi(t *testing.T) {
	records := runScenario(t, "fanout")
	require.Len(t, records, 1)
	assert.Equal(t, "alice/a", records[0].Name)
	assert.True(t, records[0].HasCi)
}

func TestFactoryUnknownVersion(t *testing.T) {
	logger, _ := log.NewCslLogger()
	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()

	_, err := FactoryCrawler("v9", logger, config, nil)
	assert.Error(t, err)
}

func TestRetainPredicate(t *testing.T) {
	cases := []struct {
		manifest, native, other bool
		want                    bool
	}{
		{true, true, false, true},
		{true, false, true, true},
		{true, true, true, true},
		{true, false, false, false},
		{false, true, true, false},
		{false, false, false, false},
	}

	for _, tc := range cases {
		p := model.ProbeResult{
			HasManifest: tc.manifest,
			HasNativeCi: tc.native,
			HasOtherCi:  tc.other,
			HasCi:       tc.native || tc.other,
		}
		assert.Equal(t, tc.want, retain(p),
			"manifest=%v native=%v other=%v", tc.manifest, tc.native, tc.other)
	}
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	out := dedupe([]model.Candidate{
		{ID: 1, Name: "alice/a", Stargazers: 900},
		{ID: 2, Name: "bob/b"},
		{ID: 1, Name: "alice/a", Stargazers: 1},
	})

	require.Len(t, out, 2)
	assert.Equal(t, int64(900), out[0].Stargazers)
}

func TestCrawlSkipsFetchWithCheckpoint(t *testing.T) {
	// The search API URL points nowhere; a fetch attempt would fail,
	// so a green run proves the checkpoint was used.
	server := httptest.NewServer(fakeHost(scenarioListings, 5000))
	t.Cleanup(server.Close)

	config := scenarioConfig(t, server.URL)
	config.SearchApi.ApiUrl = "http://127.0.0.1:1/unreachable"
	logger, _ := log.NewCslLogger()

	c, err := NewSeqCrawler(logger, config, nil)
	require.NoError(t, err)
	assert.True(t, c.Crawl())
}

func TestCrawlFailsWhenFetchFails(t *testing.T) {
	host := httptest.NewServer(fakeHost(nil, 5000))
	t.Cleanup(host.Close)

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(search.Close)

	loader, _ := cfg.NewMockLoader()
	config, _ := loader.Load()
	dir := t.TempDir()
	config.Storage.CandidatesFile = filepath.Join(dir, "candidates.json")
	config.Storage.OutputFile = filepath.Join(dir, "records.json")
	config.GithubApi.ApiUrl = host.URL
	config.SearchApi.ApiUrl = search.URL
	config.SearchApi.InsecureSkipVerify = false
	config.SearchApi.PageDelayMs = 0
	config.Mysql.Enabled = false
	config.Kafka.Enabled = false

	logger, _ := log.NewCslLogger()
	c, err := NewSeqCrawler(logger, config, nil)
	require.NoError(t, err)
	assert.False(t, c.Crawl())
}
