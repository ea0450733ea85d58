package prober

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/repoharvest/ci-crawler/cfg"
	githubapi "github.com/repoharvest/ci-crawler/internal/github_api"
	"github.com/repoharvest/ci-crawler/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepoBackend maps request paths to content listings; unknown
// paths get a 404.
func fakeRepoBackend(listings map[string][]githubapi.ContentEntry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entries, ok := listings[r.URL.Path]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(entries)
	})
}

func testProber(t *testing.T, handler http.Handler) *Prober {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	config.GithubApi.ApiUrl = server.URL

	logger, _ := log.NewCslLogger()
	p, err := NewProber(logger, config)
	require.NoError(t, err)
	return p
}

func TestProbeManifestAndNativeCi(t *testing.T) {
	p := testProber(t, fakeRepoBackend(map[string][]githubapi.ContentEntry{
		"/repos/alice/a/contents": {
			{Name: "package.json", Type: "file"},
			{Name: ".github", Type: "dir"},
			{Name: "index.js", Type: "file"},
		},
		"/repos/alice/a/contents/.github/workflows": {
			{Name: "ci.yml", Type: "file"},
		},
	}))

	result := p.Probe(context.Background(), "alice/a")
	assert.True(t, result.HasManifest)
	assert.True(t, result.HasNativeCi)
	assert.False(t, result.HasOtherCi)
	assert.True(t, result.HasCi)
}

func TestProbeRootNotFound(t *testing.T) {
	p := testProber(t, fakeRepoBackend(nil))

	result := p.Probe(context.Background(), "ghost/none")
	assert.False(t, result.HasManifest)
	assert.False(t, result.HasNativeCi)
	assert.False(t, result.HasOtherCi)
	assert.False(t, result.HasCi)
}

func TestProbeOtherCiMarkers(t *testing.T) {
	for _, name := range []string{
		".travis.yml", "circle.yml", "Jenkinsfile", "appveyor.yml",
		"azure-pipelines.yml", ".gitlab-ci.yml", ".drone.yml",
	} {
		p := testProber(t, fakeRepoBackend(map[string][]githubapi.ContentEntry{
			"/repos/carol/c/contents": {
				{Name: name, Type: "file"},
			},
		}))

		result := p.Probe(context.Background(), "carol/c")
		assert.True(t, result.HasOtherCi, "marker %s should be recognized", name)
		assert.True(t, result.HasCi)
		assert.False(t, result.HasManifest)
	}
}

func TestProbeUnrecognizedFilesIgnored(t *testing.T) {
	p := testProber(t, fakeRepoBackend(map[string][]githubapi.ContentEntry{
		"/repos/dave/d/contents": {
			{Name: "README.md", Type: "file"},
			{Name: "travis.yml", Type: "file"},
			{Name: "package-lock.json", Type: "file"},
		},
	}))

	result := p.Probe(context.Background(), "dave/d")
	assert.False(t, result.HasManifest)
	assert.False(t, result.HasOtherCi)
	assert.False(t, result.HasCi)
}

func TestProbeEmptyWorkflowsDirectory(t *testing.T) {
	p := testProber(t, fakeRepoBackend(map[string][]githubapi.ContentEntry{
		"/repos/erin/e/contents": {
			{Name: "package.json", Type: "file"},
			{Name: ".github", Type: "dir"},
		},
		"/repos/erin/e/contents/.github/workflows": {},
	}))

	result := p.Probe(context.Background(), "erin/e")
	assert.True(t, result.HasManifest)
	assert.False(t, result.HasNativeCi)
	assert.False(t, result.HasCi)
}

func TestProbeWorkflowsDirectoryAbsent(t *testing.T) {
	// .github exists but holds no workflows directory; the nested 404
	// is swallowed.
	p := testProber(t, fakeRepoBackend(map[string][]githubapi.ContentEntry{
		"/repos/frank/f/contents": {
			{Name: "package.json", Type: "file"},
			{Name: ".github", Type: "dir"},
		},
	}))

	result := p.Probe(context.Background(), "frank/f")
	assert.True(t, result.HasManifest)
	assert.False(t, result.HasNativeCi)
}

func TestProbeWorkflowExtensions(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"deploy.yaml", true},
		{"ci.yml", true},
		{"README.md", false},
		{"workflow.txt", false},
	}

	for _, tc := range cases {
		p := testProber(t, fakeRepoBackend(map[string][]githubapi.ContentEntry{
			"/repos/gina/g/contents": {
				{Name: ".github", Type: "dir"},
			},
			"/repos/gina/g/contents/.github/workflows": {
				{Name: tc.name, Type: "file"},
			},
		}))

		result := p.Probe(context.Background(), "gina/g")
		assert.Equal(t, tc.want, result.HasNativeCi, "workflow entry %s", tc.name)
	}
}

func TestProbeServerErrorFailsOpen(t *testing.T) {
	p := testProber(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	result := p.Probe(context.Background(), "henry/h")
	assert.False(t, result.HasManifest)
	assert.False(t, result.HasCi)
}
