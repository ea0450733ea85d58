package githubapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCaller(t *testing.T, handler http.Handler) (*Caller, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.Load()
	require.NoError(t, err)
	config.GithubApi.ApiUrl = server.URL
	config.GithubApi.AccessToken = "test-token"

	logger, _ := log.NewCslLogger()
	return NewCaller(logger, config), server
}

func TestListContentsDecodesEntries(t *testing.T) {
	caller, _ := testCaller(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/a/contents", r.URL.Path)
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"name":"package.json","type":"file"},{"name":".github","type":"dir"}]`))
	}))

	entries, err := caller.ListContents(context.Background(), "alice/a", "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "package.json", entries[0].Name)
	assert.Equal(t, "dir", entries[1].Type)
}

func TestListContentsNestedPath(t *testing.T) {
	caller, _ := testCaller(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/a/contents/.github/workflows", r.URL.Path)
		w.Write([]byte(`[{"name":"ci.yml","type":"file"}]`))
	}))

	entries, err := caller.ListContents(context.Background(), "alice/a", ".github/workflows")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestListContentsNotFound(t *testing.T) {
	caller, _ := testCaller(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := caller.ListContents(context.Background(), "ghost/none", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRateLimit(t *testing.T) {
	caller, _ := testCaller(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rate_limit", r.URL.Path)
		w.Write([]byte(`{"resources":{"core":{"limit":5000,"remaining":4321,"reset":1700000000}}}`))
	}))

	remaining, err := caller.RateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4321, remaining)
}

func TestRateLimitServerError(t *testing.T) {
	caller, _ := testCaller(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := caller.RateLimit(context.Background())
	assert.Error(t, err)
}
