// Package githubapi provides a caller for the GitHub API. The pipeline
// uses two endpoints: directory listings by path and the rate-limit
// status. It handles authentication with an access token if provided.

package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

// ErrNotFound marks a 404 from a directory listing. An absent path is
// a normal signal, not an error condition.
var ErrNotFound = errors.New("path not found")

type Caller struct {
	Logger log.Logger
	Config *cfg.Config
	client *http.Client
}

func NewCaller(logger log.Logger, config *cfg.Config) *Caller {
	return &Caller{
		Logger: logger,
		Config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListContents lists the entries of one directory of a repository.
// An empty path lists the repository root.
func (c *Caller) ListContents(ctx context.Context, fullName, path string) ([]ContentEntry, error) {
	fullUrl := fmt.Sprintf("%s/repos/%s/contents", strings.TrimSuffix(c.Config.GithubApi.ApiUrl, "/"), fullName)
	if path != "" {
		fullUrl += "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot received response: %v", resp.Status)
	}

	var entries []ContentEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// RateLimit returns the remaining core quota of the credential.
func (c *Caller) RateLimit(ctx context.Context) (int, error) {
	fullUrl := strings.TrimSuffix(c.Config.GithubApi.ApiUrl, "/") + "/rate_limit"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
	if err != nil {
		return 0, err
	}

	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("cannot received response: %v", resp.Status)
	}

	rateLimit := &RateLimitResponse{}
	if err := json.NewDecoder(resp.Body).Decode(rateLimit); err != nil {
		return 0, err
	}

	return rateLimit.Resources.Core.Remaining, nil
}

func (c *Caller) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.Config.GithubApi.AccessToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("token %s", c.Config.GithubApi.AccessToken))
	}
}
