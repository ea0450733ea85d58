// Package searchapi provides a caller for the repository-search
// service. It issues one page request per call with the metadata
// filters taken from the configuration.

package searchapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

type Caller struct {
	Logger  log.Logger
	Config  *cfg.Config
	Page    int
	PerPage int
	client  *http.Client
}

// Mapping response
type RawResponse struct {
	TotalItems int        `json:"totalItems"`
	TotalPages int        `json:"totalPages"`
	Items      []RepoItem `json:"items"`
}

func NewCaller(logger log.Logger, config *cfg.Config, page int, perPage int) *Caller {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.SearchApi.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Caller{
		Logger:  logger,
		Config:  config,
		Page:    page,
		PerPage: perPage,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (c *Caller) Call(ctx context.Context) ([]RepoItem, error) {
	fullUrl := c.buildUrl()
	c.Logger.Info(ctx, "Calling search API: %s", fullUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
	if err != nil {
		c.Logger.Error(ctx, "Cannot request: %v", err)
		return nil, err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.Logger.Error(ctx, "cannot send request: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot received response: %v", resp.Status)
	}

	// Decode the page
	rawResponse := &RawResponse{}
	err = json.NewDecoder(resp.Body).Decode(rawResponse)
	if err != nil {
		return nil, err
	}

	c.Logger.Info(ctx, "Total repositories found: %d, page: %d, items received: %d",
		rawResponse.TotalItems, c.Page, len(rawResponse.Items))

	return rawResponse.Items, nil
}

func (c *Caller) buildUrl() string {
	search := c.Config.SearchApi

	params := url.Values{}
	params.Set("language", search.Language)
	params.Set("starsMin", strconv.Itoa(search.MinStars))
	if search.MinCommitDate != "" {
		params.Set("committedMin", search.MinCommitDate)
	}
	if search.MaxCommitDate != "" {
		params.Set("committedMax", search.MaxCommitDate)
	}
	params.Set("sort", search.SortKey)
	params.Set("direction", search.SortDir)
	params.Set("page", strconv.Itoa(c.Page))
	params.Set("pageSize", strconv.Itoa(c.PerPage))

	return search.ApiUrl + "?" + params.Encode()
}
