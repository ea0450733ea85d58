// The fetcher accumulates the full candidate set from the search
// service, one page at a time, and maps the raw items into candidates.

package fetcher

import (
	"context"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/internal/model"
	searchapi "github.com/repoharvest/ci-crawler/internal/search_api"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

type Fetcher struct {
	Logger log.Logger
	Config *cfg.Config
}

func NewFetcher(logger log.Logger, config *cfg.Config) (*Fetcher, error) {
	return &Fetcher{
		Logger: logger,
		Config: config,
	}, nil
}

// FetchAll pages through the search results starting at page 0 until
// the service returns an empty page or the page bound is reached. The
// accumulated order is page order, then in-page order. Any request
// error aborts the whole fetch; no partial accumulation is returned.
func (f *Fetcher) FetchAll(ctx context.Context) ([]model.Candidate, error) {
	perPage := f.Config.SearchApi.PageSize
	maxPages := f.Config.SearchApi.MaxPages
	pageDelay := time.Duration(f.Config.SearchApi.PageDelayMs) * time.Millisecond

	apiCaller := searchapi.NewCaller(f.Logger, f.Config, 0, perPage)

	var candidates []model.Candidate
	for page := 0; page < maxPages; page++ {
		if page > 0 && pageDelay > 0 {
			// Fixed delay between page requests so the search service
			// does not throttle us, regardless of response latency.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(pageDelay):
			}
		}

		apiCaller.Page = page
		items, err := apiCaller.Call(ctx)
		if err != nil {
			f.Logger.Error(ctx, "Fetch aborted on page %d: %v", page, err)
			return nil, err
		}

		if len(items) == 0 {
			f.Logger.Info(ctx, "Empty page %d, fetch complete", page)
			break
		}

		for _, item := range items {
			candidates = append(candidates, candidateFromItem(item))
		}
	}

	f.Logger.Info(ctx, "Fetched %d candidates from search API", len(candidates))
	return candidates, nil
}

func candidateFromItem(item searchapi.RepoItem) model.Candidate {
	return model.Candidate{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		IsFork:        item.IsFork,
		Stargazers:    item.Stargazers,
		Forks:         item.Forks,
		Watchers:      item.Watchers,
		OpenIssues:    item.OpenIssues,
		TotalIssues:   item.TotalIssues,
		MainLanguage:  item.MainLanguage,
		Topics:        item.Topics,
		License:       item.License,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		LastCommit:    item.LastCommit,
		DefaultBranch: item.DefaultBranch,
	}
}
