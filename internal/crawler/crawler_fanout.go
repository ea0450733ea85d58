// Fan-out crawler
// Probes run concurrently under a worker cap. The governor is only
// consulted before every Nth launch: a best-effort guard, not an
// admission gate, so probes already in flight when the quota runs out
// are left to finish. Each task writes its own result slot; nothing
// else is shared, so joining is a plain WaitGroup wait.

package crawler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/internal/model"
	"github.com/repoharvest/ci-crawler/pkg/db"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

type FanoutCrawler struct {
	*pipeline
	probeCount int32
	workers    chan struct{}
}

func NewFanoutCrawler(logger log.Logger, config *cfg.Config, mysql *db.Mysql) (*FanoutCrawler, error) {
	p, err := newPipeline(logger, config, mysql)
	if err != nil {
		return nil, err
	}

	maxWorkers := config.GithubApi.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	return &FanoutCrawler{
		pipeline: p,
		workers:  make(chan struct{}, maxWorkers),
	}, nil
}

func (c *FanoutCrawler) Crawl() bool {
	ctx := context.Background()
	startTime := time.Now()
	c.Logger.Info(ctx, "Starting fan-out harvest at %s with %d workers", startTime.Format(time.RFC3339), cap(c.workers))

	candidates, err := c.candidates(ctx)
	if err != nil {
		c.Logger.Error(ctx, "Cannot acquire candidates: %v", err)
		return false
	}

	governorEvery := c.Config.GithubApi.GovernorEvery
	if governorEvery <= 0 {
		governorEvery = 10
	}

	results := make([]model.ProbeResult, len(candidates))
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		if i%governorEvery == 0 {
			if err := c.Governor.Throttle(ctx); err != nil {
				c.Logger.Error(ctx, "Quota check failed: %v", err)
				return false
			}
		}

		wg.Add(1)
		c.workers <- struct{}{}
		go func(idx int, cand model.Candidate) {
			defer wg.Done()
			defer func() { <-c.workers }()

			if err := c.Governor.Pace(ctx); err != nil {
				c.Logger.Warn(ctx, "Pacing interrupted for %s: %v", cand.Name, err)
				return
			}

			results[idx] = c.Prober.Probe(ctx, cand.Name)

			done := atomic.AddInt32(&c.probeCount, 1)
			c.Logger.Info(ctx, "Progress: %d/%d - %s manifest=%v ci=%v",
				done, len(candidates), cand.Name, results[idx].HasManifest, results[idx].HasCi)
		}(i, candidate)
	}

	wg.Wait()

	var records []model.Record
	for i, candidate := range candidates {
		if retain(results[i]) {
			records = append(records, model.FromCandidate(candidate, results[i]))
		}
	}

	if err := c.persist(ctx, records); err != nil {
		c.Logger.Error(ctx, "Cannot persist records: %v", err)
		return false
	}

	c.logSummary(ctx, "fanout", startTime, len(candidates), len(records))
	return true
}
