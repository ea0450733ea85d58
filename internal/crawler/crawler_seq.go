// Sequential crawler
// One outstanding probe at a time. The governor is consulted before
// every probe and a fixed delay follows each one, which keeps the run
// far inside the host API's secondary limits at the cost of wall time.

package crawler

import (
	"context"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/internal/model"
	"github.com/repoharvest/ci-crawler/pkg/db"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

type SeqCrawler struct {
	*pipeline
}

func NewSeqCrawler(logger log.Logger, config *cfg.Config, mysql *db.Mysql) (*SeqCrawler, error) {
	p, err := newPipeline(logger, config, mysql)
	if err != nil {
		return nil, err
	}
	return &SeqCrawler{pipeline: p}, nil
}

func (c *SeqCrawler) Crawl() bool {
	ctx := context.Background()
	startTime := time.Now()
	c.Logger.Info(ctx, "Starting sequential harvest at %s", startTime.Format(time.RFC3339))

	candidates, err := c.candidates(ctx)
	if err != nil {
		c.Logger.Error(ctx, "Cannot acquire candidates: %v", err)
		return false
	}

	probeDelay := time.Duration(c.Config.GithubApi.ProbeDelayMs) * time.Millisecond

	var records []model.Record
	for i, candidate := range candidates {
		if err := c.Governor.Throttle(ctx); err != nil {
			c.Logger.Error(ctx, "Quota check failed: %v", err)
			return false
		}

		if err := c.Governor.Pace(ctx); err != nil {
			c.Logger.Error(ctx, "Pacing interrupted: %v", err)
			return false
		}

		result := c.Prober.Probe(ctx, candidate.Name)
		if retain(result) {
			records = append(records, model.FromCandidate(candidate, result))
		}

		c.Logger.Info(ctx, "Progress: %d/%d - %s manifest=%v ci=%v",
			i+1, len(candidates), candidate.Name, result.HasManifest, result.HasCi)

		// Fixed pause after every probe, hit or miss.
		time.Sleep(probeDelay)
	}

	if err := c.persist(ctx, records); err != nil {
		c.Logger.Error(ctx, "Cannot persist records: %v", err)
		return false
	}

	c.logSummary(ctx, "seq", startTime, len(candidates), len(records))
	return true
}
