// Shared plumbing of both crawler disciplines: candidate acquisition
// with the disk checkpoint, the retain predicate, and the output sinks.

package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/internal/fetcher"
	githubapi "github.com/repoharvest/ci-crawler/internal/github_api"
	"github.com/repoharvest/ci-crawler/internal/limiter"
	"github.com/repoharvest/ci-crawler/internal/model"
	"github.com/repoharvest/ci-crawler/internal/prober"
	"github.com/repoharvest/ci-crawler/internal/store"
	"github.com/repoharvest/ci-crawler/pkg/db"
	kafkapkg "github.com/repoharvest/ci-crawler/pkg/kafka"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

type pipeline struct {
	Logger   log.Logger
	Config   *cfg.Config
	Mysql    *db.Mysql
	Fetcher  *fetcher.Fetcher
	Prober   *prober.Prober
	Governor *limiter.Governor
	RecordMd *model.Record
}

func newPipeline(logger log.Logger, config *cfg.Config, mysql *db.Mysql) (*pipeline, error) {
	ftch, err := fetcher.NewFetcher(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	prb, err := prober.NewProber(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create prober: %w", err)
	}

	recordMd, err := model.NewRecord(config, logger, mysql)
	if err != nil {
		return nil, fmt.Errorf("failed to create record model: %w", err)
	}

	governor := limiter.NewGovernor(logger, config, githubapi.NewCaller(logger, config))

	return &pipeline{
		Logger:   logger,
		Config:   config,
		Mysql:    mysql,
		Fetcher:  ftch,
		Prober:   prb,
		Governor: governor,
		RecordMd: recordMd,
	}, nil
}

// retain is the sole admission predicate for the output set.
func retain(p model.ProbeResult) bool {
	return p.HasCi && p.HasManifest
}

// candidates returns the run's candidate set, from the checkpoint file
// when one exists, otherwise from a fresh fetch that is checkpointed
// before probing starts. Duplicate IDs are dropped, first one wins.
func (p *pipeline) candidates(ctx context.Context) ([]model.Candidate, error) {
	path := p.Config.Storage.CandidatesFile

	candidates, found, err := store.LoadCandidates(path)
	if err != nil {
		return nil, err
	}
	if found {
		p.Logger.Info(ctx, "Loaded %d candidates from checkpoint %s, skipping fetch", len(candidates), path)
		return dedupe(candidates), nil
	}

	candidates, err = p.Fetcher.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	if err := store.SaveCandidates(path, candidates); err != nil {
		return nil, err
	}
	p.Logger.Info(ctx, "Checkpointed %d candidates to %s", len(candidates), path)

	return dedupe(candidates), nil
}

func dedupe(candidates []model.Candidate) []model.Candidate {
	seen := make(map[int64]bool, len(candidates))
	out := make([]model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// persist writes the final record set: always to the output file, and
// to MySQL and Kafka when those sinks are enabled.
func (p *pipeline) persist(ctx context.Context, records []model.Record) error {
	if err := store.SaveRecords(p.Config.Storage.OutputFile, records); err != nil {
		return err
	}
	p.Logger.Info(ctx, "Wrote %d records to %s", len(records), p.Config.Storage.OutputFile)

	if p.Config.Mysql.Enabled {
		if err := p.Mysql.Migrate(p.RecordMd); err != nil {
			return fmt.Errorf("failed to migrate records table: %w", err)
		}

		messages := make([]model.RecordMessage, 0, len(records))
		for _, r := range records {
			messages = append(messages, model.MessageFromRecord(r))
		}
		if err := p.RecordMd.CreateBatch(messages); err != nil {
			return err
		}
		p.Logger.Info(ctx, "Upserted %d records into MySQL", len(records))
	}

	if p.Config.Kafka.Enabled {
		producer := kafkapkg.NewProducer(p.Config, p.Logger, p.Config.Kafka.Producer.TopicRecord)
		defer producer.Close()

		for _, r := range records {
			if err := producer.Publish(ctx, "record", model.MessageFromRecord(r)); err != nil {
				return err
			}
		}
		p.Logger.Info(ctx, "Published %d records to topic %s", len(records), p.Config.Kafka.Producer.TopicRecord)
	}

	return nil
}

func (p *pipeline) logSummary(ctx context.Context, version string, startTime time.Time, total, retained int) {
	endTime := time.Now()

	p.Logger.Info(ctx, "==== HARVEST RESULT (%s) ====", version)
	p.Logger.Info(ctx, "Start time: %s", startTime.Format(time.RFC3339))
	p.Logger.Info(ctx, "End time: %s", endTime.Format(time.RFC3339))
	p.Logger.Info(ctx, "Total duration: %v", endTime.Sub(startTime))
	p.Logger.Info(ctx, "Candidates probed: %d", total)
	p.Logger.Info(ctx, "Records retained: %d", retained)
}
