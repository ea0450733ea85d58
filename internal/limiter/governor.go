// The governor keeps the pipeline inside the GitHub API quota. It
// paces individual requests with a token bucket and suspends the
// caller for a full cooldown once the remaining quota drops below the
// configured floor.

package limiter

import (
	"context"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/pkg/log"
	"golang.org/x/time/rate"
)

// QuotaSource reports the remaining call quota of the credential.
type QuotaSource interface {
	RateLimit(ctx context.Context) (int, error)
}

type Governor struct {
	Logger log.Logger
	Config *cfg.Config
	Source QuotaSource
	bucket *rate.Limiter
}

func NewGovernor(logger log.Logger, config *cfg.Config, source QuotaSource) *Governor {
	rps := config.GithubApi.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Governor{
		Logger: logger,
		Config: config,
		Source: source,
		bucket: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Remaining queries the quota status endpoint. A failure here is fatal
// for the caller; the governor does not retry.
func (g *Governor) Remaining(ctx context.Context) (int, error) {
	return g.Source.RateLimit(ctx)
}

// Throttle checks the remaining quota and suspends the caller for the
// full cooldown when it is below the floor. The pause is all or
// nothing; only context cancellation cuts it short.
func (g *Governor) Throttle(ctx context.Context) error {
	remaining, err := g.Remaining(ctx)
	if err != nil {
		return err
	}

	if remaining >= g.Config.GithubApi.QuotaFloor {
		return nil
	}

	cooldown := time.Duration(g.Config.GithubApi.QuotaCooldownMin) * time.Minute
	g.Logger.Warn(ctx, "Quota remaining %d is below floor %d, sleeping %v",
		remaining, g.Config.GithubApi.QuotaFloor, cooldown)

	timer := time.NewTimer(cooldown)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		g.Logger.Info(ctx, "Quota cooldown finished, resuming")
		return nil
	}
}

// Pace blocks until the token bucket admits one more request.
func (g *Governor) Pace(ctx context.Context) error {
	return g.bucket.Wait(ctx)
}
