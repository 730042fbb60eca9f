package job

import (
	"context"
	"log/slog"
	"time"

	"contract-registry/config"
	"contract-registry/types"

	"github.com/robfig/cron/v3"
)

// Runner is the scan entry point the scheduler drives.
// *service.Scanner implements it.
type Runner interface {
	RunScheduledTransitions(ctx context.Context, today time.Time) ([]types.StateChangeResult, error)
}

// StartCronJob schedules the daily transition pass. The returned cron
// can be stopped on shutdown.
func StartCronJob(cfg *config.SchedulerConfig, runner Runner) (*cron.Cron, error) {
	c := cron.New()
	delay := time.Duration(cfg.RetryDelaySecs) * time.Second

	_, err := c.AddFunc(cfg.Spec, func() {
		RunWithRetry(context.Background(), runner, time.Now(), cfg.Retries, delay)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	slog.Info("transition job scheduled", "spec", cfg.Spec, "retries", cfg.Retries)
	return c, nil
}

// RunWithRetry executes one pass with bounded retries. After the last
// attempt the job is marked failed and left for the next cycle or a
// manual trigger; the pass itself is safe to re-run for the same day.
func RunWithRetry(ctx context.Context, runner Runner, today time.Time, attempts int, delay time.Duration) {
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		results, err := runner.RunScheduledTransitions(ctx, today)
		if err == nil {
			slog.Info("transition job finished", "attempt", i, "changed", len(results))
			return
		}
		slog.Error("transition job attempt failed", "attempt", i, "err", err)
		if i < attempts {
			time.Sleep(delay)
		}
	}
	slog.Error("transition job failed, giving up until next cycle", "attempts", attempts)
}
