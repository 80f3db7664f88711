package matchround

import (
	"context"
	"time"

	"go.uber.org/zap"

	matchingsvc "github.com/MoonGyu1/MeetingApplicationServer-1/internal/services/matchings"
)

const defaultInterval = time.Hour

type roundRunner interface {
	RunRound(ctx context.Context) ([]matchingsvc.Pair, error)
}

// Job pairs waiting teams on a fixed interval. Each tick runs one full
// round; a failed round is logged and retried on the next tick.
type Job struct {
	runner   roundRunner
	interval time.Duration
	logger   *zap.Logger
}

func New(runner roundRunner, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.runner == nil {
		return nil
	}

	pairs, err := j.runner.RunRound(ctx)
	if err != nil {
		return err
	}

	if len(pairs) > 0 {
		j.logger.Info("matching round completed", zap.Int("pairs", len(pairs)))
	}
	return nil
}

// Start blocks until ctx is cancelled, running one round per interval.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("matching round failed", zap.Error(err))
			}
		}
	}
}
