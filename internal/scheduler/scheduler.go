// Package scheduler reloads the dashboard snapshot on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
)

// Reloader is implemented by service.Dashboard.
type Reloader interface {
	Reload(ctx context.Context) error
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate reports whether expr is a five-field cron expression or a descriptor
// such as "@hourly" or "@every 10m".
func Validate(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("failed to parse cron expression: %w", err)
	}
	return nil
}

// Scheduler runs reloads in the background. Overlapping runs are skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger infralogger.Logger
}

// New creates a stopped scheduler. A nil logger discards output.
func New(logger infralogger.Logger) *Scheduler {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger,
	}
}

// Schedule registers r to reload on expr and returns the next run time.
func (s *Scheduler) Schedule(ctx context.Context, expr string, r Reloader) (time.Time, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse cron expression: %w", err)
	}

	s.cron.Schedule(schedule, cron.FuncJob(func() {
		started := time.Now()
		if reloadErr := r.Reload(ctx); reloadErr != nil {
			s.logger.Error("Scheduled reload failed",
				infralogger.String("schedule", expr),
				infralogger.Error(reloadErr),
			)
			return
		}
		s.logger.Debug("Scheduled reload finished",
			infralogger.String("schedule", expr),
			infralogger.Duration("duration", time.Since(started)),
		)
	}))

	next := schedule.Next(time.Now())
	s.logger.Info("Reload scheduled",
		infralogger.String("schedule", expr),
		infralogger.Time("next_run", next),
	)
	return next, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running reload to finish.
func (s *Scheduler) Stop() error {
	<-s.cron.Stop().Done()
	return nil
}
