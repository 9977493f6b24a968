package bootstrap

import (
	"context"

	"github.com/jonesrussell/trendboard/internal/scheduler"
)

// StartScheduler reloads the dashboard on documents.reload_schedule. It returns
// nil when no schedule is configured.
func (c *Components) StartScheduler(ctx context.Context) (*scheduler.Scheduler, error) {
	expr := c.Config.Documents.ReloadSchedule
	if expr == "" {
		return nil, nil
	}

	s := scheduler.New(c.Logger)
	if _, err := s.Schedule(ctx, expr, c.Dashboard); err != nil {
		return nil, err
	}
	s.Start()
	c.closers = append(c.closers, s.Stop)
	return s, nil
}
