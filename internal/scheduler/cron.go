package scheduler

import (
	"context"
	"fmt"
	"time"

	"research_assistant_backend/platform/config"
	"research_assistant_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Cron enqueues periodic tasks. Only one Cron should run per Redis.
type Cron struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

// NewCron registers the catalog reindex on the configured cron schedule.
// An empty schedule disables periodic reindexing.
func NewCron(cfg config.SchedulerConfig, log *logger.Logger) (*Cron, error) {
	schedule := cfg.GetReindexCron()
	if schedule == "" {
		return nil, nil
	}

	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
	task, err := NewCatalogReindexTask(CatalogReindexPayload{Reason: "scheduled"})
	if err != nil {
		return nil, err
	}
	entryID, err := s.Register(schedule, task, asynq.Queue(queueName(cfg)), asynq.Unique(reindexUniqueFor))
	if err != nil {
		return nil, fmt.Errorf("register %s at %q: %w", TaskCatalogReindex, schedule, err)
	}
	log.Info("catalog reindex scheduled", "cron", schedule, "entryId", entryID)

	return &Cron{scheduler: s, log: log}, nil
}

func (c *Cron) Run(ctx context.Context) {
	if c == nil || c.scheduler == nil {
		return
	}
	if err := c.scheduler.Start(); err != nil {
		c.log.Error("cron scheduler failed to start", "error", err)
		return
	}
	<-ctx.Done()
	c.scheduler.Shutdown()
}
