package scheduler

import (
	"context"
	"fmt"
	"time"

	"dealership_crm_backend/platform/config"
	"dealership_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Scheduler enqueues deactivation tasks on their cron entries.
type Scheduler struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

// NewScheduler registers every entry produced by Plan. Cron specs are
// evaluated in the local time zone.
func NewScheduler(cfg config.SchedulerConfig, binding Binding, log *logger.Logger) (*Scheduler, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	entries, err := Plan(binding)
	if err != nil {
		return nil, fmt.Errorf("plan deactivation schedule: %w", err)
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.Local,
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Error("enqueue scheduled task failed", "error", err)
				return
			}
			log.Debug("scheduled task enqueued", "task", info.Type, "id", info.ID)
		},
	})

	queue := queueName(cfg)
	for _, e := range entries {
		task, err := NewDeactivateStaleLeadsTask(e.Payload)
		if err != nil {
			return nil, err
		}
		id, err := s.Register(e.CronSpec, task, asynq.Queue(queue), asynq.MaxRetry(5))
		if err != nil {
			return nil, fmt.Errorf("register %q: %w", e.CronSpec, err)
		}
		status := "all"
		if e.Payload.Status != nil {
			status = *e.Payload.Status
		}
		log.Info("deactivation run scheduled", "entryId", id, "cron", e.CronSpec,
			"thresholdDays", e.Payload.ThresholdDays, "status", status)
	}

	return &Scheduler{scheduler: s, log: log}, nil
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.scheduler.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.scheduler.Shutdown()
	return nil
}
