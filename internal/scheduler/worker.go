package scheduler

import (
	"context"
	"errors"
	"fmt"

	"dealership_crm_backend/internal/leads/deactivation"
	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/platform/config"
	"dealership_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// DeactivationRunner is satisfied by *deactivation.Job.
type DeactivationRunner interface {
	Run(ctx context.Context, opts deactivation.Options) (deactivation.Result, error)
}

// Locker guards a run. *RunLock implements it.
type Locker interface {
	Acquire(ctx context.Context) (func(context.Context) error, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	runner DeactivationRunner
	lock   Locker
	log    *logger.Logger
}

// NewWorker builds the asynq server. lock may be nil.
func NewWorker(cfg config.SchedulerConfig, runner DeactivationRunner, lock Locker, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(runner, lock, log)
	w.server = server
	return w, nil
}

func newWorker(runner DeactivationRunner, lock Locker, log *logger.Logger) *Worker {
	w := &Worker{
		mux:    asynq.NewServeMux(),
		runner: runner,
		lock:   lock,
		log:    log,
	}
	w.mux.HandleFunc(TaskDeactivateStaleLeads, w.handleDeactivateStaleLeads)
	return w
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	if err := w.server.Start(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
		return err
	}
	<-ctx.Done()
	w.server.Shutdown()
	return nil
}

// handleDeactivateStaleLeads runs the job non-interactively and without dry
// run. A held lock is returned as an error so asynq retries the task later.
func (w *Worker) handleDeactivateStaleLeads(ctx context.Context, task *asynq.Task) (err error) {
	defer func() { w.log.ScheduledTask(TaskDeactivateStaleLeads, err) }()

	payload, err := ParseDeactivateStaleLeadsPayload(task)
	if err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	opts := deactivation.Options{Interactive: false, DryRun: false}
	if payload.ThresholdDays > 0 {
		threshold := payload.ThresholdDays
		opts.ThresholdDays = &threshold
	}
	if payload.Status != nil {
		status, perr := domain.ParseStatus(*payload.Status)
		if perr != nil {
			return fmt.Errorf("%v: %w", perr, asynq.SkipRetry)
		}
		opts.Status = &status
	}

	if w.lock != nil {
		release, lerr := w.lock.Acquire(ctx)
		if lerr != nil {
			return lerr
		}
		defer func() {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				w.log.Warn("release deactivation lock failed", "error", rerr)
			}
		}()
	}

	_, err = w.runner.Run(ctx, opts)
	if errors.Is(err, deactivation.ErrInvalidThreshold) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}
