package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dealership_crm_backend/internal/audit"
	"dealership_crm_backend/internal/auth/adapter"
	authrepo "dealership_crm_backend/internal/auth/repository"
	"dealership_crm_backend/internal/email"
	"dealership_crm_backend/internal/events"
	"dealership_crm_backend/internal/leads/deactivation"
	leadrepo "dealership_crm_backend/internal/leads/repository"
	"dealership_crm_backend/internal/notification"
	"dealership_crm_backend/internal/scheduler"
	"dealership_crm_backend/platform/config"
	"dealership_crm_backend/platform/db"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/metrics"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "schedule", cfg.GetAutoDeactivateSchedule())

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL not configured; the scheduler cannot run")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	users := adapter.NewUserProviderAdapter(authrepo.New(pool))
	notificationModule := notification.New(email.NewSender(cfg), users, cfg.GetDeactivationReportEmail(), log.WithComponent("notification"))
	notificationModule.RegisterHandlers(eventBus)

	sink, broker, err := audit.NewSink(cfg, log)
	if err != nil {
		log.Error("failed to initialize audit sink", "error", err)
		panic("failed to initialize audit sink: " + err.Error())
	}
	defer func() { _ = broker.Close() }()

	job := deactivation.New(leadrepo.New(pool), sink, eventBus, log, deactivation.Config{
		DefaultThresholdDays: cfg.GetAutoDeactivateAfterDays(),
	})

	rdb, err := scheduler.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	defer func() { _ = rdb.Close() }()
	lock := scheduler.NewRunLock(rdb, scheduler.DeactivationLockKey, scheduler.DefaultLockTTL)

	sched, err := scheduler.NewScheduler(cfg, scheduler.BindingFromConfig(cfg), log)
	if err != nil {
		log.Error("failed to initialize scheduler", "error", err)
		panic("failed to initialize scheduler: " + err.Error())
	}

	worker, err := scheduler.NewWorker(cfg, job, lock, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	metricsSrv := &http.Server{
		Addr:              cfg.GetMetricsAddr(),
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error { return worker.Run(gctx) })
	g.Go(func() error {
		log.Info("metrics listening", "addr", cfg.GetMetricsAddr())
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("scheduler stopped", "error", err)
		os.Exit(1)
	}
	log.Info("scheduler stopped")
}
