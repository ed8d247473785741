// Command deactivate-leads marks leads inactive after a period without updates.
//
//	deactivate-leads [-days N] [-status new|converted|not_converted] [-dry-run] [-no-interaction]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dealership_crm_backend/internal/audit"
	"dealership_crm_backend/internal/auth/adapter"
	authrepo "dealership_crm_backend/internal/auth/repository"
	"dealership_crm_backend/internal/email"
	"dealership_crm_backend/internal/events"
	"dealership_crm_backend/internal/leads/deactivation"
	"dealership_crm_backend/internal/leads/domain"
	leadrepo "dealership_crm_backend/internal/leads/repository"
	"dealership_crm_backend/internal/notification"
	"dealership_crm_backend/internal/scheduler"
	"dealership_crm_backend/platform/config"
	"dealership_crm_backend/platform/db"
	"dealership_crm_backend/platform/logger"
)

const (
	exitOK    = 0
	exitSetup = 1
	exitUsage = 2
)

type cliOptions struct {
	days          *int
	status        *domain.LeadStatus
	dryRun        bool
	noInteraction bool
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	fs := flag.NewFlagSet("deactivate-leads", flag.ContinueOnError)
	fs.SetOutput(stderr)
	days := fs.Int("days", 0, "days without updates before a lead is stale (default AUTO_DEACTIVATE_AFTER_DAYS)")
	status := fs.String("status", "", "only deactivate leads with this status: new, converted or not_converted")
	dryRun := fs.Bool("dry-run", false, "show what would be deactivated without changing anything")
	noInteraction := fs.Bool("no-interaction", false, "do not ask for confirmation")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	if fs.NArg() > 0 {
		return cliOptions{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts := cliOptions{dryRun: *dryRun, noInteraction: *noInteraction}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "days" {
			opts.days = days
		}
	})
	if opts.days != nil && *opts.days <= 0 {
		return cliOptions{}, deactivation.ErrInvalidThreshold
	}
	if *status != "" {
		s, err := domain.ParseStatus(*status)
		if err != nil {
			return cliOptions{}, err
		}
		opts.status = &s
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return exitSetup
	}

	log := logger.NewWithWriter(cfg.Env, stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return exitSetup
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()
	users := adapter.NewUserProviderAdapter(authrepo.New(pool))
	notification.New(email.NewSender(cfg), users, cfg.GetDeactivationReportEmail(), log.WithComponent("notification")).RegisterHandlers(eventBus)

	sink, broker, err := audit.NewSink(cfg, log)
	if err != nil {
		log.Error("failed to initialize audit sink", "error", err)
		return exitSetup
	}
	defer func() { _ = broker.Close() }()

	// Share the scheduled worker's lock when Redis is available.
	if cfg.GetRedisURL() != "" {
		rdb, err := scheduler.NewRedisClient(cfg)
		if err != nil {
			log.Error("failed to initialize redis client", "error", err)
			return exitSetup
		}
		defer func() { _ = rdb.Close() }()

		release, err := scheduler.NewRunLock(rdb, scheduler.DeactivationLockKey, scheduler.DefaultLockTTL).Acquire(ctx)
		if errors.Is(err, scheduler.ErrLockHeld) {
			fmt.Fprintln(stderr, "Another deactivation run is in progress. Try again later.")
			return exitSetup
		}
		if err != nil {
			log.Error("failed to acquire run lock", "error", err)
			return exitSetup
		}
		defer func() { _ = release(context.WithoutCancel(ctx)) }()
	}

	job := deactivation.New(leadrepo.New(pool), sink, eventBus, log, deactivation.Config{
		DefaultThresholdDays: cfg.GetAutoDeactivateAfterDays(),
	})

	_, err = job.Run(ctx, deactivation.Options{
		ThresholdDays: opts.days,
		Status:        opts.status,
		DryRun:        opts.dryRun,
		Interactive:   !opts.noInteraction,
		Confirmer:     deactivation.NewPromptConfirmer(stdin, stdout),
		Out:           stdout,
	})
	if err != nil {
		log.Error("deactivation run failed", "error", err)
		return exitSetup
	}
	return exitOK
}
