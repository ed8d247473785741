// Package deactivation turns stale leads inactive in one batch.
//
// A run selects candidates, previews them, optionally asks for confirmation,
// then deactivates each lead independently and records an audit entry. The
// same Job serves the interactive CLI and the scheduled worker.
package deactivation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"dealership_crm_backend/internal/audit"
	"dealership_crm_backend/internal/events"
	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/metrics"
)

// Outcome is the terminal state of a run.
type Outcome string

const (
	OutcomeNone      Outcome = "none"
	OutcomeDryRun    Outcome = "dry_run"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeApplied   Outcome = "applied"
)

// ErrInvalidThreshold is returned when the resolved threshold is not positive.
var ErrInvalidThreshold = errors.New("threshold days must be a positive integer")

// ErrNoConfirmer is returned when an interactive run has nobody to ask.
var ErrNoConfirmer = errors.New("interactive run needs a confirmer")

// Store is the storage the job needs.
type Store interface {
	ListStale(ctx context.Context, criteria domain.StaleCriteria) ([]domain.Lead, error)
	Deactivate(ctx context.Context, id int64) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string, defaultYes bool) (bool, error)
}

// Config holds values resolved once at construction.
type Config struct {
	DefaultThresholdDays int
	Now                  func() time.Time
}

// Options describe one invocation. Nil pointers fall back to configuration.
type Options struct {
	ThresholdDays *int
	Status        *domain.LeadStatus
	DryRun        bool
	// Interactive runs ask Confirmer before applying; all other runs auto-confirm.
	Interactive bool
	Confirmer   Confirmer
	Out         io.Writer
}

// Candidate is one previewed lead.
type Candidate struct {
	ID           int64
	LeadName     string
	Status       domain.LeadStatus
	UpdatedAt    time.Time
	DaysInactive int
}

// Failure is a lead that could not be deactivated.
type Failure struct {
	LeadID int64
	Err    error
}

// Result summarizes a completed run.
type Result struct {
	Outcome       Outcome
	ThresholdDays int
	StatusFilter  *string
	Candidates    []Candidate
	Deactivated   int
	Failed        []Failure
}

// Job runs the deactivation flow.
type Job struct {
	store Store
	sink  audit.Sink
	bus   events.Bus
	log   *logger.Logger
	cfg   Config
}

// New creates a Job. bus may be nil.
func New(store Store, sink audit.Sink, bus events.Bus, log *logger.Logger, cfg Config) *Job {
	if cfg.DefaultThresholdDays <= 0 {
		cfg.DefaultThresholdDays = domain.DefaultStaleAfterDays
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Job{store: store, sink: sink, bus: bus, log: log.WithComponent("lead_deactivation"), cfg: cfg}
}

// Run executes one invocation. An error means the run could not start or
// select; per-lead failures are reported in Result and never returned.
func (j *Job) Run(ctx context.Context, opts Options) (Result, error) {
	threshold := j.cfg.DefaultThresholdDays
	if opts.ThresholdDays != nil {
		threshold = *opts.ThresholdDays
	}
	if threshold <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidThreshold, threshold)
	}
	if opts.Interactive && opts.Confirmer == nil {
		return Result{}, ErrNoConfirmer
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	res := Result{ThresholdDays: threshold}
	if opts.Status != nil {
		s := opts.Status.String()
		res.StatusFilter = &s
	}

	now := j.cfg.Now()
	leads, err := j.store.ListStale(ctx, domain.StaleCriteria{
		ThresholdDays: threshold,
		Status:        opts.Status,
		Now:           now,
	})
	if err != nil {
		return Result{}, fmt.Errorf("select stale leads: %w", err)
	}

	if len(leads) == 0 {
		fmt.Fprintln(out, noneMessage(threshold, res.StatusFilter))
		return j.finish(res, OutcomeNone), nil
	}

	res.Candidates = make([]Candidate, 0, len(leads))
	for _, l := range leads {
		res.Candidates = append(res.Candidates, Candidate{
			ID:           l.ID,
			LeadName:     l.LeadName,
			Status:       l.Status,
			UpdatedAt:    l.UpdatedAt,
			DaysInactive: domain.DaysInactive(l.UpdatedAt, now),
		})
	}

	fmt.Fprintln(out, foundMessage(len(res.Candidates), threshold))
	if err := renderCandidates(out, res.Candidates); err != nil {
		j.log.Warn("render preview failed", "error", err)
	}

	if opts.DryRun {
		fmt.Fprintln(out, "DRY RUN: No changes were made.")
		return j.finish(res, OutcomeDryRun), nil
	}

	if opts.Interactive {
		ok, err := opts.Confirmer.Confirm(ctx, questionMessage(len(res.Candidates)), true)
		if err != nil {
			return Result{}, fmt.Errorf("confirm deactivation: %w", err)
		}
		if !ok {
			fmt.Fprintln(out, "Operation cancelled.")
			return j.finish(res, OutcomeCancelled), nil
		}
	}

	// APPLY works through the whole snapshot even if the caller goes away.
	applyCtx := context.WithoutCancel(ctx)
	deactivated := make([]events.DeactivatedLead, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		if err := j.store.Deactivate(applyCtx, c.ID); err != nil {
			j.log.LeadDeactivationFailed(c.ID, err)
			res.Failed = append(res.Failed, Failure{LeadID: c.ID, Err: err})
			continue
		}
		res.Deactivated++
		deactivated = append(deactivated, events.DeactivatedLead{
			ID:           c.ID,
			LeadName:     c.LeadName,
			Status:       c.Status.String(),
			DaysInactive: c.DaysInactive,
		})
	}

	for _, f := range res.Failed {
		fmt.Fprintf(out, "Failed to deactivate lead #%d: %v\n", f.LeadID, f.Err)
	}
	fmt.Fprintln(out, resultMessage(res.Deactivated))

	entry := audit.NewLeadsDeactivated(res.Deactivated, threshold, res.StatusFilter, now)
	if err := j.sink.Record(applyCtx, entry); err != nil {
		j.log.Error("audit record failed", "error", err)
	}

	if j.bus != nil {
		j.bus.Publish(applyCtx, events.LeadsDeactivated{
			BaseEvent:        events.NewBaseEvent(),
			DeactivatedCount: res.Deactivated,
			FailedCount:      len(res.Failed),
			ThresholdDays:    threshold,
			StatusFilter:     res.StatusFilter,
			Leads:            deactivated,
		})
	}

	return j.finish(res, OutcomeApplied), nil
}

func (j *Job) finish(res Result, outcome Outcome) Result {
	res.Outcome = outcome
	metrics.RecordDeactivationRun(string(outcome), res.Deactivated, len(res.Failed))
	return res
}
