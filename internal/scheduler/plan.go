package scheduler

import (
	"fmt"

	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/platform/config"
)

const (
	ScheduleDaily   = "daily"
	ScheduleWeekly  = "weekly"
	ScheduleMonthly = "monthly"
)

// Binding is the scheduling input for stale-lead deactivation.
type Binding struct {
	Schedule      string
	ThresholdDays int
	Statuses      []string
}

// BindingFromConfig copies the deactivation settings out of the loaded config.
func BindingFromConfig(cfg config.LeadDeactivationConfig) Binding {
	return Binding{
		Schedule:      cfg.GetAutoDeactivateSchedule(),
		ThresholdDays: cfg.GetAutoDeactivateAfterDays(),
		Statuses:      cfg.GetAutoDeactivateStatuses(),
	}
}

// Entry is one cron registration.
type Entry struct {
	CronSpec string
	Payload  DeactivateStaleLeadsPayload
}

type cronPair struct {
	unfiltered string
	filtered   string
}

var cronBySchedule = map[string]cronPair{
	ScheduleDaily:   {unfiltered: "0 2 * * *", filtered: "30 2 * * *"},
	ScheduleWeekly:  {unfiltered: "0 2 * * 0", filtered: "30 2 * * 0"},
	ScheduleMonthly: {unfiltered: "0 2 1 * *", filtered: "30 2 1 * *"},
}

// Plan expands a binding into cron entries. The unfiltered run at 02:00 is
// always present; each configured status adds its own run at 02:30. Those
// runs overlap with the unfiltered one on purpose.
func Plan(b Binding) ([]Entry, error) {
	schedule := b.Schedule
	if schedule == "" {
		schedule = ScheduleDaily
	}
	pair, ok := cronBySchedule[schedule]
	if !ok {
		return nil, fmt.Errorf("unknown schedule %q", b.Schedule)
	}

	threshold := b.ThresholdDays
	if threshold == 0 {
		threshold = domain.DefaultStaleAfterDays
	}
	if threshold < 0 {
		return nil, fmt.Errorf("threshold must be positive, got %d", threshold)
	}

	statuses, err := domain.ParseStatuses(b.Statuses)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, 1+len(statuses))
	entries = append(entries, Entry{
		CronSpec: pair.unfiltered,
		Payload:  DeactivateStaleLeadsPayload{ThresholdDays: threshold},
	})
	for _, s := range statuses {
		status := s.String()
		entries = append(entries, Entry{
			CronSpec: pair.filtered,
			Payload:  DeactivateStaleLeadsPayload{ThresholdDays: threshold, Status: &status},
		})
	}
	return entries, nil
}
