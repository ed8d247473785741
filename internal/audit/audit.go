// Package audit records operational entries for batch operations.
// Every entry goes to the structured log; a broker copy is optional.
package audit

import (
	"context"
	"errors"
	"time"

	"dealership_crm_backend/platform/logger"
)

// EventLeadsDeactivated names the entry written after a deactivation run.
const EventLeadsDeactivated = "leads_deactivated"

// Entry is the shape of a leads_deactivated record.
type Entry struct {
	Event            string    `json:"event"`
	DeactivatedCount int       `json:"deactivatedCount"`
	ThresholdDays    int       `json:"thresholdDays"`
	StatusFilter     *string   `json:"statusFilter"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// NewLeadsDeactivated builds an entry stamped with at.
func NewLeadsDeactivated(count, thresholdDays int, statusFilter *string, at time.Time) Entry {
	return Entry{
		Event:            EventLeadsDeactivated,
		DeactivatedCount: count,
		ThresholdDays:    thresholdDays,
		StatusFilter:     statusFilter,
		OccurredAt:       at,
	}
}

// Sink receives audit entries.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// LogSink writes entries through the application logger.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(_ context.Context, entry Entry) error {
	s.log.LeadsDeactivated(entry.DeactivatedCount, entry.ThresholdDays, entry.StatusFilter)
	return nil
}

// Fanout records to every sink and joins their errors.
type Fanout []Sink

func (f Fanout) Record(ctx context.Context, entry Entry) error {
	var errs []error
	for _, s := range f {
		if err := s.Record(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
