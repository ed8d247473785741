package domain

import "time"

// DefaultStaleAfterDays applies when neither caller nor config sets a threshold.
const DefaultStaleAfterDays = 90

const day = 24 * time.Hour

// StaleCriteria selects active leads untouched for at least ThresholdDays,
// optionally narrowed to one status.
type StaleCriteria struct {
	ThresholdDays int
	Status        *LeadStatus
	Now           time.Time
}

// Cutoff is the newest updatedAt that still counts as stale.
func (c StaleCriteria) Cutoff() time.Time {
	return c.Now.Add(-time.Duration(c.ThresholdDays) * day)
}

// IsStale is the selection predicate. Repository queries must agree with it.
func (c StaleCriteria) IsStale(l Lead) bool {
	if !l.IsActive {
		return false
	}
	if l.UpdatedAt.After(c.Cutoff()) {
		return false
	}
	return c.Status == nil || l.Status == *c.Status
}

// DaysInactive is the number of whole days since updatedAt, never negative.
func DaysInactive(updatedAt, now time.Time) int {
	if now.Before(updatedAt) {
		return 0
	}
	return int(now.Sub(updatedAt) / day)
}
