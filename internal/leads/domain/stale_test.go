package domain

import (
	"testing"
	"time"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return now.Add(-time.Duration(d) * 24 * time.Hour)
}

func TestIsStale(t *testing.T) {
	notConverted := StatusNotConverted

	tests := []struct {
		name     string
		lead     Lead
		criteria StaleCriteria
		want     bool
	}{
		{
			name:     "old active lead",
			lead:     Lead{IsActive: true, Status: StatusNew, UpdatedAt: daysAgo(100)},
			criteria: StaleCriteria{ThresholdDays: 90, Now: now},
			want:     true,
		},
		{
			name:     "exactly at threshold",
			lead:     Lead{IsActive: true, Status: StatusNew, UpdatedAt: daysAgo(90)},
			criteria: StaleCriteria{ThresholdDays: 90, Now: now},
			want:     true,
		},
		{
			name:     "one second short of threshold",
			lead:     Lead{IsActive: true, Status: StatusNew, UpdatedAt: daysAgo(90).Add(time.Second)},
			criteria: StaleCriteria{ThresholdDays: 90, Now: now},
			want:     false,
		},
		{
			name:     "inactive lead",
			lead:     Lead{IsActive: false, Status: StatusNew, UpdatedAt: daysAgo(400)},
			criteria: StaleCriteria{ThresholdDays: 90, Now: now},
			want:     false,
		},
		{
			name:     "status filter matches",
			lead:     Lead{IsActive: true, Status: StatusNotConverted, UpdatedAt: daysAgo(120)},
			criteria: StaleCriteria{ThresholdDays: 90, Status: &notConverted, Now: now},
			want:     true,
		},
		{
			name:     "status filter excludes",
			lead:     Lead{IsActive: true, Status: StatusNew, UpdatedAt: daysAgo(120)},
			criteria: StaleCriteria{ThresholdDays: 90, Status: &notConverted, Now: now},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.criteria.IsStale(tt.lead); got != tt.want {
				t.Fatalf("IsStale = %v, want %v", got, tt.want)
			}
		})
	}
}

// Five stale leads split across two statuses; filtering on NotConverted
// keeps exactly the three matching ones.
func TestIsStaleStatusFilterSelectsSubset(t *testing.T) {
	leads := []Lead{
		{ID: 1, IsActive: true, Status: StatusNew, UpdatedAt: daysAgo(95)},
		{ID: 2, IsActive: true, Status: StatusNew, UpdatedAt: daysAgo(150)},
		{ID: 3, IsActive: true, Status: StatusNotConverted, UpdatedAt: daysAgo(91)},
		{ID: 4, IsActive: true, Status: StatusNotConverted, UpdatedAt: daysAgo(200)},
		{ID: 5, IsActive: true, Status: StatusNotConverted, UpdatedAt: daysAgo(365)},
	}
	filter := StatusNotConverted
	criteria := StaleCriteria{ThresholdDays: 90, Status: &filter, Now: now}

	var selected []int64
	for _, l := range leads {
		if criteria.IsStale(l) {
			selected = append(selected, l.ID)
		}
	}
	if len(selected) != 3 {
		t.Fatalf("expected 3 leads, got %v", selected)
	}
}

func TestDaysInactive(t *testing.T) {
	if got := DaysInactive(daysAgo(100).Add(-5*time.Hour), now); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
	if got := DaysInactive(daysAgo(1).Add(time.Minute), now); got != 0 {
		t.Fatalf("expected partial day to floor to 0, got %d", got)
	}
	if got := DaysInactive(now.Add(time.Hour), now); got != 0 {
		t.Fatalf("expected future timestamp to clamp to 0, got %d", got)
	}
}
