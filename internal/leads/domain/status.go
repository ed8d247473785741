// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"fmt"
	"strings"
)

// LeadStatus is the closed set of lead outcomes. Any status may move to any
// other; there is no transition table.
type LeadStatus string

const (
	StatusNew          LeadStatus = "new"
	StatusConverted    LeadStatus = "converted"
	StatusNotConverted LeadStatus = "not_converted"
)

// AllStatuses lists every status in display order.
var AllStatuses = []LeadStatus{StatusNew, StatusConverted, StatusNotConverted}

// ParseStatus rejects anything outside AllStatuses.
func ParseStatus(value string) (LeadStatus, error) {
	switch LeadStatus(strings.ToLower(strings.TrimSpace(value))) {
	case StatusNew:
		return StatusNew, nil
	case StatusConverted:
		return StatusConverted, nil
	case StatusNotConverted:
		return StatusNotConverted, nil
	default:
		return "", fmt.Errorf("unknown lead status %q", value)
	}
}

// ParseStatuses parses a list, failing on the first unknown value.
// Duplicates are dropped and order is kept.
func ParseStatuses(values []string) ([]LeadStatus, error) {
	out := make([]LeadStatus, 0, len(values))
	seen := make(map[LeadStatus]bool, len(values))
	for _, v := range values {
		s, err := ParseStatus(v)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

func (s LeadStatus) String() string { return string(s) }

// Label is the human readable form used in reports and emails.
func (s LeadStatus) Label() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusConverted:
		return "Converted"
	case StatusNotConverted:
		return "Not Converted"
	default:
		return string(s)
	}
}

// LeadPriority is the closed set of lead priorities.
type LeadPriority string

const (
	PriorityHigh   LeadPriority = "high"
	PriorityMedium LeadPriority = "medium"
	PriorityLow    LeadPriority = "low"
)

// ParsePriority rejects anything outside high, medium, low.
func ParsePriority(value string) (LeadPriority, error) {
	switch LeadPriority(strings.ToLower(strings.TrimSpace(value))) {
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("unknown lead priority %q", value)
	}
}

func (p LeadPriority) String() string { return string(p) }
