// Package events holds the domain events modules publish to each other.
// The bus itself lives in platform/events.
package events

import (
	"dealership_crm_backend/platform/events"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserCreated is published when a manager creates an account.
type UserCreated struct {
	BaseEvent
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedBy int64  `json:"createdBy"`
}

func (e UserCreated) EventName() string { return "auth.user.created" }

// UserRoleChanged is published when a manager changes another user's role.
type UserRoleChanged struct {
	BaseEvent
	UserID    int64  `json:"userId"`
	OldRole   string `json:"oldRole"`
	NewRole   string `json:"newRole"`
	ChangedBy int64  `json:"changedBy"`
}

func (e UserRoleChanged) EventName() string { return "auth.user.role_changed" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadAssigned is published when a lead moves to another sales user.
type LeadAssigned struct {
	BaseEvent
	LeadID        int64  `json:"leadId"`
	LeadName      string `json:"leadName"`
	PreviousAgent *int64 `json:"previousAgent,omitempty"`
	NewAgent      *int64 `json:"newAgent,omitempty"`
	AssignedByID  int64  `json:"assignedById"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// LeadFinanceDecided is published after an approval or rejection.
type LeadFinanceDecided struct {
	BaseEvent
	LeadID          int64   `json:"leadId"`
	LeadName        string  `json:"leadName"`
	Approved        bool    `json:"approved"`
	DecidedBy       int64   `json:"decidedBy"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	AssignedTo      *int64  `json:"assignedTo,omitempty"`
}

func (e LeadFinanceDecided) EventName() string { return "leads.finance.decided" }

// DeactivatedLead is one row of a LeadsDeactivated digest.
type DeactivatedLead struct {
	ID           int64  `json:"id"`
	LeadName     string `json:"leadName"`
	Status       string `json:"status"`
	DaysInactive int    `json:"daysInactive"`
}

// LeadsDeactivated is published after the deactivation job applied changes.
type LeadsDeactivated struct {
	BaseEvent
	DeactivatedCount int               `json:"deactivatedCount"`
	FailedCount      int               `json:"failedCount"`
	ThresholdDays    int               `json:"thresholdDays"`
	StatusFilter     *string           `json:"statusFilter"`
	Leads            []DeactivatedLead `json:"leads"`
}

func (e LeadsDeactivated) EventName() string { return "leads.deactivated" }
