// Package notification sends emails in response to domain events.
// Domain modules publish events and never talk to the mail transport.
package notification

import (
	"context"
	"fmt"

	"dealership_crm_backend/internal/auth"
	"dealership_crm_backend/internal/email"
	"dealership_crm_backend/internal/events"
	platformevents "dealership_crm_backend/platform/events"
	"dealership_crm_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender      email.Sender
	users       auth.UserProvider
	reportEmail string
	log         *logger.Logger
}

// New creates the notification module. reportEmail receives the
// deactivation digest and may be empty to skip it. users may be nil in
// processes that never see finance events.
func New(sender email.Sender, users auth.UserProvider, reportEmail string, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{sender: sender, users: users, reportEmail: reportEmail, log: log}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus platformevents.Subscriber) {
	platformevents.Subscribe(bus, m.handleLeadsDeactivated)
	platformevents.Subscribe(bus, m.handleLeadFinanceDecided)
}

func (m *Module) handleLeadsDeactivated(ctx context.Context, e events.LeadsDeactivated) error {
	if m.reportEmail == "" || e.DeactivatedCount == 0 {
		return nil
	}

	digest := email.DeactivationDigest{
		DeactivatedCount: e.DeactivatedCount,
		FailedCount:      e.FailedCount,
		ThresholdDays:    e.ThresholdDays,
		Leads:            make([]email.DigestLead, len(e.Leads)),
	}
	if e.StatusFilter != nil {
		digest.StatusFilter = *e.StatusFilter
	}
	for i, l := range e.Leads {
		digest.Leads[i] = email.DigestLead{ID: l.ID, LeadName: l.LeadName, Status: l.Status, DaysInactive: l.DaysInactive}
	}

	if err := m.sender.SendDeactivationDigest(ctx, m.reportEmail, digest); err != nil {
		m.log.Error("failed to send deactivation digest", "error", err, "to", m.reportEmail)
		return fmt.Errorf("send deactivation digest: %w", err)
	}
	m.log.Info("deactivation digest sent", "to", m.reportEmail, "count", e.DeactivatedCount)
	return nil
}

func (m *Module) handleLeadFinanceDecided(ctx context.Context, e events.LeadFinanceDecided) error {
	if e.AssignedTo == nil || m.users == nil {
		return nil
	}

	agent, err := m.users.GetUserByID(ctx, *e.AssignedTo)
	if err != nil {
		m.log.Warn("finance decision recipient lookup failed", "leadId", e.LeadID, "userId", *e.AssignedTo, "error", err)
		return fmt.Errorf("lookup user %d: %w", *e.AssignedTo, err)
	}
	if agent.Email == "" {
		return nil
	}

	decision := email.FinanceDecision{
		AgentName: agent.Name,
		LeadID:    e.LeadID,
		LeadName:  e.LeadName,
		Approved:  e.Approved,
	}
	if e.RejectionReason != nil {
		decision.Reason = *e.RejectionReason
	}

	if err := m.sender.SendFinanceDecision(ctx, agent.Email, decision); err != nil {
		m.log.Error("failed to send finance decision", "error", err, "leadId", e.LeadID)
		return fmt.Errorf("send finance decision: %w", err)
	}
	return nil
}
