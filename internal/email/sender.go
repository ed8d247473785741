package email

import "context"

// DigestLead is one row of the deactivation digest.
type DigestLead struct {
	ID           int64
	LeadName     string
	Status       string
	DaysInactive int
}

// DeactivationDigest summarizes one applied deactivation run.
type DeactivationDigest struct {
	DeactivatedCount int
	FailedCount      int
	ThresholdDays    int
	StatusFilter     string
	Leads            []DigestLead
}

// FinanceDecision tells a sales user what finance decided on their lead.
type FinanceDecision struct {
	AgentName string
	LeadID    int64
	LeadName  string
	Approved  bool
	Reason    string
}

type Sender interface {
	SendDeactivationDigest(ctx context.Context, toEmail string, digest DeactivationDigest) error
	SendFinanceDecision(ctx context.Context, toEmail string, decision FinanceDecision) error
}

// NoopSender drops every message. It is used when EMAIL_ENABLED is off.
type NoopSender struct{}

func (NoopSender) SendDeactivationDigest(context.Context, string, DeactivationDigest) error {
	return nil
}

func (NoopSender) SendFinanceDecision(context.Context, string, FinanceDecision) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
