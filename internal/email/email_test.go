package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

type disabledConfig struct{}

func (disabledConfig) GetEmailEnabled() bool              { return false }
func (disabledConfig) GetSMTPHost() string                { return "" }
func (disabledConfig) GetSMTPPort() int                   { return 587 }
func (disabledConfig) GetSMTPUsername() string            { return "" }
func (disabledConfig) GetSMTPPassword() string            { return "" }
func (disabledConfig) GetEmailFromName() string           { return "" }
func (disabledConfig) GetEmailFromAddress() string        { return "" }
func (disabledConfig) GetDeactivationReportEmail() string { return "" }

func TestRenderDeactivationDigest(t *testing.T) {
	subject, body, err := renderDeactivationDigest(DeactivationDigest{
		DeactivatedCount: 2,
		FailedCount:      1,
		ThresholdDays:    90,
		StatusFilter:     "new",
		Leads: []DigestLead{
			{ID: 7, LeadName: "Fleet <Renewal>", Status: "new", DaysInactive: 120},
			{ID: 9, LeadName: "Walk-in", Status: "new", DaysInactive: 95},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "2 stale lead(s) deactivated", subject)
	assert.Contains(t, body, "90 days or more")
	assert.Contains(t, body, "(status new)")
	assert.Contains(t, body, "1 lead(s) could not be deactivated")
	assert.Contains(t, body, "Fleet &lt;Renewal&gt;")
	assert.Contains(t, body, "<td>120</td>")
}

func TestRenderFinanceDecision(t *testing.T) {
	subject, body, err := renderFinanceDecision(FinanceDecision{AgentName: "Sam", LeadID: 3, LeadName: "Corolla", Reason: "income not verified"})
	require.NoError(t, err)
	assert.Equal(t, "Finance rejected lead Corolla", subject)
	assert.Contains(t, body, "Reason: income not verified")

	subject, body, err = renderFinanceDecision(FinanceDecision{AgentName: "Sam", LeadID: 3, LeadName: "Corolla", Approved: true})
	require.NoError(t, err)
	assert.Equal(t, "Finance approved lead Corolla", subject)
	assert.NotContains(t, body, "Reason:")
}

func TestNewSenderDisabled(t *testing.T) {
	assert.IsType(t, NoopSender{}, NewSender(disabledConfig{}))
}

func TestSMTPSenderBuildsMessage(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "", "", "crm@example.com", "Dealership CRM")

	msg, err := s.newMessage("sam@example.com", "hello", "<p>hi</p>")

	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, msg.GetGenHeader(gomail.HeaderSubject))
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "sam@example.com")

	_, err = s.newMessage("not an address", "hello", "")
	assert.Error(t, err)
}
