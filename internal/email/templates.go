package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type deactivationDigestEmailData struct {
	baseEmailData
	DeactivationDigest
}

type financeDecisionEmailData struct {
	baseEmailData
	FinanceDecision
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderDeactivationDigest(d DeactivationDigest) (string, string, error) {
	subject := fmt.Sprintf(subjectDeactivationDigestFmt, d.DeactivatedCount)
	content, err := renderEmailTemplate("deactivation_digest.html", deactivationDigestEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: "Stale leads deactivated",
		},
		DeactivationDigest: d,
	})
	return subject, content, err
}

func renderFinanceDecision(d FinanceDecision) (string, string, error) {
	subjectFmt, heading := subjectFinanceRejectedFmt, "Finance decision: rejected"
	if d.Approved {
		subjectFmt, heading = subjectFinanceApprovedFmt, "Finance decision: approved"
	}
	subject := fmt.Sprintf(subjectFmt, d.LeadName)
	content, err := renderEmailTemplate("finance_decision.html", financeDecisionEmailData{
		baseEmailData: baseEmailData{
			Title:   subject,
			Heading: heading,
		},
		FinanceDecision: d,
	})
	return subject, content, err
}
