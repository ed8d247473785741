package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestSetStatusManagesNotConvertedReason(t *testing.T) {
	l := Lead{Status: StatusNew}

	if err := l.SetStatus(StatusNotConverted, nil); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
	if err := l.SetStatus(StatusNotConverted, strPtr("price too high")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.NotConvertedReason == nil || *l.NotConvertedReason != "price too high" {
		t.Fatalf("reason not stored: %v", l.NotConvertedReason)
	}

	// Any status may follow any other; leaving NotConverted clears the reason.
	if err := l.SetStatus(StatusConverted, strPtr("ignored")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.NotConvertedReason != nil {
		t.Fatal("reason should be cleared outside NotConverted")
	}
}

func TestFinanceDecisions(t *testing.T) {
	l := Lead{}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := l.MarkCommissionPaid(); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved before any decision, got %v", err)
	}

	l.Approve(42, at)
	if l.FinanceApproved == nil || !*l.FinanceApproved || *l.ApprovedBy != 42 || !l.ApprovedAt.Equal(at) {
		t.Fatalf("approval fields not set: %+v", l)
	}
	if err := l.MarkCommissionPaid(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := l.Reject(""); !errors.Is(err, ErrRejectionReason) {
		t.Fatalf("expected ErrRejectionReason, got %v", err)
	}
	if err := l.Reject("missing documents"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *l.FinanceApproved || l.ApprovedBy != nil || l.ApprovedAt != nil || l.CommissionPaid {
		t.Fatalf("rejection should clear approval state: %+v", l)
	}
	if *l.RejectionReason != "missing documents" {
		t.Fatalf("unexpected reason %q", *l.RejectionReason)
	}

	l.Approve(7, at)
	if l.RejectionReason != nil {
		t.Fatal("approval should clear the rejection reason")
	}
}

func TestMarginAndAmounts(t *testing.T) {
	selling := decimal.RequireFromString("125000.50")
	cost := decimal.RequireFromString("110000.25")
	l := Lead{Quantity: 2, SellingPrice: &selling, CostPrice: &cost}

	if err := l.ValidateAmounts(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := l.Margin(); got == nil || !got.Equal(decimal.RequireFromString("30000.50")) {
		t.Fatalf("unexpected margin %v", got)
	}

	l.Quantity = 0
	if err := l.ValidateAmounts(); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}
