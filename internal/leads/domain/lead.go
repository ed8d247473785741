package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Lead is a prospective vehicle sale.
type Lead struct {
	ID         int64
	LeadName   string
	CustomerID *int64
	Status     LeadStatus
	Priority   LeadPriority

	Company        *string
	Model          *string
	Trim           *string
	Spec           *string
	Year           *int
	ExteriorColour *string
	InteriorColour *string
	Gearbox        *string
	FuelType       *string
	SteeringSide   *string

	ExportTo        *string
	ExportToCountry *string
	Quantity        int
	SellingPrice    *decimal.Decimal
	CostPrice       *decimal.Decimal
	Notes           *string

	NotConvertedReason *string
	AssignedTo         *int64
	IsActive           bool

	FinanceApproved *bool
	ApprovedBy      *int64
	ApprovedAt      *time.Time
	RejectionReason *string
	CommissionPaid  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	ErrReasonRequired  = errors.New("a reason is required when a lead is not converted")
	ErrRejectionReason = errors.New("a rejection reason is required")
	ErrNotApproved     = errors.New("commission can only be paid on an approved lead")
	ErrAlreadyInactive = errors.New("lead is already inactive")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("prices cannot be negative")
)

// SetStatus applies a status change. The not-converted reason is kept only
// for NotConverted and is required there.
func (l *Lead) SetStatus(status LeadStatus, reason *string) error {
	if status == StatusNotConverted {
		if reason == nil || *reason == "" {
			return ErrReasonRequired
		}
		l.Status = status
		l.NotConvertedReason = reason
		return nil
	}
	l.Status = status
	l.NotConvertedReason = nil
	return nil
}

// Approve records a positive finance decision.
func (l *Lead) Approve(approverID int64, at time.Time) {
	approved := true
	l.FinanceApproved = &approved
	l.ApprovedBy = &approverID
	l.ApprovedAt = &at
	l.RejectionReason = nil
}

// Reject records a negative finance decision. Commission can no longer be
// marked as paid.
func (l *Lead) Reject(reason string) error {
	if reason == "" {
		return ErrRejectionReason
	}
	rejected := false
	l.FinanceApproved = &rejected
	l.ApprovedBy = nil
	l.ApprovedAt = nil
	l.RejectionReason = &reason
	l.CommissionPaid = false
	return nil
}

// MarkCommissionPaid requires a prior approval.
func (l *Lead) MarkCommissionPaid() error {
	if l.FinanceApproved == nil || !*l.FinanceApproved {
		return ErrNotApproved
	}
	l.CommissionPaid = true
	return nil
}

// ValidateAmounts checks quantity and prices.
func (l *Lead) ValidateAmounts() error {
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if l.SellingPrice != nil && l.SellingPrice.IsNegative() {
		return ErrNegativePrice
	}
	if l.CostPrice != nil && l.CostPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Margin is selling minus cost times quantity, nil when either price is unknown.
func (l *Lead) Margin() *decimal.Decimal {
	if l.SellingPrice == nil || l.CostPrice == nil {
		return nil
	}
	m := l.SellingPrice.Sub(*l.CostPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
	return &m
}
