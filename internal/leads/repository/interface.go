package repository

import (
	"context"

	"dealership_crm_backend/internal/leads/domain"
)

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id int64) (domain.Lead, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, int, error)
}

// LeadWriter provides the mutations used by lead management.
type LeadWriter interface {
	Create(ctx context.Context, l domain.Lead) (domain.Lead, error)
	Update(ctx context.Context, id int64, params UpdateLeadParams) (domain.Lead, error)
	UpdateStatus(ctx context.Context, id int64, status domain.LeadStatus, reason *string) (domain.Lead, error)
	SetActive(ctx context.Context, id int64, active bool) (domain.Lead, error)
	Assign(ctx context.Context, id int64, userID *int64) (domain.Lead, error)
}

// FinanceWriter persists approval decisions.
type FinanceWriter interface {
	SaveFinance(ctx context.Context, l domain.Lead) (domain.Lead, error)
}

// StaleLeadStore is what the deactivation job needs from storage.
type StaleLeadStore interface {
	ListStale(ctx context.Context, criteria domain.StaleCriteria) ([]domain.Lead, error)
	Deactivate(ctx context.Context, id int64) error
}

// LeadsRepository is the full set of lead storage operations.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	FinanceWriter
	StaleLeadStore
}

var _ LeadsRepository = (*Repository)(nil)
