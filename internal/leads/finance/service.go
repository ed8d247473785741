// Package finance handles approval decisions and commission tracking on leads.
// Callers reach it only through the finance access policy.
package finance

import (
	"context"
	"errors"
	"time"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/events"
	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/internal/leads/management"
	"dealership_crm_backend/internal/leads/repository"
	"dealership_crm_backend/internal/leads/transport"
	"dealership_crm_backend/platform/apperr"
	"dealership_crm_backend/platform/sanitize"
)

// Repository is what the finance service needs from storage.
type Repository interface {
	repository.LeadReader
	repository.FinanceWriter
}

type Service struct {
	repo     Repository
	eventBus events.Bus
	now      func() time.Time
}

func New(repo Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus, now: time.Now}
}

// List returns leads filtered by approval state.
func (s *Service) List(ctx context.Context, req transport.ListFinanceLeadsRequest) (transport.LeadListResponse, error) {
	page, pageSize := management.NormalizePage(req.Page, req.PageSize)

	params := repository.ListParams{
		Search: sanitize.Line(req.Search),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
		SortBy: "updatedAt",
	}
	if req.State != "" {
		state := repository.FinanceState(req.State)
		params.FinanceState = &state
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	return management.ToLeadListResponse(leads, total, page, pageSize), nil
}

func (s *Service) Approve(ctx context.Context, actor access.Actor, id int64) (transport.LeadResponse, error) {
	lead, err := s.get(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead.Approve(actor.UserID, s.now().UTC())
	return s.save(ctx, actor, lead)
}

// Reject records a rejection. A reason is mandatory.
func (s *Service) Reject(ctx context.Context, actor access.Actor, id int64, reason string) (transport.LeadResponse, error) {
	lead, err := s.get(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if err := lead.Reject(sanitize.Text(reason)); err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}
	return s.save(ctx, actor, lead)
}

// MarkCommissionPaid flags the sales commission on an approved lead as paid.
func (s *Service) MarkCommissionPaid(ctx context.Context, id int64) (transport.LeadResponse, error) {
	lead, err := s.get(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if err := lead.MarkCommissionPaid(); err != nil {
		return transport.LeadResponse{}, apperr.Conflict(err.Error())
	}

	updated, err := s.repo.SaveFinance(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return management.ToLeadResponse(updated), nil
}

func (s *Service) save(ctx context.Context, actor access.Actor, lead domain.Lead) (transport.LeadResponse, error) {
	updated, err := s.repo.SaveFinance(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadFinanceDecided{
			BaseEvent:       events.NewBaseEvent(),
			LeadID:          updated.ID,
			LeadName:        updated.LeadName,
			Approved:        updated.FinanceApproved != nil && *updated.FinanceApproved,
			DecidedBy:       actor.UserID,
			RejectionReason: updated.RejectionReason,
			AssignedTo:      updated.AssignedTo,
		})
	}

	return management.ToLeadResponse(updated), nil
}

func (s *Service) get(ctx context.Context, id int64) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, err
}
