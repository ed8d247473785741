// Package management handles lead CRUD operations.
// Sales users work only with leads assigned to them; managers see every lead.
package management

import (
	"context"
	"errors"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/events"
	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/internal/leads/repository"
	"dealership_crm_backend/internal/leads/transport"
	"dealership_crm_backend/platform/apperr"
	"dealership_crm_backend/platform/sanitize"
)

const msgLeadNotFound = "lead not found"

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
}

// Service handles lead management operations.
type Service struct {
	repo     Repository
	users    access.RoleResolver
	eventBus events.Bus
}

// New creates a new lead management service. users validates assignees.
func New(repo Repository, users access.RoleResolver, eventBus events.Bus) *Service {
	return &Service{repo: repo, users: users, eventBus: eventBus}
}

// Create creates a new lead. Sales users always own the leads they create.
func (s *Service) Create(ctx context.Context, actor access.Actor, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	assignee := actor.UserID
	if req.AssignedTo != nil && *req.AssignedTo != actor.UserID {
		if actor.Role != access.RoleManager {
			return transport.LeadResponse{}, apperr.Forbidden("only managers can assign leads to other users")
		}
		if err := s.checkAssignee(ctx, *req.AssignedTo); err != nil {
			return transport.LeadResponse{}, err
		}
		assignee = *req.AssignedTo
	}

	lead := domain.Lead{
		LeadName:        sanitize.Line(req.LeadName),
		CustomerID:      req.CustomerID,
		Status:          domain.StatusNew,
		Priority:        domain.PriorityMedium,
		Company:         sanitize.TextPtr(req.Company),
		Model:           sanitize.TextPtr(req.Model),
		Trim:            sanitize.TextPtr(req.Trim),
		Spec:            sanitize.TextPtr(req.Spec),
		Year:            req.Year,
		ExteriorColour:  sanitize.TextPtr(req.ExteriorColour),
		InteriorColour:  sanitize.TextPtr(req.InteriorColour),
		Gearbox:         sanitize.TextPtr(req.Gearbox),
		FuelType:        sanitize.TextPtr(req.FuelType),
		SteeringSide:    req.SteeringSide,
		ExportTo:        sanitize.TextPtr(req.ExportTo),
		ExportToCountry: sanitize.TextPtr(req.ExportToCountry),
		Quantity:        1,
		SellingPrice:    req.SellingPrice,
		CostPrice:       req.CostPrice,
		Notes:           sanitize.TextPtr(req.Notes),
		AssignedTo:      &assignee,
		IsActive:        true,
	}
	if lead.LeadName == "" {
		return transport.LeadResponse{}, apperr.Validation("lead name is required")
	}
	if req.Quantity != nil {
		lead.Quantity = *req.Quantity
	}
	if req.Priority != "" {
		priority, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return transport.LeadResponse{}, apperr.Validation(err.Error())
		}
		lead.Priority = priority
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return transport.LeadResponse{}, apperr.Validation(err.Error())
		}
		if err := lead.SetStatus(status, sanitize.TextPtr(req.NotConvertedReason)); err != nil {
			return transport.LeadResponse{}, apperr.Validation(err.Error())
		}
	}
	if err := lead.ValidateAmounts(); err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(created), nil
}

// GetByID retrieves a lead visible to actor.
func (s *Service) GetByID(ctx context.Context, actor access.Actor, id int64) (transport.LeadResponse, error) {
	lead, err := s.load(ctx, actor, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// List retrieves a paginated list of leads. Sales users are scoped to their own.
func (s *Service) List(ctx context.Context, actor access.Actor, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page, pageSize := NormalizePage(req.Page, req.PageSize)

	params := repository.ListParams{
		Active:     req.Active,
		AssignedTo: req.AssignedTo,
		CustomerID: req.CustomerID,
		Search:     sanitize.Line(req.Search),
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation(err.Error())
		}
		params.Status = &status
	}
	if req.Priority != "" {
		priority, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation(err.Error())
		}
		params.Priority = &priority
	}
	if actor.Role != access.RoleManager {
		own := actor.UserID
		params.AssignedTo = &own
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	return ToLeadListResponse(leads, total, page, pageSize), nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, actor access.Actor, id int64, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	current, err := s.load(ctx, actor, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.UpdateLeadParams{
		Company:         sanitize.TextPtr(req.Company),
		Model:           sanitize.TextPtr(req.Model),
		Trim:            sanitize.TextPtr(req.Trim),
		Spec:            sanitize.TextPtr(req.Spec),
		Year:            req.Year,
		ExteriorColour:  sanitize.TextPtr(req.ExteriorColour),
		InteriorColour:  sanitize.TextPtr(req.InteriorColour),
		Gearbox:         sanitize.TextPtr(req.Gearbox),
		FuelType:        sanitize.TextPtr(req.FuelType),
		SteeringSide:    req.SteeringSide,
		ExportTo:        sanitize.TextPtr(req.ExportTo),
		ExportToCountry: sanitize.TextPtr(req.ExportToCountry),
		Quantity:        req.Quantity,
		SellingPrice:    req.SellingPrice,
		CostPrice:       req.CostPrice,
		Notes:           sanitize.TextPtr(req.Notes),
	}
	if req.LeadName != nil {
		name := sanitize.Line(*req.LeadName)
		if name == "" {
			return transport.LeadResponse{}, apperr.Validation("lead name is required")
		}
		params.LeadName = &name
	}
	if req.CustomerID.Set {
		params.CustomerID = req.CustomerID.Value
		params.CustomerIDSet = true
	}
	if req.Priority != nil {
		priority, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return transport.LeadResponse{}, apperr.Validation(err.Error())
		}
		params.Priority = &priority
	}

	// Validate the amounts as they will be after the update.
	merged := current
	if req.Quantity != nil {
		merged.Quantity = *req.Quantity
	}
	if req.SellingPrice != nil {
		merged.SellingPrice = req.SellingPrice
	}
	if req.CostPrice != nil {
		merged.CostPrice = req.CostPrice
	}
	if err := merged.ValidateAmounts(); err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.LeadResponse{}, notFound(err)
	}
	return ToLeadResponse(updated), nil
}

// UpdateStatus moves a lead to any status. NotConverted requires a reason.
func (s *Service) UpdateStatus(ctx context.Context, actor access.Actor, id int64, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	lead, err := s.load(ctx, actor, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}
	if err := lead.SetStatus(status, sanitize.TextPtr(req.Reason)); err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}

	updated, err := s.repo.UpdateStatus(ctx, id, lead.Status, lead.NotConvertedReason)
	if err != nil {
		return transport.LeadResponse{}, notFound(err)
	}
	return ToLeadResponse(updated), nil
}

// SetActive manually retires or revives a lead.
func (s *Service) SetActive(ctx context.Context, actor access.Actor, id int64, active bool) (transport.LeadResponse, error) {
	if _, err := s.load(ctx, actor, id); err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return transport.LeadResponse{}, notFound(err)
	}
	return ToLeadResponse(updated), nil
}

// Assign moves a lead to another user or unassigns it when assigneeID is nil.
func (s *Service) Assign(ctx context.Context, actor access.Actor, id int64, assigneeID *int64) (transport.LeadResponse, error) {
	current, err := s.load(ctx, actor, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if assigneeID != nil {
		if err := s.checkAssignee(ctx, *assigneeID); err != nil {
			return transport.LeadResponse{}, err
		}
	}

	updated, err := s.repo.Assign(ctx, id, assigneeID)
	if err != nil {
		return transport.LeadResponse{}, notFound(err)
	}

	if !equalInt64Ptrs(current.AssignedTo, assigneeID) && s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadAssigned{
			BaseEvent:     events.NewBaseEvent(),
			LeadID:        id,
			LeadName:      updated.LeadName,
			PreviousAgent: current.AssignedTo,
			NewAgent:      assigneeID,
			AssignedByID:  actor.UserID,
		})
	}

	return ToLeadResponse(updated), nil
}

// load fetches a lead and hides leads the actor may not see.
func (s *Service) load(ctx context.Context, actor access.Actor, id int64) (domain.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, notFound(err)
	}
	if !canSee(actor, lead) {
		return domain.Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	return lead, nil
}

func (s *Service) checkAssignee(ctx context.Context, userID int64) error {
	role, err := s.users.CurrentRole(ctx, userID)
	if errors.Is(err, access.ErrUnknownActor) {
		return apperr.Validation("assignee not found")
	}
	if err != nil {
		return err
	}
	if role != access.RoleSales && role != access.RoleManager {
		return apperr.Validation("leads can only be assigned to sales or manager users")
	}
	return nil
}

func canSee(actor access.Actor, lead domain.Lead) bool {
	if actor.Role == access.RoleManager {
		return true
	}
	return lead.AssignedTo != nil && *lead.AssignedTo == actor.UserID
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgLeadNotFound)
	}
	return err
}

func equalInt64Ptrs(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
