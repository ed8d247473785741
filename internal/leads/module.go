// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"fmt"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/events"
	apphttp "dealership_crm_backend/internal/http"
	"dealership_crm_backend/internal/leads/domain"
	"dealership_crm_backend/internal/leads/finance"
	"dealership_crm_backend/internal/leads/handler"
	"dealership_crm_backend/internal/leads/management"
	"dealership_crm_backend/internal/leads/repository"
	"dealership_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	repo           *repository.Repository
	handler        *handler.Handler
	financeHandler *handler.FinanceHandler
	management     *management.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// users resolves assignee roles.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, users access.RoleResolver) (*Module, error) {
	if err := RegisterValidators(val); err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	mgmtSvc := management.New(repo, users, eventBus)
	financeSvc := finance.New(repo, eventBus)

	return &Module{
		repo:           repo,
		handler:        handler.New(mgmtSvc, val),
		financeHandler: handler.NewFinanceHandler(financeSvc, val),
		management:     mgmtSvc,
	}, nil
}

// RegisterValidators adds the leadstatus and leadpriority tags.
func RegisterValidators(val *validator.Validator) error {
	if err := val.RegisterEnum("leadstatus", func(v string) error {
		_, err := domain.ParseStatus(v)
		return err
	}); err != nil {
		return fmt.Errorf("register leadstatus: %w", err)
	}
	if err := val.RegisterEnum("leadpriority", func(v string) error {
		_, err := domain.ParsePriority(v)
		return err
	}); err != nil {
		return fmt.Errorf("register leadpriority: %w", err)
	}
	return nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// Repository exposes lead storage to the deactivation job.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.Protected.Group("/leads")
	leadsGroup.Use(ctx.Gate.Require(access.SalesFloor))
	m.handler.RegisterRoutes(leadsGroup, ctx.Gate.Require(access.ManagerOnly))

	m.financeHandler.RegisterRoutes(ctx.Finance.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
