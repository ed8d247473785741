// Package catalog provides the vehicle catalog bounded context: brands,
// their models and the trims of each model.
package catalog

import (
	"dealership_crm_backend/internal/catalog/handler"
	"dealership_crm_backend/internal/catalog/repository"
	"dealership_crm_backend/internal/catalog/service"
	apphttp "dealership_crm_backend/internal/http"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log.WithComponent("catalog"))
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected, ctx.Manager)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
