// Package customers provides the customer records bounded context,
// including identity documents kept in object storage.
package customers

import (
	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/adapters/storage"
	"dealership_crm_backend/internal/customers/handler"
	"dealership_crm_backend/internal/customers/repository"
	"dealership_crm_backend/internal/customers/service"
	apphttp "dealership_crm_backend/internal/http"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/phone"
	"dealership_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the customers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the customers module. store may be nil when MinIO is
// not configured.
func NewModule(pool *pgxpool.Pool, store storage.StorageService, bucket, phoneRegion string, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), store, bucket, phone.NewNormalizer(phoneRegion), log.WithComponent("customers"))
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "customers"
}

func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/customers")
	m.handler.RegisterRoutes(group, ctx.Gate.Require(access.SalesFloor), ctx.Gate.Require(access.ManagerOnly))
}

var _ apphttp.Module = (*Module)(nil)
