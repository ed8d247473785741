// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"fmt"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/auth/handler"
	"dealership_crm_backend/internal/auth/repository"
	"dealership_crm_backend/internal/auth/service"
	"dealership_crm_backend/internal/events"
	apphttp "dealership_crm_backend/internal/http"
	"dealership_crm_backend/platform/config"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg *config.Config, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := val.RegisterEnum("userrole", func(v string) error {
		_, err := access.ParseRole(v)
		return err
	}); err != nil {
		return nil, fmt.Errorf("register userrole: %w", err)
	}

	repo := repository.New(pool)
	svc := service.New(repo, cfg, eventBus, log.WithComponent("auth"))

	return &Module{
		handler: handler.New(svc, cfg, val),
		service: svc,
		repo:    repo,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes user reads for the adapters in auth/adapter.
func (m *Module) Repository() repository.UserReader {
	return m.repo
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	m.handler.RegisterUserRoutes(ctx.Protected, ctx.Manager)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
