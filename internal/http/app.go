// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/platform/config"
	"dealership_crm_backend/platform/events"
	"dealership_crm_backend/platform/logger"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// It is populated by cmd/api and handed to the router.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	// Gate evaluates role policies against the caller's stored role.
	Gate    *access.Gate
	Modules []Module
}
