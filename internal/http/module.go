// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes using the shared router context.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the public /api/v1 route group.
	V1 *gin.RouterGroup
	// Protected requires a valid access token.
	Protected *gin.RouterGroup
	// Manager is Protected plus the ManagerOnly policy.
	Manager *gin.RouterGroup
	// Finance answers anonymous callers itself, so it sits on V1 with
	// optional authentication followed by the FinanceAccess policy.
	Finance *gin.RouterGroup
	// Gate lets modules guard individual routes with other policies.
	Gate            *access.Gate
	AuthRateLimiter *httpkit.AuthRateLimiter
}
