package access

import (
	"context"
	"errors"
	"net/http"

	"dealership_crm_backend/platform/httpkit"
	"dealership_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const contextActorKey = "accessActor"

// ErrUnknownActor is returned by a RoleResolver when the user no longer exists.
var ErrUnknownActor = errors.New("unknown actor")

// RoleResolver looks up the role a user holds at the time of the request.
type RoleResolver interface {
	CurrentRole(ctx context.Context, userID int64) (Role, error)
}

// DenialResponse is the body of a 401 or 403 produced by a policy.
type DenialResponse struct {
	Message       string   `json:"message"`
	RequiredRoles []string `json:"requiredRoles,omitempty"`
	UserRole      string   `json:"userRole,omitempty"`
}

// Gate binds policies to gin routes.
type Gate struct {
	roles RoleResolver
	log   *logger.Logger
}

func NewGate(roles RoleResolver, log *logger.Logger) *Gate {
	return &Gate{roles: roles, log: log}
}

// Require evaluates p on every request using the caller's stored role.
// Must run after httpkit.Authenticate so the caller ID is on the context.
func (g *Gate) Require(p Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := g.resolveActor(c)
		if err != nil {
			httpkit.HandleError(c, err)
			c.Abort()
			return
		}

		decision := p.Evaluate(actor)
		switch decision.Outcome {
		case Allow:
			SetActor(c, *actor)
			c.Next()
		case Unauthenticated:
			c.AbortWithStatusJSON(http.StatusUnauthorized, DenialResponse{Message: "Unauthenticated."})
		default:
			g.log.WithContext(c.Request.Context()).AccessDenied(p.Name, c.Request.URL.Path, actor.UserID, actor.Role.String())
			c.AbortWithStatusJSON(http.StatusForbidden, denialBody(decision))
		}
	}
}

func (g *Gate) resolveActor(c *gin.Context) (*Actor, error) {
	id := httpkit.GetIdentity(c)
	if !id.IsAuthenticated() {
		return nil, nil
	}

	role, err := g.roles.CurrentRole(c.Request.Context(), id.UserID())
	if errors.Is(err, ErrUnknownActor) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Actor{UserID: id.UserID(), Role: role}, nil
}

func denialBody(d Decision) DenialResponse {
	required := make([]string, len(d.RequiredRoles))
	for i, r := range d.RequiredRoles {
		required[i] = r.String()
	}
	return DenialResponse{
		Message:       "Unauthorized. You do not have the required role to access this resource.",
		RequiredRoles: required,
		UserRole:      d.ActorRole.String(),
	}
}

// SetActor stores an admitted actor on the request.
func SetActor(c *gin.Context, actor Actor) {
	c.Set(contextActorKey, actor)
}

// ActorFrom returns the actor admitted by Require.
func ActorFrom(c *gin.Context) (Actor, bool) {
	raw, ok := c.Get(contextActorKey)
	if !ok {
		return Actor{}, false
	}
	actor, ok := raw.(Actor)
	return actor, ok
}
