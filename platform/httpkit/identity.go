// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated caller as seen by handlers.
// Handlers read it instead of poking at gin context keys directly.
type Identity interface {
	UserID() int64
	// TokenRole is the role claim carried by the access token. Authorization
	// decisions resolve the current role from storage instead.
	TokenRole() string
	IsAuthenticated() bool
}

type identity struct {
	userID        int64
	role          string
	authenticated bool
}

func (i *identity) UserID() int64         { return i.userID }
func (i *identity) TokenRole() string     { return i.role }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	raw, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &identity{}
	}
	uid, ok := raw.(int64)
	if !ok || uid == 0 {
		return &identity{}
	}

	role, _ := c.Get(ContextRoleKey)
	roleText, _ := role.(string)

	return &identity{userID: uid, role: roleText, authenticated: true}
}

// MustGetIdentity aborts with 401 and returns nil when the caller is anonymous.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil
	}
	return id
}
