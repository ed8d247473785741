package access

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dealership_crm_backend/platform/httpkit"
	"dealership_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoles struct {
	roles map[int64]Role
	err   error
	calls int
}

func (f *fakeRoles) CurrentRole(_ context.Context, userID int64) (Role, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[userID]
	if !ok {
		return "", ErrUnknownActor
	}
	return role, nil
}

func newFinanceRouter(roles RoleResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	gate := NewGate(roles, logger.Discard())

	// Stand-in for httpkit.Authenticate: the X-User header plays the token.
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-User") != "" {
			var id int64
			_ = json.Unmarshal([]byte(c.GetHeader("X-User")), &id)
			c.Set(httpkit.ContextUserIDKey, id)
		}
		c.Next()
	})
	r.GET("/finance/leads", gate.Require(FinanceAccess), func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"role": actor.Role})
	})
	return r
}

func doRequest(r http.Handler, userHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/finance/leads", nil)
	if userHeader != "" {
		req.Header.Set("X-User", userHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSalesActorGetsStructured403(t *testing.T) {
	r := newFinanceRouter(&fakeRoles{roles: map[int64]Role{7: RoleSales}})

	rec := doRequest(r, "7")

	require.Equal(t, http.StatusForbidden, rec.Code)
	var body DenialResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "Unauthorized")
	assert.Equal(t, []string{"finance", "manager"}, body.RequiredRoles)
	assert.Equal(t, "sales", body.UserRole)
}

func TestAnonymousCallerGets401(t *testing.T) {
	r := newFinanceRouter(&fakeRoles{})

	rec := doRequest(r, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())
}

func TestDeletedUserIsTreatedAsAnonymous(t *testing.T) {
	r := newFinanceRouter(&fakeRoles{roles: map[int64]Role{}})

	rec := doRequest(r, "99")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFinanceAndManagerPassThrough(t *testing.T) {
	r := newFinanceRouter(&fakeRoles{roles: map[int64]Role{1: RoleFinance, 2: RoleManager}})

	for _, user := range []string{"1", "2"} {
		rec := doRequest(r, user)
		assert.Equal(t, http.StatusOK, rec.Code, "user %s", user)
	}
}

func TestRoleIsResolvedOnEveryRequest(t *testing.T) {
	roles := &fakeRoles{roles: map[int64]Role{3: RoleFinance}}
	r := newFinanceRouter(roles)

	assert.Equal(t, http.StatusOK, doRequest(r, "3").Code)

	roles.roles[3] = RoleSales
	assert.Equal(t, http.StatusForbidden, doRequest(r, "3").Code)
	assert.Equal(t, 2, roles.calls)
}

func TestResolverFailureIs500(t *testing.T) {
	r := newFinanceRouter(&fakeRoles{err: errors.New("db down")})

	rec := doRequest(r, "3")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
