package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinanceAccessByRole(t *testing.T) {
	tests := []struct {
		role    Role
		allowed bool
	}{
		{RoleFinance, true},
		{RoleManager, true},
		{RoleSales, false},
		{Role("auditor"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			actor := &Actor{UserID: 1, Role: tt.role}
			decision := FinanceAccess.Evaluate(actor)

			assert.Equal(t, tt.allowed, decision.Allowed())
			assert.Equal(t, tt.allowed, CanAccessFinance(actor))
			if !tt.allowed {
				assert.Equal(t, Unauthorized, decision.Outcome)
				assert.Equal(t, tt.role, decision.ActorRole)
			}
		})
	}
}

func TestFinanceAccessWithoutActorIsUnauthenticated(t *testing.T) {
	decision := FinanceAccess.Evaluate(nil)

	assert.Equal(t, Unauthenticated, decision.Outcome)
	assert.False(t, CanAccessFinance(nil))
	assert.Equal(t, []Role{RoleFinance, RoleManager}, decision.RequiredRoles)
}

func TestEvaluateDoesNotLeakPolicyRoles(t *testing.T) {
	decision := FinanceAccess.Evaluate(&Actor{Role: RoleSales})
	decision.RequiredRoles[0] = RoleSales

	assert.Equal(t, RoleFinance, FinanceAccess.Roles[0])
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Finance ")
	require.NoError(t, err)
	assert.Equal(t, RoleFinance, role)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}
