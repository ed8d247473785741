// Package access holds the role model and the request-time authorization
// policies. Policies are plain functions of an Actor so they can be
// evaluated outside of any transport.
package access

import (
	"fmt"
	"slices"
	"strings"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleManager Role = "manager"
	RoleSales   Role = "sales"
	RoleFinance Role = "finance"
)

// ParseRole accepts only the known role values.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleManager:
		return RoleManager, nil
	case RoleSales:
		return RoleSales, nil
	case RoleFinance:
		return RoleFinance, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

func (r Role) String() string { return string(r) }

// Actor is the authenticated caller with the role it holds right now.
type Actor struct {
	UserID int64
	Role   Role
}

// Outcome is the result class of a policy check.
type Outcome int

const (
	Allow Outcome = iota
	Unauthenticated
	Unauthorized
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unauthorized"
	}
}

// Decision carries enough context to build a structured denial.
type Decision struct {
	Outcome       Outcome
	Policy        string
	RequiredRoles []Role
	ActorRole     Role
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Policy grants access to actors holding any of Roles.
type Policy struct {
	Name  string
	Roles []Role
}

var (
	// FinanceAccess gates lead approval data and finance decisions.
	FinanceAccess = Policy{Name: "finance", Roles: []Role{RoleFinance, RoleManager}}
	// ManagerOnly gates user administration and catalog maintenance.
	ManagerOnly = Policy{Name: "manager", Roles: []Role{RoleManager}}
	// SalesFloor covers roles that create and work leads.
	SalesFloor = Policy{Name: "sales", Roles: []Role{RoleSales, RoleManager}}
)

// Evaluate checks actor against the policy. A nil actor is Unauthenticated.
func (p Policy) Evaluate(actor *Actor) Decision {
	d := Decision{Policy: p.Name, RequiredRoles: slices.Clone(p.Roles)}
	if actor == nil {
		d.Outcome = Unauthenticated
		return d
	}
	d.ActorRole = actor.Role
	if slices.Contains(p.Roles, actor.Role) {
		d.Outcome = Allow
		return d
	}
	d.Outcome = Unauthorized
	return d
}

// CanAccessFinance reports whether actor passes FinanceAccess.
func CanAccessFinance(actor *Actor) bool {
	return FinanceAccess.Evaluate(actor).Allowed()
}
