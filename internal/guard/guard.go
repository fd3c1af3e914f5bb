// Package guard implements navigation gating: authentication first, role
// membership second. Decisions are pure reads of the session; guards never
// perform I/O or trigger a token refresh — that is the HTTP layer's job.
package guard

import (
	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/core/ports"
)

// Redirect targets for denied navigation.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Route is a navigation destination with an optional required-role set.
// An empty Roles slice admits any authenticated user.
type Route struct {
	Path  string
	Roles []domain.Role
}

// Decision is the outcome of evaluating a route against the session.
type Decision struct {
	Allowed  bool
	Redirect string // set when Allowed is false
}

// Policy evaluates routes against the current session.
type Policy struct {
	authz ports.Authorizer
}

// New returns a Policy reading session state from authz.
func New(authz ports.Authorizer) *Policy {
	return &Policy{authz: authz}
}

// CanActivate evaluates the two checks in order: authentication, then role
// membership.
func (p *Policy) CanActivate(route Route) Decision {
	if !p.authz.IsAuthenticated() {
		return Decision{Redirect: LoginPath}
	}
	if len(route.Roles) > 0 && !p.authz.HasAnyRole(route.Roles...) {
		return Decision{Redirect: UnauthorizedPath}
	}
	return Decision{Allowed: true}
}
