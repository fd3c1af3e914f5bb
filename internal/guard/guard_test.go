package guard

import (
	"testing"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// stubAuthz is a canned Authorizer.
type stubAuthz struct {
	authenticated bool
	role          domain.Role
}

func (s *stubAuthz) IsAuthenticated() bool { return s.authenticated }

func (s *stubAuthz) HasAnyRole(roles ...domain.Role) bool {
	if !s.authenticated {
		return false
	}
	for _, r := range roles {
		if r == s.role {
			return true
		}
	}
	return false
}

func TestCanActivate_Unauthenticated(t *testing.T) {
	p := New(&stubAuthz{})

	d := p.CanActivate(Route{Path: "/products"})
	if d.Allowed {
		t.Fatalf("unauthenticated navigation must be denied")
	}
	if d.Redirect != LoginPath {
		t.Fatalf("redirect = %q, want %q", d.Redirect, LoginPath)
	}
}

func TestCanActivate_RoleDenied(t *testing.T) {
	p := New(&stubAuthz{authenticated: true, role: domain.RoleEmployee})

	d := p.CanActivate(Route{
		Path:  "/users",
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleManager},
	})
	if d.Allowed {
		t.Fatalf("employee must be denied an {admin,manager} route")
	}
	if d.Redirect != UnauthorizedPath {
		t.Fatalf("redirect = %q, want %q", d.Redirect, UnauthorizedPath)
	}
}

func TestCanActivate_RoleAllowed(t *testing.T) {
	p := New(&stubAuthz{authenticated: true, role: domain.RoleAdmin})

	d := p.CanActivate(Route{
		Path:  "/users",
		Roles: []domain.Role{domain.RoleAdmin, domain.RoleManager},
	})
	if !d.Allowed {
		t.Fatalf("admin must be allowed an {admin,manager} route, got redirect %q", d.Redirect)
	}
}

func TestCanActivate_NoRolesAdmitsAnyAuthenticated(t *testing.T) {
	p := New(&stubAuthz{authenticated: true, role: domain.RoleViewer})

	if d := p.CanActivate(Route{Path: "/dashboard"}); !d.Allowed {
		t.Fatalf("route without a role set must admit any authenticated user")
	}
}

func TestCanActivate_AuthCheckedBeforeRole(t *testing.T) {
	// Logged out and lacking the role: the authentication check wins and
	// the redirect goes to the login entry point, not /unauthorized.
	p := New(&stubAuthz{authenticated: false, role: domain.RoleViewer})

	d := p.CanActivate(Route{Path: "/users", Roles: []domain.Role{domain.RoleAdmin}})
	if d.Redirect != LoginPath {
		t.Fatalf("redirect = %q, want %q", d.Redirect, LoginPath)
	}
}
