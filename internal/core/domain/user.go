package domain

import "time"

// Role is the coarse permission tag attached to a user, used for
// command and UI gating.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleViewer   Role = "viewer"
)

// Roles lists the closed set of valid roles.
var Roles = []Role{RoleAdmin, RoleManager, RoleEmployee, RoleViewer}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User models an authenticated actor in the system.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// HasAnyRole reports whether the user's role is contained in roles.
func (u *User) HasAnyRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// LoginRequest carries the credentials sent to POST /login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest carries the payload sent to POST /register.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=6"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role" validate:"required,oneof=admin manager employee viewer"`
}

// CreateUserRequest is the admin-facing user creation payload.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Password  string `json:"password" validate:"required,min=6"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role" validate:"required,oneof=admin manager employee viewer"`
}

// UpdateUserRequest carries a partial user update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *Role   `json:"role,omitempty" validate:"omitempty,oneof=admin manager employee viewer"`
	IsActive  *bool   `json:"isActive,omitempty"`
}
