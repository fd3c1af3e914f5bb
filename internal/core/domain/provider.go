package domain

import "time"

// ProviderAddress is a supplier's physical location.
type ProviderAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Provider is a goods or services supplier.
type Provider struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	Address       ProviderAddress `json:"address"`
	TaxID         string          `json:"taxId,omitempty"`
	ContactPerson string          `json:"contactPerson,omitempty"`
	Website       string          `json:"website,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt,omitempty"`
	UpdatedAt     time.Time       `json:"updatedAt,omitempty"`
}

// CreateProviderRequest is the payload for POST /providers.
type CreateProviderRequest struct {
	Name          string          `json:"name" validate:"required"`
	Email         string          `json:"email" validate:"required,email"`
	Phone         string          `json:"phone,omitempty"`
	Address       ProviderAddress `json:"address"`
	TaxID         string          `json:"taxId,omitempty"`
	ContactPerson string          `json:"contactPerson,omitempty"`
	Website       string          `json:"website,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateProviderRequest is a partial update; nil fields are left unchanged.
type UpdateProviderRequest struct {
	Name          *string          `json:"name,omitempty"`
	Email         *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string          `json:"phone,omitempty"`
	Address       *ProviderAddress `json:"address,omitempty"`
	TaxID         *string          `json:"taxId,omitempty"`
	ContactPerson *string          `json:"contactPerson,omitempty"`
	Website       *string          `json:"website,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	IsActive      *bool            `json:"isActive,omitempty"`
}
