package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByCode finds a tenant by its code
	FindByCode(ctx context.Context, code string) (*Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username within a tenant
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}

// SettingsProvider resolves tenant settings, typically through a cache in
// front of TenantRepository.
type SettingsProvider interface {
	// Settings returns the settings for the given tenant
	Settings(ctx context.Context, tenantID uuid.UUID) (TenantSettings, error)

	// Invalidate drops any cached settings for the tenant
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}
