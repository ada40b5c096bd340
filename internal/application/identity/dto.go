package identity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/identity"
)

// CreateTenantRequest carries the data needed to onboard a tenant
type CreateTenantRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	ShortName    string `json:"shortName"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
}

// UpdateSettingsRequest replaces a tenant's business settings
type UpdateSettingsRequest struct {
	Scale                  identity.TenantScale            `json:"scale" binding:"required"`
	LargeAmountThreshold   decimal.Decimal                 `json:"largeAmountThreshold"`
	AllowedDifference      decimal.Decimal                 `json:"allowedDifference"`
	MissingStatementPolicy identity.MissingStatementPolicy `json:"missingStatementPolicy" binding:"required"`
	Currency               string                          `json:"currency"`
	Timezone               string                          `json:"timezone"`
	UserID                 *uuid.UUID                      `json:"-"`
}

// TenantResponse is the API representation of a tenant
type TenantResponse struct {
	ID           uuid.UUID               `json:"id"`
	Code         string                  `json:"code"`
	Name         string                  `json:"name"`
	ShortName    string                  `json:"shortName,omitempty"`
	Status       identity.TenantStatus   `json:"status"`
	ContactName  string                  `json:"contactName,omitempty"`
	ContactPhone string                  `json:"contactPhone,omitempty"`
	Settings     identity.TenantSettings `json:"settings"`
	Version      int                     `json:"version"`
}

// ToTenantResponse converts a tenant to its API representation
func ToTenantResponse(tenant *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:           tenant.ID,
		Code:         tenant.Code,
		Name:         tenant.Name,
		ShortName:    tenant.ShortName,
		Status:       tenant.Status,
		ContactName:  tenant.ContactName,
		ContactPhone: tenant.ContactPhone,
		Settings:     tenant.Settings,
		Version:      tenant.Version,
	}
}

// CreateUserRequest registers an operator account within a tenant
type CreateUserRequest struct {
	Username string            `json:"username" binding:"required"`
	Name     string            `json:"name" binding:"required"`
	Phone    string            `json:"phone"`
	Role     identity.UserRole `json:"role" binding:"required"`
	UserID   *uuid.UUID        `json:"-"`
}

// UserResponse is the API representation of a user account
type UserResponse struct {
	ID       uuid.UUID           `json:"id"`
	Username string              `json:"username"`
	Name     string              `json:"name"`
	Phone    string              `json:"phone,omitempty"`
	Role     identity.UserRole   `json:"role"`
	Status   identity.UserStatus `json:"status"`
}

// ToUserResponse converts a user to its API representation
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Phone:    user.Phone,
		Role:     user.Role,
		Status:   user.Status,
	}
}
