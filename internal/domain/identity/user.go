package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/furnish/backend/internal/domain/shared"
)

// UserRole represents a user's functional role within a tenant
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleSales   UserRole = "SALES"
	RoleManager UserRole = "MANAGER"
	RoleFinance UserRole = "FINANCE"
	RoleSupply  UserRole = "SUPPLY"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents an operator account within a tenant
type User struct {
	shared.TenantAggregateRoot
	Username string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	Name     string     `gorm:"type:varchar(100);not null"`
	Phone    string     `gorm:"type:varchar(50);index"`
	Role     UserRole   `gorm:"type:varchar(20);not null;default:'SALES'"`
	Status   UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user account
func NewUser(tenantID uuid.UUID, username, name string, role UserRole) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USER", "username cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_USER", "user name cannot be empty")
	}
	switch role {
	case RoleAdmin, RoleSales, RoleManager, RoleFinance, RoleSupply:
	default:
		return nil, shared.NewDomainError("INVALID_USER", "unknown user role: "+string(role))
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            strings.ToLower(username),
		Name:                name,
		Role:                role,
		Status:              UserStatusActive,
	}, nil
}

// IsActive returns true when the account may sign in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Status = UserStatusInactive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
