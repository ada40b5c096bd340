package identity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended" // Suspended due to payment/violation issues
)

// TenantScale classifies the tenant for approval-flow routing
type TenantScale string

const (
	TenantScaleSmall TenantScale = "SMALL"
	TenantScaleLarge TenantScale = "LARGE"
)

// MissingStatementPolicy decides what reconciliation does when a receipt
// allocation references an order without an AR statement.
type MissingStatementPolicy string

const (
	// MissingStatementLogOnly logs the gap and continues
	MissingStatementLogOnly MissingStatementPolicy = "LOG_ONLY"
	// MissingStatementException records a reconciliation exception for
	// manual follow-up and continues
	MissingStatementException MissingStatementPolicy = "EXCEPTION_QUEUE"
)

// ARPaymentSettings configures receivable reconciliation behavior
type ARPaymentSettings struct {
	// AllowedDifference is the absolute tolerance used when deciding
	// whether a nearly-settled statement counts as PAID
	AllowedDifference decimal.Decimal `json:"allowedDifference"`
	// MissingStatementPolicy controls handling of allocations whose order
	// has no AR statement
	MissingStatementPolicy MissingStatementPolicy `json:"missingStatementPolicy"`
}

// TenantSettings holds the typed, tenant-scoped business configuration.
// Stored as a JSON column so new settings do not need migrations.
type TenantSettings struct {
	Scale                TenantScale       `json:"scale"`
	LargeAmountThreshold decimal.Decimal   `json:"largeAmountThreshold"`
	ARPayment            ARPaymentSettings `json:"arPayment"`
	Currency             string            `json:"currency"`
	Timezone             string            `json:"timezone"`
}

// DefaultTenantSettings returns the settings applied to a new tenant
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Scale:                TenantScaleSmall,
		LargeAmountThreshold: decimal.NewFromInt(10000),
		ARPayment: ARPaymentSettings{
			AllowedDifference:      decimal.Zero,
			MissingStatementPolicy: MissingStatementException,
		},
		Currency: "CNY",
		Timezone: "Asia/Shanghai",
	}
}

// Validate checks the settings for internally consistent values
func (s TenantSettings) Validate() error {
	switch s.Scale {
	case TenantScaleSmall, TenantScaleLarge:
	default:
		return shared.NewDomainError("INVALID_SETTINGS", "unknown tenant scale: "+string(s.Scale))
	}
	if s.LargeAmountThreshold.IsNegative() {
		return shared.NewDomainError("INVALID_SETTINGS", "large amount threshold cannot be negative")
	}
	if s.ARPayment.AllowedDifference.IsNegative() {
		return shared.NewDomainError("INVALID_SETTINGS", "allowed difference cannot be negative")
	}
	switch s.ARPayment.MissingStatementPolicy {
	case MissingStatementLogOnly, MissingStatementException:
	default:
		return shared.NewDomainError("INVALID_SETTINGS", "unknown missing statement policy: "+string(s.ARPayment.MissingStatementPolicy))
	}
	return nil
}

// Tenant represents a tenant/organization in the multi-tenant system.
// It is the aggregate root for tenant-related operations.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string         `gorm:"type:varchar(200);not null"`
	ShortName    string         `gorm:"type:varchar(100)"`
	Status       TenantStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string         `gorm:"type:varchar(100)"`
	ContactPhone string         `gorm:"type:varchar(50)"`
	Settings     TenantSettings `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with default settings
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "tenant code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "tenant name cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToLower(code),
		Name:              name,
		Status:            TenantStatusActive,
		Settings:          DefaultTenantSettings(),
	}, nil
}

// UpdateSettings replaces the tenant settings after validation
func (t *Tenant) UpdateSettings(settings TenantSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	t.Settings = settings
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// IsActive returns true when the tenant may transact
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Suspend suspends the tenant
func (t *Tenant) Suspend() {
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}
