package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// CooperationMode determines how channel commission is computed
type CooperationMode string

const (
	// CooperationModeRebate pays a flat percentage of the order amount
	CooperationModeRebate CooperationMode = "REBATE"
	// CooperationModeBasePrice pays a percentage of the margin over the
	// per-item base (floor) price
	CooperationModeBasePrice CooperationMode = "BASE_PRICE"
)

// ChannelStatus represents the status of a sales channel
type ChannelStatus string

const (
	ChannelStatusActive   ChannelStatus = "active"
	ChannelStatusInactive ChannelStatus = "inactive"
)

// Channel represents a sales channel (designer, decoration company, platform)
// that refers customers and earns commission on settled orders.
type Channel struct {
	shared.TenantAggregateRoot
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_channel_tenant_code,priority:2"`
	Name            string          `gorm:"type:varchar(200);not null"`
	CooperationMode CooperationMode `gorm:"type:varchar(20);not null;default:'REBATE'"`
	CommissionRate  decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"` // e.g. 0.10 for 10%
	ContactName     string          `gorm:"type:varchar(100)"`
	Phone           string          `gorm:"type:varchar(50);index"`
	Status          ChannelStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Channel) TableName() string {
	return "channels"
}

// NewChannel creates a new sales channel
func NewChannel(tenantID uuid.UUID, code, name string, mode CooperationMode, rate decimal.Decimal) (*Channel, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "channel code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "channel name cannot be empty")
	}
	switch mode {
	case CooperationModeRebate, CooperationModeBasePrice:
	default:
		return nil, shared.NewDomainError("INVALID_CHANNEL", "unknown cooperation mode: "+string(mode))
	}
	if err := validateCommissionRate(rate); err != nil {
		return nil, err
	}

	return &Channel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		CooperationMode:     mode,
		CommissionRate:      rate,
		Status:              ChannelStatusActive,
	}, nil
}

// UpdateCommission changes the cooperation mode and commission rate.
// Existing commission records keep the mode they were calculated under.
func (c *Channel) UpdateCommission(mode CooperationMode, rate decimal.Decimal) error {
	switch mode {
	case CooperationModeRebate, CooperationModeBasePrice:
	default:
		return shared.NewDomainError("INVALID_CHANNEL", "unknown cooperation mode: "+string(mode))
	}
	if err := validateCommissionRate(rate); err != nil {
		return err
	}

	c.CooperationMode = mode
	c.CommissionRate = rate
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsActive returns true when the channel can earn commission
func (c *Channel) IsActive() bool {
	return c.Status == ChannelStatusActive
}

func validateCommissionRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_CHANNEL", "commission rate must be between 0 and 1")
	}
	return nil
}
