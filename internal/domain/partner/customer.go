package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/furnish/backend/internal/domain/shared"
)

// Customer represents a retail customer.
// Orders snapshot the customer name and phone at conversion time, so later
// edits here never rewrite settled documents.
type Customer struct {
	shared.TenantAggregateRoot
	Name      string     `gorm:"type:varchar(100);not null"`
	Phone     string     `gorm:"type:varchar(50);index"`
	Address   string     `gorm:"type:text"`
	ChannelID *uuid.UUID `gorm:"type:uuid;index"` // Referring sales channel, if any
	Notes     string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, name, phone string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "customer name cannot be empty")
	}

	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Phone:               phone,
	}, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, phone, address string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "customer name cannot be empty")
	}

	c.Name = name
	c.Phone = phone
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// AttachChannel links the customer to a referring sales channel
func (c *Customer) AttachChannel(channelID uuid.UUID) {
	c.ChannelID = &channelID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
