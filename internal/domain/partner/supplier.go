package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/furnish/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
	SupplierStatusBlocked  SupplierStatus = "blocked" // Blocked due to quality/payment issues
)

// SupplierCapability describes what a supplier can do for us
type SupplierCapability string

const (
	CapabilitySupply    SupplierCapability = "SUPPLIER"  // Supplies raw fabric/material
	CapabilityProcess   SupplierCapability = "PROCESSOR" // Processes material into finished goods
	CapabilitySupplyAll SupplierCapability = "BOTH"      // Supplies and processes
)

// Supplier represents a goods or processing supplier.
// It is the aggregate root for supplier-related operations.
type Supplier struct {
	shared.TenantAggregateRoot
	Code        string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_supplier_tenant_code,priority:2"`
	Name        string             `gorm:"type:varchar(200);not null"`
	ShortName   string             `gorm:"type:varchar(100)"`
	Capability  SupplierCapability `gorm:"type:varchar(20);not null;default:'SUPPLIER'"`
	Status      SupplierStatus     `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName string             `gorm:"type:varchar(100)"`
	Phone       string             `gorm:"type:varchar(50);index"`
	Address     string             `gorm:"type:text"`
	BankName    string             `gorm:"type:varchar(200)"`
	BankAccount string             `gorm:"type:varchar(100)"`
	Notes       string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with required fields
func NewSupplier(tenantID uuid.UUID, code, name string, capability SupplierCapability) (*Supplier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "supplier code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "supplier name cannot be empty")
	}
	switch capability {
	case CapabilitySupply, CapabilityProcess, CapabilitySupplyAll:
	case "":
		capability = CapabilitySupply
	default:
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "unknown supplier capability: "+string(capability))
	}

	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Capability:          capability,
		Status:              SupplierStatusActive,
	}, nil
}

// IsActive returns true when the supplier can receive new purchase orders
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// Block marks the supplier as blocked for new purchase orders
func (s *Supplier) Block() {
	s.Status = SupplierStatusBlocked
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Activate re-enables the supplier
func (s *Supplier) Activate() {
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
