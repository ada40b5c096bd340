package procurement

import (
	"time"

	"github.com/google/uuid"

	"github.com/furnish/backend/internal/domain/shared"
)

// PendingAssignmentStatus tracks whether a pooled item has been routed
type PendingAssignmentStatus string

const (
	PendingAssignmentOpen     PendingAssignmentStatus = "OPEN"
	PendingAssignmentResolved PendingAssignmentStatus = "RESOLVED"
)

// PendingAssignment is an order item that could not be routed to a supplier
// during the split because its product is missing or has no default
// supplier. Operators resolve these manually.
type PendingAssignment struct {
	shared.TenantAggregateRoot
	OrderID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_pending_tenant_item,priority:2"`
	ProductID   uuid.UUID               `gorm:"type:uuid;not null"`
	ProductName string                  `gorm:"type:varchar(200);not null"`
	Reason      string                  `gorm:"type:varchar(200);not null"`
	Status      PendingAssignmentStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	ResolvedBy  *uuid.UUID              `gorm:"type:uuid"`
	ResolvedAt  *time.Time
}

// TableName returns the table name for GORM
func (PendingAssignment) TableName() string {
	return "po_pending_assignments"
}

// NewPendingAssignment records one unroutable order item
func NewPendingAssignment(tenantID, orderID uuid.UUID, line SplitLine, reason string) *PendingAssignment {
	return &PendingAssignment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderID:             orderID,
		OrderItemID:         line.Item.ID,
		ProductID:           line.Item.ProductID,
		ProductName:         line.Item.ProductName,
		Reason:              reason,
		Status:              PendingAssignmentOpen,
	}
}

// Resolve marks the assignment handled by an operator
func (p *PendingAssignment) Resolve(userID uuid.UUID) error {
	if p.Status == PendingAssignmentResolved {
		return shared.NewDomainError("INVALID_STATE", "pending assignment is already resolved")
	}

	now := time.Now()
	p.Status = PendingAssignmentResolved
	p.ResolvedBy = &userID
	p.ResolvedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}
