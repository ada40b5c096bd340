package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/furnish/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order with its items by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderID finds all purchase orders created from one order
	FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]PurchaseOrder, error)

	// FindAll finds all purchase orders for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// Save inserts a purchase order together with its items
	Save(ctx context.Context, po *PurchaseOrder) error

	// ExistsForOrder reports whether any purchase order exists for an order
	ExistsForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error)
}

// PendingAssignmentRepository defines the interface for the manual
// supplier-assignment queue.
type PendingAssignmentRepository interface {
	// FindOpen finds unresolved assignments for a tenant
	FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PendingAssignment, error)

	// Save creates or updates a pending assignment
	Save(ctx context.Context, assignment *PendingAssignment) error
}

// PONumberGenerator produces business purchase order numbers
type PONumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID) (string, error)
}
