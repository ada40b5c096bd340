package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/furnish/backend/internal/domain/shared"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)

	// FindByIDs finds multiple suppliers by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Supplier, error)

	// FindAll finds all suppliers for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error
}

// ChannelRepository defines the interface for sales channel persistence
type ChannelRepository interface {
	// FindByID finds a channel by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Channel, error)

	// FindAll finds all channels for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Channel, error)

	// Save creates or updates a channel
	Save(ctx context.Context, channel *Channel) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindAll finds all customers for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
}
