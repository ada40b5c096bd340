package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/furnish/backend/internal/domain/shared"
)

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByID finds a quote with its items by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)

	// FindAll finds all quotes for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)

	// Save creates or updates a quote and its items
	Save(ctx context.Context, quote *Quote) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByQuoteID finds the order created from a quote, if any.
	// Returns shared.ErrNotFound when the quote has not been converted.
	FindByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*Order, error)

	// FindByOrderNo finds an order by its business number within a tenant
	FindByOrderNo(ctx context.Context, tenantID uuid.UUID, orderNo string) (*Order, error)

	// FindAll finds all orders for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save inserts an order together with its items
	Save(ctx context.Context, order *Order) error

	// SaveWithVersion updates the order only if the stored version matches
	// expectedVersion. Returns shared.ErrConcurrencyConflict when another
	// writer got there first.
	SaveWithVersion(ctx context.Context, order *Order, expectedVersion int) error

	// UpdateItems persists split back-references (poId, supplierId) on items
	UpdateItems(ctx context.Context, items []OrderItem) error
}

// OrderNumberGenerator produces business order numbers. The default is
// date plus random suffix; a counter-based implementation can be swapped in
// without touching the conversion flow.
type OrderNumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID) (string, error)
}
