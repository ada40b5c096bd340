package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

// GormQuoteRepository implements sales.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote with its items by ID within a tenant
func (r *GormQuoteRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.Quote, error) {
	var quote sales.Quote
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// FindAll finds all quotes for a tenant matching the filter
func (r *GormQuoteRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Quote, error) {
	var quotes []sales.Quote
	query := conn(ctx, r.db).Model(&sales.Quote{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter, "quote_no", "customer_name")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if err := applyFilter(query, filter).Preload("Items").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Save creates or updates a quote and its items
func (r *GormQuoteRepository) Save(ctx context.Context, quote *sales.Quote) error {
	return conn(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(quote).Error
}

var _ sales.QuoteRepository = (*GormQuoteRepository)(nil)

// GormOrderRepository implements sales.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items by ID within a tenant
func (r *GormOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	var order sales.Order
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByQuoteID finds the order created from a quote, if any
func (r *GormOrderRepository) FindByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*sales.Order, error) {
	var order sales.Order
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNo finds an order by its business number within a tenant
func (r *GormOrderRepository) FindByOrderNo(ctx context.Context, tenantID uuid.UUID, orderNo string) (*sales.Order, error) {
	var order sales.Order
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND order_no = ?", tenantID, orderNo).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all orders for a tenant matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	var orders []sales.Order
	query := conn(ctx, r.db).Model(&sales.Order{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter, "order_no", "customer_name")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if err := applyFilter(query, filter).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save inserts an order together with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *sales.Order) error {
	return conn(ctx, r.db).Create(order).Error
}

// SaveWithVersion updates the order row only if the stored version still
// matches expectedVersion. Items are not touched; split back-references go
// through UpdateItems.
func (r *GormOrderRepository) SaveWithVersion(ctx context.Context, order *sales.Order, expectedVersion int) error {
	result := conn(ctx, r.db).Model(&sales.Order{}).
		Where("tenant_id = ? AND id = ? AND version = ?", order.TenantID, order.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":                order.Status,
			"paid_amount":           order.PaidAmount,
			"balance_amount":        order.BalanceAmount,
			"is_locked":             order.IsLocked,
			"locked_at":             order.LockedAt,
			"previous_status":       order.PreviousStatus,
			"paused_at":             order.PausedAt,
			"pause_reason":          order.PauseReason,
			"pause_cumulative_days": order.PauseCumulativeDays,
			"cancellation_reason":   order.CancellationReason,
			"remark":                order.Remark,
			"version":               order.Version,
			"updated_at":            order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// UpdateItems persists split back-references (poId, supplierId) on items
func (r *GormOrderRepository) UpdateItems(ctx context.Context, items []sales.OrderItem) error {
	db := conn(ctx, r.db)
	for i := range items {
		if err := db.Model(&sales.OrderItem{}).
			Where("id = ?", items[i].ID).
			Updates(map[string]interface{}{
				"po_id":       items[i].POID,
				"supplier_id": items[i].SupplierID,
				"updated_at":  items[i].UpdatedAt,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ sales.OrderRepository = (*GormOrderRepository)(nil)
