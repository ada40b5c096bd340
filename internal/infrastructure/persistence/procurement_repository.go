package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/procurement"
	"github.com/furnish/backend/internal/domain/shared"
)

// GormPurchaseOrderRepository implements procurement.PurchaseOrderRepository
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its items by ID within a tenant
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var po procurement.PurchaseOrder
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByOrderID finds all purchase orders created from one order
func (r *GormPurchaseOrderRepository) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]procurement.PurchaseOrder, error) {
	var pos []procurement.PurchaseOrder
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("po_no ASC").
		Find(&pos).Error; err != nil {
		return nil, err
	}
	return pos, nil
}

// FindAll finds all purchase orders for a tenant matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var pos []procurement.PurchaseOrder
	query := conn(ctx, r.db).Model(&procurement.PurchaseOrder{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter, "po_no")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if orderID, ok := filter.Filters["order_id"]; ok {
		query = query.Where("order_id = ?", orderID)
	}
	if err := applyFilter(query, filter).Find(&pos).Error; err != nil {
		return nil, err
	}
	return pos, nil
}

// Save inserts a purchase order together with its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *procurement.PurchaseOrder) error {
	return conn(ctx, r.db).Create(po).Error
}

// ExistsForOrder reports whether any purchase order exists for an order
func (r *GormPurchaseOrderRepository) ExistsForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).
		Model(&procurement.PurchaseOrder{}).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

// GormPendingAssignmentRepository implements the manual supplier-assignment
// queue on top of GORM.
type GormPendingAssignmentRepository struct {
	db *gorm.DB
}

// NewGormPendingAssignmentRepository creates a new GormPendingAssignmentRepository
func NewGormPendingAssignmentRepository(db *gorm.DB) *GormPendingAssignmentRepository {
	return &GormPendingAssignmentRepository{db: db}
}

// FindOpen finds unresolved assignments for a tenant
func (r *GormPendingAssignmentRepository) FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PendingAssignment, error) {
	var assignments []procurement.PendingAssignment
	query := conn(ctx, r.db).Model(&procurement.PendingAssignment{}).
		Where("tenant_id = ? AND status = ?", tenantID, procurement.PendingAssignmentOpen)
	if orderID, ok := filter.Filters["order_id"]; ok {
		query = query.Where("order_id = ?", orderID)
	}
	if err := applyFilter(query, filter).Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// Save creates or updates a pending assignment
func (r *GormPendingAssignmentRepository) Save(ctx context.Context, assignment *procurement.PendingAssignment) error {
	return conn(ctx, r.db).Save(assignment).Error
}

var _ procurement.PendingAssignmentRepository = (*GormPendingAssignmentRepository)(nil)
