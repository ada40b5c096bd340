package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/shared"
)

// GormReceiptBillRepository implements finance.ReceiptBillRepository
type GormReceiptBillRepository struct {
	db *gorm.DB
}

// NewGormReceiptBillRepository creates a new GormReceiptBillRepository
func NewGormReceiptBillRepository(db *gorm.DB) *GormReceiptBillRepository {
	return &GormReceiptBillRepository{db: db}
}

// FindByID finds a bill with its items by ID within a tenant
func (r *GormReceiptBillRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.ReceiptBill, error) {
	var bill finance.ReceiptBill
	if err := conn(ctx, r.db).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindAll finds all bills for a tenant matching the filter
func (r *GormReceiptBillRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.ReceiptBill, error) {
	var bills []finance.ReceiptBill
	query := conn(ctx, r.db).Model(&finance.ReceiptBill{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter, "bill_no")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if kind, ok := filter.Filters["kind"]; ok {
		query = query.Where("kind = ?", kind)
	}
	if err := applyFilter(query, filter).Preload("Items").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// Save creates or updates a bill and its items
func (r *GormReceiptBillRepository) Save(ctx context.Context, bill *finance.ReceiptBill) error {
	return conn(ctx, r.db).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(bill).Error
}

// SaveWithVersion updates the bill header only if the stored version still
// matches expectedVersion, then writes the allocation consumption on each
// item. Callers run this inside a transaction, so a version conflict on the
// header rolls the item updates back too.
func (r *GormReceiptBillRepository) SaveWithVersion(ctx context.Context, bill *finance.ReceiptBill, expectedVersion int) error {
	db := conn(ctx, r.db)

	result := db.Model(&finance.ReceiptBill{}).
		Where("tenant_id = ? AND id = ? AND version = ?", bill.TenantID, bill.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":           bill.Status,
			"used_amount":      bill.UsedAmount,
			"remaining_amount": bill.RemainingAmount,
			"rejection_reason": bill.RejectionReason,
			"verified_by":      bill.VerifiedBy,
			"verified_at":      bill.VerifiedAt,
			"version":          bill.Version,
			"updated_at":       bill.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	for i := range bill.Items {
		if err := db.Model(&finance.ReceiptBillItem{}).
			Where("id = ?", bill.Items[i].ID).
			Updates(map[string]interface{}{
				"statement_id": bill.Items[i].StatementID,
				"updated_at":   bill.Items[i].UpdatedAt,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ finance.ReceiptBillRepository = (*GormReceiptBillRepository)(nil)
