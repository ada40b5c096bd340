package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/shared"
)

// GormReconciliationExceptionRepository implements
// finance.ReconciliationExceptionRepository
type GormReconciliationExceptionRepository struct {
	db *gorm.DB
}

// NewGormReconciliationExceptionRepository creates a new GormReconciliationExceptionRepository
func NewGormReconciliationExceptionRepository(db *gorm.DB) *GormReconciliationExceptionRepository {
	return &GormReconciliationExceptionRepository{db: db}
}

// FindOpen finds unresolved exceptions for a tenant
func (r *GormReconciliationExceptionRepository) FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.ReconciliationException, error) {
	var exceptions []finance.ReconciliationException
	query := conn(ctx, r.db).Model(&finance.ReconciliationException{}).
		Where("tenant_id = ? AND status = ?", tenantID, finance.ExceptionStatusOpen)
	if orderID, ok := filter.Filters["order_id"]; ok {
		query = query.Where("order_id = ?", orderID)
	}
	if err := applyFilter(query, filter).Find(&exceptions).Error; err != nil {
		return nil, err
	}
	return exceptions, nil
}

// Save creates or updates an exception
func (r *GormReconciliationExceptionRepository) Save(ctx context.Context, exception *finance.ReconciliationException) error {
	return conn(ctx, r.db).Save(exception).Error
}

var _ finance.ReconciliationExceptionRepository = (*GormReconciliationExceptionRepository)(nil)
