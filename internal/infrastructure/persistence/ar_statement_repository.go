package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/shared"
)

// GormARStatementRepository implements finance.ARStatementRepository
type GormARStatementRepository struct {
	db *gorm.DB
}

// NewGormARStatementRepository creates a new GormARStatementRepository
func NewGormARStatementRepository(db *gorm.DB) *GormARStatementRepository {
	return &GormARStatementRepository{db: db}
}

// FindByID finds a statement by ID within a tenant
func (r *GormARStatementRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.ARStatement, error) {
	var statement finance.ARStatement
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&statement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &statement, nil
}

// FindByOrderID finds the statement for an order
func (r *GormARStatementRepository) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*finance.ARStatement, error) {
	var statement finance.ARStatement
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&statement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &statement, nil
}

// FindAll finds all statements for a tenant matching the filter
func (r *GormARStatementRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.ARStatement, error) {
	var statements []finance.ARStatement
	query := conn(ctx, r.db).Model(&finance.ARStatement{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter, "statement_no")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if channelID, ok := filter.Filters["channel_id"]; ok {
		query = query.Where("channel_id = ?", channelID)
	}
	if err := applyFilter(query, filter).Find(&statements).Error; err != nil {
		return nil, err
	}
	return statements, nil
}

// Save creates or updates a statement
func (r *GormARStatementRepository) Save(ctx context.Context, statement *finance.ARStatement) error {
	return conn(ctx, r.db).Save(statement).Error
}

// CompareAndSwapReceived writes the reconciliation result guarded by the
// previously observed received amount. Two reconciliations racing on the
// same statement resolve to one winner and one zero-rows conflict.
func (r *GormARStatementRepository) CompareAndSwapReceived(ctx context.Context, statement *finance.ARStatement, expectedReceived decimal.Decimal) error {
	result := conn(ctx, r.db).Model(&finance.ARStatement{}).
		Where("tenant_id = ? AND id = ? AND received_amount = ?", statement.TenantID, statement.ID, expectedReceived).
		Updates(map[string]interface{}{
			"received_amount":   statement.ReceivedAmount,
			"pending_amount":    statement.PendingAmount,
			"status":            statement.Status,
			"commission_rate":   statement.CommissionRate,
			"commission_amount": statement.CommissionAmount,
			"commission_status": statement.CommissionStatus,
			"version":           statement.Version,
			"updated_at":        statement.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ finance.ARStatementRepository = (*GormARStatementRepository)(nil)
