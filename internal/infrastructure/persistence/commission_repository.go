package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/shared"
)

// GormCommissionRecordRepository implements finance.CommissionRecordRepository
type GormCommissionRecordRepository struct {
	db *gorm.DB
}

// NewGormCommissionRecordRepository creates a new GormCommissionRecordRepository
func NewGormCommissionRecordRepository(db *gorm.DB) *GormCommissionRecordRepository {
	return &GormCommissionRecordRepository{db: db}
}

// FindByStatementID finds the commission record for a statement
func (r *GormCommissionRecordRepository) FindByStatementID(ctx context.Context, tenantID, statementID uuid.UUID) (*finance.CommissionRecord, error) {
	var record finance.CommissionRecord
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND ar_statement_id = ?", tenantID, statementID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll finds all commission records for a tenant matching the filter
func (r *GormCommissionRecordRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CommissionRecord, error) {
	var records []finance.CommissionRecord
	query := conn(ctx, r.db).Model(&finance.CommissionRecord{}).Where("tenant_id = ?", tenantID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if channelID, ok := filter.Filters["channel_id"]; ok {
		query = query.Where("channel_id = ?", channelID)
	}
	if err := applyFilter(query, filter).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save inserts a commission record. The unique index on the statement ID
// turns a concurrent double-insert into shared.ErrAlreadyExists.
func (r *GormCommissionRecordRepository) Save(ctx context.Context, record *finance.CommissionRecord) error {
	if err := conn(ctx, r.db).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// isUniqueViolation matches drivers that report constraint violations as
// plain errors rather than gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

var _ finance.CommissionRecordRepository = (*GormCommissionRecordRepository)(nil)
