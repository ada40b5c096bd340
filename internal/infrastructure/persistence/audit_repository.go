package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/audit"
)

// GormAuditRepository implements audit.Repository. Record writes through
// conn so audit rows join the surrounding transaction.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Record persists one audit entry
func (r *GormAuditRepository) Record(ctx context.Context, entry *audit.Entry) error {
	return conn(ctx, r.db).Create(entry).Error
}

// FindByRecord returns the audit trail for one record, newest first
func (r *GormAuditRepository) FindByRecord(ctx context.Context, tenantID uuid.UUID, tableName string, recordID uuid.UUID) ([]audit.Entry, error) {
	var entries []audit.Entry
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND table_name = ? AND record_id = ?", tenantID, tableName, recordID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
