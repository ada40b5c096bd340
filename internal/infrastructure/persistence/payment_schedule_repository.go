package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/shared"
)

// GormPaymentScheduleRepository implements finance.PaymentScheduleRepository
type GormPaymentScheduleRepository struct {
	db *gorm.DB
}

// NewGormPaymentScheduleRepository creates a new GormPaymentScheduleRepository
func NewGormPaymentScheduleRepository(db *gorm.DB) *GormPaymentScheduleRepository {
	return &GormPaymentScheduleRepository{db: db}
}

// FindByOrderID finds the stages for an order, in stage order
func (r *GormPaymentScheduleRepository) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]finance.PaymentSchedule, error) {
	var schedules []finance.PaymentSchedule
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("stage ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// FindByID finds one stage by ID within a tenant
func (r *GormPaymentScheduleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.PaymentSchedule, error) {
	var schedule finance.PaymentSchedule
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

// SaveBatch inserts the generated stages of one plan
func (r *GormPaymentScheduleRepository) SaveBatch(ctx context.Context, schedules []finance.PaymentSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&schedules).Error
}

// Save updates one stage
func (r *GormPaymentScheduleRepository) Save(ctx context.Context, schedule *finance.PaymentSchedule) error {
	return conn(ctx, r.db).Save(schedule).Error
}

var _ finance.PaymentScheduleRepository = (*GormPaymentScheduleRepository)(nil)
