package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
	"github.com/furnish/backend/internal/domain/shared/valueobject"
)

// ScheduleStatus is the settlement status of one payment stage
type ScheduleStatus string

const (
	ScheduleStatusPending ScheduleStatus = "PENDING"
	ScheduleStatusPaid    ScheduleStatus = "PAID"
)

// PaymentSchedule is one stage of an order's payment plan (e.g. 60% deposit,
// 40% balance). Stages are generated from ratios at order time.
type PaymentSchedule struct {
	shared.TenantAggregateRoot
	OrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Stage   int             `gorm:"not null"` // 1-based position in the plan
	Name    string          `gorm:"type:varchar(100);not null"`
	Ratio   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	Amount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status  ScheduleStatus  `gorm:"type:varchar(10);not null;default:'PENDING'"`
	DueDate *time.Time
	PaidAt  *time.Time
}

// TableName returns the table name for GORM
func (PaymentSchedule) TableName() string {
	return "payment_schedules"
}

// GenerateSchedules splits an order total into payment stages by ratio.
// Ratios must sum to 1. Allocation rounds each stage to the money scale and
// the final stage absorbs the rounding remainder so the stages always sum
// back to the order total.
func GenerateSchedules(tenantID, orderID uuid.UUID, total valueobject.Money, ratios []decimal.Decimal) ([]PaymentSchedule, error) {
	if !total.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "order total must be positive")
	}
	if len(ratios) == 0 {
		ratios = []decimal.Decimal{decimal.NewFromFloat(0.6), decimal.NewFromFloat(0.4)}
	}
	for _, r := range ratios {
		if !r.IsPositive() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "payment ratios must be positive")
		}
	}

	parts, err := total.RoundToScale().Allocate(ratios)
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "payment "+err.Error())
	}

	schedules := make([]PaymentSchedule, 0, len(ratios))
	for i, ratio := range ratios {
		schedules = append(schedules, PaymentSchedule{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			OrderID:             orderID,
			Stage:               i + 1,
			Name:                stageName(i, len(ratios)),
			Ratio:               ratio,
			Amount:              parts[i].Amount(),
			Status:              ScheduleStatusPending,
		})
	}
	return schedules, nil
}

func stageName(i, n int) string {
	switch {
	case i == 0:
		return "Deposit"
	case i == n-1:
		return "Balance"
	default:
		return fmt.Sprintf("Stage %d", i+1)
	}
}

// MarkPaid settles the stage
func (s *PaymentSchedule) MarkPaid() error {
	if s.Status == ScheduleStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "payment stage is already settled")
	}

	now := time.Now()
	s.Status = ScheduleStatusPaid
	s.PaidAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}
