package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/partner"
	"github.com/furnish/backend/internal/domain/shared"
)

// CommissionRecordStatus is the lifecycle of a commission record.
// CALCULATED is terminal here; payout happens in a separate system.
type CommissionRecordStatus string

const (
	CommissionRecordCalculated CommissionRecordStatus = "CALCULATED"
)

// CommissionRecord is the payable owed to a sales channel for one settled
// statement. The unique index on (tenant, statement) makes creation
// idempotent: a retried reconciliation cannot insert a second record.
type CommissionRecord struct {
	shared.TenantAggregateRoot
	CommissionNo     string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_comm_tenant_no,priority:2"`
	ARStatementID    uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_comm_tenant_stmt,priority:2"`
	ChannelID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	OrderID          uuid.UUID               `gorm:"type:uuid;not null;index"`
	CooperationMode  partner.CooperationMode `gorm:"type:varchar(20);not null"`
	Rate             decimal.Decimal         `gorm:"type:decimal(8,4);not null"`
	CommissionAmount decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Status           CommissionRecordStatus  `gorm:"type:varchar(20);not null;default:'CALCULATED'"`
}

// TableName returns the table name for GORM
func (CommissionRecord) TableName() string {
	return "commission_records"
}

// NewCommissionRecord creates a calculated commission record
func NewCommissionRecord(tenantID uuid.UUID, commissionNo string, statementID, channelID, orderID uuid.UUID,
	mode partner.CooperationMode, rate, amount decimal.Decimal) (*CommissionRecord, error) {

	if commissionNo == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "commission number cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "commission amount must be positive")
	}

	return &CommissionRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CommissionNo:        commissionNo,
		ARStatementID:       statementID,
		ChannelID:           channelID,
		OrderID:             orderID,
		CooperationMode:     mode,
		Rate:                rate,
		CommissionAmount:    amount,
		Status:              CommissionRecordCalculated,
	}, nil
}

// CommissionBaseLine is one order line priced at its commission base price
type CommissionBaseLine struct {
	Quantity  decimal.Decimal
	BasePrice decimal.Decimal // floor price preferred, purchase price fallback, else zero
}

// ComputeRebateCommission is the flat-rate mode: orderAmount * rate,
// rounded to two decimals.
func ComputeRebateCommission(orderAmount, rate decimal.Decimal) decimal.Decimal {
	return orderAmount.Mul(rate).Round(2)
}

// ComputeBasePriceCommission is the margin mode: the profit over the summed
// base cost, floored at zero, times the rate.
func ComputeBasePriceCommission(orderAmount decimal.Decimal, lines []CommissionBaseLine, rate decimal.Decimal) decimal.Decimal {
	totalBase := decimal.Zero
	for _, line := range lines {
		totalBase = totalBase.Add(line.BasePrice.Mul(line.Quantity))
	}

	profit := orderAmount.Sub(totalBase)
	if profit.IsNegative() {
		profit = decimal.Zero
	}
	return profit.Mul(rate).Round(2)
}
