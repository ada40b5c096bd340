package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// ExceptionStatus tracks whether an exception has been handled
type ExceptionStatus string

const (
	ExceptionStatusOpen     ExceptionStatus = "OPEN"
	ExceptionStatusResolved ExceptionStatus = "RESOLVED"
)

// ReconciliationException records a verified payment allocation that could
// not be reconciled because its order has no AR statement. Without this
// record the money would be received but invisible to receivables tracking.
type ReconciliationException struct {
	shared.TenantAggregateRoot
	ReceiptBillID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reason        string          `gorm:"type:varchar(200);not null"`
	Status        ExceptionStatus `gorm:"type:varchar(10);not null;default:'OPEN'"`
	ResolvedBy    *uuid.UUID      `gorm:"type:uuid"`
	ResolvedAt    *time.Time
	Remark        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReconciliationException) TableName() string {
	return "reconciliation_exceptions"
}

// NewReconciliationException records one unreconcilable allocation
func NewReconciliationException(tenantID, receiptBillID, orderID uuid.UUID, amount decimal.Decimal, reason string) *ReconciliationException {
	return &ReconciliationException{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReceiptBillID:       receiptBillID,
		OrderID:             orderID,
		Amount:              amount,
		Reason:              reason,
		Status:              ExceptionStatusOpen,
	}
}

// Resolve marks the exception handled by an operator
func (e *ReconciliationException) Resolve(userID uuid.UUID, remark string) error {
	if e.Status == ExceptionStatusResolved {
		return shared.NewDomainError("INVALID_STATE", "reconciliation exception is already resolved")
	}

	now := time.Now()
	e.Status = ExceptionStatusResolved
	e.ResolvedBy = &userID
	e.ResolvedAt = &now
	e.Remark = remark
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}
