package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// ARStatus is the settlement status of a receivable statement
type ARStatus string

const (
	ARStatusPending ARStatus = "PENDING"
	ARStatusPartial ARStatus = "PARTIAL"
	ARStatusPaid    ARStatus = "PAID"
)

// CommissionStatus tracks commission settlement on a statement
type CommissionStatus string

const (
	CommissionStatusNone       CommissionStatus = "NONE"
	CommissionStatusCalculated CommissionStatus = "CALCULATED"
)

// ARStatement tracks the outstanding receivable for one order. The received
// amount only ever increases and the status only moves forward
// PENDING -> PARTIAL -> PAID; repository updates are CAS-guarded on the
// previously read receivedAmount.
type ARStatement struct {
	shared.TenantAggregateRoot
	StatementNo      string           `gorm:"type:varchar(50);not null;uniqueIndex:idx_ar_tenant_no,priority:2"`
	OrderID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_ar_tenant_order,priority:2"`
	ChannelID        *uuid.UUID       `gorm:"type:uuid;index"`
	TotalAmount      decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	ReceivedAmount   decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	PendingAmount    decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Status           ARStatus         `gorm:"type:varchar(10);not null;default:'PENDING';index"`
	CommissionRate   *decimal.Decimal `gorm:"type:decimal(8,4)"`
	CommissionAmount *decimal.Decimal `gorm:"type:decimal(18,2)"`
	CommissionStatus CommissionStatus `gorm:"type:varchar(20);not null;default:'NONE'"`
	DueDate          *time.Time
	Remark           string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ARStatement) TableName() string {
	return "ar_statements"
}

// NewARStatement creates a pending receivable for an order
func NewARStatement(tenantID uuid.UUID, statementNo string, orderID uuid.UUID,
	totalAmount decimal.Decimal, channelID *uuid.UUID) (*ARStatement, error) {

	if statementNo == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "statement number cannot be empty")
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "statement total must be positive")
	}

	return &ARStatement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StatementNo:         statementNo,
		OrderID:             orderID,
		ChannelID:           channelID,
		TotalAmount:         totalAmount.Round(2),
		ReceivedAmount:      decimal.Zero,
		PendingAmount:       totalAmount.Round(2),
		Status:              ARStatusPending,
		CommissionStatus:    CommissionStatusNone,
	}, nil
}

// ReceiptApplication is the outcome of applying one payment allocation
type ReceiptApplication struct {
	ReceivedBefore decimal.Decimal
	ReceivedAfter  decimal.Decimal
	BecamePaid     bool // this application flipped the statement to PAID
}

// ApplyReceipt credits a verified payment allocation against the statement.
// The tolerance treats a small positive pending amount as settled; it comes
// from tenant finance settings, never a hard-coded constant. Status moves
// forward only: a PAID statement never regresses.
func (s *ARStatement) ApplyReceipt(amount, tolerance decimal.Decimal) (ReceiptApplication, error) {
	if !amount.IsPositive() {
		return ReceiptApplication{}, shared.NewDomainError("VALIDATION_ERROR", "receipt amount must be positive")
	}
	if tolerance.IsNegative() {
		return ReceiptApplication{}, shared.NewDomainError("VALIDATION_ERROR", "tolerance cannot be negative")
	}

	app := ReceiptApplication{ReceivedBefore: s.ReceivedAmount}
	wasPaid := s.Status == ARStatusPaid

	s.ReceivedAmount = s.ReceivedAmount.Add(amount)
	s.PendingAmount = s.TotalAmount.Sub(s.ReceivedAmount)
	app.ReceivedAfter = s.ReceivedAmount

	switch {
	case s.PendingAmount.LessThanOrEqual(tolerance):
		s.Status = ARStatusPaid
	case s.ReceivedAmount.IsPositive() && !wasPaid:
		s.Status = ARStatusPartial
	}

	app.BecamePaid = !wasPaid && s.Status == ARStatusPaid
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return app, nil
}

// StampCommission records the calculated commission on the statement
func (s *ARStatement) StampCommission(rate, amount decimal.Decimal) error {
	if s.Status != ARStatusPaid {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("commission applies only to a PAID statement, not %s", s.Status))
	}
	if s.CommissionStatus == CommissionStatusCalculated {
		return shared.NewDomainError("INVALID_STATE", "commission has already been calculated for this statement")
	}

	s.CommissionRate = &rate
	s.CommissionAmount = &amount
	s.CommissionStatus = CommissionStatusCalculated
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
