package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// TransactionDirection is the sign of a ledger movement
type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "CREDIT" // money in
	DirectionDebit  TransactionDirection = "DEBIT"  // money out
)

// AccountTransaction is one immutable ledger row. It records the balance
// before and after the movement so the running balance can always be
// reconstructed and verified.
type AccountTransaction struct {
	shared.BaseEntity
	TenantID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	TransactionNo string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_tx_tenant_no,priority:2"`
	AccountID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Direction     TransactionDirection `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	BalanceBefore decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	BalanceAfter  decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	ReceiptBillID *uuid.UUID           `gorm:"type:uuid;index"`
	OrderID       *uuid.UUID           `gorm:"type:uuid;index"`
	Summary       string               `gorm:"type:varchar(500)"`
	CreatedBy     *uuid.UUID           `gorm:"type:uuid"`
	OccurredAt    time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountTransaction) TableName() string {
	return "account_transactions"
}

// NewAccountTransaction builds a ledger row for one balance movement.
// The invariant amount == balanceAfter - balanceBefore is enforced here
// rather than trusted from the caller.
func NewAccountTransaction(tenantID uuid.UUID, transactionNo string, accountID uuid.UUID,
	direction TransactionDirection, amount, balanceBefore decimal.Decimal) (*AccountTransaction, error) {

	if transactionNo == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "transaction number cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "transaction amount must be positive")
	}

	var balanceAfter decimal.Decimal
	switch direction {
	case DirectionCredit:
		balanceAfter = balanceBefore.Add(amount)
	case DirectionDebit:
		balanceAfter = balanceBefore.Sub(amount)
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", "unknown transaction direction: "+string(direction))
	}

	return &AccountTransaction{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		TransactionNo: transactionNo,
		AccountID:     accountID,
		Direction:     direction,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		OccurredAt:    time.Now(),
	}, nil
}

// WithReferences links the transaction to the bill and order that caused it
func (t *AccountTransaction) WithReferences(receiptBillID, orderID *uuid.UUID) *AccountTransaction {
	t.ReceiptBillID = receiptBillID
	t.OrderID = orderID
	return t
}

// WithSummary attaches a human-readable summary
func (t *AccountTransaction) WithSummary(summary string) *AccountTransaction {
	t.Summary = summary
	return t
}
