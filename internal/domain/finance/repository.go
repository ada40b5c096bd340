package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// FinanceAccountRepository defines the interface for account persistence
type FinanceAccountRepository interface {
	// FindByID finds an account by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*FinanceAccount, error)

	// FindByIDForUpdate loads the account under a pessimistic row lock.
	// Must be called inside a transaction.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*FinanceAccount, error)

	// FindAll finds all accounts for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]FinanceAccount, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *FinanceAccount) error

	// CompareAndSwapBalance sets the balance to next only if the stored
	// balance still equals expected. Returns shared.ErrConcurrencyConflict
	// when a concurrent posting changed the balance first.
	CompareAndSwapBalance(ctx context.Context, tenantID, id uuid.UUID, expected, next decimal.Decimal) error
}

// AccountTransactionRepository defines the interface for ledger rows.
// Transactions are append-only; there is no update or delete.
type AccountTransactionRepository interface {
	// FindByAccount finds transactions for one account, newest first
	FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]AccountTransaction, error)

	// Save inserts a new ledger row
	Save(ctx context.Context, tx *AccountTransaction) error
}

// ReceiptBillRepository defines the interface for bill persistence
type ReceiptBillRepository interface {
	// FindByID finds a bill with its items by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ReceiptBill, error)

	// FindAll finds all bills for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReceiptBill, error)

	// Save creates or updates a bill and its items
	Save(ctx context.Context, bill *ReceiptBill) error

	// SaveWithVersion updates the bill only if the stored version matches
	// expectedVersion
	SaveWithVersion(ctx context.Context, bill *ReceiptBill, expectedVersion int) error
}

// ARStatementRepository defines the interface for receivable persistence
type ARStatementRepository interface {
	// FindByID finds a statement by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ARStatement, error)

	// FindByOrderID finds the statement for an order.
	// Returns shared.ErrNotFound when the order has no statement.
	FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*ARStatement, error)

	// FindAll finds all statements for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ARStatement, error)

	// Save creates or updates a statement
	Save(ctx context.Context, statement *ARStatement) error

	// CompareAndSwapReceived persists the statement's received amount,
	// pending amount, status and commission fields only if the stored
	// receivedAmount still equals expectedReceived. Returns
	// shared.ErrConcurrencyConflict when a concurrent reconciliation got
	// there first.
	CompareAndSwapReceived(ctx context.Context, statement *ARStatement, expectedReceived decimal.Decimal) error
}

// CommissionRecordRepository defines the interface for commission persistence
type CommissionRecordRepository interface {
	// FindByStatementID finds the commission record for a statement.
	// Returns shared.ErrNotFound when none exists.
	FindByStatementID(ctx context.Context, tenantID, statementID uuid.UUID) (*CommissionRecord, error)

	// FindAll finds all commission records for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CommissionRecord, error)

	// Save inserts a commission record. Returns shared.ErrAlreadyExists when
	// a record for the same statement was inserted concurrently.
	Save(ctx context.Context, record *CommissionRecord) error
}

// PaymentScheduleRepository defines the interface for payment plan stages
type PaymentScheduleRepository interface {
	// FindByOrderID finds the stages for an order, in stage order
	FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]PaymentSchedule, error)

	// FindByID finds one stage by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentSchedule, error)

	// SaveBatch inserts the generated stages of one plan
	SaveBatch(ctx context.Context, schedules []PaymentSchedule) error

	// Save updates one stage
	Save(ctx context.Context, schedule *PaymentSchedule) error
}

// ReconciliationExceptionRepository defines the interface for the exception
// queue written when reconciliation finds no AR statement.
type ReconciliationExceptionRepository interface {
	// FindOpen finds unresolved exceptions for a tenant
	FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReconciliationException, error)

	// Save creates or updates an exception
	Save(ctx context.Context, exception *ReconciliationException) error
}

// DocumentNumberGenerator produces business document numbers for finance
// documents (bills, transactions, statements, commissions).
type DocumentNumberGenerator interface {
	Next(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}

// Document number prefixes
const (
	PrefixReceiptBill  = "REC"
	PrefixPaymentOrder = "PAY"
	PrefixTransaction  = "TX"
	PrefixStatement    = "AR"
	PrefixCommission   = "COMM"
)
