package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/shared"
)

// GormFinanceAccountRepository implements finance.FinanceAccountRepository
type GormFinanceAccountRepository struct {
	db *gorm.DB
}

// NewGormFinanceAccountRepository creates a new GormFinanceAccountRepository
func NewGormFinanceAccountRepository(db *gorm.DB) *GormFinanceAccountRepository {
	return &GormFinanceAccountRepository{db: db}
}

// FindByID finds an account by ID within a tenant
func (r *GormFinanceAccountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.FinanceAccount, error) {
	var account finance.FinanceAccount
	if err := conn(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindByIDForUpdate loads the account under a pessimistic row lock.
// Must be called inside a transaction.
func (r *GormFinanceAccountRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.FinanceAccount, error) {
	var account finance.FinanceAccount
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAll finds all accounts for a tenant matching the filter
func (r *GormFinanceAccountRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.FinanceAccount, error) {
	var accounts []finance.FinanceAccount
	query := conn(ctx, r.db).Model(&finance.FinanceAccount{}).Where("tenant_id = ?", tenantID)
	query = applySearch(query, filter, "name", "account_no")
	if accountType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", accountType)
	}
	if err := applyFilter(query, filter).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Save creates or updates an account
func (r *GormFinanceAccountRepository) Save(ctx context.Context, account *finance.FinanceAccount) error {
	return conn(ctx, r.db).Save(account).Error
}

// CompareAndSwapBalance sets the balance to next only if the stored balance
// still equals expected. The guarded UPDATE makes the lost-update window a
// plain zero-rows-affected result instead of a race.
func (r *GormFinanceAccountRepository) CompareAndSwapBalance(ctx context.Context, tenantID, id uuid.UUID, expected, next decimal.Decimal) error {
	result := conn(ctx, r.db).Model(&finance.FinanceAccount{}).
		Where("tenant_id = ? AND id = ? AND balance = ?", tenantID, id, expected).
		Update("balance", next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ finance.FinanceAccountRepository = (*GormFinanceAccountRepository)(nil)

// GormAccountTransactionRepository implements the append-only ledger store
type GormAccountTransactionRepository struct {
	db *gorm.DB
}

// NewGormAccountTransactionRepository creates a new GormAccountTransactionRepository
func NewGormAccountTransactionRepository(db *gorm.DB) *GormAccountTransactionRepository {
	return &GormAccountTransactionRepository{db: db}
}

// FindByAccount finds transactions for one account, newest first
func (r *GormAccountTransactionRepository) FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]finance.AccountTransaction, error) {
	var transactions []finance.AccountTransaction
	query := conn(ctx, r.db).Model(&finance.AccountTransaction{}).
		Where("tenant_id = ? AND account_id = ?", tenantID, accountID).
		Order("occurred_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if direction, ok := filter.Filters["direction"]; ok {
		query = query.Where("direction = ?", direction)
	}
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// Save inserts a new ledger row
func (r *GormAccountTransactionRepository) Save(ctx context.Context, tx *finance.AccountTransaction) error {
	return conn(ctx, r.db).Create(tx).Error
}

var _ finance.AccountTransactionRepository = (*GormAccountTransactionRepository)(nil)
