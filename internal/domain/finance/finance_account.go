package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// AccountType represents the kind of finance account
type AccountType string

const (
	AccountTypeCash   AccountType = "CASH"
	AccountTypeBank   AccountType = "BANK"
	AccountTypeWechat AccountType = "WECHAT"
	AccountTypeAlipay AccountType = "ALIPAY"
)

// AccountStatus represents the status of a finance account
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusFrozen AccountStatus = "frozen"
)

// FinanceAccount is a money account holding a single running balance.
// The balance changes only through ledger posting, which writes a matching
// AccountTransaction in the same database transaction; the balance column is
// additionally CAS-guarded in the repository so concurrent postings never
// lose an update.
type FinanceAccount struct {
	shared.TenantAggregateRoot
	Name      string          `gorm:"type:varchar(100);not null"`
	Type      AccountType     `gorm:"type:varchar(20);not null"`
	AccountNo string          `gorm:"type:varchar(100)"`
	BankName  string          `gorm:"type:varchar(200)"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status    AccountStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	Remark    string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FinanceAccount) TableName() string {
	return "finance_accounts"
}

// NewFinanceAccount creates an account with a zero balance
func NewFinanceAccount(tenantID uuid.UUID, name string, accountType AccountType) (*FinanceAccount, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "account name cannot be empty")
	}
	switch accountType {
	case AccountTypeCash, AccountTypeBank, AccountTypeWechat, AccountTypeAlipay:
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", "unknown account type: "+string(accountType))
	}

	return &FinanceAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                accountType,
		Balance:             decimal.Zero,
		Status:              AccountStatusActive,
	}, nil
}

// IsActive returns true when the account may receive postings
func (a *FinanceAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Freeze blocks further postings to the account
func (a *FinanceAccount) Freeze() {
	a.Status = AccountStatusFrozen
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
