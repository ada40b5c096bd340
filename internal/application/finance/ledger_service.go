package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/shared"
)

// LedgerService posts balance movements. Every posting updates the account
// balance with a CAS guard and appends one immutable AccountTransaction in
// the same transaction, so the running balance and the ledger never diverge.
type LedgerService struct {
	accountRepo finance.FinanceAccountRepository
	txRepo      finance.AccountTransactionRepository
	numberGen   finance.DocumentNumberGenerator
	casRetries  int
	auditor     audit.Recorder
	tx          shared.TxManager
	logger      *zap.Logger
}

// NewLedgerService creates a new LedgerService. casRetries bounds the CAS
// retry loop on the account balance; conflicts beyond it are surfaced to
// the caller instead of spinning.
func NewLedgerService(
	accountRepo finance.FinanceAccountRepository,
	txRepo finance.AccountTransactionRepository,
	numberGen finance.DocumentNumberGenerator,
	casRetries int,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *LedgerService {
	if casRetries < 1 {
		casRetries = 1
	}
	return &LedgerService{
		accountRepo: accountRepo,
		txRepo:      txRepo,
		numberGen:   numberGen,
		casRetries:  casRetries,
		auditor:     auditor,
		tx:          tx,
		logger:      logger,
	}
}

// CreateAccount opens a new account with a zero balance
func (s *LedgerService) CreateAccount(ctx context.Context, tenantID uuid.UUID, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := finance.NewFinanceAccount(tenantID, req.Name, req.Type)
	if err != nil {
		return nil, err
	}
	account.AccountNo = req.AccountNo
	account.BankName = req.BankName
	account.Remark = req.Remark
	account.CreatedBy = req.UserID

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, account.TableName(), account.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{"name": account.Name, "type": account.Type})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// FreezeAccount blocks further postings to an account
func (s *LedgerService) FreezeAccount(ctx context.Context, tenantID, accountID uuid.UUID, userID *uuid.UUID) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindByID(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		account.Freeze()
		if err := s.accountRepo.Save(ctx, account); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, account.TableName(), account.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": finance.AccountStatusActive}),
				audit.Snapshot(map[string]any{"status": account.Status}),
			).
			WithUser(userID).
			WithDetails("account frozen")
		return s.auditor.Record(ctx, entry)
	})
}

// ListAccounts retrieves accounts matching the filter
func (s *LedgerService) ListAccounts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, ToAccountResponse(&accounts[i]))
	}
	return responses, nil
}

// ListTransactions retrieves ledger rows for one account, newest first
func (s *LedgerService) ListTransactions(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]finance.AccountTransaction, error) {
	return s.txRepo.FindByAccount(ctx, tenantID, accountID, filter)
}

// Post applies one balance movement. The balance update is CAS-guarded on
// the previously read balance and retried on conflict; when the swap lands,
// the matching ledger row is appended in the same transaction. A debit that
// would take the balance negative is rejected.
func (s *LedgerService) Post(ctx context.Context, tenantID uuid.UUID, req PostRequest) (*finance.AccountTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "posting amount must be positive")
	}

	var posted *finance.AccountTransaction
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		transactionNo, err := s.numberGen.Next(ctx, tenantID, finance.PrefixTransaction)
		if err != nil {
			return err
		}

		for attempt := 1; ; attempt++ {
			var account *finance.FinanceAccount
			if attempt == 1 {
				account, err = s.accountRepo.FindByID(ctx, tenantID, req.AccountID)
			} else {
				// after a lost swap, reread under a row lock so the
				// retry works from a settled balance
				account, err = s.accountRepo.FindByIDForUpdate(ctx, tenantID, req.AccountID)
			}
			if err != nil {
				return err
			}
			if !account.IsActive() {
				return shared.NewDomainError(shared.CodeInvalidState,
					fmt.Sprintf("account %s is frozen", account.Name))
			}

			movement, err := finance.NewAccountTransaction(tenantID, transactionNo, req.AccountID,
				req.Direction, req.Amount, account.Balance)
			if err != nil {
				return err
			}
			if movement.BalanceAfter.IsNegative() {
				return shared.NewDomainError(shared.CodeValidation,
					fmt.Sprintf("insufficient balance on account %s", account.Name))
			}

			err = s.accountRepo.CompareAndSwapBalance(ctx, tenantID, req.AccountID,
				account.Balance, movement.BalanceAfter)
			if err == nil {
				posted = movement
				break
			}
			if !shared.IsCode(err, shared.CodeConcurrencyConflict) {
				return err
			}
			if attempt >= s.casRetries {
				return err
			}
			s.logger.Warn("balance swap conflict, retrying",
				zap.String("tenant_id", tenantID.String()),
				zap.String("account_id", req.AccountID.String()),
				zap.Int("attempt", attempt))
		}

		posted.CreatedBy = req.UserID
		posted.WithReferences(req.ReceiptBillID, req.OrderID).WithSummary(req.Summary)

		if err := s.txRepo.Save(ctx, posted); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, posted.TableName(), posted.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"transactionNo": posted.TransactionNo,
				"direction":     posted.Direction,
				"amount":        posted.Amount,
				"balanceAfter":  posted.BalanceAfter,
			})).
			WithUser(req.UserID).
			WithDetails(req.Summary)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ledger posting applied",
		zap.String("tenant_id", tenantID.String()),
		zap.String("transaction_no", posted.TransactionNo),
		zap.String("direction", string(posted.Direction)),
		zap.String("amount", posted.Amount.String()))
	return posted, nil
}
