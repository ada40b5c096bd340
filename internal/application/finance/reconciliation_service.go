package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/identity"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

// ReconciliationService applies verified payment allocations to AR
// statements and keeps order paid amounts in step. Allocations whose order
// has no statement follow the tenant's missing-statement policy.
type ReconciliationService struct {
	orderRepo        sales.OrderRepository
	statementRepo    finance.ARStatementRepository
	exceptionRepo    finance.ReconciliationExceptionRepository
	settings         identity.SettingsProvider
	casRetries       int
	defaultTolerance decimal.Decimal
	commission       *CommissionService
	numberGen        finance.DocumentNumberGenerator
	auditor          audit.Recorder
	tx               shared.TxManager
	logger           *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService. casRetries
// bounds the CAS retry loop on the statement's received amount, and
// defaultTolerance is the allowed difference used for tenants that have not
// configured one.
func NewReconciliationService(
	orderRepo sales.OrderRepository,
	statementRepo finance.ARStatementRepository,
	exceptionRepo finance.ReconciliationExceptionRepository,
	settings identity.SettingsProvider,
	casRetries int,
	defaultTolerance decimal.Decimal,
	commission *CommissionService,
	numberGen finance.DocumentNumberGenerator,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *ReconciliationService {
	if casRetries < 1 {
		casRetries = 1
	}
	return &ReconciliationService{
		orderRepo:        orderRepo,
		statementRepo:    statementRepo,
		exceptionRepo:    exceptionRepo,
		settings:         settings,
		casRetries:       casRetries,
		defaultTolerance: defaultTolerance,
		commission:       commission,
		numberGen:        numberGen,
		auditor:          auditor,
		tx:               tx,
		logger:           logger,
	}
}

// CreateStatement opens the receivable for an order. Each order has at most
// one statement; the unique index on (tenant, order) backs that up.
func (s *ReconciliationService) CreateStatement(ctx context.Context, tenantID, orderID uuid.UUID, userID *uuid.UUID) (*StatementResponse, error) {
	var statement *finance.ARStatement
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		existing, err := s.statementRepo.FindByOrderID(ctx, tenantID, orderID)
		if err != nil && !shared.IsCode(err, shared.CodeNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("order %s already has statement %s", order.OrderNo, existing.StatementNo))
		}

		statementNo, err := s.numberGen.Next(ctx, tenantID, finance.PrefixStatement)
		if err != nil {
			return err
		}
		statement, err = finance.NewARStatement(tenantID, statementNo, orderID, order.TotalAmount, order.ChannelID)
		if err != nil {
			return err
		}
		statement.CreatedBy = userID

		if err := s.statementRepo.Save(ctx, statement); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, statement.TableName(), statement.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"statementNo": statement.StatementNo,
				"orderId":     orderID,
				"total":       statement.TotalAmount,
			})).
			WithUser(userID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToStatementResponse(statement)
	return &response, nil
}

// ApplyAllocation reconciles one verified allocation line: the statement's
// received amount is advanced with a CAS guard, the order's paid amount
// follows, and a statement that just settled triggers the channel
// commission. Must run inside the caller's transaction so the whole
// verification commits or rolls back as one.
func (s *ReconciliationService) ApplyAllocation(ctx context.Context, tenantID uuid.UUID,
	bill *finance.ReceiptBill, item finance.ReceiptBillItem) error {

	settings, err := s.settings.Settings(ctx, tenantID)
	if err != nil {
		return err
	}

	statement, err := s.statementRepo.FindByOrderID(ctx, tenantID, item.OrderID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return s.handleMissingStatement(ctx, tenantID, bill, item, settings.ARPayment.MissingStatementPolicy)
		}
		return err
	}

	tolerance := settings.ARPayment.AllowedDifference
	if tolerance.IsZero() {
		tolerance = s.defaultTolerance
	}
	var application finance.ReceiptApplication
	for attempt := 1; ; attempt++ {
		expected := statement.ReceivedAmount
		application, err = statement.ApplyReceipt(item.Amount, tolerance)
		if err != nil {
			return err
		}

		err = s.statementRepo.CompareAndSwapReceived(ctx, statement, expected)
		if err == nil {
			break
		}
		if !shared.IsCode(err, shared.CodeConcurrencyConflict) {
			return err
		}
		if attempt >= s.casRetries {
			return err
		}
		s.logger.Warn("statement swap conflict, reloading",
			zap.String("tenant_id", tenantID.String()),
			zap.String("statement_no", statement.StatementNo),
			zap.Int("attempt", attempt))
		statement, err = s.statementRepo.FindByOrderID(ctx, tenantID, item.OrderID)
		if err != nil {
			return err
		}
	}

	order, err := s.orderRepo.FindByID(ctx, tenantID, item.OrderID)
	if err != nil {
		return err
	}
	orderVersion := order.Version
	if err := order.ApplyPayment(item.Amount); err != nil {
		return err
	}
	if err := s.orderRepo.SaveWithVersion(ctx, order, orderVersion); err != nil {
		return err
	}

	entry := audit.NewEntry(tenantID, statement.TableName(), statement.ID, audit.ActionUpdate).
		WithValues(
			audit.Snapshot(map[string]any{"receivedAmount": application.ReceivedBefore}),
			audit.Snapshot(map[string]any{"receivedAmount": application.ReceivedAfter, "status": statement.Status}),
		).
		WithDetails(fmt.Sprintf("receipt %s applied to statement %s", bill.BillNo, statement.StatementNo))
	if err := s.auditor.Record(ctx, entry); err != nil {
		return err
	}

	if application.BecamePaid {
		s.logger.Info("statement settled",
			zap.String("tenant_id", tenantID.String()),
			zap.String("statement_no", statement.StatementNo),
			zap.String("order_no", order.OrderNo))
		if statement.ChannelID != nil {
			if err := s.commission.Calculate(ctx, tenantID, statement); err != nil {
				return err
			}
			// persist the commission stamp written by Calculate
			if err := s.statementRepo.Save(ctx, statement); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetStatement retrieves one statement by ID
func (s *ReconciliationService) GetStatement(ctx context.Context, tenantID, statementID uuid.UUID) (*StatementResponse, error) {
	statement, err := s.statementRepo.FindByID(ctx, tenantID, statementID)
	if err != nil {
		return nil, err
	}
	resp := ToStatementResponse(statement)
	return &resp, nil
}

// ListStatements retrieves statements matching the filter
func (s *ReconciliationService) ListStatements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StatementResponse, error) {
	statements, err := s.statementRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]StatementResponse, 0, len(statements))
	for i := range statements {
		out = append(out, ToStatementResponse(&statements[i]))
	}
	return out, nil
}

// ListExceptions retrieves open reconciliation exceptions
func (s *ReconciliationService) ListExceptions(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.ReconciliationException, error) {
	return s.exceptionRepo.FindOpen(ctx, tenantID, filter)
}

// ResolveException marks an exception handled by an operator
func (s *ReconciliationService) ResolveException(ctx context.Context, tenantID, exceptionID uuid.UUID, userID uuid.UUID, remark string) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		exceptions, err := s.exceptionRepo.FindOpen(ctx, tenantID, shared.Filter{})
		if err != nil {
			return err
		}
		for i := range exceptions {
			if exceptions[i].ID != exceptionID {
				continue
			}
			exception := &exceptions[i]
			if err := exception.Resolve(userID, remark); err != nil {
				return err
			}
			if err := s.exceptionRepo.Save(ctx, exception); err != nil {
				return err
			}
			entry := audit.NewEntry(tenantID, exception.TableName(), exception.ID, audit.ActionUpdate).
				WithValues(
					audit.Snapshot(map[string]any{"status": finance.ExceptionStatusOpen}),
					audit.Snapshot(map[string]any{"status": exception.Status}),
				).
				WithUser(&userID).
				WithDetails(remark)
			return s.auditor.Record(ctx, entry)
		}
		return shared.NewDomainError(shared.CodeNotFound,
			fmt.Sprintf("open reconciliation exception %s not found", exceptionID))
	})
}

// handleMissingStatement applies the tenant's policy for an allocation whose
// order has no receivable on file. LOG_ONLY drops it with a warning;
// EXCEPTION_QUEUE records it for an operator. Neither fails the bill.
func (s *ReconciliationService) handleMissingStatement(ctx context.Context, tenantID uuid.UUID,
	bill *finance.ReceiptBill, item finance.ReceiptBillItem, policy identity.MissingStatementPolicy) error {

	switch policy {
	case identity.MissingStatementLogOnly:
		s.logger.Warn("no statement for order, allocation skipped",
			zap.String("tenant_id", tenantID.String()),
			zap.String("bill_no", bill.BillNo),
			zap.String("order_id", item.OrderID.String()),
			zap.String("amount", item.Amount.String()))
		return nil

	default:
		exception := finance.NewReconciliationException(tenantID, bill.ID, item.OrderID,
			item.Amount, "order has no receivable statement")
		if err := s.exceptionRepo.Save(ctx, exception); err != nil {
			return err
		}

		s.logger.Warn("no statement for order, exception queued",
			zap.String("tenant_id", tenantID.String()),
			zap.String("bill_no", bill.BillNo),
			zap.String("order_id", item.OrderID.String()))

		entry := audit.NewEntry(tenantID, exception.TableName(), exception.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"billId":  bill.ID,
				"orderId": item.OrderID,
				"amount":  item.Amount,
			})).
			WithDetails("unreconcilable allocation from bill " + bill.BillNo)
		return s.auditor.Record(ctx, entry)
	}
}
