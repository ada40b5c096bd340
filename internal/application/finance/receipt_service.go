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
	"github.com/furnish/backend/internal/domain/shared"
)

// ApprovalSubmission is everything the approval system needs to route a bill
type ApprovalSubmission struct {
	TenantID uuid.UUID
	FlowCode string
	BillID   uuid.UUID
	BillNo   string
	Amount   decimal.Decimal
}

// ApprovalSubmitter hands a bill to the external approval system. It runs
// inside the submission transaction: a failed handoff rolls the status
// change back so the bill stays DRAFT.
type ApprovalSubmitter interface {
	Submit(ctx context.Context, submission ApprovalSubmission) error
}

// ReceiptService drives the bill lifecycle from draft through approval to
// the ledger. Verification posts the account movement and reconciles every
// allocation in one transaction.
type ReceiptService struct {
	billRepo    finance.ReceiptBillRepository
	accountRepo finance.FinanceAccountRepository
	numberGen   finance.DocumentNumberGenerator
	settings    identity.SettingsProvider
	submitter   ApprovalSubmitter
	ledger      *LedgerService
	reconciler  *ReconciliationService
	auditor     audit.Recorder
	tx          shared.TxManager
	logger      *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	billRepo finance.ReceiptBillRepository,
	accountRepo finance.FinanceAccountRepository,
	numberGen finance.DocumentNumberGenerator,
	settings identity.SettingsProvider,
	submitter ApprovalSubmitter,
	ledger *LedgerService,
	reconciler *ReconciliationService,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		billRepo:    billRepo,
		accountRepo: accountRepo,
		numberGen:   numberGen,
		settings:    settings,
		submitter:   submitter,
		ledger:      ledger,
		reconciler:  reconciler,
		auditor:     auditor,
		tx:          tx,
		logger:      logger,
	}
}

// Create records a draft bill against an active account
func (s *ReceiptService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBillRequest) (*BillResponse, error) {
	var bill *finance.ReceiptBill
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.FindByID(ctx, tenantID, req.AccountID)
		if err != nil {
			return err
		}
		if !account.IsActive() {
			return shared.NewDomainError(shared.CodeInvalidState,
				fmt.Sprintf("account %s is frozen", account.Name))
		}

		prefix := finance.PrefixReceiptBill
		if req.Kind == finance.BillKindPayment {
			prefix = finance.PrefixPaymentOrder
		}
		billNo, err := s.numberGen.Next(ctx, tenantID, prefix)
		if err != nil {
			return err
		}

		allocations := make([]finance.BillAllocation, 0, len(req.Allocations))
		for _, a := range req.Allocations {
			allocations = append(allocations, finance.BillAllocation{
				OrderID:     a.OrderID,
				Amount:      a.Amount,
				StatementID: a.StatementID,
				ScheduleID:  a.ScheduleID,
				Remark:      a.Remark,
			})
		}

		bill, err = finance.NewReceiptBill(tenantID, billNo, req.Kind, req.Type,
			req.AccountID, req.TotalAmount, allocations)
		if err != nil {
			return err
		}
		bill.ProofURL = req.ProofURL
		bill.Remark = req.Remark
		bill.CreatedBy = req.UserID

		if err := s.billRepo.Save(ctx, bill); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, bill.TableName(), bill.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"billNo": bill.BillNo,
				"kind":   bill.Kind,
				"total":  bill.TotalAmount,
			})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bill created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("bill_no", bill.BillNo),
		zap.String("kind", string(bill.Kind)))

	response := ToBillResponse(bill)
	return &response, nil
}

// SubmitForApproval routes a draft bill into the approval flow selected by
// the tenant's scale and amount threshold. The status change and the
// external handoff share one transaction.
func (s *ReceiptService) SubmitForApproval(ctx context.Context, tenantID uuid.UUID, req SubmitBillRequest) (*BillResponse, error) {
	var bill *finance.ReceiptBill
	var flowCode string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		bill, err = s.billRepo.FindByID(ctx, tenantID, req.BillID)
		if err != nil {
			return err
		}

		settings, err := s.settings.Settings(ctx, tenantID)
		if err != nil {
			return err
		}
		flowCode = finance.ApprovalFlowCode(settings.Scale, bill.TotalAmount, settings.LargeAmountThreshold)

		// a rejected bill re-enters the flow from REJECTED, not DRAFT
		previousStatus := bill.Status
		if err := bill.SubmitForApproval(); err != nil {
			return err
		}
		if err := s.billRepo.SaveWithVersion(ctx, bill, req.Version); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, bill.TableName(), bill.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": previousStatus}),
				audit.Snapshot(map[string]any{"status": bill.Status, "flowCode": flowCode}),
			).
			WithUser(req.UserID).
			WithDetails("submitted to approval flow " + flowCode)
		if err := s.auditor.Record(ctx, entry); err != nil {
			return err
		}

		return s.submitter.Submit(ctx, ApprovalSubmission{
			TenantID: tenantID,
			FlowCode: flowCode,
			BillID:   bill.ID,
			BillNo:   bill.BillNo,
			Amount:   bill.TotalAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bill submitted for approval",
		zap.String("tenant_id", tenantID.String()),
		zap.String("bill_no", bill.BillNo),
		zap.String("flow_code", flowCode))

	response := ToBillResponse(bill)
	return &response, nil
}

// Decide applies an approval decision callback. Approval verifies the bill,
// posts the account movement and reconciles every allocation atomically;
// rejection returns the bill to the submitter without touching the ledger.
func (s *ReceiptService) Decide(ctx context.Context, tenantID uuid.UUID, req ApproveBillRequest) (*BillResponse, error) {
	if req.Approved {
		return s.verify(ctx, tenantID, req)
	}
	return s.reject(ctx, tenantID, req)
}

// GetByID retrieves a bill with its allocation lines
func (s *ReceiptService) GetByID(ctx context.Context, tenantID, billID uuid.UUID) (*BillResponse, error) {
	bill, err := s.billRepo.FindByID(ctx, tenantID, billID)
	if err != nil {
		return nil, err
	}
	response := ToBillResponse(bill)
	return &response, nil
}

// List retrieves bills matching the filter
func (s *ReceiptService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BillResponse, error) {
	bills, err := s.billRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]BillResponse, 0, len(bills))
	for i := range bills {
		responses = append(responses, ToBillResponse(&bills[i]))
	}
	return responses, nil
}

func (s *ReceiptService) verify(ctx context.Context, tenantID uuid.UUID, req ApproveBillRequest) (*BillResponse, error) {
	if req.ApproverID == nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "approver is required")
	}

	var bill *finance.ReceiptBill
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		bill, err = s.billRepo.FindByID(ctx, tenantID, req.BillID)
		if err != nil {
			return err
		}

		version := bill.Version
		if err := bill.MarkVerified(*req.ApproverID); err != nil {
			return err
		}
		for i := range bill.Items {
			if err := bill.ConsumeAllocation(bill.Items[i].Amount); err != nil {
				return err
			}
		}
		if err := s.billRepo.SaveWithVersion(ctx, bill, version); err != nil {
			return err
		}

		direction := finance.DirectionCredit
		if bill.Kind == finance.BillKindPayment {
			direction = finance.DirectionDebit
		}
		if _, err := s.ledger.Post(ctx, tenantID, PostRequest{
			AccountID:     bill.AccountID,
			Direction:     direction,
			Amount:        bill.TotalAmount,
			ReceiptBillID: &bill.ID,
			Summary:       fmt.Sprintf("bill %s verified", bill.BillNo),
			UserID:        req.ApproverID,
		}); err != nil {
			return err
		}

		for i := range bill.Items {
			if err := s.reconciler.ApplyAllocation(ctx, tenantID, bill, bill.Items[i]); err != nil {
				return err
			}
		}

		entry := audit.NewEntry(tenantID, bill.TableName(), bill.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": finance.BillStatusPendingApproval}),
				audit.Snapshot(map[string]any{"status": bill.Status}),
			).
			WithUser(req.ApproverID).
			WithDetails("bill approved and verified")
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bill verified",
		zap.String("tenant_id", tenantID.String()),
		zap.String("bill_no", bill.BillNo),
		zap.String("amount", bill.TotalAmount.String()))

	response := ToBillResponse(bill)
	return &response, nil
}

func (s *ReceiptService) reject(ctx context.Context, tenantID uuid.UUID, req ApproveBillRequest) (*BillResponse, error) {
	var bill *finance.ReceiptBill
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		bill, err = s.billRepo.FindByID(ctx, tenantID, req.BillID)
		if err != nil {
			return err
		}

		version := bill.Version
		if err := bill.Reject(req.Reason); err != nil {
			return err
		}
		if err := s.billRepo.SaveWithVersion(ctx, bill, version); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, bill.TableName(), bill.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": finance.BillStatusPendingApproval}),
				audit.Snapshot(map[string]any{"status": bill.Status}),
			).
			WithUser(req.ApproverID).
			WithDetails("bill rejected: " + req.Reason)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bill rejected",
		zap.String("tenant_id", tenantID.String()),
		zap.String("bill_no", bill.BillNo),
		zap.String("reason", req.Reason))

	response := ToBillResponse(bill)
	return &response, nil
}
