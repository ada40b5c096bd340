package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/finance"
)

// CreateAccountRequest opens a new finance account
type CreateAccountRequest struct {
	Name      string              `json:"name" binding:"required,max=100"`
	Type      finance.AccountType `json:"type" binding:"required"`
	AccountNo string              `json:"accountNo" binding:"max=100"`
	BankName  string              `json:"bankName" binding:"max=200"`
	Remark    string              `json:"remark"`
	UserID    *uuid.UUID          `json:"-"`
}

// AccountResponse is the API shape of a finance account
type AccountResponse struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Type      finance.AccountType   `json:"type"`
	AccountNo string                `json:"accountNo,omitempty"`
	BankName  string                `json:"bankName,omitempty"`
	Balance   decimal.Decimal       `json:"balance"`
	Status    finance.AccountStatus `json:"status"`
	Version   int                   `json:"version"`
	CreatedAt time.Time             `json:"createdAt"`
}

// ToAccountResponse maps an account to its API shape
func ToAccountResponse(a *finance.FinanceAccount) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		AccountNo: a.AccountNo,
		BankName:  a.BankName,
		Balance:   a.Balance,
		Status:    a.Status,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
	}
}

// PostRequest is one ledger movement against an account
type PostRequest struct {
	AccountID     uuid.UUID
	Direction     finance.TransactionDirection
	Amount        decimal.Decimal
	ReceiptBillID *uuid.UUID
	OrderID       *uuid.UUID
	Summary       string
	UserID        *uuid.UUID
}

// AllocationRequest is the API shape of one bill allocation line
type AllocationRequest struct {
	OrderID     uuid.UUID       `json:"orderId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,dgt0"`
	StatementID *uuid.UUID      `json:"statementId"`
	ScheduleID  *uuid.UUID      `json:"scheduleId"`
	Remark      string          `json:"remark"`
}

// CreateBillRequest creates a draft receipt or payment bill
type CreateBillRequest struct {
	Kind        finance.BillKind    `json:"kind" binding:"required"`
	Type        finance.BillType    `json:"type" binding:"required"`
	AccountID   uuid.UUID           `json:"accountId" binding:"required"`
	TotalAmount decimal.Decimal     `json:"totalAmount" binding:"required,dgt0"`
	Allocations []AllocationRequest `json:"allocations" binding:"required,min=1,dive"`
	ProofURL    string              `json:"proofUrl" binding:"max=500"`
	Remark      string              `json:"remark"`
	UserID      *uuid.UUID          `json:"-"`
}

// SubmitBillRequest submits a draft bill for approval
type SubmitBillRequest struct {
	BillID  uuid.UUID  `json:"-"`
	Version int        `json:"version" binding:"min=0"`
	UserID  *uuid.UUID `json:"-"`
}

// ApproveBillRequest is the payload of an approval decision callback
type ApproveBillRequest struct {
	BillID     uuid.UUID  `json:"-"`
	Approved   bool       `json:"approved"`
	Reason     string     `json:"reason"`
	ApproverID *uuid.UUID `json:"-"`
}

// BillItemResponse is the API shape of one allocation line
type BillItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"orderId"`
	Amount      decimal.Decimal `json:"amount"`
	StatementID *uuid.UUID      `json:"statementId,omitempty"`
	ScheduleID  *uuid.UUID      `json:"scheduleId,omitempty"`
	Remark      string          `json:"remark,omitempty"`
}

// BillResponse is the API shape of a receipt bill
type BillResponse struct {
	ID              uuid.UUID          `json:"id"`
	BillNo          string             `json:"billNo"`
	Kind            finance.BillKind   `json:"kind"`
	Type            finance.BillType   `json:"type"`
	Status          finance.BillStatus `json:"status"`
	AccountID       uuid.UUID          `json:"accountId"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	UsedAmount      decimal.Decimal    `json:"usedAmount"`
	RemainingAmount decimal.Decimal    `json:"remainingAmount"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
	VerifiedAt      *time.Time         `json:"verifiedAt,omitempty"`
	Version         int                `json:"version"`
	CreatedAt       time.Time          `json:"createdAt"`
	Items           []BillItemResponse `json:"items"`
}

// ToBillResponse maps a bill to its API shape
func ToBillResponse(b *finance.ReceiptBill) BillResponse {
	items := make([]BillItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, BillItemResponse{
			ID:          item.ID,
			OrderID:     item.OrderID,
			Amount:      item.Amount,
			StatementID: item.StatementID,
			ScheduleID:  item.ScheduleID,
			Remark:      item.Remark,
		})
	}
	return BillResponse{
		ID:              b.ID,
		BillNo:          b.BillNo,
		Kind:            b.Kind,
		Type:            b.Type,
		Status:          b.Status,
		AccountID:       b.AccountID,
		TotalAmount:     b.TotalAmount,
		UsedAmount:      b.UsedAmount,
		RemainingAmount: b.RemainingAmount,
		RejectionReason: b.RejectionReason,
		VerifiedAt:      b.VerifiedAt,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		Items:           items,
	}
}

// StatementResponse is the API shape of an AR statement
type StatementResponse struct {
	ID               uuid.UUID                `json:"id"`
	StatementNo      string                   `json:"statementNo"`
	OrderID          uuid.UUID                `json:"orderId"`
	ChannelID        *uuid.UUID               `json:"channelId,omitempty"`
	TotalAmount      decimal.Decimal          `json:"totalAmount"`
	ReceivedAmount   decimal.Decimal          `json:"receivedAmount"`
	PendingAmount    decimal.Decimal          `json:"pendingAmount"`
	Status           finance.ARStatus         `json:"status"`
	CommissionStatus finance.CommissionStatus `json:"commissionStatus"`
	Version          int                      `json:"version"`
	CreatedAt        time.Time                `json:"createdAt"`
}

// ToStatementResponse maps a statement to its API shape
func ToStatementResponse(s *finance.ARStatement) StatementResponse {
	return StatementResponse{
		ID:               s.ID,
		StatementNo:      s.StatementNo,
		OrderID:          s.OrderID,
		ChannelID:        s.ChannelID,
		TotalAmount:      s.TotalAmount,
		ReceivedAmount:   s.ReceivedAmount,
		PendingAmount:    s.PendingAmount,
		Status:           s.Status,
		CommissionStatus: s.CommissionStatus,
		Version:          s.Version,
		CreatedAt:        s.CreatedAt,
	}
}

// TransactionResponse is the API shape of one ledger movement
type TransactionResponse struct {
	ID            uuid.UUID                    `json:"id"`
	TransactionNo string                       `json:"transactionNo"`
	AccountID     uuid.UUID                    `json:"accountId"`
	Direction     finance.TransactionDirection `json:"direction"`
	Amount        decimal.Decimal              `json:"amount"`
	BalanceBefore decimal.Decimal              `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal              `json:"balanceAfter"`
	ReceiptBillID *uuid.UUID                   `json:"receiptBillId,omitempty"`
	OrderID       *uuid.UUID                   `json:"orderId,omitempty"`
	Summary       string                       `json:"summary,omitempty"`
	OccurredAt    time.Time                    `json:"occurredAt"`
}

// ToTransactionResponse maps a transaction to its API shape
func ToTransactionResponse(t *finance.AccountTransaction) TransactionResponse {
	return TransactionResponse{
		ID:            t.ID,
		TransactionNo: t.TransactionNo,
		AccountID:     t.AccountID,
		Direction:     t.Direction,
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		ReceiptBillID: t.ReceiptBillID,
		OrderID:       t.OrderID,
		Summary:       t.Summary,
		OccurredAt:    t.OccurredAt,
	}
}

// CommissionResponse is the API shape of one commission record
type CommissionResponse struct {
	ID               uuid.UUID                      `json:"id"`
	CommissionNo     string                         `json:"commissionNo"`
	ARStatementID    uuid.UUID                      `json:"arStatementId"`
	ChannelID        uuid.UUID                      `json:"channelId"`
	OrderID          uuid.UUID                      `json:"orderId"`
	Rate             decimal.Decimal                `json:"rate"`
	CommissionAmount decimal.Decimal                `json:"commissionAmount"`
	Status           finance.CommissionRecordStatus `json:"status"`
	CreatedAt        time.Time                      `json:"createdAt"`
}

// ToCommissionResponse maps a commission record to its API shape
func ToCommissionResponse(r *finance.CommissionRecord) CommissionResponse {
	return CommissionResponse{
		ID:               r.ID,
		CommissionNo:     r.CommissionNo,
		ARStatementID:    r.ARStatementID,
		ChannelID:        r.ChannelID,
		OrderID:          r.OrderID,
		Rate:             r.Rate,
		CommissionAmount: r.CommissionAmount,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
	}
}

// ExceptionResponse is the API shape of one reconciliation exception
type ExceptionResponse struct {
	ID            uuid.UUID               `json:"id"`
	ReceiptBillID uuid.UUID               `json:"receiptBillId"`
	OrderID       uuid.UUID               `json:"orderId"`
	Amount        decimal.Decimal         `json:"amount"`
	Reason        string                  `json:"reason"`
	Status        finance.ExceptionStatus `json:"status"`
	ResolvedBy    *uuid.UUID              `json:"resolvedBy,omitempty"`
	ResolvedAt    *time.Time              `json:"resolvedAt,omitempty"`
	Remark        string                  `json:"remark,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
}

// ToExceptionResponse maps an exception to its API shape
func ToExceptionResponse(e *finance.ReconciliationException) ExceptionResponse {
	return ExceptionResponse{
		ID:            e.ID,
		ReceiptBillID: e.ReceiptBillID,
		OrderID:       e.OrderID,
		Amount:        e.Amount,
		Reason:        e.Reason,
		Status:        e.Status,
		ResolvedBy:    e.ResolvedBy,
		ResolvedAt:    e.ResolvedAt,
		Remark:        e.Remark,
		CreatedAt:     e.CreatedAt,
	}
}

// GeneratePlanRequest generates the payment stages for an order
type GeneratePlanRequest struct {
	OrderID uuid.UUID         `json:"orderId" binding:"required"`
	Ratios  []decimal.Decimal `json:"ratios"`
	UserID  *uuid.UUID        `json:"-"`
}

// ScheduleResponse is the API shape of one payment stage
type ScheduleResponse struct {
	ID      uuid.UUID              `json:"id"`
	OrderID uuid.UUID              `json:"orderId"`
	Stage   int                    `json:"stage"`
	Name    string                 `json:"name"`
	Ratio   decimal.Decimal        `json:"ratio"`
	Amount  decimal.Decimal        `json:"amount"`
	Status  finance.ScheduleStatus `json:"status"`
	PaidAt  *time.Time             `json:"paidAt,omitempty"`
}

// ToScheduleResponse maps a payment stage to its API shape
func ToScheduleResponse(s *finance.PaymentSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:      s.ID,
		OrderID: s.OrderID,
		Stage:   s.Stage,
		Name:    s.Name,
		Ratio:   s.Ratio,
		Amount:  s.Amount,
		Status:  s.Status,
		PaidAt:  s.PaidAt,
	}
}
