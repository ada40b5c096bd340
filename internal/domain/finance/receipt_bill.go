package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/identity"
	"github.com/furnish/backend/internal/domain/shared"
)

// BillKind discriminates the two payment-intake paths, which share one
// lifecycle and one table.
type BillKind string

const (
	BillKindReceipt BillKind = "RECEIPT" // customer pays us
	BillKindPayment BillKind = "PAYMENT" // we pay a supplier
)

// BillType distinguishes prepayments from normal settlement receipts
type BillType string

const (
	BillTypePrepaid BillType = "PREPAID"
	BillTypeNormal  BillType = "NORMAL"
)

// BillStatus is the approval lifecycle of a bill
type BillStatus string

const (
	BillStatusDraft           BillStatus = "DRAFT"
	BillStatusPendingApproval BillStatus = "PENDING_APPROVAL"
	BillStatusVerified        BillStatus = "VERIFIED"
	BillStatusRejected        BillStatus = "REJECTED"
)

// Approval flow codes selected by tenant scale and bill amount
const (
	FlowReceiptSmallTenant            = "RECEIPT_SMALL_TENANT"
	FlowReceiptLargeTenantSmallAmount = "RECEIPT_LARGE_TENANT_SMALL_AMOUNT"
	FlowReceiptLargeTenantLargeAmount = "RECEIPT_LARGE_TENANT_LARGE_AMOUNT"
)

// ApprovalFlowCode picks the approval flow for a bill: small tenants use a
// single flow, large tenants branch on the configured amount threshold
// (amounts at or above the threshold take the large-amount flow).
func ApprovalFlowCode(scale identity.TenantScale, amount, threshold decimal.Decimal) string {
	if scale != identity.TenantScaleLarge {
		return FlowReceiptSmallTenant
	}
	if amount.LessThan(threshold) {
		return FlowReceiptLargeTenantSmallAmount
	}
	return FlowReceiptLargeTenantLargeAmount
}

// ReceiptBill is a record of money received from (or paid to) a counterparty,
// pending verification before it touches the ledger. Its items allocate the
// total across orders.
type ReceiptBill struct {
	shared.TenantAggregateRoot
	BillNo          string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_bill_tenant_no,priority:2"`
	Kind            BillKind          `gorm:"type:varchar(10);not null;default:'RECEIPT'"`
	Type            BillType          `gorm:"type:varchar(10);not null;default:'NORMAL'"`
	Status          BillStatus        `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	AccountID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	UsedAmount      decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	RemainingAmount decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	ProofURL        string            `gorm:"type:varchar(500)"`
	Remark          string            `gorm:"type:text"`
	RejectionReason string            `gorm:"type:text"`
	VerifiedBy      *uuid.UUID        `gorm:"type:uuid"`
	VerifiedAt      *time.Time
	Items           []ReceiptBillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ReceiptBill) TableName() string {
	return "receipt_bills"
}

// ReceiptBillItem allocates part of a bill's total to one order
type ReceiptBillItem struct {
	shared.BaseEntity
	BillID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	StatementID *uuid.UUID      `gorm:"type:uuid;index"`
	ScheduleID  *uuid.UUID      `gorm:"type:uuid;index"`
	Remark      string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ReceiptBillItem) TableName() string {
	return "receipt_bill_items"
}

// BillAllocation is the caller-facing shape of one allocation line
type BillAllocation struct {
	OrderID     uuid.UUID
	Amount      decimal.Decimal
	StatementID *uuid.UUID
	ScheduleID  *uuid.UUID
	Remark      string
}

// NewReceiptBill creates a draft bill. The total is rounded to two decimals
// and must equal the sum of the allocation amounts.
func NewReceiptBill(tenantID uuid.UUID, billNo string, kind BillKind, billType BillType,
	accountID uuid.UUID, totalAmount decimal.Decimal, allocations []BillAllocation) (*ReceiptBill, error) {

	if billNo == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "bill number cannot be empty")
	}
	switch kind {
	case BillKindReceipt, BillKindPayment:
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", "unknown bill kind: "+string(kind))
	}
	switch billType {
	case BillTypePrepaid, BillTypeNormal:
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", "unknown bill type: "+string(billType))
	}
	if !totalAmount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "bill total must be positive")
	}
	if len(allocations) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "bill must allocate to at least one order")
	}

	total := totalAmount.Round(2)
	bill := &ReceiptBill{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BillNo:              billNo,
		Kind:                kind,
		Type:                billType,
		Status:              BillStatusDraft,
		AccountID:           accountID,
		TotalAmount:         total,
		UsedAmount:          decimal.Zero,
		RemainingAmount:     total,
	}

	allocated := decimal.Zero
	for _, a := range allocations {
		if !a.Amount.IsPositive() {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "allocation amount must be positive")
		}
		amount := a.Amount.Round(2)
		bill.Items = append(bill.Items, ReceiptBillItem{
			BaseEntity:  shared.NewBaseEntity(),
			BillID:      bill.ID,
			OrderID:     a.OrderID,
			Amount:      amount,
			StatementID: a.StatementID,
			ScheduleID:  a.ScheduleID,
			Remark:      a.Remark,
		})
		allocated = allocated.Add(amount)
	}

	if !allocated.Equal(total) {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("allocations (%s) must sum to the bill total (%s)", allocated, total))
	}
	return bill, nil
}

// SubmitForApproval moves the bill into the approval pipeline. Only valid
// from DRAFT or REJECTED.
func (b *ReceiptBill) SubmitForApproval() error {
	if b.Status != BillStatusDraft && b.Status != BillStatusRejected {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("bill in status %s cannot be submitted for approval", b.Status))
	}

	b.Status = BillStatusPendingApproval
	b.RejectionReason = ""
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// MarkVerified records approval. Ledger posting and reconciliation happen in
// the same transaction as this state change, driven by the application layer.
func (b *ReceiptBill) MarkVerified(userID uuid.UUID) error {
	if b.Status != BillStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("bill in status %s cannot be verified", b.Status))
	}

	now := time.Now()
	b.Status = BillStatusVerified
	b.VerifiedBy = &userID
	b.VerifiedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()
	return nil
}

// Reject returns the bill to the submitter with a reason. The ledger is
// never touched on this path; a rejected bill may be resubmitted.
func (b *ReceiptBill) Reject(reason string) error {
	if b.Status != BillStatusPendingApproval {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("bill in status %s cannot be rejected", b.Status))
	}

	b.Status = BillStatusRejected
	b.RejectionReason = reason
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// ConsumeAllocation moves amount from remaining to used as allocations post
func (b *ReceiptBill) ConsumeAllocation(amount decimal.Decimal) error {
	if amount.GreaterThan(b.RemainingAmount) {
		return shared.NewDomainError("VALIDATION_ERROR", "allocation exceeds remaining bill amount")
	}

	b.UsedAmount = b.UsedAmount.Add(amount)
	b.RemainingAmount = b.TotalAmount.Sub(b.UsedAmount)
	b.UpdatedAt = time.Now()
	return nil
}
