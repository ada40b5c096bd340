package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnish/backend/internal/domain/identity"
)

func draftBill(t *testing.T) *ReceiptBill {
	t.Helper()
	bill, err := NewReceiptBill(uuid.New(), "REC-20260901-00001", BillKindReceipt, BillTypeNormal,
		uuid.New(), decimal.NewFromInt(1000), []BillAllocation{
			{OrderID: uuid.New(), Amount: decimal.NewFromInt(600)},
			{OrderID: uuid.New(), Amount: decimal.NewFromInt(400)},
		})
	require.NoError(t, err)
	return bill
}

func TestNewReceiptBill(t *testing.T) {
	t.Run("allocations must sum to the total", func(t *testing.T) {
		bill := draftBill(t)

		assert.Equal(t, BillStatusDraft, bill.Status)
		assert.Equal(t, "1000.00", bill.TotalAmount.StringFixed(2))
		assert.Equal(t, "1000.00", bill.RemainingAmount.StringFixed(2))
		assert.True(t, bill.UsedAmount.IsZero())

		sum := decimal.Zero
		for _, item := range bill.Items {
			sum = sum.Add(item.Amount)
		}
		assert.True(t, sum.Equal(bill.TotalAmount))
	})

	t.Run("rejects mismatched allocations", func(t *testing.T) {
		_, err := NewReceiptBill(uuid.New(), "REC-1", BillKindReceipt, BillTypeNormal,
			uuid.New(), decimal.NewFromInt(1000), []BillAllocation{
				{OrderID: uuid.New(), Amount: decimal.NewFromInt(500)},
			})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sum to the bill total")
	})

	t.Run("rounds the total to two decimals", func(t *testing.T) {
		bill, err := NewReceiptBill(uuid.New(), "REC-2", BillKindPayment, BillTypePrepaid,
			uuid.New(), decimal.NewFromFloat(99.995), []BillAllocation{
				{OrderID: uuid.New(), Amount: decimal.NewFromInt(100)},
			})
		require.NoError(t, err)
		assert.Equal(t, "100.00", bill.TotalAmount.StringFixed(2))
	})

	t.Run("rejects empty allocations", func(t *testing.T) {
		_, err := NewReceiptBill(uuid.New(), "REC-3", BillKindReceipt, BillTypeNormal,
			uuid.New(), decimal.NewFromInt(100), nil)
		require.Error(t, err)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewReceiptBill(uuid.New(), "REC-4", "REFUND", BillTypeNormal,
			uuid.New(), decimal.NewFromInt(100), []BillAllocation{
				{OrderID: uuid.New(), Amount: decimal.NewFromInt(100)},
			})
		require.Error(t, err)
	})
}

func TestReceiptBill_Lifecycle(t *testing.T) {
	t.Run("draft submit approve", func(t *testing.T) {
		bill := draftBill(t)
		userID := uuid.New()

		require.NoError(t, bill.SubmitForApproval())
		assert.Equal(t, BillStatusPendingApproval, bill.Status)

		require.NoError(t, bill.MarkVerified(userID))
		assert.Equal(t, BillStatusVerified, bill.Status)
		require.NotNil(t, bill.VerifiedBy)
		assert.Equal(t, userID, *bill.VerifiedBy)
		assert.NotNil(t, bill.VerifiedAt)
	})

	t.Run("rejected bill can be resubmitted", func(t *testing.T) {
		bill := draftBill(t)
		require.NoError(t, bill.SubmitForApproval())
		require.NoError(t, bill.Reject("proof image unreadable"))
		assert.Equal(t, BillStatusRejected, bill.Status)
		assert.Equal(t, "proof image unreadable", bill.RejectionReason)

		require.NoError(t, bill.SubmitForApproval())
		assert.Equal(t, BillStatusPendingApproval, bill.Status)
		assert.Empty(t, bill.RejectionReason)
	})

	t.Run("verified bill cannot be resubmitted", func(t *testing.T) {
		bill := draftBill(t)
		require.NoError(t, bill.SubmitForApproval())
		require.NoError(t, bill.MarkVerified(uuid.New()))

		assert.Error(t, bill.SubmitForApproval())
		assert.Error(t, bill.MarkVerified(uuid.New()))
		assert.Error(t, bill.Reject("too late"))
	})

	t.Run("draft bill cannot be verified directly", func(t *testing.T) {
		bill := draftBill(t)
		assert.Error(t, bill.MarkVerified(uuid.New()))
	})
}

func TestReceiptBill_ConsumeAllocation(t *testing.T) {
	bill := draftBill(t)

	require.NoError(t, bill.ConsumeAllocation(decimal.NewFromInt(600)))
	assert.Equal(t, "600.00", bill.UsedAmount.StringFixed(2))
	assert.Equal(t, "400.00", bill.RemainingAmount.StringFixed(2))

	require.NoError(t, bill.ConsumeAllocation(decimal.NewFromInt(400)))
	assert.True(t, bill.RemainingAmount.IsZero())

	assert.Error(t, bill.ConsumeAllocation(decimal.NewFromInt(1)))
}

func TestApprovalFlowCode(t *testing.T) {
	threshold := decimal.NewFromInt(10000)

	tests := []struct {
		name   string
		scale  identity.TenantScale
		amount decimal.Decimal
		want   string
	}{
		{
			name:   "small tenant always uses the small flow",
			scale:  identity.TenantScaleSmall,
			amount: decimal.NewFromInt(999999),
			want:   FlowReceiptSmallTenant,
		},
		{
			name:   "large tenant below threshold",
			scale:  identity.TenantScaleLarge,
			amount: decimal.NewFromInt(9999),
			want:   FlowReceiptLargeTenantSmallAmount,
		},
		{
			name:   "large tenant at threshold takes the large flow",
			scale:  identity.TenantScaleLarge,
			amount: decimal.NewFromInt(10000),
			want:   FlowReceiptLargeTenantLargeAmount,
		},
		{
			name:   "large tenant above threshold",
			scale:  identity.TenantScaleLarge,
			amount: decimal.NewFromInt(50000),
			want:   FlowReceiptLargeTenantLargeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApprovalFlowCode(tt.scale, tt.amount, threshold))
		})
	}
}
