package sales

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wonQuote(t *testing.T) *Quote {
	t.Helper()
	tenantID := uuid.New()
	quote, err := NewQuote(tenantID, "Q-001", uuid.New(), "Zhang San", "13800000000")
	require.NoError(t, err)

	width := decimal.NewFromFloat(2.8)
	height := decimal.NewFromFloat(2.6)
	require.NoError(t, quote.AddItem(uuid.New(), "Sheer Curtain", "SKU-001",
		decimal.NewFromInt(3), decimal.NewFromFloat(120.50), &width, &height))
	require.NoError(t, quote.AddItem(uuid.New(), "Curtain Track", "SKU-002",
		decimal.NewFromInt(2), decimal.NewFromFloat(80), nil, nil))
	require.NoError(t, quote.MarkWon())
	return quote
}

func TestNewOrderFromQuote(t *testing.T) {
	t.Run("copies items and computes totals", func(t *testing.T) {
		quote := wonQuote(t)

		order, err := NewOrderFromQuote(quote, "ORD20260901ABCD", decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.Equal(t, quote.TenantID, order.TenantID)
		assert.Equal(t, quote.ID, order.QuoteID)
		assert.Equal(t, "Zhang San", order.CustomerName)
		assert.Equal(t, "13800000000", order.CustomerPhone)
		assert.Equal(t, OrderStatusPendingPO, order.Status)
		require.Len(t, order.Items, 2)

		// 3 * 120.50 + 2 * 80 = 521.50
		assert.Equal(t, "521.50", order.TotalAmount.StringFixed(2))
		assert.Equal(t, "100.00", order.PaidAmount.StringFixed(2))
		assert.Equal(t, "421.50", order.BalanceAmount.StringFixed(2))

		// each item subtotal is recomputed and totals are conserved
		sum := decimal.Zero
		for _, item := range order.Items {
			assert.True(t, item.Subtotal.Equal(item.Quantity.Mul(item.UnitPrice).Round(2)))
			sum = sum.Add(item.Subtotal)
		}
		assert.True(t, sum.Equal(order.TotalAmount))

		// dimensional fields survive the copy
		require.NotNil(t, order.Items[0].Width)
		assert.Equal(t, "2.8", order.Items[0].Width.String())
		assert.Equal(t, quote.Items[0].ID, order.Items[0].QuoteItemID)
	})

	t.Run("rejects non-won quote", func(t *testing.T) {
		tenantID := uuid.New()
		quote, err := NewQuote(tenantID, "Q-002", uuid.New(), "Li Si", "")
		require.NoError(t, err)

		_, err = NewOrderFromQuote(quote, "ORD20260901ABCD", decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WON")
	})

	t.Run("rejects negative payment", func(t *testing.T) {
		quote := wonQuote(t)
		_, err := NewOrderFromQuote(quote, "ORD20260901ABCD", decimal.NewFromInt(-1))
		require.Error(t, err)
	})

	t.Run("zero payment leaves full balance", func(t *testing.T) {
		quote := wonQuote(t)
		order, err := NewOrderFromQuote(quote, "ORD20260901ABCD", decimal.Zero)
		require.NoError(t, err)
		assert.True(t, order.BalanceAmount.Equal(order.TotalAmount))
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("walks the happy path", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)

		path := []OrderStatus{
			OrderStatusConfirmed,
			OrderStatusPendingProduction,
			OrderStatusInProduction,
			OrderStatusPendingDelivery,
			OrderStatusPendingInstall,
			OrderStatusInstalled,
			OrderStatusCompleted,
		}
		for _, status := range path {
			require.NoError(t, order.TransitionTo(status))
			assert.Equal(t, status, order.Status)
		}
	})

	t.Run("rejects skipping states", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)

		err = order.TransitionTo(OrderStatusInProduction)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid order status transition")
	})

	t.Run("rejects backward transitions", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, order.TransitionTo(OrderStatusConfirmed))

		assert.Error(t, order.TransitionTo(OrderStatusPendingPO))
	})

	t.Run("increments version on every transition", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)
		before := order.GetVersion()

		require.NoError(t, order.TransitionTo(OrderStatusConfirmed))
		assert.Equal(t, before+1, order.GetVersion())
	})
}

func TestOrder_Lock(t *testing.T) {
	order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, order.Lock())
	assert.True(t, order.IsLocked)
	require.NotNil(t, order.LockedAt)

	err = order.Lock()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already locked")
}

func TestOrder_HaltResume(t *testing.T) {
	t.Run("halt snapshots previous status and resume restores it", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, order.TransitionTo(OrderStatusConfirmed))
		require.NoError(t, order.TransitionTo(OrderStatusPendingProduction))
		require.NoError(t, order.TransitionTo(OrderStatusInProduction))

		require.NoError(t, order.Halt("customer requested delay"))
		assert.Equal(t, OrderStatusHalted, order.Status)
		assert.Equal(t, OrderStatusInProduction, order.PreviousStatus)
		assert.NotNil(t, order.PausedAt)
		assert.Equal(t, "customer requested delay", order.PauseReason)

		require.NoError(t, order.Resume())
		assert.Equal(t, OrderStatusInProduction, order.Status)
		assert.Nil(t, order.PausedAt)
		assert.Empty(t, order.PauseReason)
		assert.Empty(t, order.PreviousStatus)
	})

	t.Run("resume accumulates pause days rounded up", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, order.Halt("supplier issue"))

		pausedAt := time.Now().Add(-25 * time.Hour)
		order.PausedAt = &pausedAt

		require.NoError(t, order.Resume())
		assert.Equal(t, 2, order.PauseCumulativeDays)
	})

	t.Run("halt requires a reason", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)
		assert.Error(t, order.Halt(""))
	})

	t.Run("terminal orders cannot be halted", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, order.Cancel("changed mind"))
		assert.Error(t, order.Halt("too late"))
	})

	t.Run("resume requires halted status", func(t *testing.T) {
		order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
		require.NoError(t, err)
		assert.Error(t, order.Resume())
	})
}

func TestOrder_Cancel(t *testing.T) {
	order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, order.Cancel("customer refund"))
	assert.Equal(t, OrderStatusCancelled, order.Status)
	assert.True(t, order.IsLocked)
	assert.Equal(t, "customer refund", order.CancellationReason)

	assert.Error(t, order.Cancel("again"))
}

func TestOrder_ApplyPayment(t *testing.T) {
	order, err := NewOrderFromQuote(wonQuote(t), "ORD-1", decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, order.ApplyPayment(decimal.NewFromFloat(200.50)))
	assert.Equal(t, "300.50", order.PaidAmount.StringFixed(2))
	assert.Equal(t, "221.00", order.BalanceAmount.StringFixed(2))

	assert.Error(t, order.ApplyPayment(decimal.Zero))
	assert.Error(t, order.ApplyPayment(decimal.NewFromInt(-5)))
}
