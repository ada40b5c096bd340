package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_AddItem(t *testing.T) {
	tenantID := uuid.New()
	quote, err := NewQuote(tenantID, "Q-001", uuid.New(), "Zhang San", "")
	require.NoError(t, err)

	t.Run("recomputes subtotal and accumulates total", func(t *testing.T) {
		require.NoError(t, quote.AddItem(uuid.New(), "Sheer Curtain", "SKU-001",
			decimal.NewFromFloat(2.5), decimal.NewFromFloat(99.99), nil, nil))

		require.Len(t, quote.Items, 1)
		assert.Equal(t, "249.98", quote.Items[0].Subtotal.StringFixed(2))
		assert.Equal(t, "249.98", quote.TotalAmount.StringFixed(2))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		err := quote.AddItem(uuid.New(), "Track", "SKU-002", decimal.Zero, decimal.NewFromInt(10), nil, nil)
		require.Error(t, err)
	})

	t.Run("rejects items after quote leaves draft", func(t *testing.T) {
		require.NoError(t, quote.MarkWon())
		err := quote.AddItem(uuid.New(), "Track", "SKU-002", decimal.NewFromInt(1), decimal.NewFromInt(10), nil, nil)
		require.Error(t, err)
	})
}

func TestQuote_StatusTransitions(t *testing.T) {
	tenantID := uuid.New()

	t.Run("draft to sent to won", func(t *testing.T) {
		quote, err := NewQuote(tenantID, "Q-001", uuid.New(), "Zhang San", "")
		require.NoError(t, err)
		require.NoError(t, quote.AddItem(uuid.New(), "Track", "SKU-001", decimal.NewFromInt(1), decimal.NewFromInt(10), nil, nil))

		require.NoError(t, quote.MarkSent())
		require.NoError(t, quote.MarkWon())
		assert.True(t, quote.IsWon())
	})

	t.Run("empty quote cannot be won", func(t *testing.T) {
		quote, err := NewQuote(tenantID, "Q-002", uuid.New(), "Zhang San", "")
		require.NoError(t, err)
		assert.Error(t, quote.MarkWon())
	})

	t.Run("won quote cannot be lost", func(t *testing.T) {
		quote, err := NewQuote(tenantID, "Q-003", uuid.New(), "Zhang San", "")
		require.NoError(t, err)
		require.NoError(t, quote.AddItem(uuid.New(), "Track", "SKU-001", decimal.NewFromInt(1), decimal.NewFromInt(10), nil, nil))
		require.NoError(t, quote.MarkWon())
		assert.Error(t, quote.MarkLost())
	})
}
