package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChannel(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates rebate channel", func(t *testing.T) {
		channel, err := NewChannel(tenantID, "ch-001", "Designer Wang", CooperationModeRebate, decimal.NewFromFloat(0.10))
		require.NoError(t, err)

		assert.Equal(t, "CH-001", channel.Code)
		assert.Equal(t, CooperationModeRebate, channel.CooperationMode)
		assert.True(t, channel.CommissionRate.Equal(decimal.NewFromFloat(0.10)))
		assert.True(t, channel.IsActive())
	})

	t.Run("creates base price channel", func(t *testing.T) {
		channel, err := NewChannel(tenantID, "CH-002", "Deco Co", CooperationModeBasePrice, decimal.NewFromFloat(0.20))
		require.NoError(t, err)
		assert.Equal(t, CooperationModeBasePrice, channel.CooperationMode)
	})

	t.Run("rejects unknown cooperation mode", func(t *testing.T) {
		_, err := NewChannel(tenantID, "CH-003", "Deco Co", "PROFIT_SHARE", decimal.NewFromFloat(0.20))
		require.Error(t, err)
	})

	t.Run("rejects rate above 1", func(t *testing.T) {
		_, err := NewChannel(tenantID, "CH-004", "Deco Co", CooperationModeRebate, decimal.NewFromFloat(1.5))
		require.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewChannel(tenantID, "CH-005", "Deco Co", CooperationModeRebate, decimal.NewFromFloat(-0.1))
		require.Error(t, err)
	})
}

func TestChannel_UpdateCommission(t *testing.T) {
	tenantID := uuid.New()
	channel, err := NewChannel(tenantID, "CH-001", "Designer Wang", CooperationModeRebate, decimal.NewFromFloat(0.10))
	require.NoError(t, err)
	versionBefore := channel.GetVersion()

	require.NoError(t, channel.UpdateCommission(CooperationModeBasePrice, decimal.NewFromFloat(0.25)))
	assert.Equal(t, CooperationModeBasePrice, channel.CooperationMode)
	assert.True(t, channel.CommissionRate.Equal(decimal.NewFromFloat(0.25)))
	assert.Equal(t, versionBefore+1, channel.GetVersion())

	assert.Error(t, channel.UpdateCommission("BOGUS", decimal.NewFromFloat(0.1)))
}

func TestNewSupplier(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates supplier with default capability", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "sup-001", "Fabric Mill", "")
		require.NoError(t, err)
		assert.Equal(t, "SUP-001", supplier.Code)
		assert.Equal(t, CapabilitySupply, supplier.Capability)
		assert.True(t, supplier.IsActive())
	})

	t.Run("rejects unknown capability", func(t *testing.T) {
		_, err := NewSupplier(tenantID, "SUP-002", "Fabric Mill", "SHIPPER")
		require.Error(t, err)
	})

	t.Run("block and reactivate", func(t *testing.T) {
		supplier, err := NewSupplier(tenantID, "SUP-003", "Fabric Mill", CapabilityProcess)
		require.NoError(t, err)

		supplier.Block()
		assert.False(t, supplier.IsActive())

		supplier.Activate()
		assert.True(t, supplier.IsActive())
	})
}
