package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-001", "Sheer Curtain", "m", CategoryCurtainSheer)
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, tenantID, product.TenantID)
		assert.Equal(t, "SKU-001", product.SKU)
		assert.Equal(t, "Sheer Curtain", product.Name)
		assert.Equal(t, CategoryCurtainSheer, product.Category)
		assert.Equal(t, ProductStatusActive, product.Status)
		assert.False(t, product.IsStockable)
		assert.Nil(t, product.DefaultSupplierID)
		assert.True(t, product.PurchasePrice.IsZero())
		assert.True(t, product.FloorPrice.IsZero())
		assert.Equal(t, 1, product.GetVersion())
	})

	t.Run("converts SKU to uppercase", func(t *testing.T) {
		product, err := NewProduct(tenantID, "sku-001", "Sheer Curtain", "m", CategoryCurtainSheer)
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", product.SKU)
	})

	t.Run("defaults empty category to OTHER", func(t *testing.T) {
		product, err := NewProduct(tenantID, "SKU-002", "Misc", "pcs", "")
		require.NoError(t, err)
		assert.Equal(t, CategoryOther, product.Category)
	})

	t.Run("fails with empty SKU", func(t *testing.T) {
		_, err := NewProduct(tenantID, "", "Sheer Curtain", "m", CategoryCurtainSheer)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKU cannot be empty")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-001", "", "m", CategoryCurtainSheer)
		require.Error(t, err)
	})

	t.Run("fails with empty unit", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-001", "Sheer Curtain", "", CategoryCurtainSheer)
		require.Error(t, err)
	})
}

func TestProductCategory_IsFabric(t *testing.T) {
	assert.True(t, CategoryCurtainFabric.IsFabric())
	assert.True(t, CategoryCurtainSheer.IsFabric())
	assert.True(t, CategoryWallcloth.IsFabric())
	assert.False(t, CategoryCurtainTrack.IsFabric())
	assert.False(t, CategoryMotor.IsFabric())
	assert.False(t, CategoryStandard.IsFabric())
}

func TestProduct_SetPrices(t *testing.T) {
	tenantID := uuid.New()
	product, err := NewProduct(tenantID, "SKU-001", "Track", "m", CategoryCurtainTrack)
	require.NoError(t, err)

	t.Run("sets valid prices", func(t *testing.T) {
		err := product.SetPrices(
			decimal.NewFromFloat(30),
			decimal.NewFromFloat(45),
			decimal.NewFromFloat(60),
		)
		require.NoError(t, err)
		assert.Equal(t, "30", product.PurchasePrice.String())
		assert.Equal(t, "45", product.FloorPrice.String())
		assert.Equal(t, "60", product.SellingPrice.String())
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		err := product.SetPrices(decimal.NewFromFloat(-1), decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})
}

func TestProduct_CommissionBasePrice(t *testing.T) {
	tenantID := uuid.New()

	t.Run("prefers floor price", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "SKU-001", "Track", "m", CategoryCurtainTrack)
		require.NoError(t, product.SetPrices(decimal.NewFromFloat(30), decimal.NewFromFloat(45), decimal.NewFromFloat(60)))
		assert.True(t, product.CommissionBasePrice().Equal(decimal.NewFromFloat(45)))
	})

	t.Run("falls back to purchase price", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "SKU-002", "Track", "m", CategoryCurtainTrack)
		require.NoError(t, product.SetPrices(decimal.NewFromFloat(30), decimal.Zero, decimal.NewFromFloat(60)))
		assert.True(t, product.CommissionBasePrice().Equal(decimal.NewFromFloat(30)))
	})

	t.Run("zero when no prices set", func(t *testing.T) {
		product, _ := NewProduct(tenantID, "SKU-003", "Track", "m", CategoryCurtainTrack)
		assert.True(t, product.CommissionBasePrice().IsZero())
	})
}

func TestProduct_StatusTransitions(t *testing.T) {
	tenantID := uuid.New()
	product, err := NewProduct(tenantID, "SKU-001", "Track", "m", CategoryCurtainTrack)
	require.NoError(t, err)
	require.True(t, product.IsActive())

	product.Deactivate()
	assert.False(t, product.IsActive())
	assert.Equal(t, ProductStatusInactive, product.Status)

	product.Activate()
	assert.True(t, product.IsActive())
}
