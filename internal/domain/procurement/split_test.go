package procurement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnish/backend/internal/domain/catalog"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

func splitProduct(t *testing.T, supplierID *uuid.UUID, category catalog.ProductCategory, stockable bool) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(uuid.New(), "SKU-"+uuid.NewString()[:8], "Product", "pcs", category)
	require.NoError(t, err)
	product.DefaultSupplierID = supplierID
	product.IsStockable = stockable
	return product
}

func splitItem(productID uuid.UUID) sales.OrderItem {
	return sales.OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     uuid.New(),
		QuoteItemID: uuid.New(),
		ProductID:   productID,
		ProductName: "Product",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromFloat(50.25),
		Subtotal:    decimal.NewFromFloat(100.50),
	}
}

func TestBuildSplitPlan_Grouping(t *testing.T) {
	supplierA := uuid.New()
	supplierB := uuid.New()

	pa1 := splitProduct(t, &supplierA, catalog.CategoryCurtainTrack, false)
	pa2 := splitProduct(t, &supplierA, catalog.CategoryMotor, false)
	pb := splitProduct(t, &supplierB, catalog.CategoryStandard, false)

	plan := BuildSplitPlan([]SplitLine{
		{Item: splitItem(pa1.ID), Product: pa1},
		{Item: splitItem(pb.ID), Product: pb},
		{Item: splitItem(pa2.ID), Product: pa2},
	})

	require.Len(t, plan.Groups, 2)
	assert.Empty(t, plan.Pending)

	// first-appearance order is preserved
	assert.Equal(t, supplierA, plan.Groups[0].SupplierID)
	assert.Len(t, plan.Groups[0].Lines, 2)
	assert.Equal(t, supplierB, plan.Groups[1].SupplierID)
	assert.Len(t, plan.Groups[1].Lines, 1)

	// every line belongs to exactly one group
	total := len(plan.Pending)
	for _, g := range plan.Groups {
		total += len(g.Lines)
	}
	assert.Equal(t, 3, total)
}

func TestBuildSplitPlan_Classification(t *testing.T) {
	supplierID := uuid.New()

	t.Run("all stockable wins STOCK", func(t *testing.T) {
		p1 := splitProduct(t, &supplierID, catalog.CategoryStandard, true)
		p2 := splitProduct(t, &supplierID, catalog.CategoryCurtainFabric, true)

		plan := BuildSplitPlan([]SplitLine{
			{Item: splitItem(p1.ID), Product: p1},
			{Item: splitItem(p2.ID), Product: p2},
		})
		require.Len(t, plan.Groups, 1)
		assert.Equal(t, POTypeStock, plan.Groups[0].Type, "stockable takes priority over fabric")
	})

	t.Run("one fabric item among non-stockable wins FABRIC", func(t *testing.T) {
		p1 := splitProduct(t, &supplierID, catalog.CategoryCurtainTrack, false)
		p2 := splitProduct(t, &supplierID, catalog.CategoryCurtainSheer, false)

		plan := BuildSplitPlan([]SplitLine{
			{Item: splitItem(p1.ID), Product: p1},
			{Item: splitItem(p2.ID), Product: p2},
		})
		require.Len(t, plan.Groups, 1)
		assert.Equal(t, POTypeFabric, plan.Groups[0].Type)
	})

	t.Run("neither condition falls back to FINISHED", func(t *testing.T) {
		p1 := splitProduct(t, &supplierID, catalog.CategoryCurtainTrack, false)
		p2 := splitProduct(t, &supplierID, catalog.CategoryMotor, false)

		plan := BuildSplitPlan([]SplitLine{
			{Item: splitItem(p1.ID), Product: p1},
			{Item: splitItem(p2.ID), Product: p2},
		})
		require.Len(t, plan.Groups, 1)
		assert.Equal(t, POTypeFinished, plan.Groups[0].Type)
	})
}

func TestBuildSplitPlan_PendingPool(t *testing.T) {
	supplierID := uuid.New()
	routed := splitProduct(t, &supplierID, catalog.CategoryStandard, false)
	noSupplier := splitProduct(t, nil, catalog.CategoryStandard, false)

	plan := BuildSplitPlan([]SplitLine{
		{Item: splitItem(routed.ID), Product: routed},
		{Item: splitItem(noSupplier.ID), Product: noSupplier},
		{Item: splitItem(uuid.New()), Product: nil}, // product missing entirely
	})

	require.Len(t, plan.Groups, 1)
	assert.Len(t, plan.Pending, 2)
}

func TestBuildSplitPlan_Empty(t *testing.T) {
	plan := BuildSplitPlan(nil)
	assert.Empty(t, plan.Groups)
	assert.Empty(t, plan.Pending)
}

func TestNewPurchaseOrder(t *testing.T) {
	tenantID := uuid.New()
	orderID := uuid.New()
	supplierID := uuid.New()

	items := []PurchaseOrderItem{
		{
			BaseEntity:  shared.NewBaseEntity(),
			OrderItemID: uuid.New(),
			ProductID:   uuid.New(),
			ProductName: "Sheer Curtain",
			Quantity:    decimal.NewFromInt(3),
			UnitPrice:   decimal.NewFromFloat(120.50),
		},
		{
			BaseEntity:  shared.NewBaseEntity(),
			OrderItemID: uuid.New(),
			ProductID:   uuid.New(),
			ProductName: "Track",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromFloat(80),
		},
	}

	po, err := NewPurchaseOrder(tenantID, "PO-001", orderID, supplierID, POTypeFinished, items)
	require.NoError(t, err)

	assert.Equal(t, "521.50", po.TotalAmount.StringFixed(2))
	assert.Equal(t, POStatusPending, po.Status)
	assert.Equal(t, POPaymentUnpaid, po.PaymentStatus)

	// total equals the sum of item subtotals
	sum := decimal.Zero
	for _, item := range po.Items {
		assert.Equal(t, po.ID, item.POID)
		sum = sum.Add(item.Subtotal)
	}
	assert.True(t, sum.Equal(po.TotalAmount))

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := NewPurchaseOrder(tenantID, "PO-002", orderID, supplierID, POTypeFinished, nil)
		require.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewPurchaseOrder(tenantID, "PO-003", orderID, supplierID, "CUSTOM", items)
		require.Error(t, err)
	})
}

func TestPurchaseOrder_RecordPayment(t *testing.T) {
	items := []PurchaseOrderItem{{
		BaseEntity:  shared.NewBaseEntity(),
		OrderItemID: uuid.New(),
		ProductID:   uuid.New(),
		ProductName: "Track",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(100),
	}}
	po, err := NewPurchaseOrder(uuid.New(), "PO-001", uuid.New(), uuid.New(), POTypeFinished, items)
	require.NoError(t, err)

	po.RecordPayment(decimal.NewFromInt(40))
	assert.Equal(t, POPaymentPartial, po.PaymentStatus)

	po.RecordPayment(decimal.NewFromInt(100))
	assert.Equal(t, POPaymentPaid, po.PaymentStatus)
}
