package procurement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/catalog"
	"github.com/furnish/backend/internal/domain/partner"
	"github.com/furnish/backend/internal/domain/procurement"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if o := args.Get(0); o != nil {
		return o.(*sales.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindByQuoteID(ctx context.Context, tenantID, quoteID uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, quoteID)
	if o := args.Get(0); o != nil {
		return o.(*sales.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindByOrderNo(ctx context.Context, tenantID uuid.UUID, orderNo string) (*sales.Order, error) {
	args := m.Called(ctx, tenantID, orderNo)
	if o := args.Get(0); o != nil {
		return o.(*sales.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *mockOrderRepo) Save(ctx context.Context, order *sales.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) SaveWithVersion(ctx context.Context, order *sales.Order, expectedVersion int) error {
	return m.Called(ctx, order, expectedVersion).Error(0)
}

func (m *mockOrderRepo) UpdateItems(ctx context.Context, items []sales.OrderItem) error {
	return m.Called(ctx, items).Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *mockProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockProductRepo) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

type mockSupplierRepo struct{ mock.Mock }

func (m *mockSupplierRepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if s := args.Get(0); s != nil {
		return s.(*partner.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSupplierRepo) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]partner.Supplier, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Supplier), args.Error(1)
}

func (m *mockSupplierRepo) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

type mockPORepo struct{ mock.Mock }

func (m *mockPORepo) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if po := args.Get(0); po != nil {
		return po.(*procurement.PurchaseOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPORepo) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *mockPORepo) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *mockPORepo) Save(ctx context.Context, po *procurement.PurchaseOrder) error {
	return m.Called(ctx, po).Error(0)
}

func (m *mockPORepo) ExistsForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Bool(0), args.Error(1)
}

type mockPendingRepo struct{ mock.Mock }

func (m *mockPendingRepo) FindOpen(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]procurement.PendingAssignment, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]procurement.PendingAssignment), args.Error(1)
}

func (m *mockPendingRepo) Save(ctx context.Context, assignment *procurement.PendingAssignment) error {
	return m.Called(ctx, assignment).Error(0)
}

type mockPONumberGen struct{ mock.Mock }

func (m *mockPONumberGen) Next(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) Record(ctx context.Context, entry *audit.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type splitFixture struct {
	svc       *SplitService
	orders    *mockOrderRepo
	products  *mockProductRepo
	suppliers *mockSupplierRepo
	pos       *mockPORepo
	pending   *mockPendingRepo
	gen       *mockPONumberGen
	recorder  *mockRecorder
}

func newSplitFixture() *splitFixture {
	f := &splitFixture{
		orders:    new(mockOrderRepo),
		products:  new(mockProductRepo),
		suppliers: new(mockSupplierRepo),
		pos:       new(mockPORepo),
		pending:   new(mockPendingRepo),
		gen:       new(mockPONumberGen),
		recorder:  new(mockRecorder),
	}
	f.svc = NewSplitService(f.orders, f.products, f.suppliers, f.pos, f.pending, f.gen,
		f.recorder, passthroughTx{}, zap.NewNop())
	return f
}

func fixtureOrder(t *testing.T, tenantID uuid.UUID, productIDs ...uuid.UUID) *sales.Order {
	t.Helper()
	quote, err := sales.NewQuote(tenantID, "Q-001", uuid.New(), "Zhang San", "")
	require.NoError(t, err)
	for _, pid := range productIDs {
		require.NoError(t, quote.AddItem(pid, "Item", "SKU", decimal.NewFromInt(2), decimal.NewFromInt(100), nil, nil))
	}
	require.NoError(t, quote.MarkWon())
	order, err := sales.NewOrderFromQuote(quote, "ORD-1", decimal.Zero)
	require.NoError(t, err)
	return order
}

func fixtureProduct(t *testing.T, tenantID uuid.UUID, supplierID *uuid.UUID, category catalog.ProductCategory, stockable bool) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, "SKU-"+uuid.NewString()[:8], "Product", "pcs", category)
	require.NoError(t, err)
	product.DefaultSupplierID = supplierID
	product.IsStockable = stockable
	return product
}

func TestSplitService_SplitOrderToPOs(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates one PO per supplier and back-fills items", func(t *testing.T) {
		f := newSplitFixture()
		supplierAID := uuid.New()
		supplierBID := uuid.New()

		pa := fixtureProduct(t, tenantID, &supplierAID, catalog.CategoryCurtainTrack, false)
		pb := fixtureProduct(t, tenantID, &supplierBID, catalog.CategoryCurtainFabric, false)
		order := fixtureOrder(t, tenantID, pa.ID, pb.ID)

		supplierA, err := partner.NewSupplier(tenantID, "SUP-A", "Track Co", partner.CapabilitySupply)
		require.NoError(t, err)
		supplierA.ID = supplierAID
		supplierB, err := partner.NewSupplier(tenantID, "SUP-B", "Fabric Mill", partner.CapabilitySupply)
		require.NoError(t, err)
		supplierB.ID = supplierBID

		f.orders.On("FindByID", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.pos.On("ExistsForOrder", mock.Anything, tenantID, order.ID).Return(false, nil)
		f.products.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]catalog.Product{*pa, *pb}, nil)
		f.suppliers.On("FindByID", mock.Anything, tenantID, supplierAID).Return(supplierA, nil)
		f.suppliers.On("FindByID", mock.Anything, tenantID, supplierBID).Return(supplierB, nil)
		f.gen.On("Next", mock.Anything, tenantID).Return("PO-20260901-0001", nil).Once()
		f.gen.On("Next", mock.Anything, tenantID).Return("PO-20260901-0002", nil).Once()

		var savedPOs []*procurement.PurchaseOrder
		f.pos.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PurchaseOrder")).
			Run(func(args mock.Arguments) {
				savedPOs = append(savedPOs, args.Get(1).(*procurement.PurchaseOrder))
			}).Return(nil)

		var backfilled []sales.OrderItem
		f.orders.On("UpdateItems", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				backfilled = append(backfilled, args.Get(1).([]sales.OrderItem)...)
			}).Return(nil)
		f.recorder.On("Record", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, f.svc.SplitOrderToPOs(context.Background(), tenantID, order.ID, nil))

		require.Len(t, savedPOs, 2)

		// PO totals conserve the order items they cover
		poTotal := decimal.Zero
		for _, po := range savedPOs {
			poTotal = poTotal.Add(po.TotalAmount)
		}
		assert.True(t, poTotal.Equal(order.TotalAmount))

		// every order item gets exactly one poId
		require.Len(t, backfilled, 2)
		for _, item := range backfilled {
			require.NotNil(t, item.POID)
			require.NotNil(t, item.SupplierID)
		}
	})

	t.Run("missing supplier aborts whole split", func(t *testing.T) {
		f := newSplitFixture()
		supplierID := uuid.New()

		product := fixtureProduct(t, tenantID, &supplierID, catalog.CategoryCurtainTrack, false)
		order := fixtureOrder(t, tenantID, product.ID)

		f.orders.On("FindByID", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.pos.On("ExistsForOrder", mock.Anything, tenantID, order.ID).Return(false, nil)
		f.products.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]catalog.Product{*product}, nil)
		f.suppliers.On("FindByID", mock.Anything, tenantID, supplierID).Return(nil, shared.ErrNotFound)

		err := f.svc.SplitOrderToPOs(context.Background(), tenantID, order.ID, nil)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
		f.pos.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("items without supplier go to the pending pool", func(t *testing.T) {
		f := newSplitFixture()

		product := fixtureProduct(t, tenantID, nil, catalog.CategoryStandard, false)
		order := fixtureOrder(t, tenantID, product.ID)

		f.orders.On("FindByID", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.pos.On("ExistsForOrder", mock.Anything, tenantID, order.ID).Return(false, nil)
		f.products.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]catalog.Product{*product}, nil)

		var pooled *procurement.PendingAssignment
		f.pending.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PendingAssignment")).
			Run(func(args mock.Arguments) {
				pooled = args.Get(1).(*procurement.PendingAssignment)
			}).Return(nil)

		require.NoError(t, f.svc.SplitOrderToPOs(context.Background(), tenantID, order.ID, nil))
		require.NotNil(t, pooled)
		assert.Equal(t, procurement.PendingAssignmentOpen, pooled.Status)
		assert.Equal(t, "product has no default supplier", pooled.Reason)
		f.pos.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("order without items is a no-op", func(t *testing.T) {
		f := newSplitFixture()

		quote, err := sales.NewQuote(tenantID, "Q-empty", uuid.New(), "Zhang San", "")
		require.NoError(t, err)
		require.NoError(t, quote.AddItem(uuid.New(), "Item", "SKU", decimal.NewFromInt(1), decimal.NewFromInt(1), nil, nil))
		require.NoError(t, quote.MarkWon())
		order, err := sales.NewOrderFromQuote(quote, "ORD-empty", decimal.Zero)
		require.NoError(t, err)
		order.Items = nil

		f.orders.On("FindByID", mock.Anything, tenantID, order.ID).Return(order, nil)

		require.NoError(t, f.svc.SplitOrderToPOs(context.Background(), tenantID, order.ID, nil))
		f.pos.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("already split order is rejected", func(t *testing.T) {
		f := newSplitFixture()
		product := fixtureProduct(t, tenantID, nil, catalog.CategoryStandard, false)
		order := fixtureOrder(t, tenantID, product.ID)

		f.orders.On("FindByID", mock.Anything, tenantID, order.ID).Return(order, nil)
		f.pos.On("ExistsForOrder", mock.Anything, tenantID, order.ID).Return(true, nil)

		err := f.svc.SplitOrderToPOs(context.Background(), tenantID, order.ID, nil)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidState))
	})
}
