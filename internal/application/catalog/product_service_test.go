package catalog

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
	"github.com/furnish/backend/internal/domain/shared"
)

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

type mockRecorder struct{ mock.Mock }

func (m *mockRecorder) Record(ctx context.Context, entry *audit.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService() (*ProductService, *mockProductRepo, *mockSupplierRepo) {
	products := new(mockProductRepo)
	suppliers := new(mockSupplierRepo)
	recorder := new(mockRecorder)
	recorder.On("Record", mock.Anything, mock.Anything).Return(nil)
	svc := NewProductService(products, suppliers, recorder, passthroughTx{}, zap.NewNop())
	return svc, products, suppliers
}

func TestProductService_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product with prices and supplier", func(t *testing.T) {
		svc, products, suppliers := newService()
		supplierID := uuid.New()
		supplier, err := partner.NewSupplier(tenantID, "SUP-1", "Fabric Mill", partner.CapabilitySupply)
		require.NoError(t, err)
		supplier.ID = supplierID

		products.On("ExistsBySKU", mock.Anything, tenantID, "CF-001").Return(false, nil)
		suppliers.On("FindByID", mock.Anything, tenantID, supplierID).Return(supplier, nil)
		products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		purchase := decimal.NewFromInt(30)
		floor := decimal.NewFromInt(40)
		selling := decimal.NewFromInt(100)
		response, err := svc.Create(context.Background(), tenantID, CreateProductRequest{
			SKU:               "cf-001",
			Name:              "Blackout Curtain Fabric",
			Category:          catalog.CategoryCurtainFabric,
			Unit:              "m",
			DefaultSupplierID: &supplierID,
			PurchasePrice:     &purchase,
			FloorPrice:        &floor,
			SellingPrice:      &selling,
		})
		require.NoError(t, err)

		assert.Equal(t, "CF-001", response.SKU)
		assert.True(t, response.FloorPrice.Equal(floor))
		require.NotNil(t, response.DefaultSupplierID)
		assert.Equal(t, supplierID, *response.DefaultSupplierID)
	})

	t.Run("duplicate SKU is rejected", func(t *testing.T) {
		svc, products, _ := newService()
		products.On("ExistsBySKU", mock.Anything, tenantID, "CF-001").Return(true, nil)

		_, err := svc.Create(context.Background(), tenantID, CreateProductRequest{
			SKU: "CF-001", Name: "Duplicate", Unit: "m",
		})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeAlreadyExists))
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown default supplier is rejected", func(t *testing.T) {
		svc, products, suppliers := newService()
		supplierID := uuid.New()

		products.On("ExistsBySKU", mock.Anything, tenantID, mock.Anything).Return(false, nil)
		suppliers.On("FindByID", mock.Anything, tenantID, supplierID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(context.Background(), tenantID, CreateProductRequest{
			SKU: "CF-002", Name: "Sheer", Unit: "m", DefaultSupplierID: &supplierID,
		})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestProductService_Update(t *testing.T) {
	tenantID := uuid.New()

	t.Run("updates prices on existing product", func(t *testing.T) {
		svc, products, _ := newService()
		product, err := catalog.NewProduct(tenantID, "CF-003", "Wallcloth", "roll", catalog.CategoryWallcloth)
		require.NoError(t, err)

		products.On("FindByID", mock.Anything, tenantID, product.ID).Return(product, nil)
		products.On("Save", mock.Anything, product).Return(nil)

		floor := decimal.NewFromInt(55)
		response, err := svc.Update(context.Background(), tenantID, UpdateProductRequest{
			ProductID:  product.ID,
			Name:       "Wallcloth Premium",
			FloorPrice: &floor,
		})
		require.NoError(t, err)
		assert.Equal(t, "Wallcloth Premium", response.Name)
		assert.True(t, response.FloorPrice.Equal(floor))
	})

	t.Run("missing product propagates not found", func(t *testing.T) {
		svc, products, _ := newService()
		productID := uuid.New()
		products.On("FindByID", mock.Anything, tenantID, productID).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(context.Background(), tenantID, UpdateProductRequest{
			ProductID: productID, Name: "X",
		})
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})
}
