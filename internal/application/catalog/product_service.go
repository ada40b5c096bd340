package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/catalog"
	"github.com/furnish/backend/internal/domain/partner"
	"github.com/furnish/backend/internal/domain/shared"
)

// ProductService handles catalog management operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	supplierRepo partner.SupplierRepository
	auditor      audit.Recorder
	tx           shared.TxManager
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		auditor:      auditor,
		tx:           tx,
		logger:       logger,
	}
}

// Create creates a new product. The SKU must be unique within the tenant and
// a default supplier, when given, must exist.
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "product with this SKU already exists")
	}

	if req.DefaultSupplierID != nil {
		if _, err := s.supplierRepo.FindByID(ctx, tenantID, *req.DefaultSupplierID); err != nil {
			if errors.Is(err, shared.ErrNotFound) || shared.IsCode(err, shared.CodeNotFound) {
				return nil, shared.NewDomainError(shared.CodeValidation, "default supplier not found")
			}
			return nil, err
		}
	}

	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.Unit, req.Category)
	if err != nil {
		return nil, err
	}
	product.CreatedBy = req.UserID

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.DefaultSupplierID != nil {
		product.SetDefaultSupplier(req.DefaultSupplierID)
	}
	if req.IsStockable {
		product.SetStockable(true)
	}
	if req.PurchasePrice != nil || req.FloorPrice != nil || req.SellingPrice != nil {
		purchase, floor, selling := product.PurchasePrice, product.FloorPrice, product.SellingPrice
		if req.PurchasePrice != nil {
			purchase = *req.PurchasePrice
		}
		if req.FloorPrice != nil {
			floor = *req.FloorPrice
		}
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		if err := product.SetPrices(purchase, floor, selling); err != nil {
			return nil, err
		}
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.productRepo.Save(ctx, product); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, product.TableName(), product.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"sku":      product.SKU,
				"name":     product.Name,
				"category": product.Category,
			})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sku", product.SKU))

	response := ToProductResponse(product)
	return &response, nil
}

// Update changes a product's details, pricing and procurement defaults
func (s *ProductService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	var product *catalog.Product
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.productRepo.FindByID(ctx, tenantID, req.ProductID)
		if err != nil {
			return err
		}

		before := audit.Snapshot(map[string]any{
			"name":          product.Name,
			"purchasePrice": product.PurchasePrice,
			"floorPrice":    product.FloorPrice,
			"sellingPrice":  product.SellingPrice,
		})

		if err := product.Update(req.Name, req.Description); err != nil {
			return err
		}
		if req.IsStockable != nil {
			product.SetStockable(*req.IsStockable)
		}
		if req.DefaultSupplierID != nil {
			if _, err := s.supplierRepo.FindByID(ctx, tenantID, *req.DefaultSupplierID); err != nil {
				return err
			}
			product.SetDefaultSupplier(req.DefaultSupplierID)
		}
		if req.PurchasePrice != nil || req.FloorPrice != nil || req.SellingPrice != nil {
			purchase, floor, selling := product.PurchasePrice, product.FloorPrice, product.SellingPrice
			if req.PurchasePrice != nil {
				purchase = *req.PurchasePrice
			}
			if req.FloorPrice != nil {
				floor = *req.FloorPrice
			}
			if req.SellingPrice != nil {
				selling = *req.SellingPrice
			}
			if err := product.SetPrices(purchase, floor, selling); err != nil {
				return err
			}
		}

		if err := s.productRepo.Save(ctx, product); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, product.TableName(), product.ID, audit.ActionUpdate).
			WithValues(before, audit.Snapshot(map[string]any{
				"name":          product.Name,
				"purchasePrice": product.PurchasePrice,
				"floorPrice":    product.FloorPrice,
				"sellingPrice":  product.SellingPrice,
			})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate takes a product off sale without deleting it
func (s *ProductService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID, userID *uuid.UUID) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		product, err := s.productRepo.FindByID(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		product.Deactivate()
		if err := s.productRepo.Save(ctx, product); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, product.TableName(), product.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": catalog.ProductStatusActive}),
				audit.Snapshot(map[string]any{"status": product.Status}),
			).
			WithUser(userID).
			WithDetails("product deactivated")
		return s.auditor.Record(ctx, entry)
	})
}

// GetByID retrieves one product
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products matching the filter
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProductResponse, int64, error) {
	products, err := s.productRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}
