package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/catalog"
)

// CreateProductRequest creates a new catalog product
type CreateProductRequest struct {
	SKU               string                  `json:"sku" binding:"required,max=50"`
	Name              string                  `json:"name" binding:"required,max=200"`
	Description       string                  `json:"description"`
	Category          catalog.ProductCategory `json:"category"`
	Unit              string                  `json:"unit" binding:"required,max=20"`
	IsStockable       bool                    `json:"isStockable"`
	DefaultSupplierID *uuid.UUID              `json:"defaultSupplierId"`
	PurchasePrice     *decimal.Decimal        `json:"purchasePrice"`
	FloorPrice        *decimal.Decimal        `json:"floorPrice"`
	SellingPrice      *decimal.Decimal        `json:"sellingPrice"`
	UserID            *uuid.UUID              `json:"-"`
}

// UpdateProductRequest updates an existing product
type UpdateProductRequest struct {
	ProductID         uuid.UUID        `json:"-"`
	Name              string           `json:"name" binding:"required,max=200"`
	Description       string           `json:"description"`
	IsStockable       *bool            `json:"isStockable"`
	DefaultSupplierID *uuid.UUID       `json:"defaultSupplierId"`
	PurchasePrice     *decimal.Decimal `json:"purchasePrice"`
	FloorPrice        *decimal.Decimal `json:"floorPrice"`
	SellingPrice      *decimal.Decimal `json:"sellingPrice"`
	UserID            *uuid.UUID       `json:"-"`
}

// ProductResponse is the API shape of a product
type ProductResponse struct {
	ID                uuid.UUID               `json:"id"`
	SKU               string                  `json:"sku"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description,omitempty"`
	Category          catalog.ProductCategory `json:"category"`
	Unit              string                  `json:"unit"`
	IsStockable       bool                    `json:"isStockable"`
	DefaultSupplierID *uuid.UUID              `json:"defaultSupplierId,omitempty"`
	PurchasePrice     decimal.Decimal         `json:"purchasePrice"`
	FloorPrice        decimal.Decimal         `json:"floorPrice"`
	SellingPrice      decimal.Decimal         `json:"sellingPrice"`
	Status            catalog.ProductStatus   `json:"status"`
	Version           int                     `json:"version"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// ToProductResponse maps a product to its API shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Unit:              p.Unit,
		IsStockable:       p.IsStockable,
		DefaultSupplierID: p.DefaultSupplierID,
		PurchasePrice:     p.PurchasePrice,
		FloorPrice:        p.FloorPrice,
		SellingPrice:      p.SellingPrice,
		Status:            p.Status,
		Version:           p.Version,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
