package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// ProductCategory classifies a product for quoting and procurement routing
type ProductCategory string

const (
	CategoryCurtain          ProductCategory = "CURTAIN"
	CategoryCurtainFabric    ProductCategory = "CURTAIN_FABRIC"
	CategoryCurtainSheer     ProductCategory = "CURTAIN_SHEER"
	CategoryCurtainTrack     ProductCategory = "CURTAIN_TRACK"
	CategoryCurtainAccessory ProductCategory = "CURTAIN_ACCESSORY"
	CategoryMotor            ProductCategory = "MOTOR"
	CategoryWallpaper        ProductCategory = "WALLPAPER"
	CategoryWallcloth        ProductCategory = "WALLCLOTH"
	CategoryWallclothAccess  ProductCategory = "WALLCLOTH_ACCESSORY"
	CategoryWallPanel        ProductCategory = "WALLPANEL"
	CategoryWindowPad        ProductCategory = "WINDOWPAD"
	CategoryMattress         ProductCategory = "MATTRESS"
	CategoryStandard         ProductCategory = "STANDARD"
	CategoryOther            ProductCategory = "OTHER"
)

// fabricCategories are the categories that route a purchase order to the
// fabric procurement flow when any order line carries one of them.
var fabricCategories = map[ProductCategory]struct{}{
	CategoryCurtainFabric: {},
	CategoryCurtainSheer:  {},
	CategoryWallcloth:     {},
}

// IsFabric reports whether the category belongs to the fabric procurement flow
func (c ProductCategory) IsFabric() bool {
	_, ok := fabricCategories[c]
	return ok
}

// Product represents a sellable SKU in the catalog.
// It is the aggregate root for product-related operations.
type Product struct {
	shared.TenantAggregateRoot
	SKU               string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	Category          ProductCategory `gorm:"type:varchar(30);not null;default:'OTHER';index"`
	Unit              string          `gorm:"type:varchar(20);not null"` // Base unit (e.g., "pcs", "m", "roll")
	IsStockable       bool            `gorm:"not null;default:false"`    // Fulfillable from own warehouse stock
	DefaultSupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cost price
	FloorPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Minimum settlement base price
	SellingPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Default selling price
	Status            ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder         int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(tenantID uuid.UUID, sku, name, unit string, category ProductCategory) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "product unit cannot be empty")
	}
	if category == "" {
		category = CategoryOther
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		Category:            category,
		Unit:                unit,
		PurchasePrice:       decimal.Zero,
		FloorPrice:          decimal.Zero,
		SellingPrice:        decimal.Zero,
		Status:              ProductStatusActive,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetPrices updates the product's purchase, floor and selling prices
func (p *Product) SetPrices(purchasePrice, floorPrice, sellingPrice decimal.Decimal) error {
	if purchasePrice.IsNegative() || floorPrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRODUCT", "prices cannot be negative")
	}

	p.PurchasePrice = purchasePrice
	p.FloorPrice = floorPrice
	p.SellingPrice = sellingPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetDefaultSupplier assigns the supplier new purchase orders default to
func (p *Product) SetDefaultSupplier(supplierID *uuid.UUID) {
	p.DefaultSupplierID = supplierID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetStockable marks whether the product is fulfillable from warehouse stock
func (p *Product) SetStockable(stockable bool) {
	p.IsStockable = stockable
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// CommissionBasePrice returns the per-unit base price used for margin
// commission: floor price when set, otherwise purchase price, otherwise zero.
func (p *Product) CommissionBasePrice() decimal.Decimal {
	if p.FloorPrice.IsPositive() {
		return p.FloorPrice
	}
	if p.PurchasePrice.IsPositive() {
		return p.PurchasePrice
	}
	return decimal.Zero
}

// Activate sets the product status to active
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate sets the product status to inactive
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_PRODUCT", "product SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT", "product name cannot exceed 200 characters")
	}
	return nil
}
