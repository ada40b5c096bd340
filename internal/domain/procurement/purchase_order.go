package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// POType classifies how a purchase order is fulfilled
type POType string

const (
	// POTypeStock is fulfilled from own warehouse stock
	POTypeStock POType = "STOCK"
	// POTypeFabric procures raw fabric for processing
	POTypeFabric POType = "FABRIC"
	// POTypeFinished procures finished goods from the supplier
	POTypeFinished POType = "FINISHED"
)

// POStatus represents the fulfillment status of a purchase order
type POStatus string

const (
	POStatusPending   POStatus = "PENDING"
	POStatusConfirmed POStatus = "CONFIRMED"
	POStatusProducing POStatus = "PRODUCING"
	POStatusShipped   POStatus = "SHIPPED"
	POStatusReceived  POStatus = "RECEIVED"
	POStatusCancelled POStatus = "CANCELLED"
)

// POPaymentStatus tracks supplier payment progress
type POPaymentStatus string

const (
	POPaymentUnpaid  POPaymentStatus = "UNPAID"
	POPaymentPartial POPaymentStatus = "PARTIAL"
	POPaymentPaid    POPaymentStatus = "PAID"
)

// PurchaseOrder is a supplier-facing fragment of a customer order, produced
// by splitting the order's items by supplier. There is at most one PO per
// (order, supplier) pair.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	PONo          string              `gorm:"column:po_no;type:varchar(50);not null;uniqueIndex:idx_po_tenant_no,priority:2"`
	OrderID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	Type          POType              `gorm:"type:varchar(20);not null"`
	Status        POStatus            `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentStatus POPaymentStatus     `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Remark        string              `gorm:"type:text"`
	Items         []PurchaseOrderItem `gorm:"foreignKey:POID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItem is one line on a purchase order, referencing the
// originating order item for traceability.
type PurchaseOrderItem struct {
	shared.BaseEntity
	POID        uuid.UUID       `gorm:"column:po_id;type:uuid;not null;index"`
	OrderItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"type:varchar(50)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrder creates a purchase order for one supplier group.
// The total amount is the sum of the item subtotals, recomputed here.
func NewPurchaseOrder(tenantID uuid.UUID, poNo string, orderID, supplierID uuid.UUID, poType POType, items []PurchaseOrderItem) (*PurchaseOrder, error) {
	if poNo == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "purchase order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "purchase order must have at least one item")
	}
	switch poType {
	case POTypeStock, POTypeFabric, POTypeFinished:
	default:
		return nil, shared.NewDomainError("VALIDATION_ERROR", "unknown purchase order type: "+string(poType))
	}

	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PONo:                poNo,
		OrderID:             orderID,
		SupplierID:          supplierID,
		Type:                poType,
		Status:              POStatusPending,
		PaymentStatus:       POPaymentUnpaid,
	}

	total := decimal.Zero
	for i := range items {
		items[i].POID = po.ID
		items[i].Subtotal = items[i].Quantity.Mul(items[i].UnitPrice).Round(2)
		total = total.Add(items[i].Subtotal)
	}
	po.Items = items
	po.TotalAmount = total.Round(2)
	return po, nil
}

// UpdateStatus moves the purchase order through its fulfillment lifecycle
func (po *PurchaseOrder) UpdateStatus(status POStatus) error {
	if po.Status == POStatusReceived || po.Status == POStatusCancelled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("purchase order in status %s is terminal", po.Status))
	}

	po.Status = status
	po.UpdatedAt = time.Now()
	po.IncrementVersion()
	return nil
}

// RecordPayment updates the payment status based on the amount paid so far
func (po *PurchaseOrder) RecordPayment(paidTotal decimal.Decimal) {
	switch {
	case paidTotal.GreaterThanOrEqual(po.TotalAmount):
		po.PaymentStatus = POPaymentPaid
	case paidTotal.IsPositive():
		po.PaymentStatus = POPaymentPartial
	default:
		po.PaymentStatus = POPaymentUnpaid
	}
	po.UpdatedAt = time.Now()
	po.IncrementVersion()
}
