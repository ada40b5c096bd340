package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/procurement"
)

// POItemResponse is the API shape of one purchase order line
type POItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderItemID uuid.UUID       `json:"orderItemId"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// POResponse is the API shape of a purchase order
type POResponse struct {
	ID            uuid.UUID                   `json:"id"`
	PONo          string                      `json:"poNo"`
	OrderID       uuid.UUID                   `json:"orderId"`
	SupplierID    uuid.UUID                   `json:"supplierId"`
	Type          procurement.POType          `json:"type"`
	Status        procurement.POStatus        `json:"status"`
	PaymentStatus procurement.POPaymentStatus `json:"paymentStatus"`
	TotalAmount   decimal.Decimal             `json:"totalAmount"`
	Remark        string                      `json:"remark,omitempty"`
	Version       int                         `json:"version"`
	Items         []POItemResponse            `json:"items,omitempty"`
	CreatedAt     time.Time                   `json:"createdAt"`
}

// ToPOResponse maps a purchase order to its API shape
func ToPOResponse(po *procurement.PurchaseOrder) POResponse {
	items := make([]POItemResponse, 0, len(po.Items))
	for _, item := range po.Items {
		items = append(items, POItemResponse{
			ID:          item.ID,
			OrderItemID: item.OrderItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return POResponse{
		ID:            po.ID,
		PONo:          po.PONo,
		OrderID:       po.OrderID,
		SupplierID:    po.SupplierID,
		Type:          po.Type,
		Status:        po.Status,
		PaymentStatus: po.PaymentStatus,
		TotalAmount:   po.TotalAmount,
		Remark:        po.Remark,
		Version:       po.GetVersion(),
		Items:         items,
		CreatedAt:     po.CreatedAt,
	}
}

// PendingAssignmentResponse is the API shape of one pooled order item
type PendingAssignmentResponse struct {
	ID          uuid.UUID                           `json:"id"`
	OrderID     uuid.UUID                           `json:"orderId"`
	OrderItemID uuid.UUID                           `json:"orderItemId"`
	ProductID   uuid.UUID                           `json:"productId"`
	ProductName string                              `json:"productName"`
	Reason      string                              `json:"reason"`
	Status      procurement.PendingAssignmentStatus `json:"status"`
	ResolvedBy  *uuid.UUID                          `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time                          `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time                           `json:"createdAt"`
}

// ToPendingAssignmentResponse maps a pending assignment to its API shape
func ToPendingAssignmentResponse(p *procurement.PendingAssignment) PendingAssignmentResponse {
	return PendingAssignmentResponse{
		ID:          p.ID,
		OrderID:     p.OrderID,
		OrderItemID: p.OrderItemID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Reason:      p.Reason,
		Status:      p.Status,
		ResolvedBy:  p.ResolvedBy,
		ResolvedAt:  p.ResolvedAt,
		CreatedAt:   p.CreatedAt,
	}
}
