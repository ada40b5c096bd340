package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/sales"
)

// ConvertFromQuoteRequest is the input for quote-to-order conversion
type ConvertFromQuoteRequest struct {
	QuoteID       uuid.UUID        `json:"quoteId" binding:"required"`
	PaymentAmount *decimal.Decimal `json:"paymentAmount"`
	UserID        *uuid.UUID       `json:"-"`
}

// UpdateOrderStatusRequest moves an order to a new status
type UpdateOrderStatusRequest struct {
	OrderID uuid.UUID         `json:"-"`
	Status  sales.OrderStatus `json:"status" binding:"required"`
	Version int               `json:"version" binding:"required"`
	UserID  *uuid.UUID        `json:"-"`
}

// HaltOrderRequest pauses an order
type HaltOrderRequest struct {
	OrderID uuid.UUID  `json:"-"`
	Reason  string     `json:"reason" binding:"required"`
	Version int        `json:"version" binding:"required"`
	UserID  *uuid.UUID `json:"-"`
}

// CancelOrderRequest terminates an order
type CancelOrderRequest struct {
	OrderID uuid.UUID  `json:"-"`
	Reason  string     `json:"reason" binding:"required"`
	Version int        `json:"version" binding:"required"`
	UserID  *uuid.UUID `json:"-"`
}

// OrderItemResponse is the API shape of one order line
type OrderItemResponse struct {
	ID          uuid.UUID        `json:"id"`
	QuoteItemID uuid.UUID        `json:"quoteItemId"`
	ProductID   uuid.UUID        `json:"productId"`
	ProductName string           `json:"productName"`
	SKU         string           `json:"sku,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	Width       *decimal.Decimal `json:"width,omitempty"`
	Height      *decimal.Decimal `json:"height,omitempty"`
	POID        *uuid.UUID       `json:"poId,omitempty"`
	SupplierID  *uuid.UUID       `json:"supplierId,omitempty"`
}

// OrderResponse is the API shape of an order
type OrderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	OrderNo             string              `json:"orderNo"`
	QuoteID             uuid.UUID           `json:"quoteId"`
	CustomerName        string              `json:"customerName"`
	CustomerPhone       string              `json:"customerPhone,omitempty"`
	ChannelID           *uuid.UUID          `json:"channelId,omitempty"`
	Status              sales.OrderStatus   `json:"status"`
	TotalAmount         decimal.Decimal     `json:"totalAmount"`
	PaidAmount          decimal.Decimal     `json:"paidAmount"`
	BalanceAmount       decimal.Decimal     `json:"balanceAmount"`
	IsLocked            bool                `json:"isLocked"`
	PauseCumulativeDays int                 `json:"pauseCumulativeDays"`
	Version             int                 `json:"version"`
	Items               []OrderItemResponse `json:"items,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// ToOrderResponse maps a domain order to its API shape
func ToOrderResponse(order *sales.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			QuoteItemID: item.QuoteItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
			Width:       item.Width,
			Height:      item.Height,
			POID:        item.POID,
			SupplierID:  item.SupplierID,
		})
	}

	return OrderResponse{
		ID:                  order.ID,
		OrderNo:             order.OrderNo,
		QuoteID:             order.QuoteID,
		CustomerName:        order.CustomerName,
		CustomerPhone:       order.CustomerPhone,
		ChannelID:           order.ChannelID,
		Status:              order.Status,
		TotalAmount:         order.TotalAmount,
		PaidAmount:          order.PaidAmount,
		BalanceAmount:       order.BalanceAmount,
		IsLocked:            order.IsLocked,
		PauseCumulativeDays: order.PauseCumulativeDays,
		Version:             order.GetVersion(),
		Items:               items,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}
