package sales

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPendingPO         OrderStatus = "PENDING_PO"
	OrderStatusConfirmed         OrderStatus = "CONFIRMED"
	OrderStatusPendingProduction OrderStatus = "PENDING_PRODUCTION"
	OrderStatusInProduction      OrderStatus = "IN_PRODUCTION"
	OrderStatusPendingDelivery   OrderStatus = "PENDING_DELIVERY"
	OrderStatusPendingInstall    OrderStatus = "PENDING_INSTALL"
	OrderStatusInstalled         OrderStatus = "INSTALLATION_COMPLETED"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusHalted            OrderStatus = "HALTED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
)

// orderTransitions is the forward state machine. HALTED and CANCELLED are
// handled separately because they snapshot or terminate the current status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingPO:         {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:         {OrderStatusPendingProduction, OrderStatusCancelled},
	OrderStatusPendingProduction: {OrderStatusInProduction, OrderStatusCancelled},
	OrderStatusInProduction:      {OrderStatusPendingDelivery, OrderStatusCancelled},
	OrderStatusPendingDelivery:   {OrderStatusPendingInstall, OrderStatusCancelled},
	OrderStatusPendingInstall:    {OrderStatusInstalled, OrderStatusCancelled},
	OrderStatusInstalled:         {OrderStatusCompleted},
	OrderStatusCompleted:         {},
	OrderStatusHalted:            {},
	OrderStatusCancelled:         {},
}

// haltableStatuses are the statuses an order may be halted from
var haltableStatuses = map[OrderStatus]struct{}{
	OrderStatusPendingPO:         {},
	OrderStatusConfirmed:         {},
	OrderStatusPendingProduction: {},
	OrderStatusInProduction:      {},
	OrderStatusPendingDelivery:   {},
	OrderStatusPendingInstall:    {},
}

// CanTransition reports whether the state machine allows from -> to
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a confirmed sale created from exactly one won quote.
// Customer name and phone are snapshots taken at conversion time.
type Order struct {
	shared.TenantAggregateRoot
	OrderNo       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_no,priority:2"`
	QuoteID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_tenant_quote,priority:2"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(100);not null"`
	CustomerPhone string          `gorm:"type:varchar(50)"`
	ChannelID     *uuid.UUID      `gorm:"type:uuid;index"`
	Status        OrderStatus     `gorm:"type:varchar(30);not null;default:'PENDING_PO';index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsLocked      bool            `gorm:"not null;default:false"`
	LockedAt      *time.Time
	// Halt bookkeeping. PreviousStatus is only meaningful while HALTED.
	PreviousStatus      OrderStatus `gorm:"type:varchar(30)"`
	PausedAt            *time.Time
	PauseReason         string `gorm:"type:text"`
	PauseCumulativeDays int    `gorm:"not null;default:0"`
	CancellationReason  string `gorm:"type:text"`
	Remark              string `gorm:"type:text"`
	Items               []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line on an order, copied from a quote item at conversion.
// POID and SupplierID are back-filled when the order is split into POs.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	QuoteItemID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName string           `gorm:"type:varchar(200);not null"`
	SKU         string           `gorm:"type:varchar(50)"`
	Quantity    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Subtotal    decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Width       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Height      *decimal.Decimal `gorm:"type:decimal(10,2)"`
	POID        *uuid.UUID       `gorm:"column:po_id;type:uuid;index"`
	SupplierID  *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderFromQuote assembles an order from a won quote and an initial
// payment. Every quote item is copied into an order item; subtotals are
// recomputed from quantity and unit price.
func NewOrderFromQuote(quote *Quote, orderNo string, paymentAmount decimal.Decimal) (*Order, error) {
	if !quote.IsWon() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("quote %s is %s, only a WON quote can be converted", quote.QuoteNo, quote.Status))
	}
	if orderNo == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "order number cannot be empty")
	}
	if paymentAmount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "payment amount cannot be negative")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(quote.TenantID),
		OrderNo:             orderNo,
		QuoteID:             quote.ID,
		CustomerID:          quote.CustomerID,
		CustomerName:        quote.CustomerName,
		CustomerPhone:       quote.CustomerPhone,
		ChannelID:           quote.ChannelID,
		Status:              OrderStatusPendingPO,
		PaidAmount:          paymentAmount,
	}

	total := decimal.Zero
	for _, qi := range quote.Items {
		subtotal := qi.Quantity.Mul(qi.UnitPrice).Round(2)
		order.Items = append(order.Items, OrderItem{
			BaseEntity:  shared.NewBaseEntity(),
			OrderID:     order.ID,
			QuoteItemID: qi.ID,
			ProductID:   qi.ProductID,
			ProductName: qi.ProductName,
			SKU:         qi.SKU,
			Quantity:    qi.Quantity,
			UnitPrice:   qi.UnitPrice,
			Subtotal:    subtotal,
			Width:       qi.Width,
			Height:      qi.Height,
		})
		total = total.Add(subtotal)
	}

	order.TotalAmount = total
	order.BalanceAmount = total.Sub(paymentAmount)
	return order, nil
}

// TransitionTo moves the order to a new status, enforcing the state machine
func (o *Order) TransitionTo(status OrderStatus) error {
	if !CanTransition(o.Status, status) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("invalid order status transition from %s to %s", o.Status, status))
	}

	o.Status = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Lock freezes item edits on the order
func (o *Order) Lock() error {
	if o.IsLocked {
		return shared.NewDomainError("INVALID_STATE", "order is already locked")
	}

	now := time.Now()
	o.IsLocked = true
	o.LockedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Halt pauses the order, snapshotting the current status so Resume can
// restore it.
func (o *Order) Halt(reason string) error {
	if _, ok := haltableStatuses[o.Status]; !ok {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("order in status %s cannot be halted", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "halt reason is required")
	}

	now := time.Now()
	o.PreviousStatus = o.Status
	o.Status = OrderStatusHalted
	o.PausedAt = &now
	o.PauseReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Resume restores the status snapshotted by Halt and accumulates the paused
// duration in whole days (rounded up).
func (o *Order) Resume() error {
	if o.Status != OrderStatusHalted {
		return shared.NewDomainError("INVALID_STATE", "order is not halted")
	}

	previous := o.PreviousStatus
	if previous == "" {
		previous = OrderStatusInProduction
	}

	now := time.Now()
	if o.PausedAt != nil {
		days := int(math.Ceil(now.Sub(*o.PausedAt).Hours() / 24))
		o.PauseCumulativeDays += days
	}

	o.Status = previous
	o.PreviousStatus = ""
	o.PausedAt = nil
	o.PauseReason = ""
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// Cancel terminates the order and locks it against further edits
func (o *Order) Cancel(reason string) error {
	if o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("order in status %s cannot be cancelled", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancellationReason = reason
	o.IsLocked = true
	o.LockedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	return nil
}

// ApplyPayment records additional paid amount and recomputes the balance
func (o *Order) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "payment amount must be positive")
	}

	o.PaidAmount = o.PaidAmount.Add(amount)
	o.BalanceAmount = o.TotalAmount.Sub(o.PaidAmount)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}
