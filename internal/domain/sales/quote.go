package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/shared"
)

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft QuoteStatus = "DRAFT"
	QuoteStatusSent  QuoteStatus = "SENT"
	QuoteStatusWon   QuoteStatus = "WON"
	QuoteStatusLost  QuoteStatus = "LOST"
)

// Quote represents a priced proposal for a customer.
// Once converted into an order it becomes immutable.
type Quote struct {
	shared.TenantAggregateRoot
	QuoteNo       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_quote_tenant_no,priority:2"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(100);not null"`
	CustomerPhone string          `gorm:"type:varchar(50)"`
	ChannelID     *uuid.UUID      `gorm:"type:uuid;index"` // Referring sales channel, if any
	Status        QuoteStatus     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Remark        string          `gorm:"type:text"`
	Items         []QuoteItem     `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem is one priced line on a quote. Width and height capture
// made-to-measure dimensions and are carried onto the order verbatim.
type QuoteItem struct {
	shared.BaseEntity
	QuoteID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName string           `gorm:"type:varchar(200);not null"`
	SKU         string           `gorm:"type:varchar(50)"`
	Quantity    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Subtotal    decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Width       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Height      *decimal.Decimal `gorm:"type:decimal(10,2)"`
}

// TableName returns the table name for GORM
func (QuoteItem) TableName() string {
	return "quote_items"
}

// NewQuote creates a draft quote for a customer
func NewQuote(tenantID uuid.UUID, quoteNo string, customerID uuid.UUID, customerName, customerPhone string) (*Quote, error) {
	if quoteNo == "" {
		return nil, shared.NewDomainError("INVALID_QUOTE", "quote number cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_QUOTE", "customer name cannot be empty")
	}

	return &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		QuoteNo:             quoteNo,
		CustomerID:          customerID,
		CustomerName:        customerName,
		CustomerPhone:       customerPhone,
		Status:              QuoteStatusDraft,
		TotalAmount:         decimal.Zero,
	}, nil
}

// AddItem appends a line to a draft quote. The subtotal is always recomputed
// from quantity and unit price, never trusted from the caller.
func (q *Quote) AddItem(productID uuid.UUID, productName, sku string, quantity, unitPrice decimal.Decimal, width, height *decimal.Decimal) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "items can only be added to a draft quote")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "unit price cannot be negative")
	}

	subtotal := quantity.Mul(unitPrice).Round(2)
	q.Items = append(q.Items, QuoteItem{
		BaseEntity:  shared.NewBaseEntity(),
		QuoteID:     q.ID,
		ProductID:   productID,
		ProductName: productName,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
		Width:       width,
		Height:      height,
	})
	q.TotalAmount = q.TotalAmount.Add(subtotal)
	q.UpdatedAt = time.Now()
	return nil
}

// MarkSent marks the quote as sent to the customer
func (q *Quote) MarkSent() error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "only a draft quote can be sent")
	}
	q.Status = QuoteStatusSent
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// MarkWon marks the quote as won, making it eligible for order conversion
func (q *Quote) MarkWon() error {
	if q.Status != QuoteStatusDraft && q.Status != QuoteStatusSent {
		return shared.NewDomainError("INVALID_STATE", "only a draft or sent quote can be won")
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("INVALID_STATE", "quote has no items")
	}
	q.Status = QuoteStatusWon
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// MarkLost marks the quote as lost
func (q *Quote) MarkLost() error {
	if q.Status == QuoteStatusWon {
		return shared.NewDomainError("INVALID_STATE", "a won quote cannot be marked lost")
	}
	q.Status = QuoteStatusLost
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// IsWon reports whether the quote is eligible for conversion
func (q *Quote) IsWon() bool {
	return q.Status == QuoteStatusWon
}
