package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnish/backend/internal/domain/partner"
)

// CreateSupplierRequest registers a new supplier
type CreateSupplierRequest struct {
	Code        string                     `json:"code" binding:"required,max=50"`
	Name        string                     `json:"name" binding:"required,max=200"`
	Capability  partner.SupplierCapability `json:"capability"`
	ContactName string                     `json:"contactName" binding:"max=100"`
	Phone       string                     `json:"phone" binding:"max=50"`
	Address     string                     `json:"address" binding:"max=500"`
	UserID      *uuid.UUID                 `json:"-"`
}

// SupplierResponse is the API shape of a supplier
type SupplierResponse struct {
	ID          uuid.UUID                  `json:"id"`
	Code        string                     `json:"code"`
	Name        string                     `json:"name"`
	Capability  partner.SupplierCapability `json:"capability"`
	ContactName string                     `json:"contactName,omitempty"`
	Phone       string                     `json:"phone,omitempty"`
	Status      partner.SupplierStatus     `json:"status"`
	CreatedAt   time.Time                  `json:"createdAt"`
}

// ToSupplierResponse maps a supplier to its API shape
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Capability:  s.Capability,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
	}
}

// CreateChannelRequest registers a new sales channel
type CreateChannelRequest struct {
	Code            string                  `json:"code" binding:"required,max=50"`
	Name            string                  `json:"name" binding:"required,max=200"`
	CooperationMode partner.CooperationMode `json:"cooperationMode" binding:"required"`
	CommissionRate  decimal.Decimal         `json:"commissionRate"`
	UserID          *uuid.UUID              `json:"-"`
}

// UpdateChannelCommissionRequest changes how a channel's commission is computed
type UpdateChannelCommissionRequest struct {
	ChannelID       uuid.UUID               `json:"-"`
	CooperationMode partner.CooperationMode `json:"cooperationMode" binding:"required"`
	CommissionRate  decimal.Decimal         `json:"commissionRate"`
	UserID          *uuid.UUID              `json:"-"`
}

// ChannelResponse is the API shape of a sales channel
type ChannelResponse struct {
	ID              uuid.UUID               `json:"id"`
	Code            string                  `json:"code"`
	Name            string                  `json:"name"`
	CooperationMode partner.CooperationMode `json:"cooperationMode"`
	CommissionRate  decimal.Decimal         `json:"commissionRate"`
	Status          partner.ChannelStatus   `json:"status"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// ToChannelResponse maps a channel to its API shape
func ToChannelResponse(c *partner.Channel) ChannelResponse {
	return ChannelResponse{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		CooperationMode: c.CooperationMode,
		CommissionRate:  c.CommissionRate,
		Status:          c.Status,
		CreatedAt:       c.CreatedAt,
	}
}

// CreateCustomerRequest registers a new customer
type CreateCustomerRequest struct {
	Name      string     `json:"name" binding:"required,max=100"`
	Phone     string     `json:"phone" binding:"max=50"`
	Address   string     `json:"address" binding:"max=500"`
	ChannelID *uuid.UUID `json:"channelId"`
	UserID    *uuid.UUID `json:"-"`
}

// CustomerResponse is the API shape of a customer
type CustomerResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
	ChannelID *uuid.UUID `json:"channelId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ToCustomerResponse maps a customer to its API shape
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		ChannelID: c.ChannelID,
		CreatedAt: c.CreatedAt,
	}
}
