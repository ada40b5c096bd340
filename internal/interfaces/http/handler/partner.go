package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/furnish/backend/internal/application/partner"
)

// PartnerHandler exposes suppliers, sales channels and customers over HTTP
type PartnerHandler struct {
	BaseHandler
	partners *apppartner.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partners *apppartner.PartnerService) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// CreateSupplier registers a new supplier
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	var req apppartner.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.UserID = getUserID(c)

	supplier, err := h.partners.CreateSupplier(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// BlockSupplier stops a supplier from receiving new purchase orders
func (h *PartnerHandler) BlockSupplier(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	supplierID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.partners.BlockSupplier(c.Request.Context(), tenantID, supplierID, getUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSuppliers retrieves suppliers matching the filter
func (h *PartnerHandler) ListSuppliers(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	suppliers, err := h.partners.ListSuppliers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// CreateChannel registers a new sales channel
func (h *PartnerHandler) CreateChannel(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	var req apppartner.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.UserID = getUserID(c)

	channel, err := h.partners.CreateChannel(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, channel)
}

// UpdateChannelCommission changes a channel's cooperation mode and rate
func (h *PartnerHandler) UpdateChannelCommission(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	channelID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid channel ID")
		return
	}

	var req apppartner.UpdateChannelCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ChannelID = channelID
	req.UserID = getUserID(c)

	channel, err := h.partners.UpdateChannelCommission(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, channel)
}

// ListChannels retrieves channels matching the filter
func (h *PartnerHandler) ListChannels(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	channels, err := h.partners.ListChannels(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, channels)
}

// CreateCustomer registers a new customer
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	var req apppartner.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.UserID = getUserID(c)

	customer, err := h.partners.CreateCustomer(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// ListCustomers retrieves customers matching the filter
func (h *PartnerHandler) ListCustomers(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	filter, ok := bindFilter(c)
	if !ok {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	customers, err := h.partners.ListCustomers(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}
