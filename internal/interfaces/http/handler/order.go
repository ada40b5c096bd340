package handler

import (
	"github.com/gin-gonic/gin"

	appsales "github.com/furnish/backend/internal/application/sales"
)

// OrderHandler exposes the order lifecycle over HTTP
type OrderHandler struct {
	BaseHandler
	orders *appsales.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *appsales.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// versionRequest carries the optimistic lock version for bodyless mutations
type versionRequest struct {
	Version int `json:"version" binding:"required"`
}

// Convert creates an order from a won quote
func (h *OrderHandler) Convert(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	var req appsales.ConvertFromQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.UserID = getUserID(c)

	order, err := h.orders.ConvertFromQuote(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get retrieves one order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List retrieves orders matching the filter
func (h *OrderHandler) List(c *gin.Context) {
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

	orders, err := h.orders.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// UpdateStatus moves an order to a new fulfillment status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req appsales.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OrderID = orderID
	req.UserID = getUserID(c)

	order, err := h.orders.UpdateStatus(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Lock freezes an order against further mutation
func (h *OrderHandler) Lock(c *gin.Context) {
	h.lockUnlock(c, true)
}

// Resume lifts a pause and accrues the paused days
func (h *OrderHandler) Resume(c *gin.Context) {
	h.lockUnlock(c, false)
}

func (h *OrderHandler) lockUnlock(c *gin.Context, lock bool) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req versionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	var order *appsales.OrderResponse
	if lock {
		order, err = h.orders.Lock(c.Request.Context(), tenantID, orderID, req.Version, getUserID(c))
	} else {
		order, err = h.orders.Resume(c.Request.Context(), tenantID, orderID, req.Version, getUserID(c))
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Halt pauses an order with a reason
func (h *OrderHandler) Halt(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req appsales.HaltOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OrderID = orderID
	req.UserID = getUserID(c)

	order, err := h.orders.Halt(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel terminates an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req appsales.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.OrderID = orderID
	req.UserID = getUserID(c)

	order, err := h.orders.Cancel(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
