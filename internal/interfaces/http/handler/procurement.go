package handler

import (
	"github.com/gin-gonic/gin"

	appproc "github.com/furnish/backend/internal/application/procurement"
)

// ProcurementHandler exposes order splitting and purchase order queries
type ProcurementHandler struct {
	BaseHandler
	split *appproc.SplitService
}

// NewProcurementHandler creates a new ProcurementHandler
func NewProcurementHandler(split *appproc.SplitService) *ProcurementHandler {
	return &ProcurementHandler{split: split}
}

// Split fans the order's items out into one purchase order per supplier
func (h *ProcurementHandler) Split(c *gin.Context) {
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

	if err := h.split.SplitOrderToPOs(c.Request.Context(), tenantID, orderID, getUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	pos, err := h.split.ListPOs(c.Request.Context(), tenantID, orderFilter(orderID.String()))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pos)
}

// GetPO retrieves one purchase order with its items
func (h *ProcurementHandler) GetPO(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "tenant context required")
		return
	}

	poID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID")
		return
	}

	po, err := h.split.GetPO(c.Request.Context(), tenantID, poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// ListPOs retrieves purchase orders matching the filter
func (h *ProcurementHandler) ListPOs(c *gin.Context) {
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

	pos, err := h.split.ListPOs(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pos)
}

// ListPendingAssignments retrieves the open manual-assignment queue
func (h *ProcurementHandler) ListPendingAssignments(c *gin.Context) {
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

	assignments, err := h.split.ListPendingAssignments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignments)
}
