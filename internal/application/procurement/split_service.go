package procurement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/catalog"
	"github.com/furnish/backend/internal/domain/partner"
	"github.com/furnish/backend/internal/domain/procurement"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

// SplitService partitions an order's items into purchase orders grouped by
// supplier. The whole split is atomic: a missing supplier aborts every PO,
// never just its own group.
type SplitService struct {
	orderRepo    sales.OrderRepository
	productRepo  catalog.ProductRepository
	supplierRepo partner.SupplierRepository
	poRepo       procurement.PurchaseOrderRepository
	pendingRepo  procurement.PendingAssignmentRepository
	numberGen    procurement.PONumberGenerator
	auditor      audit.Recorder
	tx           shared.TxManager
	logger       *zap.Logger
}

// NewSplitService creates a new SplitService
func NewSplitService(
	orderRepo sales.OrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	poRepo procurement.PurchaseOrderRepository,
	pendingRepo procurement.PendingAssignmentRepository,
	numberGen procurement.PONumberGenerator,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *SplitService {
	return &SplitService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		poRepo:       poRepo,
		pendingRepo:  pendingRepo,
		numberGen:    numberGen,
		auditor:      auditor,
		tx:           tx,
		logger:       logger,
	}
}

// SplitOrderToPOs creates one purchase order per supplier group of the
// order's items and back-fills poId/supplierId onto each source item. Items
// without a resolvable supplier are parked in the manual-assignment queue.
// Runs in the caller's transaction when ctx already carries one.
func (s *SplitService) SplitOrderToPOs(ctx context.Context, tenantID, orderID uuid.UUID, userID *uuid.UUID) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if len(order.Items) == 0 {
			s.logger.Info("order has no items, nothing to split",
				zap.String("order_no", order.OrderNo))
			return nil
		}

		exists, err := s.poRepo.ExistsForOrder(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeInvalidState,
				fmt.Sprintf("order %s has already been split", order.OrderNo))
		}

		plan, err := s.buildPlan(ctx, tenantID, order)
		if err != nil {
			return err
		}

		for _, line := range plan.Pending {
			reason := "product has no default supplier"
			if line.Product == nil {
				reason = "product not found in catalog"
			}
			assignment := procurement.NewPendingAssignment(tenantID, orderID, line, reason)
			if err := s.pendingRepo.Save(ctx, assignment); err != nil {
				return err
			}
		}

		for _, group := range plan.Groups {
			if err := s.createGroupPO(ctx, tenantID, order, group, userID); err != nil {
				return err
			}
		}

		s.logger.Info("order split into purchase orders",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_no", order.OrderNo),
			zap.Int("po_count", len(plan.Groups)),
			zap.Int("pending_items", len(plan.Pending)))
		return nil
	})
}

// buildPlan loads the products behind the order items and groups the lines
func (s *SplitService) buildPlan(ctx context.Context, tenantID uuid.UUID, order *sales.Order) (procurement.SplitPlan, error) {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	seen := make(map[uuid.UUID]struct{})
	for _, item := range order.Items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			productIDs = append(productIDs, item.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDs(ctx, tenantID, productIDs)
	if err != nil {
		return procurement.SplitPlan{}, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]procurement.SplitLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, procurement.SplitLine{
			Item:    item,
			Product: byID[item.ProductID], // nil when missing
		})
	}
	return procurement.BuildSplitPlan(lines), nil
}

// createGroupPO resolves the supplier, inserts the PO with its items, and
// back-fills the source order items.
func (s *SplitService) createGroupPO(ctx context.Context, tenantID uuid.UUID, order *sales.Order,
	group procurement.SupplierGroup, userID *uuid.UUID) error {

	supplier, err := s.supplierRepo.FindByID(ctx, tenantID, group.SupplierID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("supplier %s not found, aborting split of order %s", group.SupplierID, order.OrderNo))
		}
		return err
	}

	poNo, err := s.numberGen.Next(ctx, tenantID)
	if err != nil {
		return err
	}

	items := make([]procurement.PurchaseOrderItem, 0, len(group.Lines))
	for _, line := range group.Lines {
		items = append(items, procurement.PurchaseOrderItem{
			BaseEntity:  shared.NewBaseEntity(),
			OrderItemID: line.Item.ID,
			ProductID:   line.Item.ProductID,
			ProductName: line.Item.ProductName,
			SKU:         line.Item.SKU,
			Quantity:    line.Item.Quantity,
			UnitPrice:   line.Item.UnitPrice,
		})
	}

	po, err := procurement.NewPurchaseOrder(tenantID, poNo, order.ID, supplier.ID, group.Type, items)
	if err != nil {
		return err
	}
	po.CreatedBy = userID

	if err := s.poRepo.Save(ctx, po); err != nil {
		return err
	}

	updated := make([]sales.OrderItem, 0, len(group.Lines))
	for _, line := range group.Lines {
		item := line.Item
		item.POID = &po.ID
		item.SupplierID = &supplier.ID
		updated = append(updated, item)
	}
	if err := s.orderRepo.UpdateItems(ctx, updated); err != nil {
		return err
	}

	entry := audit.NewEntry(tenantID, po.TableName(), po.ID, audit.ActionInsert).
		WithValues(nil, audit.Snapshot(map[string]any{
			"poNo":       po.PONo,
			"orderId":    order.ID,
			"supplierId": supplier.ID,
			"type":       po.Type,
			"total":      po.TotalAmount,
		})).
		WithUser(userID)
	return s.auditor.Record(ctx, entry)
}

// ListPendingAssignments returns the open manual-assignment queue
func (s *SplitService) ListPendingAssignments(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PendingAssignmentResponse, error) {
	assignments, err := s.pendingRepo.FindOpen(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]PendingAssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, ToPendingAssignmentResponse(&assignments[i]))
	}
	return out, nil
}

// GetPO retrieves one purchase order with its items
func (s *SplitService) GetPO(ctx context.Context, tenantID, poID uuid.UUID) (*POResponse, error) {
	po, err := s.poRepo.FindByID(ctx, tenantID, poID)
	if err != nil {
		return nil, err
	}
	resp := ToPOResponse(po)
	return &resp, nil
}

// ListPOs retrieves purchase orders matching the filter. An order_id filter
// narrows the result to the POs split from one order.
func (s *SplitService) ListPOs(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]POResponse, error) {
	pos, err := s.poRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]POResponse, 0, len(pos))
	for i := range pos {
		out = append(out, ToPOResponse(&pos[i]))
	}
	return out, nil
}
