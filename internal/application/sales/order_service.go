package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

// POSplitter fans a confirmed order out into purchase orders. It runs inside
// the transaction carried by ctx so the status change and the POs commit
// together.
type POSplitter interface {
	SplitOrderToPOs(ctx context.Context, tenantID, orderID uuid.UUID, userID *uuid.UUID) error
}

// OrderService handles order conversion and lifecycle operations
type OrderService struct {
	quoteRepo sales.QuoteRepository
	orderRepo sales.OrderRepository
	numberGen sales.OrderNumberGenerator
	splitter  POSplitter
	auditor   audit.Recorder
	tx        shared.TxManager
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	quoteRepo sales.QuoteRepository,
	orderRepo sales.OrderRepository,
	numberGen sales.OrderNumberGenerator,
	splitter POSplitter,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		quoteRepo: quoteRepo,
		orderRepo: orderRepo,
		numberGen: numberGen,
		splitter:  splitter,
		auditor:   auditor,
		tx:        tx,
		logger:    logger,
	}
}

// ConvertFromQuote creates the order for a won quote. The quote must be WON
// and not yet converted; the order, its items and the audit entry are
// written in one transaction.
func (s *OrderService) ConvertFromQuote(ctx context.Context, tenantID uuid.UUID, req ConvertFromQuoteRequest) (*OrderResponse, error) {
	paymentAmount := decimal.Zero
	if req.PaymentAmount != nil {
		paymentAmount = *req.PaymentAmount
	}

	var order *sales.Order
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		quote, err := s.quoteRepo.FindByID(ctx, tenantID, req.QuoteID)
		if err != nil {
			return err
		}

		existing, err := s.orderRepo.FindByQuoteID(ctx, tenantID, req.QuoteID)
		if err != nil && !shared.IsCode(err, shared.CodeNotFound) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError(shared.CodeDuplicateConversion,
				fmt.Sprintf("quote already converted to order %s", existing.OrderNo))
		}

		orderNo, err := s.numberGen.Next(ctx, tenantID)
		if err != nil {
			return err
		}

		order, err = sales.NewOrderFromQuote(quote, orderNo, paymentAmount)
		if err != nil {
			return err
		}
		order.CreatedBy = req.UserID

		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, order.TableName(), order.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"orderNo": order.OrderNo,
				"quoteId": quote.ID,
				"status":  order.Status,
				"total":   order.TotalAmount,
			})).
			WithUser(req.UserID).
			WithDetails("converted from quote " + quote.QuoteNo)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order converted from quote",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_no", order.OrderNo),
		zap.String("quote_id", req.QuoteID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves an order through its state machine with an optimistic
// version check. Reaching CONFIRMED triggers the PO split inside the same
// transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	var order *sales.Order
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByID(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}

		oldStatus := order.Status
		if err := order.TransitionTo(req.Status); err != nil {
			return err
		}
		if err := s.orderRepo.SaveWithVersion(ctx, order, req.Version); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, order.TableName(), order.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": oldStatus}),
				audit.Snapshot(map[string]any{"status": order.Status}),
			).
			WithUser(req.UserID)
		if err := s.auditor.Record(ctx, entry); err != nil {
			return err
		}

		if order.Status == sales.OrderStatusConfirmed {
			return s.splitter.SplitOrderToPOs(ctx, tenantID, order.ID, req.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Lock freezes item edits on an order
func (s *OrderService) Lock(ctx context.Context, tenantID, orderID uuid.UUID, version int, userID *uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, version, userID, "order locked", func(order *sales.Order) error {
		return order.Lock()
	})
}

// Halt pauses an order, snapshotting its status for a later resume
func (s *OrderService) Halt(ctx context.Context, tenantID uuid.UUID, req HaltOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, tenantID, req.OrderID, req.Version, req.UserID, "order halted: "+req.Reason, func(order *sales.Order) error {
		return order.Halt(req.Reason)
	})
}

// Resume restores a halted order to its pre-halt status and accumulates the
// paused days.
func (s *OrderService) Resume(ctx context.Context, tenantID, orderID uuid.UUID, version int, userID *uuid.UUID) (*OrderResponse, error) {
	return s.mutate(ctx, tenantID, orderID, version, userID, "order resumed", func(order *sales.Order) error {
		return order.Resume()
	})
}

// Cancel terminates an order with a reason
func (s *OrderService) Cancel(ctx context.Context, tenantID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.mutate(ctx, tenantID, req.OrderID, req.Version, req.UserID, "order cancelled: "+req.Reason, func(order *sales.Order) error {
		return order.Cancel(req.Reason)
	})
}

// GetByID retrieves an order with its items
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders matching the filter
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses, nil
}

// mutate runs one version-guarded order mutation with an audit entry
func (s *OrderService) mutate(ctx context.Context, tenantID, orderID uuid.UUID, version int, userID *uuid.UUID,
	details string, fn func(*sales.Order) error) (*OrderResponse, error) {

	var order *sales.Order
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		oldStatus := order.Status
		wasLocked := order.IsLocked
		if err := fn(order); err != nil {
			return err
		}
		if err := s.orderRepo.SaveWithVersion(ctx, order, version); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, order.TableName(), order.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": oldStatus, "isLocked": wasLocked}),
				audit.Snapshot(map[string]any{"status": order.Status, "isLocked": order.IsLocked}),
			).
			WithUser(userID).
			WithDetails(details)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}
