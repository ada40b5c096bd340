package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/catalog"
	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/partner"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
)

// CommissionService calculates the channel commission owed on a settled
// statement. Calculation is idempotent: the unique index on
// (tenant, statement) plus an upfront existence check make retries safe.
type CommissionService struct {
	channelRepo    partner.ChannelRepository
	productRepo    catalog.ProductRepository
	orderRepo      sales.OrderRepository
	commissionRepo finance.CommissionRecordRepository
	numberGen      finance.DocumentNumberGenerator
	auditor        audit.Recorder
	logger         *zap.Logger
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(
	channelRepo partner.ChannelRepository,
	productRepo catalog.ProductRepository,
	orderRepo sales.OrderRepository,
	commissionRepo finance.CommissionRecordRepository,
	numberGen finance.DocumentNumberGenerator,
	auditor audit.Recorder,
	logger *zap.Logger,
) *CommissionService {
	return &CommissionService{
		channelRepo:    channelRepo,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		commissionRepo: commissionRepo,
		numberGen:      numberGen,
		auditor:        auditor,
		logger:         logger,
	}
}

// Calculate computes and records the commission for a statement that just
// became PAID. The statement's commission fields are stamped in place; the
// caller persists the statement, so stamping and the commission record share
// its transaction. A statement without a channel or with a zero commission
// gets no record. Already-calculated statements are skipped.
func (s *CommissionService) Calculate(ctx context.Context, tenantID uuid.UUID, statement *finance.ARStatement) error {
	if statement.ChannelID == nil {
		return nil
	}
	if statement.CommissionStatus == finance.CommissionStatusCalculated {
		return nil
	}

	existing, err := s.commissionRepo.FindByStatementID(ctx, tenantID, statement.ID)
	if err != nil && !shared.IsCode(err, shared.CodeNotFound) {
		return err
	}
	if existing != nil {
		s.logger.Info("commission already recorded for statement",
			zap.String("tenant_id", tenantID.String()),
			zap.String("statement_no", statement.StatementNo))
		return nil
	}

	channel, err := s.channelRepo.FindByID(ctx, tenantID, *statement.ChannelID)
	if err != nil {
		return err
	}

	amount, err := s.computeAmount(ctx, tenantID, statement, channel)
	if err != nil {
		return err
	}

	if err := statement.StampCommission(channel.CommissionRate, amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		s.logger.Info("commission computed as zero, no record created",
			zap.String("tenant_id", tenantID.String()),
			zap.String("statement_no", statement.StatementNo),
			zap.String("mode", string(channel.CooperationMode)))
		return nil
	}

	commissionNo, err := s.numberGen.Next(ctx, tenantID, finance.PrefixCommission)
	if err != nil {
		return err
	}
	record, err := finance.NewCommissionRecord(tenantID, commissionNo, statement.ID,
		channel.ID, statement.OrderID, channel.CooperationMode, channel.CommissionRate, amount)
	if err != nil {
		return err
	}

	if err := s.commissionRepo.Save(ctx, record); err != nil {
		// a concurrent reconciliation inserted the record first
		if shared.IsCode(err, shared.CodeAlreadyExists) {
			s.logger.Warn("commission record inserted concurrently",
				zap.String("tenant_id", tenantID.String()),
				zap.String("statement_no", statement.StatementNo))
			return nil
		}
		return err
	}

	entry := audit.NewEntry(tenantID, record.TableName(), record.ID, audit.ActionInsert).
		WithValues(nil, audit.Snapshot(map[string]any{
			"commissionNo": record.CommissionNo,
			"statementId":  statement.ID,
			"channelId":    channel.ID,
			"mode":         record.CooperationMode,
			"amount":       record.CommissionAmount,
		})).
		WithDetails(fmt.Sprintf("commission for statement %s", statement.StatementNo))
	if err := s.auditor.Record(ctx, entry); err != nil {
		return err
	}

	s.logger.Info("commission calculated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("commission_no", record.CommissionNo),
		zap.String("mode", string(channel.CooperationMode)),
		zap.String("amount", amount.String()))
	return nil
}

// List retrieves commission records matching the filter
func (s *CommissionService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CommissionRecord, error) {
	return s.commissionRepo.FindAll(ctx, tenantID, filter)
}

// computeAmount dispatches on the channel's cooperation mode. Rebate is a
// flat cut of the order amount; base price pays a cut of the margin over
// each item's commission base price.
func (s *CommissionService) computeAmount(ctx context.Context, tenantID uuid.UUID,
	statement *finance.ARStatement, channel *partner.Channel) (decimal.Decimal, error) {

	switch channel.CooperationMode {
	case partner.CooperationModeRebate:
		return finance.ComputeRebateCommission(statement.TotalAmount, channel.CommissionRate), nil

	case partner.CooperationModeBasePrice:
		order, err := s.orderRepo.FindByID(ctx, tenantID, statement.OrderID)
		if err != nil {
			return decimal.Zero, err
		}
		lines, err := s.baseLines(ctx, tenantID, order)
		if err != nil {
			return decimal.Zero, err
		}
		return finance.ComputeBasePriceCommission(statement.TotalAmount, lines, channel.CommissionRate), nil

	default:
		return decimal.Zero, shared.NewDomainError(shared.CodeValidation,
			"unknown cooperation mode: "+string(channel.CooperationMode))
	}
}

// baseLines prices each order item at its product's commission base price.
// Items whose product is gone price at zero base, which only ever increases
// the computed margin; the calculation still completes.
func (s *CommissionService) baseLines(ctx context.Context, tenantID uuid.UUID, order *sales.Order) ([]finance.CommissionBaseLine, error) {
	productIDs := make([]uuid.UUID, 0, len(order.Items))
	seen := make(map[uuid.UUID]struct{}, len(order.Items))
	for _, item := range order.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]finance.CommissionBaseLine, 0, len(order.Items))
	for _, item := range order.Items {
		line := finance.CommissionBaseLine{Quantity: item.Quantity}
		if product, ok := byID[item.ProductID]; ok {
			line.BasePrice = product.CommissionBasePrice()
		}
		lines = append(lines, line)
	}
	return lines, nil
}
