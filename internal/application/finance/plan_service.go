package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/identity"
	"github.com/furnish/backend/internal/domain/sales"
	"github.com/furnish/backend/internal/domain/shared"
	"github.com/furnish/backend/internal/domain/shared/valueobject"
)

// PlanService generates and settles the staged payment plan of an order
type PlanService struct {
	orderRepo    sales.OrderRepository
	scheduleRepo finance.PaymentScheduleRepository
	settings     identity.SettingsProvider
	auditor      audit.Recorder
	tx           shared.TxManager
	logger       *zap.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(
	orderRepo sales.OrderRepository,
	scheduleRepo finance.PaymentScheduleRepository,
	settings identity.SettingsProvider,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *PlanService {
	return &PlanService{
		orderRepo:    orderRepo,
		scheduleRepo: scheduleRepo,
		settings:     settings,
		auditor:      auditor,
		tx:           tx,
		logger:       logger,
	}
}

// GeneratePlan splits an order total into payment stages. An empty ratio
// list falls back to the default deposit/balance split. An order gets at
// most one plan.
func (s *PlanService) GeneratePlan(ctx context.Context, tenantID uuid.UUID, req GeneratePlanRequest) ([]ScheduleResponse, error) {
	var schedules []finance.PaymentSchedule
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindByID(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}

		existing, err := s.scheduleRepo.FindByOrderID(ctx, tenantID, req.OrderID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return shared.NewDomainError(shared.CodeAlreadyExists,
				fmt.Sprintf("order %s already has a payment plan", order.OrderNo))
		}

		settings, err := s.settings.Settings(ctx, tenantID)
		if err != nil {
			return err
		}
		currency := valueobject.Currency(settings.Currency)
		if currency == "" {
			currency = valueobject.DefaultCurrency
		}
		total, err := valueobject.NewMoney(order.TotalAmount, currency)
		if err != nil {
			return err
		}

		schedules, err = finance.GenerateSchedules(tenantID, req.OrderID, total, req.Ratios)
		if err != nil {
			return err
		}
		for i := range schedules {
			schedules[i].CreatedBy = req.UserID
		}
		if err := s.scheduleRepo.SaveBatch(ctx, schedules); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, finance.PaymentSchedule{}.TableName(), req.OrderID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"orderNo": order.OrderNo,
				"stages":  len(schedules),
				"total":   order.TotalAmount,
			})).
			WithUser(req.UserID).
			WithDetails("payment plan generated")
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment plan generated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", req.OrderID.String()),
		zap.Int("stages", len(schedules)))

	responses := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		responses = append(responses, ToScheduleResponse(&schedules[i]))
	}
	return responses, nil
}

// GetPlan retrieves the payment stages of an order, in stage order
func (s *PlanService) GetPlan(ctx context.Context, tenantID, orderID uuid.UUID) ([]ScheduleResponse, error) {
	schedules, err := s.scheduleRepo.FindByOrderID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	responses := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		responses = append(responses, ToScheduleResponse(&schedules[i]))
	}
	return responses, nil
}

// MarkStagePaid settles one stage of an order's plan
func (s *PlanService) MarkStagePaid(ctx context.Context, tenantID, scheduleID uuid.UUID, userID *uuid.UUID) (*ScheduleResponse, error) {
	var schedule *finance.PaymentSchedule
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		schedule, err = s.scheduleRepo.FindByID(ctx, tenantID, scheduleID)
		if err != nil {
			return err
		}
		if err := schedule.MarkPaid(); err != nil {
			return err
		}
		if err := s.scheduleRepo.Save(ctx, schedule); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, schedule.TableName(), schedule.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": finance.ScheduleStatusPending}),
				audit.Snapshot(map[string]any{"status": schedule.Status}),
			).
			WithUser(userID).
			WithDetails(fmt.Sprintf("stage %d (%s) settled", schedule.Stage, schedule.Name))
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToScheduleResponse(schedule)
	return &response, nil
}
