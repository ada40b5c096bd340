package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/partner"
	"github.com/furnish/backend/internal/domain/shared"
)

// PartnerService manages suppliers, sales channels and customers
type PartnerService struct {
	supplierRepo partner.SupplierRepository
	channelRepo  partner.ChannelRepository
	customerRepo partner.CustomerRepository
	auditor      audit.Recorder
	tx           shared.TxManager
	logger       *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(
	supplierRepo partner.SupplierRepository,
	channelRepo partner.ChannelRepository,
	customerRepo partner.CustomerRepository,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *PartnerService {
	return &PartnerService{
		supplierRepo: supplierRepo,
		channelRepo:  channelRepo,
		customerRepo: customerRepo,
		auditor:      auditor,
		tx:           tx,
		logger:       logger,
	}
}

// CreateSupplier registers a new supplier
func (s *PartnerService) CreateSupplier(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(tenantID, req.Code, req.Name, req.Capability)
	if err != nil {
		return nil, err
	}
	supplier.ContactName = req.ContactName
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.CreatedBy = req.UserID

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.supplierRepo.Save(ctx, supplier); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, supplier.TableName(), supplier.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"code":       supplier.Code,
				"name":       supplier.Name,
				"capability": supplier.Capability,
			})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// BlockSupplier stops new purchase orders going to a supplier
func (s *PartnerService) BlockSupplier(ctx context.Context, tenantID, supplierID uuid.UUID, userID *uuid.UUID) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		supplier, err := s.supplierRepo.FindByID(ctx, tenantID, supplierID)
		if err != nil {
			return err
		}
		supplier.Block()
		if err := s.supplierRepo.Save(ctx, supplier); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, supplier.TableName(), supplier.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": partner.SupplierStatusActive}),
				audit.Snapshot(map[string]any{"status": supplier.Status}),
			).
			WithUser(userID).
			WithDetails("supplier blocked")
		return s.auditor.Record(ctx, entry)
	})
}

// ListSuppliers retrieves suppliers matching the filter
func (s *PartnerService) ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SupplierResponse, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, ToSupplierResponse(&suppliers[i]))
	}
	return responses, nil
}

// CreateChannel registers a new sales channel with its commission terms
func (s *PartnerService) CreateChannel(ctx context.Context, tenantID uuid.UUID, req CreateChannelRequest) (*ChannelResponse, error) {
	channel, err := partner.NewChannel(tenantID, req.Code, req.Name, req.CooperationMode, req.CommissionRate)
	if err != nil {
		return nil, err
	}
	channel.CreatedBy = req.UserID

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.channelRepo.Save(ctx, channel); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, channel.TableName(), channel.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"code": channel.Code,
				"mode": channel.CooperationMode,
				"rate": channel.CommissionRate,
			})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToChannelResponse(channel)
	return &response, nil
}

// UpdateChannelCommission changes a channel's commission terms. Existing
// commission records keep the terms they were calculated with.
func (s *PartnerService) UpdateChannelCommission(ctx context.Context, tenantID uuid.UUID, req UpdateChannelCommissionRequest) (*ChannelResponse, error) {
	var channel *partner.Channel
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		channel, err = s.channelRepo.FindByID(ctx, tenantID, req.ChannelID)
		if err != nil {
			return err
		}

		before := audit.Snapshot(map[string]any{
			"mode": channel.CooperationMode,
			"rate": channel.CommissionRate,
		})
		if err := channel.UpdateCommission(req.CooperationMode, req.CommissionRate); err != nil {
			return err
		}
		if err := s.channelRepo.Save(ctx, channel); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, channel.TableName(), channel.ID, audit.ActionUpdate).
			WithValues(before, audit.Snapshot(map[string]any{
				"mode": channel.CooperationMode,
				"rate": channel.CommissionRate,
			})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToChannelResponse(channel)
	return &response, nil
}

// ListChannels retrieves channels matching the filter
func (s *PartnerService) ListChannels(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ChannelResponse, error) {
	channels, err := s.channelRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		responses = append(responses, ToChannelResponse(&channels[i]))
	}
	return responses, nil
}

// CreateCustomer registers a new customer, optionally attached to the
// channel that referred them
func (s *PartnerService) CreateCustomer(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(tenantID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	customer.Address = req.Address
	customer.CreatedBy = req.UserID

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if req.ChannelID != nil {
			if _, err := s.channelRepo.FindByID(ctx, tenantID, *req.ChannelID); err != nil {
				return err
			}
			customer.AttachChannel(*req.ChannelID)
		}
		if err := s.customerRepo.Save(ctx, customer); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, customer.TableName(), customer.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"name":      customer.Name,
				"channelId": customer.ChannelID,
			})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// ListCustomers retrieves customers matching the filter
func (s *PartnerService) ListCustomers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CustomerResponse, error) {
	customers, err := s.customerRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, ToCustomerResponse(&customers[i]))
	}
	return responses, nil
}
