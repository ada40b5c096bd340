package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/audit"
	"github.com/furnish/backend/internal/domain/identity"
	"github.com/furnish/backend/internal/domain/shared"
)

// TenantService manages tenant onboarding, settings and operator accounts
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	settings   identity.SettingsProvider
	auditor    audit.Recorder
	tx         shared.TxManager
	logger     *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	settings identity.SettingsProvider,
	auditor audit.Recorder,
	tx shared.TxManager,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		settings:   settings,
		auditor:    auditor,
		tx:         tx,
		logger:     logger,
	}
}

// CreateTenant onboards a new tenant with default settings
func (s *TenantService) CreateTenant(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	if _, err := s.tenantRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "tenant code already in use: "+req.Code)
	} else if !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}

	tenant, err := identity.NewTenant(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	tenant.ShortName = req.ShortName
	tenant.ContactName = req.ContactName
	tenant.ContactPhone = req.ContactPhone

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			return err
		}
		entry := audit.NewEntry(tenant.ID, tenant.TableName(), tenant.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"code": tenant.Code,
				"name": tenant.Name,
			}))
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tenant created",
		zap.String("tenantId", tenant.ID.String()),
		zap.String("code", tenant.Code))

	response := ToTenantResponse(tenant)
	return &response, nil
}

// GetTenant returns a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	response := ToTenantResponse(tenant)
	return &response, nil
}

// UpdateSettings replaces a tenant's business settings and invalidates any
// cached copy so in-flight operations pick up the change on next read.
func (s *TenantService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, req UpdateSettingsRequest) (*TenantResponse, error) {
	var tenant *identity.Tenant
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		tenant, err = s.tenantRepo.FindByID(ctx, tenantID)
		if err != nil {
			return err
		}

		before := audit.Snapshot(map[string]any{"settings": tenant.Settings})
		next := tenant.Settings
		next.Scale = req.Scale
		next.LargeAmountThreshold = req.LargeAmountThreshold
		next.ARPayment.AllowedDifference = req.AllowedDifference
		next.ARPayment.MissingStatementPolicy = req.MissingStatementPolicy
		if req.Currency != "" {
			next.Currency = req.Currency
		}
		if req.Timezone != "" {
			next.Timezone = req.Timezone
		}

		if err := tenant.UpdateSettings(next); err != nil {
			return err
		}
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			return err
		}

		entry := audit.NewEntry(tenantID, tenant.TableName(), tenant.ID, audit.ActionUpdate).
			WithValues(before, audit.Snapshot(map[string]any{"settings": tenant.Settings})).
			WithUser(req.UserID).
			WithDetails("tenant settings updated")
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	if err := s.settings.Invalidate(ctx, tenantID); err != nil {
		// The cached copy expires on its own; the update itself stands.
		s.logger.Warn("failed to invalidate cached tenant settings",
			zap.String("tenantId", tenantID.String()),
			zap.Error(err))
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// SuspendTenant blocks a tenant from transacting
func (s *TenantService) SuspendTenant(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID) error {
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
		if err != nil {
			return err
		}
		tenant.Suspend()
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, tenant.TableName(), tenant.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": identity.TenantStatusActive}),
				audit.Snapshot(map[string]any{"status": tenant.Status}),
			).
			WithUser(userID).
			WithDetails("tenant suspended")
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return err
	}

	if err := s.settings.Invalidate(ctx, tenantID); err != nil {
		s.logger.Warn("failed to invalidate cached tenant settings",
			zap.String("tenantId", tenantID.String()),
			zap.Error(err))
	}
	return nil
}

// CreateUser registers an operator account within a tenant
func (s *TenantService) CreateUser(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.userRepo.FindByUsername(ctx, tenantID, req.Username); err == nil {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "username already in use: "+req.Username)
	} else if !shared.IsCode(err, shared.CodeNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Name, req.Role)
	if err != nil {
		return nil, err
	}
	user.Phone = req.Phone
	user.CreatedBy = req.UserID

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, user.TableName(), user.ID, audit.ActionInsert).
			WithValues(nil, audit.Snapshot(map[string]any{
				"username": user.Username,
				"role":     user.Role,
			})).
			WithUser(req.UserID)
		return s.auditor.Record(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// DeactivateUser disables an operator account
func (s *TenantService) DeactivateUser(ctx context.Context, tenantID, userID uuid.UUID, actorID *uuid.UUID) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.FindByID(ctx, tenantID, userID)
		if err != nil {
			return err
		}
		user.Deactivate()
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		entry := audit.NewEntry(tenantID, user.TableName(), user.ID, audit.ActionUpdate).
			WithValues(
				audit.Snapshot(map[string]any{"status": identity.UserStatusActive}),
				audit.Snapshot(map[string]any{"status": user.Status}),
			).
			WithUser(actorID).
			WithDetails("user deactivated")
		return s.auditor.Record(ctx, entry)
	})
}
