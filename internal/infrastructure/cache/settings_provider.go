package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/domain/identity"
)

const settingsKeyPrefix = "tenant:settings:"

// RedisSettingsProvider implements identity.SettingsProvider with a Redis
// cache in front of the tenant repository. Lookups are cache-aside: a miss
// loads from the repository and writes back with a TTL, so a failed
// Invalidate only delays the update until the entry expires.
type RedisSettingsProvider struct {
	client *redis.Client
	repo   identity.TenantRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSettingsProvider creates a new RedisSettingsProvider
func NewRedisSettingsProvider(client *redis.Client, repo identity.TenantRepository, ttl time.Duration, logger *zap.Logger) *RedisSettingsProvider {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisSettingsProvider{
		client: client,
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

// Settings returns the settings for the given tenant
func (p *RedisSettingsProvider) Settings(ctx context.Context, tenantID uuid.UUID) (identity.TenantSettings, error) {
	key := settingsKeyPrefix + tenantID.String()

	cached, err := p.client.Get(ctx, key).Bytes()
	if err == nil {
		var settings identity.TenantSettings
		if unmarshalErr := json.Unmarshal(cached, &settings); unmarshalErr == nil {
			return settings, nil
		}
		// A corrupt entry falls through to the repository
		p.logger.Warn("discarding unreadable cached tenant settings",
			zap.String("tenant_id", tenantID.String()))
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take tenant resolution down with it
		p.logger.Warn("tenant settings cache lookup failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}

	tenant, err := p.repo.FindByID(ctx, tenantID)
	if err != nil {
		return identity.TenantSettings{}, err
	}

	if payload, marshalErr := json.Marshal(tenant.Settings); marshalErr == nil {
		if setErr := p.client.Set(ctx, key, payload, p.ttl).Err(); setErr != nil {
			p.logger.Warn("tenant settings cache write failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(setErr))
		}
	}

	return tenant.Settings, nil
}

// Invalidate drops any cached settings for the tenant
func (p *RedisSettingsProvider) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	key := settingsKeyPrefix + tenantID.String()
	if err := p.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tenant settings cache: %w", err)
	}
	return nil
}

var _ identity.SettingsProvider = (*RedisSettingsProvider)(nil)
