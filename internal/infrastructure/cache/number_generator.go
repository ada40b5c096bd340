package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/furnish/backend/internal/domain/finance"
	"github.com/furnish/backend/internal/domain/procurement"
	"github.com/furnish/backend/internal/domain/sales"
)

const sequenceKeyPrefix = "seq:"

// RedisSequenceGenerator produces per-tenant, per-day document numbers of the
// form PREFIX-YYYYMMDD-NNNN using a Redis counter. The counter key expires
// after two days, long enough to outlive its own day across timezones.
type RedisSequenceGenerator struct {
	client *redis.Client
}

// NewRedisSequenceGenerator creates a new RedisSequenceGenerator
func NewRedisSequenceGenerator(client *redis.Client) *RedisSequenceGenerator {
	return &RedisSequenceGenerator{client: client}
}

// Next returns the next document number for the tenant and prefix
func (g *RedisSequenceGenerator) Next(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	day := time.Now().Format("20060102")
	key := fmt.Sprintf("%s%s:%s:%s", sequenceKeyPrefix, tenantID.String(), prefix, day)

	seq, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate document number: %w", err)
	}
	if seq == 1 {
		// Expiry failure is harmless, the key just lingers
		g.client.Expire(ctx, key, 48*time.Hour)
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq), nil
}

var _ finance.DocumentNumberGenerator = (*RedisSequenceGenerator)(nil)

// POSequenceGenerator adapts the shared sequence generator to purchase
// order numbers.
type POSequenceGenerator struct {
	seq *RedisSequenceGenerator
}

// NewPOSequenceGenerator creates a new POSequenceGenerator
func NewPOSequenceGenerator(seq *RedisSequenceGenerator) *POSequenceGenerator {
	return &POSequenceGenerator{seq: seq}
}

// Next returns the next purchase order number for the tenant
func (g *POSequenceGenerator) Next(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return g.seq.Next(ctx, tenantID, "PO")
}

var _ procurement.PONumberGenerator = (*POSequenceGenerator)(nil)

// RandomOrderNumberGenerator produces order numbers from the current date
// and a random hex suffix. It needs no shared state, so order conversion
// keeps working when Redis is unavailable.
type RandomOrderNumberGenerator struct{}

// NewRandomOrderNumberGenerator creates a new RandomOrderNumberGenerator
func NewRandomOrderNumberGenerator() *RandomOrderNumberGenerator {
	return &RandomOrderNumberGenerator{}
}

// Next returns a new order number
func (g *RandomOrderNumberGenerator) Next(ctx context.Context, tenantID uuid.UUID) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	return fmt.Sprintf("ORD%s%s", time.Now().Format("20060102"), hex.EncodeToString(suffix)), nil
}

var _ sales.OrderNumberGenerator = (*RandomOrderNumberGenerator)(nil)
