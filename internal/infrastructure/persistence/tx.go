package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/furnish/backend/internal/domain/shared"
)

type txContextKey struct{}

// GormTxManager implements shared.TxManager. The transaction handle travels
// in the context, so repositories created with the root *gorm.DB join the
// transaction of whoever called them. A Transaction call with a transaction
// already in the context joins it instead of opening a nested one; a failure
// anywhere rolls back the whole outermost transaction.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Transaction implements shared.TxManager
func (m *GormTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// conn resolves the database handle for a repository call: the transaction
// carried by the context when inside one, the root connection otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

var _ shared.TxManager = (*GormTxManager)(nil)
