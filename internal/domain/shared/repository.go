package shared

import "context"

// Filter describes common list-query options shared by repositories.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// TxManager runs a function inside a single database transaction.
// Repository calls made with the ctx passed to fn share that transaction,
// so a failure at any step rolls back every write.
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
