package repository

import "context"

// TransactionManager runs a function inside a single database transaction.
// Repository calls made with the context passed to fn join that
// transaction; any error rolls the whole transaction back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
