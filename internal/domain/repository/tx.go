package repository

import "context"

// TxManager runs a function inside a single database transaction.
// Repository calls made with the context passed to fn join that transaction,
// so a state mutation and its log entries commit or roll back together.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
