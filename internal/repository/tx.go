package repository

import (
	"context"
)

// Transactor runs a function inside a transaction that serializes writers of
// the same user. Repositories called with the ctx passed to fn join the transaction.
type Transactor interface {
	WithinUserTx(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}
