package database

import "context"

// Transactor runs fn as one unit of work. Repositories called with the ctx handed to fn
// join the unit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
