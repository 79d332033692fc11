// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"pushverify/internal/platform/store"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction using the provided TxRunner
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// Binder builds a query set over a Queryer, so the same queries run on the pool or inside a tx
type Binder[T any] func(Queryer) T

// Must binds q, panicking on a nil queryer
func (b Binder[T]) Must(q Queryer) T {
	if q == nil {
		panic("repokit: bind on nil Queryer")
	}
	return b(q)
}
