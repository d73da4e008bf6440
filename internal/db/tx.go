package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/2beens/gymsplits/internal/apperr"
	"github.com/2beens/gymsplits/internal/telemetry/tracing"
)

// Conn is the part of pgx shared by *pgxpool.Pool and pgx.Tx that the repos use.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

func contextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// ConnFromContext returns the transaction started by TxRunner.InTx, if the
// context carries one, otherwise the pool itself.
func ConnFromContext(ctx context.Context, pool *pgxpool.Pool) Conn {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return pool
}

// Transactor runs fn in a single transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{
		pool: pool,
	}
}

// InTx begins a transaction, stores it in the context passed to fn and
// commits when fn returns nil. Any error or panic from fn rolls back.
// Nested calls join the outer transaction.
func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "db.tx")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", apperr.ErrStorage, err)
	}

	defer func() {
		p := recover()
		if p == nil && err == nil {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			log.Errorf("rollback tx: %s", rbErr)
			err = multierr.Append(err, fmt.Errorf("rollback tx: %w", rbErr))
		}
		if p != nil {
			panic(p)
		}
	}()

	if err := fn(contextWithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit tx: %w", apperr.ErrStorage, err)
	}

	return nil
}
