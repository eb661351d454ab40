package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultLockTimeout = 2 * time.Second

// PostgresStore keeps a snapshot as one JSONB row of the documents table.
type PostgresStore[T any] struct {
	db          *pgxpool.Pool
	name        string
	lockTimeout time.Duration
	codec       codec[T]
}

func NewPostgresInventoryStore(db *pgxpool.Pool) *PostgresStore[domain.Theatre] {
	return &PostgresStore[domain.Theatre]{
		db:          db,
		name:        InventoryDocument,
		lockTimeout: defaultLockTimeout,
		codec:       theatreCodec,
	}
}

func NewPostgresLedgerStore(db *pgxpool.Pool) *PostgresStore[domain.Ledger] {
	return &PostgresStore[domain.Ledger]{
		db:          db,
		name:        LedgerDocument,
		lockTimeout: defaultLockTimeout,
		codec:       ledgerCodec,
	}
}

// WithLockTimeout bounds how long a save waits for the row lock before failing
// with domain.ErrConcurrencyConflict.
func (p *PostgresStore[T]) WithLockTimeout(d time.Duration) *PostgresStore[T] {
	p.lockTimeout = d
	return p
}

func (p *PostgresStore[T]) Load(ctx context.Context) (*T, error) {
	query := `SELECT body FROM documents WHERE name = $1`

	var body []byte

	err := p.db.QueryRow(ctx, query, p.name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p.codec.empty(), nil
		}

		return nil, fmt.Errorf("failed to load %s: %w", p.name, mapPgError(err))
	}

	return p.codec.decode(body)
}

func (p *PostgresStore[T]) Save(ctx context.Context, v *T) error {
	body, err := p.codec.encode(v)
	if err != nil {
		return err
	}

	err = runInTx(ctx, p.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`,
			fmt.Sprintf("%dms", p.lockTimeout.Milliseconds()))
		if err != nil {
			return err
		}

		query := `
			INSERT INTO documents (name, body, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (name) DO UPDATE
			SET body = EXCLUDED.body, updated_at = NOW()
		`

		_, err = tx.Exec(ctx, query, p.name, body)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", p.name, mapPgError(err))
	}

	return nil
}

// mapPgError translates lock and serialization failures into
// domain.ErrConcurrencyConflict so callers can retry them.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.LockNotAvailable, pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return errors.Join(domain.ErrConcurrencyConflict, err)
	default:
		return err
	}
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
