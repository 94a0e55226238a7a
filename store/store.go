package store

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/go-faster/errors"
	_ "github.com/lib/pq"
)

//go:embed migrations.sql
var migrationSQL string

// SessionRow is a sessions table row.
type SessionRow struct {
	SessionID  string
	CheckoutID string
}

// PostgresStore is a Store backed by the Postgres sessions table.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	if err := DB.Ping(); err != nil {
		_ = DB.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

// Migrate applies the embedded schema. It is idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, migrationSQL); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

func (s *PostgresStore) CheckoutID(ctx context.Context, sessionID string) (string, error) {
	var row SessionRow
	err := s.DB.QueryRowContext(ctx, `SELECT session_id, checkout_id FROM sessions WHERE session_id=$1`, sessionID).
		Scan(&row.SessionID, &row.CheckoutID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "select session")
	}
	return row.CheckoutID, nil
}

// SaveCheckoutID upserts the session's checkout id.
func (s *PostgresStore) SaveCheckoutID(ctx context.Context, sessionID, checkoutID string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO sessions (session_id, checkout_id) VALUES ($1, $2) ON CONFLICT (session_id) DO UPDATE SET checkout_id = EXCLUDED.checkout_id, updated_at = now()`,
		sessionID, checkoutID)
	if err != nil {
		return errors.Wrap(err, "upsert session")
	}
	return nil
}

func (s *PostgresStore) ClearCheckout(ctx context.Context, sessionID string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE session_id=$1`, sessionID)
	if err != nil {
		return errors.Wrap(err, "delete session")
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}
