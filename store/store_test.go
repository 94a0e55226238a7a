package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

const upsertSQL = `INSERT INTO sessions (session_id, checkout_id) VALUES ($1, $2) ON CONFLICT (session_id) DO UPDATE SET checkout_id = EXCLUDED.checkout_id, updated_at = now()`

func TestCheckoutID_FoundAndMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()
	s := &PostgresStore{DB: db}
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"session_id", "checkout_id"}).AddRow("s1", "gid://shopify/Checkout/1")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT session_id, checkout_id FROM sessions WHERE session_id=$1`)).
		WithArgs("s1").
		WillReturnRows(rows)

	id, err := s.CheckoutID(ctx, "s1")
	if err != nil {
		t.Fatalf("CheckoutID failed: %v", err)
	}
	if id != "gid://shopify/Checkout/1" {
		t.Fatalf("unexpected checkout id %q", id)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT session_id, checkout_id FROM sessions WHERE session_id=$1`)).
		WithArgs("s2").
		WillReturnError(sql.ErrNoRows)

	if _, err := s.CheckoutID(ctx, "s2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCheckoutID_DBError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT session_id, checkout_id FROM sessions WHERE session_id=$1`)).
		WithArgs("s1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.CheckoutID(context.Background(), "s1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveCheckoutID_Upserts(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(upsertSQL)).
		WithArgs("s1", "gid://shopify/Checkout/9").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.SaveCheckoutID(context.Background(), "s1", "gid://shopify/Checkout/9"); err != nil {
		t.Fatalf("SaveCheckoutID failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClearCheckout_NoRowsAndSuccess(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}
	ctx := context.Background()

	// no rows affected -> ErrNotFound expected
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE session_id=$1`)).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.ClearCheckout(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE session_id=$1`)).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.ClearCheckout(ctx, "s1"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS sessions`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
