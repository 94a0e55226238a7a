package store

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a session has no checkout recorded.
var ErrNotFound = errors.New("checkout not found for session")

// Store remembers which checkout belongs to which browser session.
type Store interface {
	CheckoutID(ctx context.Context, sessionID string) (string, error)
	SaveCheckoutID(ctx context.Context, sessionID, checkoutID string) error
	ClearCheckout(ctx context.Context, sessionID string) error

	Close() error
}
