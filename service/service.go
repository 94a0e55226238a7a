package service

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"storefront/commerce"
	models "storefront/model"
	"storefront/obs"
	"storefront/store"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrLineItemNotFound = errors.New("line item not in cart")
	ErrInvalidQuantity  = errors.New("quantity must be a whole number >= 0")
	ErrMissingVariant   = errors.New("variant id required")
)

const defaultCatalogSize = 20

// Service is the central cart store. Views read CheckoutState from it and
// dispatch intents to it; it forwards intents to the commerce API.
type Service struct {
	api   commerce.API
	store store.Store

	// per-session locks so intents for one cart never interleave. An entry
	// lives only while some intent for the session holds or waits on it.
	mu       sync.Mutex
	sessions map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(api commerce.API, st store.Store) *Service {
	return &Service{api: api, store: st, sessions: make(map[string]*sessionLock)}
}

// begin registers an in-flight intent for the session and returns its lock.
func (s *Service) begin(sessionID string) *sessionLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.sessions[sessionID]
	if !ok {
		l = &sessionLock{}
		s.sessions[sessionID] = l
	}
	l.refs++
	return l
}

// end drops the session's entry once no intent references it.
func (s *Service) end(sessionID string, l *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs <= 0 {
		delete(s.sessions, sessionID)
	}
}

func (s *Service) pending(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.sessions[sessionID]
	return ok && l.refs > 0
}

// Cart returns the session's checkout state. It reports Loading while an
// intent for the session is in flight.
func (s *Service) Cart(ctx context.Context, sessionID string) models.CheckoutState {
	if s.pending(sessionID) {
		return models.LoadingState()
	}
	co, err := s.currentCheckout(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return models.CheckoutState{}
	}
	if err != nil {
		return models.ErrorState(err)
	}
	return models.DataState(&co)
}

// currentCheckout loads the session's open checkout. A checkout that was
// completed or no longer exists is forgotten and reported as store.ErrNotFound.
func (s *Service) currentCheckout(ctx context.Context, sessionID string) (models.Checkout, error) {
	id, err := s.store.CheckoutID(ctx, sessionID)
	if err != nil {
		return models.Checkout{}, err
	}
	co, err := s.api.Checkout(ctx, id)
	if errors.Is(err, commerce.ErrNotFound) || (err == nil && co.CompletedAt != nil) {
		obs.Logger.Info("checkout_forgotten", "session_id", sessionID, "checkout_id", id)
		if err := s.store.ClearCheckout(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return models.Checkout{}, err
		}
		return models.Checkout{}, store.ErrNotFound
	}
	if err != nil {
		return models.Checkout{}, err
	}
	return co, nil
}

func (s *Service) dispatch(ctx context.Context, sessionID, intent string, fn func(context.Context) (models.Checkout, error)) (models.CheckoutState, error) {
	l := s.begin(sessionID)
	defer s.end(sessionID, l)
	l.mu.Lock()
	defer l.mu.Unlock()

	co, err := fn(ctx)
	obs.ObserveIntent(intent, err)
	if err != nil {
		obs.Logger.Warn("cart_intent_failed", "intent", intent, "session_id", sessionID, "error", err)
		return models.ErrorState(err), err
	}
	obs.Logger.Debug("cart_intent_applied", "intent", intent, "session_id", sessionID, "checkout_id", co.ID)
	return models.DataState(&co), nil
}

// AddLineItem adds qty of a variant, creating the session's checkout on first add.
func (s *Service) AddLineItem(ctx context.Context, sessionID, variantID string, qty int) (models.CheckoutState, error) {
	if variantID == "" {
		return models.ErrorState(ErrMissingVariant), ErrMissingVariant
	}
	if qty <= 0 {
		return models.ErrorState(ErrInvalidQuantity), ErrInvalidQuantity
	}
	return s.dispatch(ctx, sessionID, "add_line_item", func(ctx context.Context) (models.Checkout, error) {
		co, err := s.currentCheckout(ctx, sessionID)
		if errors.Is(err, store.ErrNotFound) {
			created, err := s.api.CreateCheckout(ctx, []models.LineItemInput{{VariantID: variantID, Quantity: qty}})
			if err != nil {
				return models.Checkout{}, err
			}
			if err := s.store.SaveCheckoutID(ctx, sessionID, created.ID); err != nil {
				return models.Checkout{}, err
			}
			return created, nil
		}
		if err != nil {
			return models.Checkout{}, err
		}
		lines := co.Inputs()
		found := false
		for i := range lines {
			if lines[i].VariantID == variantID {
				lines[i].Quantity += qty
				found = true
				break
			}
		}
		if !found {
			lines = append(lines, models.LineItemInput{VariantID: variantID, Quantity: qty})
		}
		return s.api.ReplaceLineItems(ctx, co.ID, lines)
	})
}

// UpdateQuantity sets a variant's quantity. Zero drops the line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, variantID string, qty int) (models.CheckoutState, error) {
	if variantID == "" {
		return models.ErrorState(ErrMissingVariant), ErrMissingVariant
	}
	if qty < 0 {
		return models.ErrorState(ErrInvalidQuantity), ErrInvalidQuantity
	}
	return s.dispatch(ctx, sessionID, "update_quantity", func(ctx context.Context) (models.Checkout, error) {
		co, err := s.openCheckout(ctx, sessionID)
		if err != nil {
			return models.Checkout{}, err
		}
		in := co.Inputs()
		lines := make([]models.LineItemInput, 0, len(in))
		found := false
		for _, l := range in {
			if l.VariantID == variantID {
				found = true
				if qty == 0 {
					continue
				}
				l.Quantity = qty
			}
			lines = append(lines, l)
		}
		if !found {
			return models.Checkout{}, errors.Wrapf(ErrLineItemNotFound, "variant %q", variantID)
		}
		return s.api.ReplaceLineItems(ctx, co.ID, lines)
	})
}

func (s *Service) RemoveLineItem(ctx context.Context, sessionID, variantID string) (models.CheckoutState, error) {
	if variantID == "" {
		return models.ErrorState(ErrMissingVariant), ErrMissingVariant
	}
	return s.dispatch(ctx, sessionID, "remove_line_item", func(ctx context.Context) (models.Checkout, error) {
		co, err := s.openCheckout(ctx, sessionID)
		if err != nil {
			return models.Checkout{}, err
		}
		in := co.Inputs()
		lines := make([]models.LineItemInput, 0, len(in))
		for _, l := range in {
			if l.VariantID != variantID {
				lines = append(lines, l)
			}
		}
		if len(lines) == len(in) {
			return models.Checkout{}, errors.Wrapf(ErrLineItemNotFound, "variant %q", variantID)
		}
		return s.api.ReplaceLineItems(ctx, co.ID, lines)
	})
}

// openCheckout is currentCheckout with a missing checkout reported as ErrEmptyCart.
func (s *Service) openCheckout(ctx context.Context, sessionID string) (models.Checkout, error) {
	co, err := s.currentCheckout(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Checkout{}, ErrEmptyCart
	}
	return co, err
}

func (s *Service) Product(ctx context.Context, handle string) (models.Product, error) {
	if handle == "" {
		return models.Product{}, errors.Wrap(commerce.ErrNotFound, "empty handle")
	}
	return s.api.Product(ctx, handle)
}

func (s *Service) Products(ctx context.Context, first int) ([]models.Product, error) {
	if first <= 0 {
		first = defaultCatalogSize
	}
	return s.api.Products(ctx, first)
}
