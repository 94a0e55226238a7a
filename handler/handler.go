package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"storefront/commerce"
	models "storefront/model"
	"storefront/obs"
	"storefront/service"
	"storefront/view"
)

// Options tunes sessions and the catalog page.
type Options struct {
	SessionCookie   string
	SessionTTL      time.Duration
	CatalogPageSize int
}

// Handler is the HTTP layer that talks to service.Service
type Handler struct {
	svc  service.ServiceInterface
	view *view.Renderer
	opts Options
}

// NewHandler returns a Handler instance
func NewHandler(s service.ServiceInterface, v *view.Renderer, opts Options) *Handler {
	if opts.SessionCookie == "" {
		opts.SessionCookie = "storefront_session"
	}
	return &Handler{svc: s, view: v, opts: opts}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Pages
	r.HandleFunc("/", h.CatalogPage).Methods("GET")
	r.HandleFunc("/products/{pid}", h.ProductPage).Methods("GET")
	r.HandleFunc("/cart", h.CartPage).Methods("GET")

	// Cart intents (HTML forms)
	r.HandleFunc("/cart/add", h.AddToCart).Methods("POST")
	r.HandleFunc("/cart/update", h.UpdateQuantity).Methods("POST")
	r.HandleFunc("/cart/remove", h.RemoveFromCart).Methods("POST")

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cart", h.GetCartJSON).Methods("GET")
	api.HandleFunc("/cart/add", h.AddToCartJSON).Methods("POST")
	api.HandleFunc("/cart/update", h.UpdateQuantityJSON).Methods("POST")
	api.HandleFunc("/cart/remove", h.RemoveFromCartJSON).Methods("POST")
	api.HandleFunc("/products", h.ListProductsJSON).Methods("GET")
	api.HandleFunc("/products/{pid}", h.GetProductJSON).Methods("GET")

	// Ops
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.Handle("/metrics", obs.MetricsHandler()).Methods("GET")
}

// NewRouter builds the full handler chain.
func NewRouter(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(instrument)
	// mux middleware skips unmatched requests, so these are wrapped directly
	r.NotFoundHandler = instrument(http.NotFoundHandler())
	r.MethodNotAllowedHandler = instrument(http.HandlerFunc(methodNotAllowed))
	h.RegisterRoutes(r)
	return WithRequestID(WithLogging(r))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// --- request / response shapes ---
type cartIntentReq struct {
	VariantID string `json:"variantId"`
	Quantity  *int   `json:"quantity,omitempty"` // optional for remove and add
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// html renders into a buffer first so a template failure never leaves a
// half-written page behind.
func (h *Handler) html(w http.ResponseWriter, code int, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		obs.Logger.Error("render_failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) cartPage(w http.ResponseWriter, code int, st models.CheckoutState) {
	h.html(w, code, func(out io.Writer) error { return h.view.Cart(out, st) })
}

func (h *Handler) errorPage(w http.ResponseWriter, code int, heading, msg string) {
	h.html(w, code, func(out io.Writer) error { return h.view.Error(out, heading, msg) })
}

// session returns the caller's session id, issuing a cookie when missing.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(h.opts.SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.opts.SessionTTL.Seconds()),
	})
	return id
}

// parseQuantity accepts base-10 integers >= 0 only.
func parseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, service.ErrInvalidQuantity
	}
	return n, nil
}

// statusFor maps service and commerce errors to HTTP codes.
func statusFor(err error) int {
	var ue *commerce.UserError
	switch {
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, service.ErrMissingVariant):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrLineItemNotFound), errors.Is(err, commerce.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &ue):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// --- Pages ---

// CatalogPage handles GET /
func (h *Handler) CatalogPage(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.Products(r.Context(), h.opts.CatalogPageSize)
	if err != nil {
		h.errorPage(w, http.StatusBadGateway, "Catalog unavailable", err.Error())
		return
	}
	h.html(w, http.StatusOK, func(out io.Writer) error { return h.view.Catalog(out, ps) })
}

// ProductPage handles GET /products/{pid}. The fetch settles before anything
// is written.
func (h *Handler) ProductPage(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["pid"]
	p, err := h.svc.Product(r.Context(), handle)
	if errors.Is(err, commerce.ErrNotFound) {
		h.errorPage(w, http.StatusNotFound, "Product not found", "No product matches "+strconv.Quote(handle)+".")
		return
	}
	if err != nil {
		h.errorPage(w, http.StatusBadGateway, "Product unavailable", err.Error())
		return
	}
	h.html(w, http.StatusOK, func(out io.Writer) error { return h.view.Product(out, p) })
}

// CartPage handles GET /cart
func (h *Handler) CartPage(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	h.cartPage(w, http.StatusOK, h.svc.Cart(r.Context(), sid))
}

// --- Cart intents (forms) ---

// AddToCart handles POST /cart/add
// form: variant_id, quantity (defaults to 1)
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.cartPage(w, http.StatusBadRequest, models.ErrorState(err))
		return
	}
	qty := 1
	if raw := r.PostFormValue("quantity"); raw != "" {
		n, err := parseQuantity(raw)
		if err != nil {
			h.cartPage(w, http.StatusBadRequest, models.ErrorState(err))
			return
		}
		qty = n
	}
	sid := h.session(w, r)
	if _, err := h.svc.AddLineItem(r.Context(), sid, r.PostFormValue("variant_id"), qty); err != nil {
		h.cartPage(w, statusFor(err), models.ErrorState(err))
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// UpdateQuantity handles POST /cart/update
// form: variant_id, quantity
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.cartPage(w, http.StatusBadRequest, models.ErrorState(err))
		return
	}
	qty, err := parseQuantity(r.PostFormValue("quantity"))
	if err != nil {
		h.cartPage(w, http.StatusBadRequest, models.ErrorState(err))
		return
	}
	sid := h.session(w, r)
	if _, err := h.svc.UpdateQuantity(r.Context(), sid, r.PostFormValue("variant_id"), qty); err != nil {
		h.cartPage(w, statusFor(err), models.ErrorState(err))
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// RemoveFromCart handles POST /cart/remove
// form: variant_id
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.cartPage(w, http.StatusBadRequest, models.ErrorState(err))
		return
	}
	sid := h.session(w, r)
	if _, err := h.svc.RemoveLineItem(r.Context(), sid, r.PostFormValue("variant_id")); err != nil {
		h.cartPage(w, statusFor(err), models.ErrorState(err))
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// --- JSON API ---

// GetCartJSON handles GET /api/cart
func (h *Handler) GetCartJSON(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	writeJSON(w, http.StatusOK, h.svc.Cart(r.Context(), sid))
}

func decodeIntent(r *http.Request) (cartIntentReq, error) {
	var req cartIntentReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// AddToCartJSON handles POST /api/cart/add
// body: { "variantId": "...", "quantity": 2 }
func (h *Handler) AddToCartJSON(w http.ResponseWriter, r *http.Request) {
	req, err := decodeIntent(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	sid := h.session(w, r)
	st, err := h.svc.AddLineItem(r.Context(), sid, req.VariantID, qty)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UpdateQuantityJSON handles POST /api/cart/update
// body: { "variantId": "...", "quantity": 3 }
func (h *Handler) UpdateQuantityJSON(w http.ResponseWriter, r *http.Request) {
	req, err := decodeIntent(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity == nil {
		writeErr(w, http.StatusBadRequest, "quantity is required")
		return
	}
	sid := h.session(w, r)
	st, err := h.svc.UpdateQuantity(r.Context(), sid, req.VariantID, *req.Quantity)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// RemoveFromCartJSON handles POST /api/cart/remove
// body: { "variantId": "..." }
func (h *Handler) RemoveFromCartJSON(w http.ResponseWriter, r *http.Request) {
	req, err := decodeIntent(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	sid := h.session(w, r)
	st, err := h.svc.RemoveLineItem(r.Context(), sid, req.VariantID)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ListProductsJSON handles GET /api/products?first=N
func (h *Handler) ListProductsJSON(w http.ResponseWriter, r *http.Request) {
	first := h.opts.CatalogPageSize
	if raw := r.URL.Query().Get("first"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 250 {
			writeErr(w, http.StatusBadRequest, "first must be between 1 and 250")
			return
		}
		first = n
	}
	ps, err := h.svc.Products(r.Context(), first)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// GetProductJSON handles GET /api/products/{pid}
func (h *Handler) GetProductJSON(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Product(r.Context(), mux.Vars(r)["pid"])
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
