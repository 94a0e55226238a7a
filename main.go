package main

// GET  /                 - Product catalog
// GET  /products/{pid}   - Product page by handle
// GET  /cart             - Cart page
// POST /cart/add         - Add a variant to the cart
// POST /cart/update      - Set a line item's quantity
// POST /cart/remove      - Remove a line item
// /api/...               - The same state and intents as JSON

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"

	"storefront/commerce"
	"storefront/config"
	"storefront/handler"
	"storefront/obs"
	"storefront/service"
	"storefront/store"
	"storefront/view"
)

// openStore picks the session backend named by cfg.StoreDriver.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "postgres":
		st, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		// --- RUN MIGRATIONS ---
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		obs.Logger.Info("database_migrations_applied")
		return st, nil
	case "redis":
		return store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	default:
		return nil, errors.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func main() {
	os.Exit(run())
}

// run wires and serves the storefront and returns the process exit code.
// The store is closed before returning on every path.
func run() int {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting", "store_driver", cfg.StoreDriver, "endpoint", cfg.StorefrontEndpoint)

	// --- Store ---
	ctxInit, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := openStore(ctxInit, cfg)
	cancelInit()
	if err != nil {
		obs.Logger.Error("store_open_failed", "error", err)
		return 1
	}
	defer st.Close()

	// --- Service ---
	api := commerce.New(cfg.StorefrontEndpoint, cfg.StorefrontToken, cfg.CommerceTimeout)
	svc := service.NewService(api, st)
	var serviceInterface service.ServiceInterface = svc

	// --- Handlers ---
	v, err := view.New(cfg.ShopName)
	if err != nil {
		obs.Logger.Error("templates_failed", "error", err)
		return 1
	}
	h := handler.NewHandler(serviceInterface, v, handler.Options{
		SessionCookie:   cfg.SessionCookie,
		SessionTTL:      cfg.SessionTTL,
		CatalogPageSize: cfg.CatalogPageSize,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sigc:
		obs.Logger.Info("shutdown_signal", "signal", s.String())
	case err := <-errc:
		obs.Logger.Error("http_server_error", "error", err)
		return 1
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
	return 0
}
