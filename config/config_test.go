package config

import (
	"testing"
	"time"
)

var allKeys = []string{
	"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "SHOP_NAME", "STOREFRONT_ENDPOINT",
	"STOREFRONT_TOKEN", "COMMERCE_TIMEOUT_MS", "CATALOG_PAGE_SIZE", "STORE_DRIVER",
	"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SESSION_COOKIE",
	"SESSION_TTL_HOURS",
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	c := Load()
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default")
	}
	if c.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout default")
	}
	if c.LogLevel != "info" || c.ShopName != "Storefront" {
		t.Fatalf("log level / shop name default")
	}
	if c.CommerceTimeout != 10*time.Second || c.CatalogPageSize != 20 {
		t.Fatalf("commerce defaults")
	}
	if c.StoreDriver != "memory" || c.RedisAddr != "localhost:6379" || c.RedisDB != 0 {
		t.Fatalf("store defaults")
	}
	if c.SessionCookie != "storefront_session" || c.SessionTTL != 720*time.Hour {
		t.Fatalf("session defaults")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("STOREFRONT_ENDPOINT", "http://shop.test/graphql")
	t.Setenv("STOREFRONT_TOKEN", "tok")
	t.Setenv("COMMERCE_TIMEOUT_MS", "250")
	t.Setenv("CATALOG_PAGE_SIZE", "8")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL_HOURS", "1")
	c := Load()
	if c.HTTPAddr != ":9090" || c.ShutdownTimeout != 2*time.Second {
		t.Fatalf("server env")
	}
	if c.LogLevel != "debug" {
		t.Fatalf("LogLevel env, got %q", c.LogLevel)
	}
	if c.StorefrontEndpoint != "http://shop.test/graphql" || c.StorefrontToken != "tok" {
		t.Fatalf("storefront env")
	}
	if c.CommerceTimeout != 250*time.Millisecond || c.CatalogPageSize != 8 {
		t.Fatalf("commerce env")
	}
	if c.StoreDriver != "redis" || c.RedisDB != 3 || c.SessionTTL != time.Hour {
		t.Fatalf("store env")
	}
}

func TestLoadRejectsBadPageSize(t *testing.T) {
	t.Setenv("CATALOG_PAGE_SIZE", "1000")
	if c := Load(); c.CatalogPageSize != 20 {
		t.Fatalf("expected fallback page size, got %d", c.CatalogPageSize)
	}
	t.Setenv("CATALOG_PAGE_SIZE", "abc")
	if c := Load(); c.CatalogPageSize != 20 {
		t.Fatalf("expected fallback page size, got %d", c.CatalogPageSize)
	}
}
