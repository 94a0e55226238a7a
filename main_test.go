package main

import (
	"context"
	"net"
	"testing"
	"time"

	"storefront/config"
	"storefront/store"
)

func TestRunReturnsWhenListenFails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	t.Setenv("HTTP_ADDR", ln.Addr().String())
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	done := make(chan int, 1)
	go func() { done <- run() }()
	select {
	case code := <-done:
		if code != 1 {
			t.Fatalf("expected exit code 1, got %d", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after listener failure")
	}
}

func TestOpenStore(t *testing.T) {
	st, err := openStore(context.Background(), config.Config{StoreDriver: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", st)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := openStore(context.Background(), config.Config{StoreDriver: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
