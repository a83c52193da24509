package md

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testMint = "So11111111111111111111111111111111111111112"

func TestJupiterSourceDecodesPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != testMint {
			t.Errorf("expected ids=%s, got %q", testMint, got)
		}
		if got := r.Header.Get("x-api-key"); got != "key" {
			t.Errorf("expected api key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"` + testMint + `":{"usdPrice":142.125,"decimals":9}}`))
	}))
	defer server.Close()

	source := NewJupiterSource(server.URL, testMint, "SOL/USD", "key")
	tick, err := source.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tick.Price != 142.125 || tick.Symbol != "SOL/USD" {
		t.Fatalf("expected SOL/USD at 142.125, got %+v", tick)
	}
}

func TestJupiterSourceMissingMint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	source := NewJupiterSource(server.URL, testMint, "SOL/USD", "")
	if _, err := source.Latest(context.Background()); err == nil {
		t.Fatalf("expected error for missing mint")
	}
}

func TestJupiterSourceHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	source := NewJupiterSource(server.URL, testMint, "SOL/USD", "")
	if _, err := source.Latest(context.Background()); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}
