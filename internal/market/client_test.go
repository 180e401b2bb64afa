package market

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchSendsKeyAndSanitizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("X-API-KEY") != "serper-key" {
			t.Errorf("expected X-API-KEY header")
		}
		var body searchRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Q != "kettle price trends" {
			t.Errorf("unexpected query %q", body.Q)
		}
		_, _ = w.Write([]byte(`{"organic":[{"title":"<b>Kettles</b> 2026","link":"https://example.com","snippet":"From   $19 &amp; up","position":1}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "serper-key", URL: srv.URL})
	res, err := c.Search(context.Background(), "  kettle price trends ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Organic) != 1 {
		t.Fatalf("expected 1 result, got %d", len(res.Organic))
	}
	if res.Organic[0].Title != "Kettles 2026" || res.Organic[0].Snippet != "From $19 & up" {
		t.Fatalf("expected sanitized result, got %+v", res.Organic[0])
	}
}

func TestSearchWithoutKey(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.Search(context.Background(), "anything"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", URL: srv.URL})
	if _, err := c.Search(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error for 403")
	}
}
