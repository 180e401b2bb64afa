package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedAcceptsEveryResponseShape(t *testing.T) {
	bodies := []string{`{"vector":[0.5,0.25]}`, `[0.5,0.25]`, `{"data":[{"embedding":[0.5,0.25]}]}`}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer key" {
				t.Errorf("expected bearer auth header")
			}
			_, _ = w.Write([]byte(body))
		}))

		c := NewClient(Config{BaseURL: srv.URL, APIKey: "key"})
		vec, err := c.Embed(context.Background(), "kettle")
		srv.Close()
		if err != nil {
			t.Fatalf("expected no error for %s, got %v", body, err)
		}
		if len(vec) != 2 || vec[0] != 0.5 {
			t.Fatalf("expected [0.5 0.25], got %v", vec)
		}
	}
}

func TestEmbedSendsModelAndRejectsEmptyVectors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Text != "mug" || req.Input != "mug" || req.Model != "bge-m3" {
			t.Errorf("unexpected request %+v", req)
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL, Model: "bge-m3"}).Embed(context.Background(), "mug")
	if !errors.Is(err, errNoVector) {
		t.Fatalf("expected errNoVector, got %v", err)
	}
}

func TestEmbedRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewClient(Config{BaseURL: srv.URL}).Embed(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for 502 response")
	}
}

type embeddingConfig struct {
	provider string
	url      string
	gemini   string
}

func (c embeddingConfig) GetEmbeddingProvider() string { return c.provider }
func (c embeddingConfig) GetGeminiAPIKey() string      { return c.gemini }
func (c embeddingConfig) GetEmbeddingModel() string    { return "" }
func (c embeddingConfig) GetEmbeddingAPIURL() string   { return c.url }
func (c embeddingConfig) GetEmbeddingAPIKey() string   { return "" }
func (c embeddingConfig) GetEmbeddingDimensions() int  { return 768 }
func (c embeddingConfig) GetEmbeddingConcurrency() int { return 1 }
func (c embeddingConfig) IsEmbeddingEnabled() bool {
	return (c.provider == "http" && c.url != "") || (c.provider == "gemini" && c.gemini != "")
}

func TestFromConfig(t *testing.T) {
	embedder, err := FromConfig(context.Background(), embeddingConfig{provider: "gemini"})
	if err != nil || embedder != nil {
		t.Fatalf("expected disabled embedder, got %v (%v)", embedder, err)
	}

	embedder, err = FromConfig(context.Background(), embeddingConfig{provider: "http", url: "http://embed.local"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := embedder.(*Client); !ok {
		t.Fatalf("expected http client, got %T", embedder)
	}
}
