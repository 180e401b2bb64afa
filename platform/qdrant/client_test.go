package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEnsureCollectionCreatesWhenMissing(t *testing.T) {
	var created vectorParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			var body createCollectionRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			created = body.Vectors
			_, _ = w.Write([]byte(`{"result":true}`))
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Collection: "products"})
	if err := c.EnsureCollection(context.Background(), 768); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Size != 768 || created.Distance != "Cosine" {
		t.Fatalf("expected 768/Cosine, got %+v", created)
	}
}

func TestSearchSendsAPIKeyAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "k" {
			t.Errorf("expected api-key header")
		}
		var req searchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Limit != 4 || !req.WithPayload {
			t.Errorf("expected default limit 4 with payload, got %+v", req)
		}
		_, _ = w.Write([]byte(`{"result":[{"id":"a","score":0.9,"payload":{"product_name":"Kettle"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "k", Collection: "products"})
	results, err := c.Search(context.Background(), []float32{0.1, 0.2}, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 1 || results[0].Payload["product_name"] != "Kettle" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestDeleteExceptSendsMustNotFilter(t *testing.T) {
	var got deleteRequest
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost || r.URL.Path != "/collections/products/points/delete" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Collection: "products"})
	if err := c.DeleteExcept(context.Background(), "product_id", []string{"P1", "P2"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.Filter.MustNot) != 1 || got.Filter.MustNot[0].Key != "product_id" || len(got.Filter.MustNot[0].Match.Any) != 2 {
		t.Fatalf("unexpected filter %+v", got.Filter)
	}

	if err := c.DeleteExcept(context.Background(), "product_id", nil); err != nil || calls != 1 {
		t.Fatalf("expected empty keep list to skip the request, got calls=%d err=%v", calls, err)
	}
}
