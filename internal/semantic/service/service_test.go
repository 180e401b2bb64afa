package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/platform/apperr"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/qdrant"
)

type fakeEmbedder struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return []float32{float32(len(text)), 1}, nil
}

type fakeVectors struct {
	ensured int
	points  []qdrant.Point
	results []qdrant.SearchResult
	limit   int
	kept    []string
}

func (f *fakeVectors) EnsureCollection(_ context.Context, dims int) error {
	f.ensured = dims
	return nil
}

func (f *fakeVectors) Upsert(_ context.Context, points []qdrant.Point) error {
	f.points = append(f.points, points...)
	return nil
}

func (f *fakeVectors) DeleteExcept(_ context.Context, key string, keep []string) error {
	if key != "product_id" {
		return fmt.Errorf("unexpected key %s", key)
	}
	f.kept = keep
	return nil
}

func (f *fakeVectors) Search(_ context.Context, _ []float32, limit int) ([]qdrant.SearchResult, error) {
	f.limit = limit
	return f.results, nil
}

type staticCatalog struct{ snap *domain.Snapshot }

func (s staticCatalog) Snapshot() (*domain.Snapshot, error) { return s.snap, nil }

func testSnapshot() *domain.Snapshot {
	return domain.NewSnapshot([]domain.Product{
		{ProductID: "P1", ProductName: "Kettle", Category: "Kitchen", Brand: "Brew", CurrentPrice: 39.5, Description: "Steel kettle"},
		{ProductID: "P2", ProductName: "Lamp", Category: "Home", Brand: "Lux", CurrentPrice: 20, Description: "Desk lamp"},
	}, []string{domain.ColProductID, domain.ColProductName}, "test", time.Now())
}

func TestIndexUpsertsStableIDs(t *testing.T) {
	emb := &fakeEmbedder{}
	vec := &fakeVectors{}
	svc := New(emb, vec, staticCatalog{snap: testSnapshot()}, Config{Dimensions: 768, Concurrency: 2}, logger.Discard())

	n, err := svc.IndexCurrent(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 2 || len(vec.points) != 2 {
		t.Fatalf("expected 2 points, got %d/%d", n, len(vec.points))
	}
	if vec.ensured != 768 {
		t.Fatalf("expected collection with 768 dims, got %d", vec.ensured)
	}
	if vec.points[0].ID != PointID("P1") || vec.points[1].ID != PointID("P2") {
		t.Fatalf("expected points in catalog order with stable IDs")
	}
	if PointID("P1") != PointID("P1") || PointID("P1") == PointID("P2") {
		t.Fatalf("expected deterministic, distinct point IDs")
	}
	if vec.points[0].Payload["product_id"] != "P1" {
		t.Fatalf("expected product_id payload, got %v", vec.points[0].Payload)
	}
	if strings.Join(vec.kept, ",") != "P1,P2" {
		t.Fatalf("expected stale points pruned against P1,P2, got %v", vec.kept)
	}
}

func TestReindexPrunesRemovedProducts(t *testing.T) {
	vec := &fakeVectors{}
	svc := New(&fakeEmbedder{}, vec, nil, Config{Dimensions: 2}, logger.Discard())

	smaller := domain.NewSnapshot([]domain.Product{{ProductID: "P2", ProductName: "Lamp"}}, nil, "test", time.Now())
	if _, err := svc.Index(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.Index(context.Background(), smaller); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vec.kept) != 1 || vec.kept[0] != "P2" {
		t.Fatalf("expected only P2 kept after reindex, got %v", vec.kept)
	}
}

func TestDocumentFormat(t *testing.T) {
	doc := Document(domain.Product{ProductName: "Kettle", Category: "Kitchen", Brand: "Brew", CurrentPrice: 39.5, Description: "Steel kettle"})
	want := "Product: Kettle\nCategory: Kitchen\nBrand: Brew\nPrice: $39.5\nDescription: Steel kettle"
	if doc != want {
		t.Fatalf("expected %q, got %q", want, doc)
	}
}

func TestSearchMapsPayload(t *testing.T) {
	vec := &fakeVectors{results: []qdrant.SearchResult{{
		Score: 0.87,
		Payload: map[string]interface{}{
			"product_id": "P1", "product_name": "Kettle", "brand": "Brew",
			"price": 39.5, "stock_quantity": float64(12), "average_rating": 4.4,
			"document": "  Product: Kettle  ",
		},
	}}}
	svc := New(&fakeEmbedder{}, vec, nil, Config{Dimensions: 2}, logger.Discard())

	matches, err := svc.Search(context.Background(), "kettle", 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if vec.limit != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, vec.limit)
	}
	m := matches[0]
	if m.ProductID != "P1" || m.StockQuantity != 12 || m.Rating != 4.4 || m.RelevanceScore != 0.87 {
		t.Fatalf("unexpected match %+v", m)
	}
	if !strings.HasPrefix(m.Description, "Product:") {
		t.Fatalf("expected trimmed description, got %q", m.Description)
	}
}

func TestSearchDisabled(t *testing.T) {
	svc := New(nil, nil, nil, Config{}, logger.Discard())
	if _, err := svc.Search(context.Background(), "kettle", 0); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	svc := New(&fakeEmbedder{}, &fakeVectors{}, nil, Config{}, logger.Discard())
	if _, err := svc.Search(context.Background(), "   ", 0); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
