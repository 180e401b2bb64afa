// Package service indexes catalog products into the vector store and runs
// similarity search over them.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/platform/ai/embeddings"
	"research_assistant_backend/platform/apperr"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/qdrant"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the number of matches returned when none is requested.
const DefaultLimit = 4

const upsertBatchSize = 64

// productNamespace derives stable point IDs from product IDs so re-indexing
// overwrites instead of duplicating.
var productNamespace = uuid.MustParse("6f1c9a3e-2b7d-4c51-9e0a-8d3f5b7c2a10")

// VectorStore is the subset of the Qdrant client the service uses.
type VectorStore interface {
	EnsureCollection(ctx context.Context, dimensions int) error
	Upsert(ctx context.Context, points []qdrant.Point) error
	Search(ctx context.Context, vector []float32, limit int) ([]qdrant.SearchResult, error)
	DeleteExcept(ctx context.Context, key string, keep []string) error
}

// SnapshotProvider yields the current catalog snapshot.
type SnapshotProvider interface {
	Snapshot() (*domain.Snapshot, error)
}

// Config tunes indexing.
type Config struct {
	Dimensions  int
	Concurrency int
}

// Match is one search hit as presented to the agent and API callers.
type Match struct {
	ProductID      string  `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Brand          string  `json:"brand"`
	Price          float64 `json:"price"`
	StockQuantity  int     `json:"stock_quantity"`
	Rating         float64 `json:"rating"`
	Description    string  `json:"description"`
	RelevanceScore float64 `json:"relevance_score"`
}

type Service struct {
	embedder embeddings.Embedder
	vectors  VectorStore
	catalog  SnapshotProvider
	cfg      Config
	log      *logger.Logger
}

// New creates the service. A nil embedder or vector store leaves search
// disabled; calls then fail with an unavailable error.
func New(embedder embeddings.Embedder, vectors VectorStore, catalog SnapshotProvider, cfg Config, log *logger.Logger) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Service{embedder: embedder, vectors: vectors, catalog: catalog, cfg: cfg, log: log}
}

// Enabled reports whether both an embedder and a vector store are wired.
func (s *Service) Enabled() bool {
	return s != nil && s.embedder != nil && s.vectors != nil
}

// IndexCurrent indexes the live catalog snapshot.
func (s *Service) IndexCurrent(ctx context.Context) (int, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return 0, err
	}
	return s.Index(ctx, snap)
}

// Index embeds every product in snap, upserts it keyed by product ID and
// removes points for products no longer in snap.
func (s *Service) Index(ctx context.Context, snap *domain.Snapshot) (int, error) {
	if !s.Enabled() {
		return 0, apperr.Unavailable("semantic search is not configured").WithOp("semantic.Index")
	}
	start := time.Now()

	if err := s.vectors.EnsureCollection(ctx, s.cfg.Dimensions); err != nil {
		return 0, apperr.Internal("failed to prepare vector collection").WithOp("semantic.Index").WithErr(err)
	}

	products := snap.Products()
	points := make([]qdrant.Point, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, p := range products {
		g.Go(func() error {
			doc := Document(p)
			vec, err := s.embedder.Embed(gctx, doc)
			if err != nil {
				return fmt.Errorf("embed product %s: %w", p.ProductID, err)
			}
			points[i] = qdrant.Point{
				ID:      PointID(p.ProductID),
				Vector:  vec,
				Payload: payload(p, doc),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, apperr.Internal("failed to embed catalog").WithOp("semantic.Index").WithErr(err)
	}

	for lo := 0; lo < len(points); lo += upsertBatchSize {
		hi := min(lo+upsertBatchSize, len(points))
		if err := s.vectors.Upsert(ctx, points[lo:hi]); err != nil {
			return 0, apperr.Internal("failed to upsert vectors").WithOp("semantic.Index").WithErr(err)
		}
	}

	// Products dropped from the catalog must not keep answering searches.
	keep := make([]string, len(products))
	for i, p := range products {
		keep[i] = p.ProductID
	}
	if err := s.vectors.DeleteExcept(ctx, "product_id", keep); err != nil {
		return 0, apperr.Internal("failed to prune vectors").WithOp("semantic.Index").WithErr(err)
	}

	s.log.WithContext(ctx).Info("catalog indexed",
		"products", len(points),
		"durationMs", time.Since(start).Milliseconds(),
	)
	return len(points), nil
}

// Search embeds query and returns the closest products.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Match, error) {
	if !s.Enabled() {
		return nil, apperr.Unavailable("semantic search is not configured").WithOp("semantic.Search")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("query is required").WithOp("semantic.Search")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperr.Internal("failed to embed query").WithOp("semantic.Search").WithErr(err)
	}
	results, err := s.vectors.Search(ctx, vec, limit)
	if err != nil {
		return nil, apperr.Internal("vector search failed").WithOp("semantic.Search").WithErr(err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			ProductID:      payloadString(r.Payload, "product_id"),
			ProductName:    payloadString(r.Payload, "product_name"),
			Brand:          payloadString(r.Payload, "brand"),
			Price:          payloadFloat(r.Payload, "price"),
			StockQuantity:  int(payloadFloat(r.Payload, "stock_quantity")),
			Rating:         payloadFloat(r.Payload, "average_rating"),
			Description:    strings.TrimSpace(payloadString(r.Payload, "document")),
			RelevanceScore: r.Score,
		})
	}
	return matches, nil
}

// Document renders the text embedded for a product.
func Document(p domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", p.ProductName)
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "Brand: %s\n", p.Brand)
	fmt.Fprintf(&b, "Price: $%s\n", strconv.FormatFloat(p.CurrentPrice, 'f', -1, 64))
	fmt.Fprintf(&b, "Description: %s", p.Description)
	return b.String()
}

// PointID maps a product ID to its vector store point ID.
func PointID(productID string) string {
	return uuid.NewSHA1(productNamespace, []byte(productID)).String()
}

func payload(p domain.Product, doc string) map[string]interface{} {
	return map[string]interface{}{
		"product_id":     p.ProductID,
		"product_name":   p.ProductName,
		"category":       p.Category,
		"brand":          p.Brand,
		"price":          p.CurrentPrice,
		"stock_quantity": p.StockQuantity,
		"average_rating": p.AverageRating,
		"review_count":   p.ReviewCount,
		"document":       doc,
	}
}

func payloadString(p map[string]interface{}, key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func payloadFloat(p map[string]interface{}, key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}
