// Package semantic provides vector similarity search over the catalog.
package semantic

import (
	"context"

	"research_assistant_backend/internal/events"
	apphttp "research_assistant_backend/internal/http"
	"research_assistant_backend/internal/semantic/handler"
	"research_assistant_backend/internal/semantic/service"
	"research_assistant_backend/platform/ai/embeddings"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/validator"
)

// Module is the semantic search module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

// NewModule creates the module. embedder and vectors may be nil when
// embeddings are not configured; search then answers 503.
func NewModule(embedder embeddings.Embedder, vectors service.VectorStore, catalog service.SnapshotProvider, cfg service.Config, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(embedder, vectors, catalog, cfg, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "semantic"
}

// Service returns the service layer, used by the research agent's catalog tool.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts search routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/catalog/search", m.handler.Search)
	ctx.Admin.POST("/catalog/reindex", m.handler.Reindex)
}

// RegisterHandlers re-indexes whenever a new catalog snapshot goes live.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.CatalogReloaded{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch event.(type) {
	case events.CatalogReloaded:
		if !m.service.Enabled() {
			return nil
		}
		_, err := m.service.IndexCurrent(ctx)
		return err
	default:
		return nil
	}
}

var _ apphttp.Module = (*Module)(nil)
