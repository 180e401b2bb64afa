// Package analysis exposes deterministic price analysis over the catalog.
package analysis

import (
	"research_assistant_backend/internal/analysis/handler"
	"research_assistant_backend/internal/analysis/service"
	apphttp "research_assistant_backend/internal/http"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/validator"
)

// Module is the analysis module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the analysis module on top of a catalog snapshot provider.
func NewModule(catalog service.SnapshotProvider, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(catalog, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analysis"
}

// Service returns the service layer, used by the research agent's price tool.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts analysis routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/analysis", m.handler.Analyze)
}

var _ apphttp.Module = (*Module)(nil)
