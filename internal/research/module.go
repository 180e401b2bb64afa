// Package research exposes the product research assistant over HTTP.
package research

import (
	"time"

	apphttp "research_assistant_backend/internal/http"
	"research_assistant_backend/internal/research/handler"
	"research_assistant_backend/internal/research/service"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/validator"
)

// Module is the research module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the research module. agent may be nil when no LLM is configured.
func NewModule(agent service.Asker, recorder service.Recorder, timeout time.Duration, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(agent, recorder, timeout, log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "research"
}

// RegisterRoutes mounts the query route behind the per-IP query limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/query", ctx.QueryRateLimiter.RateLimit(), m.handler.Query)
}

var _ apphttp.Module = (*Module)(nil)
