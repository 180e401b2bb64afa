// Package interactions logs answered research queries and user feedback.
package interactions

import (
	"context"

	"research_assistant_backend/internal/events"
	apphttp "research_assistant_backend/internal/http"
	"research_assistant_backend/internal/interactions/handler"
	"research_assistant_backend/internal/interactions/repository"
	"research_assistant_backend/internal/interactions/service"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/validator"
)

// Module is the interactions bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

// NewModule creates the interactions module.
func NewModule(repo repository.InteractionsRepository, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "interactions"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts interaction routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/queries", m.handler.ListQueries)
	ctx.V1.POST("/feedback", m.handler.SubmitFeedback)
	ctx.Admin.GET("/queries/export", m.handler.ExportCSV)
}

// RegisterHandlers subscribes to interaction events for audit logging.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QueryAnswered{}.EventName(), m)
	bus.Subscribe(events.FeedbackReceived{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QueryAnswered:
		m.log.WithContext(ctx).Info("query answered", "queryId", e.QueryID, "tools", e.ToolsUsed)
	case events.FeedbackReceived:
		msg := "feedback received"
		if e.Rating <= 2 {
			msg = "negative feedback received"
		}
		m.log.WithContext(ctx).Info(msg, "queryId", e.QueryID, "rating", e.Rating)
	}
	return nil
}

var _ apphttp.Module = (*Module)(nil)
