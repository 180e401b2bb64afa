package handler

import (
	"net/http"

	"research_assistant_backend/internal/interactions/repository"
	"research_assistant_backend/internal/interactions/service"
	"research_assistant_backend/internal/interactions/transport"
	"research_assistant_backend/platform/httpkit"
	"research_assistant_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListQueries returns recent queries with their latest feedback.
func (h *Handler) ListQueries(c *gin.Context) {
	var q transport.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	items, err := h.svc.History(c.Request.Context(), q.Limit)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]transport.HistoryItem, 0, len(items))
	for _, it := range items {
		out = append(out, toHistoryItem(it))
	}
	httpkit.OK(c, out)
}

// SubmitFeedback rates a previously answered query.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req transport.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	if err := h.svc.SubmitFeedback(c.Request.Context(), req.QueryID, req.Rating, req.Comment); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FeedbackResponse{Message: "Feedback received"})
}

func toHistoryItem(it repository.HistoryItem) transport.HistoryItem {
	reasoning := it.Reasoning
	if reasoning == nil {
		reasoning = []string{}
	}
	tools := it.ToolsUsed
	if tools == nil {
		tools = []string{}
	}
	return transport.HistoryItem{
		ID:            it.ID,
		UserQuery:     it.UserQuery,
		AgentResponse: it.AgentResponse,
		Reasoning:     reasoning,
		ToolsUsed:     tools,
		Timestamp:     it.CreatedAt,
		Rating:        it.Rating,
		Comment:       it.Comment,
	}
}
