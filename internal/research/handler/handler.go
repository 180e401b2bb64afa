package handler

import (
	"net/http"

	"research_assistant_backend/internal/research/service"
	"research_assistant_backend/internal/research/transport"
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

// Query runs the research agent on a free-text question.
func (h *Handler) Query(c *gin.Context) {
	var req transport.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	answer, err := h.svc.Ask(c.Request.Context(), httpkit.GetUserID(c), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.QueryResponse{
		QueryID:   answer.QueryID,
		Answer:    answer.Answer,
		Reasoning: nonNil(answer.Reasoning),
		ToolsUsed: nonNil(answer.ToolsUsed),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
