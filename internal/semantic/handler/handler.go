package handler

import (
	"net/http"

	"research_assistant_backend/internal/semantic/service"
	"research_assistant_backend/internal/semantic/transport"
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

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	matches, err := h.svc.Search(c.Request.Context(), req.Query, req.Limit)
	if httpkit.HandleError(c, err) {
		return
	}

	results := make([]transport.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, transport.SearchResult(m))
	}
	httpkit.OK(c, transport.SearchResponse{Query: req.Query, Results: results})
}

// Reindex embeds the live catalog again.
func (h *Handler) Reindex(c *gin.Context) {
	n, err := h.svc.IndexCurrent(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ReindexResponse{Message: "Catalog indexed", Products: n})
}
