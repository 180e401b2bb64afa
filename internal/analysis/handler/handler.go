package handler

import (
	"net/http"

	"research_assistant_backend/internal/analysis/pricing"
	"research_assistant_backend/internal/analysis/service"
	"research_assistant_backend/internal/analysis/transport"
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

// Analyze runs a price analysis action. Unknown actions and missing
// parameters come back as 400 with the engine's error message.
func (h *Handler) Analyze(c *gin.Context) {
	var req transport.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	res, err := h.svc.Analyze(c.Request.Context(), pricing.Request{
		Action:    req.Action,
		Threshold: req.Threshold,
		Category:  req.Category,
		Limit:     req.Limit,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	if res.Failed() {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	httpkit.OK(c, res)
}
