package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"research_assistant_backend/internal/interactions/repository"
	"research_assistant_backend/internal/interactions/transport"
	"research_assistant_backend/platform/httpkit"
	"research_assistant_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

var exportHeader = []string{"id", "timestamp", "user_query", "agent_response", "tools_used", "rating", "comment"}

// ExportCSV streams recent queries with their latest feedback as CSV.
func (h *Handler) ExportCSV(c *gin.Context) {
	var q transport.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	items, err := h.svc.Export(c.Request.Context(), q.Limit)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=query-history.csv")
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(exportHeader); err != nil {
		_ = c.Error(err)
		return
	}
	for _, it := range items {
		if err := writer.Write(exportRow(it)); err != nil {
			_ = c.Error(err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = c.Error(err)
	}
}

func exportRow(it repository.HistoryItem) []string {
	rating, comment := "", ""
	if it.Rating != nil {
		rating = strconv.Itoa(*it.Rating)
	}
	if it.Comment != nil {
		comment = *it.Comment
	}
	return []string{
		strconv.FormatInt(it.ID, 10),
		it.CreatedAt.UTC().Format(time.RFC3339),
		it.UserQuery,
		it.AgentResponse,
		strings.Join(it.ToolsUsed, ";"),
		rating,
		comment,
	}
}
