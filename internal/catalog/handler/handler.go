package handler

import (
	"net/http"

	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/internal/catalog/service"
	"research_assistant_backend/internal/catalog/transport"
	"research_assistant_backend/platform/httpkit"
	"research_assistant_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *service.Service
	log *logger.Logger
}

func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Status reports the live snapshot.
func (h *Handler) Status(c *gin.Context) {
	snap, err := h.svc.Snapshot()
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toStatus(snap))
}

// Reload re-reads the configured catalog source.
func (h *Handler) Reload(c *gin.Context) {
	snap, err := h.svc.Reload(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	h.log.WithContext(c.Request.Context()).Info("catalog reloaded by admin", "products", snap.Len())
	httpkit.OK(c, transport.ReloadResponse{Message: "Catalog reloaded", Catalog: toStatus(snap)})
}

// Upload accepts a multipart "file" field with a new catalog CSV.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, "multipart field 'file' is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	defer file.Close()

	snap, err := h.svc.Upload(c.Request.Context(), fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if httpkit.HandleError(c, err) {
		return
	}
	h.log.WithContext(c.Request.Context()).Info("catalog uploaded by admin", "products", snap.Len(), "filename", fileHeader.Filename)
	httpkit.OK(c, transport.ReloadResponse{Message: "Catalog uploaded", Catalog: toStatus(snap)})
}

func toStatus(snap *domain.Snapshot) transport.StatusResponse {
	return transport.StatusResponse{
		Source:   snap.Source(),
		Products: snap.Len(),
		Columns:  snap.Columns(),
		LoadedAt: snap.LoadedAt(),
	}
}
