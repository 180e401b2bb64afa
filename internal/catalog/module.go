// Package catalog provides the product catalog bounded context module.
package catalog

import (
	"research_assistant_backend/internal/adapters/storage"
	"research_assistant_backend/internal/catalog/handler"
	"research_assistant_backend/internal/catalog/repository"
	"research_assistant_backend/internal/catalog/service"
	"research_assistant_backend/internal/events"
	apphttp "research_assistant_backend/internal/http"
	"research_assistant_backend/platform/config"
	"research_assistant_backend/platform/logger"
)

// ModuleConfig combines the config interfaces the catalog module reads.
type ModuleConfig interface {
	config.CatalogConfig
	config.MinIOConfig
}

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the catalog module. storageSvc may be nil, which disables
// uploads and requires a file source.
func NewModule(cfg ModuleConfig, storageSvc storage.StorageService, bus events.Bus, log *logger.Logger) *Module {
	var source repository.Source = repository.FileSource{Path: cfg.GetCatalogPath()}
	var uploads *service.Uploads
	if storageSvc != nil {
		uploads = &service.Uploads{
			Storage: storageSvc,
			Bucket:  cfg.GetMinIOBucketCatalog(),
			Key:     cfg.GetCatalogObject(),
		}
		if cfg.GetCatalogSource() == config.CatalogSourceMinIO {
			source = repository.ObjectSource{Storage: storageSvc, Bucket: uploads.Bucket, Key: uploads.Key}
		}
	}

	svc := service.New(repository.NewStore(), source, uploads, bus, log)
	return &Module{
		handler: handler.New(svc, log),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/catalog", m.handler.Status)

	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.POST("/reload", m.handler.Reload)
	adminGroup.POST("/upload", m.handler.Upload)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
