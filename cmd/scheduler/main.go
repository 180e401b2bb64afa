package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"research_assistant_backend/internal/adapters/storage"
	"research_assistant_backend/internal/catalog"
	"research_assistant_backend/internal/scheduler"
	semanticservice "research_assistant_backend/internal/semantic/service"
	"research_assistant_backend/platform/ai/embeddings"
	"research_assistant_backend/platform/config"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/qdrant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minio, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		storageSvc = minio
	}

	// Worker-side catalog wiring (no HTTP handlers or event bus required).
	catalogModule := catalog.NewModule(cfg, storageSvc, nil, log)

	embedder, err := embeddings.FromConfig(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize embeddings", "error", err)
		panic("failed to initialize embeddings: " + err.Error())
	}
	var vectors semanticservice.VectorStore
	if cfg.IsQdrantEnabled() {
		vectors = qdrant.NewClient(qdrant.Config{
			BaseURL:    cfg.GetQdrantURL(),
			APIKey:     cfg.GetQdrantAPIKey(),
			Collection: cfg.GetQdrantCollection(),
		})
	}
	semanticSvc := semanticservice.New(embedder, vectors, catalogModule.Service(), semanticservice.Config{
		Dimensions:  cfg.GetEmbeddingDimensions(),
		Concurrency: cfg.GetEmbeddingConcurrency(),
	}, log)

	var indexer scheduler.CatalogIndexer
	if semanticSvc.Enabled() {
		indexer = semanticSvc
	} else {
		log.Warn("semantic search not configured; reindex only reloads the catalog")
	}

	cron, err := scheduler.NewCron(cfg, log)
	if err != nil {
		log.Error("failed to initialize cron scheduler", "error", err)
		panic("failed to initialize cron scheduler: " + err.Error())
	}
	go cron.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, catalogModule.Service(), indexer, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
