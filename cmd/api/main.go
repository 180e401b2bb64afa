package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"research_assistant_backend/internal/adapters/storage"
	"research_assistant_backend/internal/analysis"
	"research_assistant_backend/internal/catalog"
	"research_assistant_backend/internal/events"
	apphttp "research_assistant_backend/internal/http"
	"research_assistant_backend/internal/http/router"
	"research_assistant_backend/internal/interactions"
	interactionsrepo "research_assistant_backend/internal/interactions/repository"
	"research_assistant_backend/internal/market"
	"research_assistant_backend/internal/research"
	"research_assistant_backend/internal/research/agent"
	researchservice "research_assistant_backend/internal/research/service"
	"research_assistant_backend/internal/scheduler"
	"research_assistant_backend/internal/semantic"
	semanticservice "research_assistant_backend/internal/semantic/service"
	"research_assistant_backend/platform/ai/embeddings"
	"research_assistant_backend/platform/ai/openaicompat"
	"research_assistant_backend/platform/config"
	"research_assistant_backend/platform/db"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/qdrant"
	"research_assistant_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	health := []apphttp.HealthChecker{db.NewPoolAdapter(pool)}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	defer eventBus.Wait()

	// Shared validator instance for dependency injection
	val := validator.New()

	storageSvc := initStorage(ctx, cfg, log)

	var vectors semanticservice.VectorStore
	if cfg.IsQdrantEnabled() {
		qdrantClient := qdrant.NewClient(qdrant.Config{
			BaseURL:    cfg.GetQdrantURL(),
			APIKey:     cfg.GetQdrantAPIKey(),
			Collection: cfg.GetQdrantCollection(),
		})
		vectors = qdrantClient
		health = append(health, qdrantClient)
	} else {
		log.Warn("QDRANT_URL not configured; semantic catalog search disabled")
	}

	embedder, err := embeddings.FromConfig(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize embeddings", "error", err)
		panic("failed to initialize embeddings: " + err.Error())
	}
	if embedder == nil {
		log.Warn("embeddings not configured; semantic catalog search disabled")
	}

	if cfg.GetRedisURL() != "" {
		redisHealth, err := scheduler.NewRedisHealth(cfg.GetRedisURL())
		if err != nil {
			log.Error("invalid REDIS_URL", "error", err)
			panic("invalid REDIS_URL: " + err.Error())
		}
		defer func() { _ = redisHealth.Close() }()
		health = append(health, redisHealth)
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(cfg, storageSvc, eventBus, log)
	catalogSvc := catalogModule.Service()

	semanticModule := semantic.NewModule(embedder, vectors, catalogSvc, semanticservice.Config{
		Dimensions:  cfg.GetEmbeddingDimensions(),
		Concurrency: cfg.GetEmbeddingConcurrency(),
	}, val, log)
	// Subscribed before the first load so startup ingests the catalog.
	semanticModule.RegisterHandlers(eventBus)

	analysisModule := analysis.NewModule(catalogSvc, val, log)

	interactionsModule := interactions.NewModule(interactionsrepo.New(pool), eventBus, val, log)
	interactionsModule.RegisterHandlers(eventBus)

	deps := agent.ToolDeps{
		Catalog: semanticModule.Service(),
		Pricing: analysisModule.Service(),
	}
	if cfg.IsMarketSearchEnabled() {
		deps.Market = market.NewClient(market.Config{APIKey: cfg.GetSerperAPIKey(), URL: cfg.GetSerperURL()})
	} else {
		log.Warn("SERPER_API_KEY not configured; market research tool disabled")
	}

	var asker researchservice.Asker
	if cfg.IsAgentEnabled() {
		temperature := float32(0)
		llm := openaicompat.NewModel(openaicompat.Config{
			APIKey:      cfg.GetLLMAPIKey(),
			BaseURL:     cfg.GetLLMBaseURL(),
			Model:       cfg.GetLLMModel(),
			Temperature: &temperature,
		})
		assistant, err := agent.New(llm, deps, log)
		if err != nil {
			log.Error("failed to initialize research agent", "error", err)
			panic("failed to initialize research agent: " + err.Error())
		}
		asker = assistant
		log.Info("research agent initialized", "model", llm.Name())
	} else {
		log.Warn("LLM_API_KEY not configured; research queries disabled")
	}

	researchModule := research.NewModule(asker, interactionsModule.Service(), cfg.GetAgentTimeout(), val, log)

	if _, err := catalogSvc.Reload(ctx); err != nil {
		log.Warn("initial catalog load failed; serving without a catalog until reload", "error", err)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			semanticModule,
			analysisModule,
			researchModule,
			interactionsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initStorage connects to MinIO when configured. Without it uploads are
// disabled and the catalog is read from disk.
func initStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage.StorageService {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; catalog uploads disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure catalog bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinIOBucketCatalog())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinIOBucketCatalog())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "catalogBucket", cfg.GetMinIOBucketCatalog())
	return storageSvc
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
