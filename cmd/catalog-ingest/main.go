package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"research_assistant_backend/internal/adapters/storage"
	"research_assistant_backend/internal/catalog"
	"research_assistant_backend/internal/scheduler"
	semanticservice "research_assistant_backend/internal/semantic/service"
	"research_assistant_backend/platform/ai/embeddings"
	"research_assistant_backend/platform/config"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/qdrant"

	"github.com/spf13/cobra"
)

var (
	ingestEnqueue bool
	ingestTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "catalog-ingest",
	Short: "Load the product catalog and embed it into the vector store",
	Long: "Reads the configured catalog source, embeds every product and upserts it into Qdrant.\n" +
		"With --enqueue the work is handed to the scheduler worker instead.",
	SilenceUsage: true,
	RunE:         runIngest,
}

func init() {
	rootCmd.Flags().BoolVar(&ingestEnqueue, "enqueue", false, "Enqueue a reindex task instead of running it here")
	rootCmd.Flags().DurationVar(&ingestTimeout, "timeout", 30*time.Minute, "Maximum time for the ingest")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Env)

	ctx, cancel := context.WithTimeout(cmd.Context(), ingestTimeout)
	defer cancel()

	if ingestEnqueue {
		return enqueue(ctx, cfg, log)
	}

	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		minio, err := storage.NewMinIOService(cfg)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		storageSvc = minio
	}
	catalogModule := catalog.NewModule(cfg, storageSvc, nil, log)

	snap, err := catalogModule.Service().Reload(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if !cfg.IsQdrantEnabled() {
		return fmt.Errorf("QDRANT_URL is required to index the catalog")
	}
	embedder, err := embeddings.FromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init embeddings: %w", err)
	}
	if embedder == nil {
		return fmt.Errorf("embeddings are not configured")
	}

	vectors := qdrant.NewClient(qdrant.Config{
		BaseURL:    cfg.GetQdrantURL(),
		APIKey:     cfg.GetQdrantAPIKey(),
		Collection: cfg.GetQdrantCollection(),
	})
	semanticSvc := semanticservice.New(embedder, vectors, catalogModule.Service(), semanticservice.Config{
		Dimensions:  cfg.GetEmbeddingDimensions(),
		Concurrency: cfg.GetEmbeddingConcurrency(),
	}, log)

	indexed, err := semanticSvc.Index(ctx, snap)
	if err != nil {
		return fmt.Errorf("index catalog: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d products into %s\n", indexed, vectors.Collection())
	return nil
}

func enqueue(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("init scheduler client: %w", err)
	}
	defer func() { _ = client.Close() }()

	id, err := client.EnqueueCatalogReindex(ctx, "manual")
	if err != nil {
		return err
	}
	log.Info("catalog reindex enqueued", "taskId", id)
	return nil
}
