package scheduler

import (
	"context"
	"time"

	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/platform/config"
	"research_assistant_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// CatalogReloader re-reads the configured catalog source.
type CatalogReloader interface {
	Reload(ctx context.Context) (*domain.Snapshot, error)
}

// CatalogIndexer embeds a snapshot into the vector store.
type CatalogIndexer interface {
	Index(ctx context.Context, snap *domain.Snapshot) (int, error)
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	catalog CatalogReloader
	indexer CatalogIndexer
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, catalog CatalogReloader, indexer CatalogIndexer, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		// Reindexing is already parallel inside; one at a time is enough.
		Concurrency: 1,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		catalog: catalog,
		indexer: indexer,
		log:     log,
	}
	mux.HandleFunc(TaskCatalogReindex, w.handleCatalogReindex)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleCatalogReindex(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCatalogReindexPayload(task)
	if err != nil {
		return err
	}
	start := time.Now()

	snap, err := w.catalog.Reload(ctx)
	if err != nil {
		return err
	}

	indexed := 0
	if w.indexer != nil {
		if indexed, err = w.indexer.Index(ctx, snap); err != nil {
			return err
		}
	}

	w.log.Info("catalog reindex complete",
		"reason", payload.Reason,
		"products", snap.Len(),
		"indexed", indexed,
		"durationMs", time.Since(start).Milliseconds(),
	)
	return nil
}
