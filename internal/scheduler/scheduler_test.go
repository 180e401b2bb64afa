package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type stubReloader struct {
	snap *domain.Snapshot
	err  error
}

func (s stubReloader) Reload(context.Context) (*domain.Snapshot, error) { return s.snap, s.err }

type countingIndexer struct{ calls int }

func (c *countingIndexer) Index(_ context.Context, snap *domain.Snapshot) (int, error) {
	c.calls++
	return snap.Len(), nil
}

func TestCatalogReindexPayloadRoundTrip(t *testing.T) {
	task, err := NewCatalogReindexTask(CatalogReindexPayload{Reason: "manual"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if task.Type() != TaskCatalogReindex {
		t.Fatalf("expected %s, got %s", TaskCatalogReindex, task.Type())
	}
	payload, err := ParseCatalogReindexPayload(task)
	if err != nil || payload.Reason != "manual" {
		t.Fatalf("unexpected payload %+v (%v)", payload, err)
	}
}

func TestHandleCatalogReindex(t *testing.T) {
	snap := domain.NewSnapshot([]domain.Product{{ProductID: "1"}}, nil, "test", time.Now())
	idx := &countingIndexer{}
	w := &Worker{catalog: stubReloader{snap: snap}, indexer: idx, log: logger.Discard()}

	task, _ := NewCatalogReindexTask(CatalogReindexPayload{Reason: "scheduled"})
	if err := w.handleCatalogReindex(context.Background(), task); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if idx.calls != 1 {
		t.Fatalf("expected one index call, got %d", idx.calls)
	}
}

func TestHandleCatalogReindexPropagatesReloadErrors(t *testing.T) {
	w := &Worker{catalog: stubReloader{err: errors.New("missing file")}, log: logger.Discard()}
	if err := w.handleCatalogReindex(context.Background(), asynq.NewTask(TaskCatalogReindex, nil)); err == nil {
		t.Fatalf("expected reload error")
	}
}

func TestRedisHealthPing(t *testing.T) {
	mr := miniredis.RunT(t)

	h, err := NewRedisHealth("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer h.Close()

	if err := h.Ping(context.Background()); err != nil {
		t.Fatalf("expected ping to succeed, got %v", err)
	}
	mr.Close()
	if err := h.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail after redis stopped")
	}
}
