package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"research_assistant_backend/internal/catalog/repository"
	"research_assistant_backend/internal/events"
	"research_assistant_backend/platform/apperr"
	"research_assistant_backend/platform/logger"
)

type stringSource struct {
	body string
	err  error
}

func (s stringSource) Name() string { return "mem://catalog.csv" }

func (s stringSource) Open(context.Context) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event)           { b.published = append(b.published, e) }
func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error { b.Publish(context.TODO(), e); return nil }
func (b *recordingBus) Subscribe(string, events.Handler)                      {}

type memStorage struct {
	objects map[string]string
}

func (m *memStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (m *memStorage) Open(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(m.objects[bucket+"/"+key])), nil
}
func (m *memStorage) Put(_ context.Context, bucket, key, _ string, r io.Reader, _ int64) error {
	data, _ := io.ReadAll(r)
	m.objects[bucket+"/"+key] = string(data)
	return nil
}
func (m *memStorage) ValidateUpload(string, int64) error { return nil }

const validCSV = "product_id,product_name,current_price,cost\n1,Kettle,20,10\n2,Toaster,40,30\n"

func TestReloadInstallsSnapshotAndPublishes(t *testing.T) {
	store := repository.NewStore()
	bus := &recordingBus{}
	svc := New(store, stringSource{body: validCSV}, nil, bus, logger.Discard())

	snap, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 products, got %d", snap.Len())
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	reloaded, ok := bus.published[0].(events.CatalogReloaded)
	if !ok || reloaded.Products != 2 {
		t.Fatalf("unexpected event %+v", bus.published[0])
	}
}

func TestReloadKeepsPreviousSnapshotOnParseError(t *testing.T) {
	store := repository.NewStore()
	good := New(store, stringSource{body: validCSV}, nil, nil, logger.Discard())
	if _, err := good.Reload(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	bad := New(store, stringSource{body: "product_name,current_price\nKettle,nope\n"}, nil, nil, logger.Discard())
	_, err := bad.Reload(context.Background())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	current, _ := store.Current()
	if current.Len() != 2 {
		t.Fatalf("expected previous snapshot to remain, got %d rows", current.Len())
	}
}

func TestReloadMissingSource(t *testing.T) {
	svc := New(repository.NewStore(), stringSource{err: repository.ErrSourceNotFound}, nil, nil, logger.Discard())
	_, err := svc.Reload(context.Background())
	if !apperr.Is(err, apperr.KindNotFound) || !errors.Is(err, repository.ErrSourceNotFound) {
		t.Fatalf("expected not found wrapping ErrSourceNotFound, got %v", err)
	}
}

func TestUploadStoresAndInstalls(t *testing.T) {
	objects := &memStorage{objects: map[string]string{}}
	uploads := &Uploads{Storage: objects, Bucket: "catalog", Key: "products.csv"}
	store := repository.NewStore()
	svc := New(store, stringSource{}, uploads, nil, logger.Discard())

	if _, err := svc.Upload(context.Background(), "text/csv", strings.NewReader(validCSV), int64(len(validCSV))); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if objects.objects["catalog/products.csv"] != validCSV {
		t.Fatalf("expected upload to be stored")
	}
	if current, _ := store.Current(); current.Source() != "s3://catalog/products.csv" {
		t.Fatalf("unexpected source %q", current.Source())
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	svc := New(repository.NewStore(), stringSource{}, nil, nil, logger.Discard())
	_, err := svc.Upload(context.Background(), "text/csv", strings.NewReader(validCSV), int64(len(validCSV)))
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}
