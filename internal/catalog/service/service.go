// Package service loads catalog snapshots and publishes reload events.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"research_assistant_backend/internal/adapters/storage"
	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/internal/catalog/repository"
	"research_assistant_backend/internal/events"
	"research_assistant_backend/platform/apperr"
	"research_assistant_backend/platform/logger"
)

// Uploads is the object location that catalog uploads are written to.
type Uploads struct {
	Storage storage.StorageService
	Bucket  string
	Key     string
}

// Service owns the catalog lifecycle: load, replace, announce.
type Service struct {
	store   *repository.Store
	source  repository.Source
	uploads *Uploads
	bus     events.Bus
	log     *logger.Logger
	now     func() time.Time
}

// New creates the catalog service. uploads may be nil when no object storage is configured.
func New(store *repository.Store, source repository.Source, uploads *Uploads, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:   store,
		source:  source,
		uploads: uploads,
		bus:     bus,
		log:     log,
		now:     time.Now,
	}
}

// Snapshot returns the live catalog snapshot.
func (s *Service) Snapshot() (*domain.Snapshot, error) {
	return s.store.Current()
}

// Reload reads the configured source and swaps in the new snapshot.
// On any failure the previous snapshot stays live.
func (s *Service) Reload(ctx context.Context) (*domain.Snapshot, error) {
	rc, err := s.source.Open(ctx)
	if errors.Is(err, repository.ErrSourceNotFound) {
		return nil, apperr.NotFound("catalog source not found").WithOp("catalog.Reload").WithErr(err)
	}
	if err != nil {
		return nil, apperr.Internal("failed to open catalog source").WithOp("catalog.Reload").WithErr(err)
	}
	defer rc.Close()

	return s.install(ctx, rc, s.source.Name())
}

// Upload stores a new catalog CSV in object storage and makes it live.
// The file is parsed before it is stored so a broken upload never replaces a good one.
func (s *Service) Upload(ctx context.Context, contentType string, r io.Reader, size int64) (*domain.Snapshot, error) {
	if s.uploads == nil {
		return nil, apperr.BadRequest("catalog uploads require object storage").WithOp("catalog.Upload")
	}
	if err := s.uploads.Storage.ValidateUpload(contentType, size); err != nil {
		return nil, apperr.Validation(err.Error()).WithOp("catalog.Upload")
	}

	data, err := io.ReadAll(io.LimitReader(r, size+1))
	if err != nil {
		return nil, apperr.BadRequest("failed to read upload").WithOp("catalog.Upload").WithErr(err)
	}
	if int64(len(data)) != size {
		return nil, apperr.BadRequest("upload size does not match declared size").WithOp("catalog.Upload")
	}

	source := fmt.Sprintf("s3://%s/%s", s.uploads.Bucket, s.uploads.Key)
	snap, err := s.parse(bytes.NewReader(data), source)
	if err != nil {
		return nil, err
	}

	if err := s.uploads.Storage.Put(ctx, s.uploads.Bucket, s.uploads.Key, contentType, bytes.NewReader(data), size); err != nil {
		return nil, apperr.Internal("failed to store catalog").WithOp("catalog.Upload").WithErr(err)
	}

	s.replace(ctx, snap)
	return snap, nil
}

func (s *Service) install(ctx context.Context, r io.Reader, source string) (*domain.Snapshot, error) {
	snap, err := s.parse(r, source)
	if err != nil {
		return nil, err
	}
	s.replace(ctx, snap)
	return snap, nil
}

func (s *Service) parse(r io.Reader, source string) (*domain.Snapshot, error) {
	snap, err := domain.ParseCSV(r, source, s.now())
	if err != nil {
		return nil, apperr.Validation("invalid catalog file").WithOp("catalog.Parse").WithDetails(err.Error()).WithErr(err)
	}
	return snap, nil
}

func (s *Service) replace(ctx context.Context, snap *domain.Snapshot) {
	s.store.Replace(snap)
	s.log.CatalogLoaded(snap.Source(), snap.Len())

	if s.bus != nil {
		s.bus.Publish(ctx, events.CatalogReloaded{
			BaseEvent: events.NewBaseEvent(),
			Source:    snap.Source(),
			Products:  snap.Len(),
			LoadedAt:  snap.LoadedAt(),
		})
	}
}
