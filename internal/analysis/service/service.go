// Package service runs price analysis against the live catalog snapshot.
package service

import (
	"context"
	"time"

	"research_assistant_backend/internal/analysis/pricing"
	"research_assistant_backend/internal/catalog/domain"
	"research_assistant_backend/platform/logger"
)

// SnapshotProvider yields the current catalog snapshot.
type SnapshotProvider interface {
	Snapshot() (*domain.Snapshot, error)
}

type Service struct {
	catalog SnapshotProvider
	engine  *pricing.Engine
	log     *logger.Logger
}

func New(catalog SnapshotProvider, log *logger.Logger) *Service {
	return &Service{catalog: catalog, engine: pricing.NewEngine(), log: log}
}

// Analyze runs req against the live snapshot. Structured failures such as an
// unknown action are returned inside the Result, not as an error.
func (s *Service) Analyze(ctx context.Context, req pricing.Request) (pricing.Result, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return pricing.Result{}, err
	}

	start := time.Now()
	res, err := s.engine.Analyze(req, snap)
	if err != nil {
		return pricing.Result{}, err
	}
	if res.Failed() {
		s.log.WithContext(ctx).Debug("price analysis rejected", "action", req.Action, "reason", res.Error)
	} else {
		s.log.WithContext(ctx).Debug("price analysis complete",
			"action", res.Action,
			"records", len(res.Records),
			"durationMs", time.Since(start).Milliseconds(),
		)
	}
	return res, nil
}
