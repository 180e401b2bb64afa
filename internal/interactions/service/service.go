// Package service records research queries and user feedback.
package service

import (
	"context"
	"errors"

	"research_assistant_backend/internal/events"
	"research_assistant_backend/internal/interactions/repository"
	"research_assistant_backend/platform/apperr"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/sanitize"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
	MaxExportLimit      = 5000
)

type Service struct {
	repo repository.InteractionsRepository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo repository.InteractionsRepository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// RecordQuery persists an answered query and announces it.
func (s *Service) RecordQuery(ctx context.Context, params repository.CreateQueryParams) (repository.QueryLog, error) {
	entry, err := s.repo.CreateQuery(ctx, params)
	if err != nil {
		s.log.DatabaseError("interactions.RecordQuery", err)
		return repository.QueryLog{}, apperr.Internal("failed to record query").WithOp("interactions.RecordQuery").WithErr(err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.QueryAnswered{
			BaseEvent: events.NewBaseEvent(),
			QueryID:   entry.ID,
			ToolsUsed: entry.ToolsUsed,
		})
	}
	return entry, nil
}

// History lists recent queries newest first. limit is clamped to
// [1, MaxHistoryLimit]; non-positive values use DefaultHistoryLimit.
func (s *Service) History(ctx context.Context, limit int) ([]repository.HistoryItem, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	items, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.log.DatabaseError("interactions.History", err)
		return nil, apperr.Internal("failed to load history").WithOp("interactions.History").WithErr(err)
	}
	return items, nil
}

// Export lists up to MaxExportLimit recent queries for offline review.
func (s *Service) Export(ctx context.Context, limit int) ([]repository.HistoryItem, error) {
	if limit <= 0 || limit > MaxExportLimit {
		limit = MaxExportLimit
	}

	items, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.log.DatabaseError("interactions.Export", err)
		return nil, apperr.Internal("failed to export history").WithOp("interactions.Export").WithErr(err)
	}
	return items, nil
}

// SubmitFeedback stores a 1-5 rating with an optional comment.
func (s *Service) SubmitFeedback(ctx context.Context, queryID int64, rating int, comment *string) error {
	if rating < 1 || rating > 5 {
		return apperr.Validation("rating must be between 1 and 5").WithOp("interactions.SubmitFeedback")
	}

	err := s.repo.CreateFeedback(ctx, repository.CreateFeedbackParams{
		QueryID: queryID,
		Rating:  rating,
		Comment: sanitize.TextPtr(comment),
	})
	if errors.Is(err, repository.ErrQueryNotFound) {
		return apperr.NotFound("Query ID not found").WithOp("interactions.SubmitFeedback")
	}
	if err != nil {
		s.log.DatabaseError("interactions.SubmitFeedback", err)
		return apperr.Internal("failed to record feedback").WithOp("interactions.SubmitFeedback").WithErr(err)
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.FeedbackReceived{
			BaseEvent: events.NewBaseEvent(),
			QueryID:   queryID,
			Rating:    rating,
		})
	}
	return nil
}
