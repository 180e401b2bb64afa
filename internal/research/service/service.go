// Package service answers research queries with the agent and logs them.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"research_assistant_backend/internal/interactions/repository"
	"research_assistant_backend/internal/research/transcript"
	"research_assistant_backend/platform/apperr"
	"research_assistant_backend/platform/logger"
)

// Asker runs one agent conversation.
type Asker interface {
	Ask(ctx context.Context, userID, query string) (transcript.Response, error)
}

// Recorder persists an answered query.
type Recorder interface {
	RecordQuery(ctx context.Context, params repository.CreateQueryParams) (repository.QueryLog, error)
}

// Answer is a logged agent response.
type Answer struct {
	QueryID   int64
	Answer    string
	Reasoning []string
	ToolsUsed []string
}

type Service struct {
	agent    Asker
	recorder Recorder
	timeout  time.Duration
	log      *logger.Logger
}

// New creates the service. A nil agent makes every query fail with 503.
func New(agent Asker, recorder Recorder, timeout time.Duration, log *logger.Logger) *Service {
	return &Service{agent: agent, recorder: recorder, timeout: timeout, log: log}
}

// Ask runs the agent and logs the exchange. Nothing is logged when the agent fails.
func (s *Service) Ask(ctx context.Context, userID, query string) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, apperr.Validation("query is required").WithOp("research.Ask")
	}
	if s.agent == nil {
		return Answer{}, apperr.Unavailable("research agent is not configured").WithOp("research.Ask")
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.agent.Ask(runCtx, userID, query)
	if err != nil {
		s.log.WithContext(ctx).Error("research agent failed", "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return Answer{}, apperr.Unavailable("research agent timed out").WithOp("research.Ask").WithErr(err)
		}
		return Answer{}, apperr.Internal("research agent failed").WithOp("research.Ask").WithErr(err)
	}

	entry, err := s.recorder.RecordQuery(ctx, repository.CreateQueryParams{
		UserQuery:     query,
		AgentResponse: resp.Answer,
		Reasoning:     resp.Reasoning,
		ToolsUsed:     resp.ToolsUsed,
	})
	if err != nil {
		return Answer{}, err
	}

	return Answer{
		QueryID:   entry.ID,
		Answer:    resp.Answer,
		Reasoning: resp.Reasoning,
		ToolsUsed: resp.ToolsUsed,
	}, nil
}
