package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"research_assistant_backend/internal/interactions/repository"
	"research_assistant_backend/internal/research/transcript"
	"research_assistant_backend/platform/apperr"
	"research_assistant_backend/platform/logger"
)

type fakeAgent struct {
	resp  transcript.Response
	err   error
	delay time.Duration
}

func (f fakeAgent) Ask(ctx context.Context, _, _ string) (transcript.Response, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return transcript.Response{}, ctx.Err()
		}
	}
	return f.resp, f.err
}

type fakeRecorder struct {
	calls []repository.CreateQueryParams
}

func (f *fakeRecorder) RecordQuery(_ context.Context, p repository.CreateQueryParams) (repository.QueryLog, error) {
	f.calls = append(f.calls, p)
	return repository.QueryLog{ID: int64(len(f.calls))}, nil
}

func TestAskLogsAnswer(t *testing.T) {
	rec := &fakeRecorder{}
	agent := fakeAgent{resp: transcript.Response{Answer: "Mug", Reasoning: []string{"Mug"}, ToolsUsed: []string{"price_analysis_tool"}}}
	svc := New(agent, rec, time.Second, logger.Discard())

	ans, err := svc.Ask(context.Background(), "", " cheapest? ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ans.QueryID != 1 || ans.Answer != "Mug" {
		t.Fatalf("unexpected answer %+v", ans)
	}
	if len(rec.calls) != 1 || rec.calls[0].UserQuery != "cheapest?" {
		t.Fatalf("expected trimmed query logged once, got %+v", rec.calls)
	}
}

func TestAskDoesNotLogFailures(t *testing.T) {
	rec := &fakeRecorder{}
	svc := New(fakeAgent{err: errors.New("model exploded")}, rec, time.Second, logger.Discard())

	_, err := svc.Ask(context.Background(), "", "cheapest?")
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("expected nothing logged, got %d", len(rec.calls))
	}
}

func TestAskTimesOut(t *testing.T) {
	svc := New(fakeAgent{delay: time.Second}, &fakeRecorder{}, 10*time.Millisecond, logger.Discard())
	_, err := svc.Ask(context.Background(), "", "slow question")
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable on timeout, got %v", err)
	}
}

func TestAskWithoutAgent(t *testing.T) {
	svc := New(nil, &fakeRecorder{}, 0, logger.Discard())
	if _, err := svc.Ask(context.Background(), "", "q"); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
