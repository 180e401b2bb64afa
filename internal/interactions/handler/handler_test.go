package handler

import (
	"bytes"
	"encoding/csv"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"research_assistant_backend/internal/interactions/repository"
	"research_assistant_backend/internal/interactions/service"
	"research_assistant_backend/platform/logger"
	"research_assistant_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubRepo struct {
	items []repository.HistoryItem
}

func (s *stubRepo) CreateQuery(context.Context, repository.CreateQueryParams) (repository.QueryLog, error) {
	return repository.QueryLog{}, nil
}

func (s *stubRepo) ListRecent(_ context.Context, limit int) ([]repository.HistoryItem, error) {
	if len(s.items) > limit {
		return s.items[:limit], nil
	}
	return s.items, nil
}

func (s *stubRepo) CreateFeedback(_ context.Context, p repository.CreateFeedbackParams) error {
	if p.QueryID != 1 {
		return repository.ErrQueryNotFound
	}
	return nil
}

func newRouter(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.New(repo, nil, logger.Discard()), validator.New())
	r := gin.New()
	r.GET("/queries", h.ListQueries)
	r.POST("/feedback", h.SubmitFeedback)
	r.GET("/export", h.ExportCSV)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitFeedback(t *testing.T) {
	r := newRouter(&stubRepo{})

	w := do(r, http.MethodPost, "/feedback", `{"query_id":1,"rating":5,"comment":"spot on"}`)
	if w.Code != http.StatusOK || w.Body.String() != `{"message":"Feedback received"}` {
		t.Fatalf("expected 200 with message, got %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/feedback", `{"query_id":99,"rating":5}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = do(r, http.MethodPost, "/feedback", `{"query_id":1,"rating":0}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rating 0, got %d", w.Code)
	}
}

func TestListQueries(t *testing.T) {
	rating := 4
	repo := &stubRepo{items: []repository.HistoryItem{
		{QueryLog: repository.QueryLog{ID: 2, UserQuery: "second", AgentResponse: "b", CreatedAt: time.Now()}, Rating: &rating},
		{QueryLog: repository.QueryLog{ID: 1, UserQuery: "first", AgentResponse: "a", CreatedAt: time.Now()}},
	}}
	r := newRouter(repo)

	w := do(r, http.MethodGet, "/queries?limit=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var items []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0]["user_query"] != "second" || items[0]["rating"] != float64(4) {
		t.Fatalf("unexpected items %v", items)
	}

	w = do(r, http.MethodGet, "/queries?limit=500", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized limit, got %d", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	rating := 2
	comment := "too vague"
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubRepo{items: []repository.HistoryItem{
		{
			QueryLog: repository.QueryLog{ID: 7, UserQuery: "cheapest kettle?", AgentResponse: "Kettle, $20", ToolsUsed: []string{"price_analysis", "search_catalog"}, CreatedAt: created},
			Rating:   &rating,
			Comment:  &comment,
		},
	}}
	r := newRouter(repo)

	w := do(r, http.MethodGet, "/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("expected text/csv, got %q", w.Header().Get("Content-Type"))
	}

	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	want := []string{"7", "2024-05-01T12:00:00Z", "cheapest kettle?", "Kettle, $20", "price_analysis;search_catalog", "2", "too vague"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Fatalf("column %s: expected %q, got %q", rows[0][i], v, rows[1][i])
		}
	}
}
