// Package repository persists research queries and their feedback in Postgres.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgForeignKeyViolation = "23503"

// ErrQueryNotFound is returned when feedback references an unknown query.
var ErrQueryNotFound = errors.New("query not found")

// QueryLog is one answered research query.
type QueryLog struct {
	ID            int64
	UserQuery     string
	AgentResponse string
	Reasoning     []string
	ToolsUsed     []string
	CreatedAt     time.Time
}

// HistoryItem is a query with its most recent feedback, if any.
type HistoryItem struct {
	QueryLog
	Rating  *int
	Comment *string
}

type CreateQueryParams struct {
	UserQuery     string
	AgentResponse string
	Reasoning     []string
	ToolsUsed     []string
}

type CreateFeedbackParams struct {
	QueryID int64
	Rating  int
	Comment *string
}

// InteractionsRepository is the persistence contract for the interaction log.
type InteractionsRepository interface {
	CreateQuery(ctx context.Context, params CreateQueryParams) (QueryLog, error)
	ListRecent(ctx context.Context, limit int) ([]HistoryItem, error)
	CreateFeedback(ctx context.Context, params CreateFeedbackParams) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateQuery(ctx context.Context, params CreateQueryParams) (QueryLog, error) {
	reasoning := params.Reasoning
	if reasoning == nil {
		reasoning = []string{}
	}
	reasoningJSON, err := json.Marshal(reasoning)
	if err != nil {
		return QueryLog{}, fmt.Errorf("marshal reasoning: %w", err)
	}
	tools := params.ToolsUsed
	if tools == nil {
		tools = []string{}
	}

	log := QueryLog{
		UserQuery:     params.UserQuery,
		AgentResponse: params.AgentResponse,
		Reasoning:     reasoning,
		ToolsUsed:     tools,
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO query_logs (user_query, agent_response, reasoning, tools_used)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, params.UserQuery, params.AgentResponse, reasoningJSON, tools).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return QueryLog{}, fmt.Errorf("insert query log: %w", err)
	}
	return log, nil
}

// ListRecent returns the newest queries first, each joined with its latest feedback.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]HistoryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.user_query, q.agent_response, q.reasoning, q.tools_used, q.created_at,
			f.rating, f.comment
		FROM query_logs q
		LEFT JOIN LATERAL (
			SELECT rating::int AS rating, comment
			FROM feedbacks
			WHERE query_id = q.id
			ORDER BY id DESC
			LIMIT 1
		) f ON true
		ORDER BY q.created_at DESC, q.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	items := make([]HistoryItem, 0)
	for rows.Next() {
		var (
			it        HistoryItem
			reasoning []byte
		)
		if err := rows.Scan(&it.ID, &it.UserQuery, &it.AgentResponse, &reasoning, &it.ToolsUsed, &it.CreatedAt, &it.Rating, &it.Comment); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		if len(reasoning) > 0 {
			if err := json.Unmarshal(reasoning, &it.Reasoning); err != nil {
				return nil, fmt.Errorf("decode reasoning for query %d: %w", it.ID, err)
			}
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate history: %w", rows.Err())
	}
	return items, nil
}

// CreateFeedback records a rating. An unknown query ID yields ErrQueryNotFound.
func (r *Repository) CreateFeedback(ctx context.Context, params CreateFeedbackParams) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO feedbacks (query_id, rating, comment)
		VALUES ($1, $2, $3)
	`, params.QueryID, params.Rating, params.Comment)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrQueryNotFound
	}
	return fmt.Errorf("insert feedback: %w", err)
}

var _ InteractionsRepository = (*Repository)(nil)
