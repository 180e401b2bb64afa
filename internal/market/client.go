// Package market runs live web searches for competitor pricing and trends
// through the Serper Google Search API.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"research_assistant_backend/platform/sanitize"
)

const defaultResultCount = 10

// ErrNotConfigured is returned when no Serper API key is set.
var ErrNotConfigured = errors.New("market search is not configured")

// Config configures the Serper client.
type Config struct {
	APIKey  string
	URL     string
	Timeout time.Duration
}

// Client calls Serper's search endpoint.
type Client struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

// NewClient creates a Serper client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	url := cfg.URL
	if url == "" {
		url = "https://google.serper.dev/search"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// OrganicResult is one web result.
type OrganicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet,omitempty"`
	Date     string `json:"date,omitempty"`
	Position int    `json:"position"`
}

// AnswerBox is Google's featured answer, when present.
type AnswerBox struct {
	Title   string `json:"title,omitempty"`
	Answer  string `json:"answer,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// RelatedQuestion is a "people also ask" entry.
type RelatedQuestion struct {
	Question string `json:"question"`
	Snippet  string `json:"snippet,omitempty"`
	Link     string `json:"link,omitempty"`
}

// Results is the subset of a Serper response handed to the agent.
type Results struct {
	Query         string            `json:"query"`
	AnswerBox     *AnswerBox        `json:"answer_box,omitempty"`
	Organic       []OrganicResult   `json:"organic"`
	PeopleAlsoAsk []RelatedQuestion `json:"people_also_ask,omitempty"`
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num,omitempty"`
}

type searchResponse struct {
	AnswerBox     *AnswerBox        `json:"answerBox"`
	Organic       []OrganicResult   `json:"organic"`
	PeopleAlsoAsk []RelatedQuestion `json:"peopleAlsoAsk"`
}

// Search runs query and returns sanitized results.
func (c *Client) Search(ctx context.Context, query string) (*Results, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}

	body, err := json.Marshal(searchRequest{Q: query, Num: defaultResultCount})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("serper returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode serper response: %w", err)
	}
	return clean(query, raw), nil
}

func clean(query string, raw searchResponse) *Results {
	out := &Results{Query: query, Organic: make([]OrganicResult, 0, len(raw.Organic))}
	if raw.AnswerBox != nil {
		out.AnswerBox = &AnswerBox{
			Title:   sanitize.Text(raw.AnswerBox.Title),
			Answer:  sanitize.Text(raw.AnswerBox.Answer),
			Snippet: sanitize.Text(raw.AnswerBox.Snippet),
		}
	}
	for _, r := range raw.Organic {
		r.Title = sanitize.Text(r.Title)
		r.Snippet = sanitize.Text(r.Snippet)
		out.Organic = append(out.Organic, r)
	}
	for _, q := range raw.PeopleAlsoAsk {
		q.Question = sanitize.Text(q.Question)
		q.Snippet = sanitize.Text(q.Snippet)
		out.PeopleAlsoAsk = append(out.PeopleAlsoAsk, q)
	}
	return out
}
