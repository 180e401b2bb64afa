// Package embeddings turns text into dense vectors for semantic search.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Embedder produces one embedding vector per input text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var errNoVector = errors.New("embedding response carried no vector")

// Client posts text to a self-hosted embedding service. It speaks both the
// minimal {"text"} → {"vector"} protocol and the OpenAI-style
// {"input","model"} → {"data":[{"embedding"}]} one.
type Client struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Config configures the client. Model is forwarded for OpenAI-style servers.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:        cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Text  string `json:"text"`
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

type embedResponse struct {
	Vector []float32 `json:"vector"`
	Data   []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embedRequest{Text: text, Input: text, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned %d: %s", resp.StatusCode, string(body))
	}
	return decodeVector(body)
}

func decodeVector(body []byte) ([]float32, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var vector []float32
		if err := json.Unmarshal(trimmed, &vector); err != nil {
			return nil, fmt.Errorf("decode embedding response: %w", err)
		}
		if len(vector) == 0 {
			return nil, errNoVector
		}
		return vector, nil
	}

	var out embedResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	switch {
	case len(out.Vector) > 0:
		return out.Vector, nil
	case len(out.Data) > 0 && len(out.Data[0].Embedding) > 0:
		return out.Data[0].Embedding, nil
	}
	return nil, errNoVector
}
