package embeddings

import (
	"context"

	"research_assistant_backend/platform/config"
)

// FromConfig builds the configured embedder, or returns nil when embeddings
// are disabled.
func FromConfig(ctx context.Context, cfg config.EmbeddingConfig) (Embedder, error) {
	if !cfg.IsEmbeddingEnabled() {
		return nil, nil
	}

	if cfg.GetEmbeddingProvider() == config.EmbeddingProviderHTTP {
		return NewClient(Config{
			BaseURL: cfg.GetEmbeddingAPIURL(),
			APIKey:  cfg.GetEmbeddingAPIKey(),
			Model:   cfg.GetEmbeddingModel(),
		}), nil
	}

	client, err := NewGeminiClient(ctx, GeminiConfig{
		APIKey:     cfg.GetGeminiAPIKey(),
		Model:      cfg.GetEmbeddingModel(),
		Dimensions: cfg.GetEmbeddingDimensions(),
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
