package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"research_assistant_backend/internal/analysis/pricing"
	"research_assistant_backend/internal/market"
	semantic "research_assistant_backend/internal/semantic/service"
	"research_assistant_backend/platform/logger"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// CatalogSearcher runs semantic search over the catalog.
type CatalogSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]semantic.Match, error)
}

// PriceAnalyzer runs deterministic analysis over the live snapshot.
type PriceAnalyzer interface {
	Analyze(ctx context.Context, req pricing.Request) (pricing.Result, error)
}

// MarketSearcher runs a live web search.
type MarketSearcher interface {
	Search(ctx context.Context, query string) (*market.Results, error)
}

// ToolDeps are the collaborators behind the agent's tools. A nil dependency
// makes its tool answer with an error message instead of data.
type ToolDeps struct {
	Catalog CatalogSearcher
	Pricing PriceAnalyzer
	Market  MarketSearcher
}

type SearchCatalogInput struct {
	Query string `json:"query"`
}

type SearchCatalogOutput struct {
	Results []semantic.Match `json:"results"`
	Error   string           `json:"error,omitempty"`
}

type PriceAnalysisInput struct {
	Action    string   `json:"action"`
	Threshold float64  `json:"threshold,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Limit     int      `json:"limit,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
}

type PriceAnalysisOutput struct {
	Action  string           `json:"action,omitempty"`
	Results []map[string]any `json:"results"`
	Error   string           `json:"error,omitempty"`
}

type MarketResearchInput struct {
	Query string `json:"query"`
}

type MarketResearchOutput struct {
	Results *market.Results `json:"results,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func buildTools(deps ToolDeps, prompts *Prompts, log *logger.Logger) ([]tool.Tool, error) {
	searchTool, err := functiontool.New(functiontool.Config{
		Name:        toolSearchCatalog,
		Description: prompts.Tools[toolSearchCatalog],
	}, func(ctx tool.Context, input SearchCatalogInput) (SearchCatalogOutput, error) {
		start := time.Now()
		out, err := searchCatalog(ctx, deps.Catalog, input)
		log.WithContext(ctx).ToolCall(toolSearchCatalog, time.Since(start), err)
		return toolResult(out, err, func(msg string) SearchCatalogOutput { return SearchCatalogOutput{Error: msg} })
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", toolSearchCatalog, err)
	}

	priceTool, err := functiontool.New(functiontool.Config{
		Name:        toolPriceAnalysis,
		Description: prompts.Tools[toolPriceAnalysis],
	}, func(ctx tool.Context, input PriceAnalysisInput) (PriceAnalysisOutput, error) {
		start := time.Now()
		out, err := analyzePrices(ctx, deps.Pricing, input)
		log.WithContext(ctx).ToolCall(toolPriceAnalysis, time.Since(start), err)
		return toolResult(out, err, func(msg string) PriceAnalysisOutput { return PriceAnalysisOutput{Error: msg} })
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", toolPriceAnalysis, err)
	}

	marketTool, err := functiontool.New(functiontool.Config{
		Name:        toolMarketResearch,
		Description: prompts.Tools[toolMarketResearch],
	}, func(ctx tool.Context, input MarketResearchInput) (MarketResearchOutput, error) {
		start := time.Now()
		out, err := researchMarket(ctx, deps.Market, input)
		log.WithContext(ctx).ToolCall(toolMarketResearch, time.Since(start), err)
		return toolResult(out, err, func(msg string) MarketResearchOutput { return MarketResearchOutput{Error: msg} })
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", toolMarketResearch, err)
	}

	return []tool.Tool{searchTool, priceTool, marketTool}, nil
}

// toolResult hands failures back to the model as an error field so it can
// explain the problem instead of aborting the run.
func toolResult[T any](out T, err error, onError func(string) T) (T, error) {
	if err != nil {
		return onError(err.Error()), nil
	}
	return out, nil
}

func searchCatalog(ctx context.Context, catalog CatalogSearcher, input SearchCatalogInput) (SearchCatalogOutput, error) {
	if catalog == nil {
		return SearchCatalogOutput{}, fmt.Errorf("catalog search is not available")
	}
	matches, err := catalog.Search(ctx, input.Query, 0)
	if err != nil {
		return SearchCatalogOutput{}, err
	}
	if matches == nil {
		matches = []semantic.Match{}
	}
	return SearchCatalogOutput{Results: matches}, nil
}

func analyzePrices(ctx context.Context, analyzer PriceAnalyzer, input PriceAnalysisInput) (PriceAnalysisOutput, error) {
	if analyzer == nil {
		return PriceAnalysisOutput{}, fmt.Errorf("price analysis is not available")
	}
	res, err := analyzer.Analyze(ctx, pricing.Request{
		Action:    strings.TrimSpace(input.Action),
		Threshold: input.Threshold,
		Category:  input.Category,
		Limit:     input.Limit,
		MaxPrice:  input.MaxPrice,
		MinRating: input.MinRating,
	})
	if err != nil {
		return PriceAnalysisOutput{}, err
	}
	if res.Failed() {
		return PriceAnalysisOutput{Error: res.Error}, nil
	}

	rows := make([]map[string]any, 0, len(res.Records))
	for _, rec := range res.Records {
		rows = append(rows, rec.Map())
	}
	return PriceAnalysisOutput{Action: res.Action, Results: rows}, nil
}

func researchMarket(ctx context.Context, searcher MarketSearcher, input MarketResearchInput) (MarketResearchOutput, error) {
	if searcher == nil {
		return MarketResearchOutput{}, fmt.Errorf("market research is not available")
	}
	res, err := searcher.Search(ctx, input.Query)
	if err != nil {
		return MarketResearchOutput{}, err
	}
	return MarketResearchOutput{Results: res}, nil
}

// describeArgs renders tool arguments for debug logs.
func describeArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprint(args)
	}
	return string(b)
}
