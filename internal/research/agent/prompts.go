package agent

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	toolSearchCatalog  = "search_catalog_tool"
	toolPriceAnalysis  = "price_analysis_tool"
	toolMarketResearch = "market_research_tool"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Prompts holds the agent persona and the tool descriptions shown to the model.
type Prompts struct {
	Agent struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Instruction string `yaml:"instruction"`
	} `yaml:"agent"`
	Tools map[string]string `yaml:"tools"`
}

// LoadPrompts parses the embedded prompt file.
func LoadPrompts() (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(promptsYAML, &p); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if p.Agent.Instruction == "" {
		return nil, fmt.Errorf("parse prompts: instruction is empty")
	}
	for _, name := range []string{toolSearchCatalog, toolPriceAnalysis, toolMarketResearch} {
		if p.Tools[name] == "" {
			return nil, fmt.Errorf("parse prompts: missing description for %s", name)
		}
	}
	return &p, nil
}
