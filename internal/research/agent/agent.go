// Package agent runs the product research assistant: an ADK LLM agent with
// catalog search, price analysis and market research tools.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"research_assistant_backend/internal/research/transcript"
	"research_assistant_backend/platform/logger"

	"github.com/google/uuid"
	adkagent "google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const appName = "product_research_assistant"

// Assistant answers free-text research questions. Each Ask runs in its own
// session, so concurrent calls do not share history.
type Assistant struct {
	runner         *runner.Runner
	sessionService session.Service
	log            *logger.Logger
}

// New builds the ADK agent around llm with the three research tools.
func New(llm model.LLM, deps ToolDeps, log *logger.Logger) (*Assistant, error) {
	prompts, err := LoadPrompts()
	if err != nil {
		return nil, err
	}

	tools, err := buildTools(deps, prompts, log)
	if err != nil {
		return nil, err
	}

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        prompts.Agent.Name,
		Model:       llm,
		Description: prompts.Agent.Description,
		Instruction: prompts.Agent.Instruction,
		Tools:       tools,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create research agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create research runner: %w", err)
	}

	return &Assistant{runner: r, sessionService: sessionService, log: log}, nil
}

// Ask runs one query to completion and normalizes the conversation.
func (a *Assistant) Ask(ctx context.Context, userID, query string) (transcript.Response, error) {
	if strings.TrimSpace(userID) == "" {
		userID = "anonymous"
	}
	sessionID := uuid.NewString()
	start := time.Now()

	_, err := a.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return transcript.Response{}, fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if deleteErr := a.sessionService.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   appName,
			UserID:    userID,
			SessionID: sessionID,
		}); deleteErr != nil {
			a.log.WithContext(ctx).Warn("failed to delete agent session", "sessionId", sessionID, "error", deleteErr)
		}
	}()

	userMessage := genai.NewContentFromText(query, genai.RoleUser)
	history := transcript.Transcript{{Role: transcript.RoleUser, Content: transcript.PlainText(query)}}

	runConfig := adkagent.RunConfig{StreamingMode: adkagent.StreamingModeNone}
	for event, err := range a.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return transcript.Response{}, fmt.Errorf("research agent run failed: %w", err)
		}
		if event == nil || event.Content == nil {
			continue
		}
		history = append(history, a.toMessages(ctx, event.Content)...)
	}

	resp, err := transcript.Normalize(history)
	if err != nil {
		return transcript.Response{}, err
	}
	a.log.WithContext(ctx).AgentRun(sessionID, resp.ToolsUsed, time.Since(start))
	return resp, nil
}

// toMessages converts one event's content into transcript messages. Tool
// results become tool-role messages; everything else forms one message.
func (a *Assistant) toMessages(ctx context.Context, content *genai.Content) []transcript.Message {
	var (
		out   []transcript.Message
		calls []string
		texts []string
	)
	for _, part := range content.Parts {
		switch {
		case part == nil:
		case part.FunctionResponse != nil:
			out = append(out, transcript.Message{
				Role:    transcript.RoleTool,
				Content: transcript.Opaque{Value: part.FunctionResponse.Response},
			})
		case part.FunctionCall != nil:
			a.log.WithContext(ctx).Debug("agent requested tool",
				"tool", part.FunctionCall.Name,
				"args", describeArgs(part.FunctionCall.Args),
			)
			calls = append(calls, part.FunctionCall.Name)
		case part.Thought:
		case part.Text != "":
			texts = append(texts, part.Text)
		}
	}

	if len(calls) == 0 && len(texts) == 0 {
		return out
	}

	msg := transcript.Message{Role: roleOf(content.Role), ToolCalls: calls}
	switch len(texts) {
	case 0:
		msg.Content = transcript.PlainText("")
	case 1:
		msg.Content = transcript.PlainText(texts[0])
	default:
		fragments := make(transcript.Fragments, 0, len(texts))
		for _, t := range texts {
			fragments = append(fragments, transcript.TextBlock{Text: t})
		}
		msg.Content = fragments
	}
	return append(out, msg)
}

func roleOf(role string) transcript.Role {
	if role == genai.RoleUser {
		return transcript.RoleUser
	}
	return transcript.RoleAssistant
}
