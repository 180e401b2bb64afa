package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func TestGenerateContentSendsSystemAndTools(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("expected bearer auth")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[{"id":"c1","type":"function","function":{"name":"price_analysis_tool","arguments":"{\"action\":\"cheapest\"}"}}]}}]}`))
	}))
	defer srv.Close()

	m := NewModel(Config{APIKey: "key", BaseURL: srv.URL + "/", Model: "test-model"})
	req := &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("cheapest items?", genai.RoleUser)},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("You are a research assistant.", genai.RoleUser),
			Tools: []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{
				{Name: "price_analysis_tool", Description: "analyze prices"},
			}}},
		},
	}

	var resp *model.LLMResponse
	for r, err := range m.GenerateContent(context.Background(), req, false) {
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		resp = r
	}

	if got.Model != "test-model" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(got.Tools) != 1 || got.ToolChoice != "auto" {
		t.Fatalf("expected one tool with auto choice, got %+v", got.Tools)
	}
	if resp == nil || len(resp.Content.Parts) != 1 {
		t.Fatalf("expected one part, got %+v", resp)
	}
	call := resp.Content.Parts[0].FunctionCall
	if call == nil || call.Name != "price_analysis_tool" || call.Args["action"] != "cheapest" {
		t.Fatalf("unexpected function call %+v", call)
	}
}

func TestBuildMessagesMapsToolResponses(t *testing.T) {
	req := &model.LLMRequest{Contents: []*genai.Content{
		{Role: genai.RoleModel, Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{ID: "c1", Name: "search_catalog_tool", Args: map[string]any{"query": "kettle"}}}}},
		{Role: genai.RoleUser, Parts: []*genai.Part{{FunctionResponse: &genai.FunctionResponse{ID: "c1", Name: "search_catalog_tool", Response: map[string]any{"results": []any{}}}}}},
	}}

	msgs := buildMessages(req)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "assistant" || len(msgs[0].ToolCalls) != 1 {
		t.Fatalf("expected assistant tool call, got %+v", msgs[0])
	}
	if msgs[1].Role != "tool" || msgs[1].ToolCallID != "c1" {
		t.Fatalf("expected tool message, got %+v", msgs[1])
	}
}

func TestGenerateContentSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := NewModel(Config{BaseURL: srv.URL})
	for _, err := range m.GenerateContent(context.Background(), &model.LLMRequest{}, false) {
		if err == nil {
			t.Fatalf("expected error for 429")
		}
	}
}
