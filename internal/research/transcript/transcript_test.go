package transcript

import (
	"strings"
	"testing"

	"research_assistant_backend/platform/apperr"
)

func TestNormalizeCollectsReasoningAndTools(t *testing.T) {
	resp, err := Normalize(Transcript{
		{Role: RoleAssistant, Content: PlainText("I will check stock")},
		{Role: RoleAssistant, Content: PlainText(""), ToolCalls: []string{"search_catalog_tool"}},
		{Role: RoleTool, Content: PlainText(`[{"product_name":"Kettle"}]`)},
		{Role: RoleAssistant, Content: PlainText("Found 3 items")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.Join(resp.Reasoning, "|") != "I will check stock|Found 3 items" {
		t.Fatalf("unexpected reasoning %v", resp.Reasoning)
	}
	if len(resp.ToolsUsed) != 1 || resp.ToolsUsed[0] != "search_catalog_tool" {
		t.Fatalf("unexpected tools %v", resp.ToolsUsed)
	}
	if resp.Answer != "Found 3 items" {
		t.Fatalf("expected final answer, got %q", resp.Answer)
	}
}

func TestNormalizeJoinsFragmentAnswer(t *testing.T) {
	resp, err := Normalize(Transcript{
		{Role: RoleAssistant, Content: Fragments{TextBlock{Text: "Price is"}, TextBlock{Text: "$19.99"}}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Answer != "Price is $19.99" {
		t.Fatalf("expected joined answer, got %q", resp.Answer)
	}
}

func TestNormalizeMixedFragments(t *testing.T) {
	resp, _ := Normalize(Transcript{
		{Role: RoleAssistant, Content: Fragments{
			PlainString("Two"),
			OpaqueFragment{Value: map[string]any{"type": "function_call"}},
			TextBlock{Text: " matches "},
		}},
	})
	if resp.Answer != "Two  matches " {
		t.Fatalf("expected verbatim join, got %q", resp.Answer)
	}
	if strings.Join(resp.Reasoning, "|") != "matches" {
		t.Fatalf("expected trimmed reasoning, got %v", resp.Reasoning)
	}
}

func TestNormalizeDeduplicatesTools(t *testing.T) {
	resp, _ := Normalize(Transcript{
		{Role: RoleAssistant, ToolCalls: []string{"price_analysis_tool", "search_catalog_tool"}},
		{Role: RoleAssistant, ToolCalls: []string{"price_analysis_tool", ""}},
		{Role: RoleAssistant, Content: PlainText("done")},
	})
	want := "price_analysis_tool,search_catalog_tool,unknown_tool"
	if strings.Join(resp.ToolsUsed, ",") != want {
		t.Fatalf("expected %s, got %v", want, resp.ToolsUsed)
	}
}

func TestNormalizeOpaqueAnswer(t *testing.T) {
	resp, _ := Normalize(Transcript{{Role: RoleAssistant, Content: Opaque{Value: 42}}})
	if resp.Answer != "42" {
		t.Fatalf("expected generic rendering, got %q", resp.Answer)
	}
	if len(resp.Reasoning) != 0 {
		t.Fatalf("expected no reasoning from opaque content, got %v", resp.Reasoning)
	}
}

func TestNormalizeEmptyTranscript(t *testing.T) {
	_, err := Normalize(nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
