// Package transcript models an agent conversation and reduces it to the
// answer, reasoning trace and tool set returned to API callers.
package transcript

import (
	"fmt"
	"slices"
	"strings"

	"research_assistant_backend/platform/apperr"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool marks messages that carry tool output back to the model.
	RoleTool Role = "tool"
)

// Content is one of PlainText, Fragments or Opaque.
type Content interface {
	isContent()
}

// PlainText is content that is a single string.
type PlainText string

// Fragments is content made of an ordered list of pieces.
type Fragments []Fragment

// Opaque is content of any other shape. It renders with fmt's default format.
type Opaque struct {
	Value any
}

func (PlainText) isContent() {}
func (Fragments) isContent() {}
func (Opaque) isContent()    {}

// Fragment is one of TextBlock, PlainString or OpaqueFragment.
type Fragment interface {
	isFragment()
}

// TextBlock is a structured fragment with a text field.
type TextBlock struct {
	Text string
}

// PlainString is a bare string inside a fragment list.
type PlainString string

// OpaqueFragment is a fragment with no text, such as an inline tool call.
type OpaqueFragment struct {
	Value any
}

func (TextBlock) isFragment()      {}
func (PlainString) isFragment()    {}
func (OpaqueFragment) isFragment() {}

// Message is one transcript entry. ToolCalls holds the names of tools the
// message invoked; an empty name counts as "unknown_tool".
type Message struct {
	Role      Role
	Content   Content
	ToolCalls []string
}

// Transcript is the ordered message history of one agent run.
type Transcript []Message

// Response is the normalized result of a run.
type Response struct {
	Answer    string   `json:"answer"`
	Reasoning []string `json:"reasoning"`
	ToolsUsed []string `json:"tools_used"`
}

const unknownTool = "unknown_tool"

// Normalize derives the answer from the last message, the reasoning trace
// from every non-tool message, and the deduplicated set of tools invoked.
// Only text blocks feed the reasoning trace; bare strings in a fragment list
// count toward the answer alone. ToolsUsed is sorted by name.
func Normalize(t Transcript) (Response, error) {
	if len(t) == 0 {
		return Response{}, apperr.Validation("transcript is empty").WithOp("transcript.Normalize")
	}

	seen := make(map[string]struct{})
	reasoning := make([]string, 0, len(t))
	for _, msg := range t {
		for _, name := range msg.ToolCalls {
			if name == "" {
				name = unknownTool
			}
			seen[name] = struct{}{}
		}
		if msg.Role == RoleTool {
			continue
		}
		reasoning = appendReasoning(reasoning, msg.Content)
	}

	tools := make([]string, 0, len(seen))
	for name := range seen {
		tools = append(tools, name)
	}
	slices.Sort(tools)

	return Response{
		Answer:    answerOf(t[len(t)-1].Content),
		Reasoning: reasoning,
		ToolsUsed: tools,
	}, nil
}

func appendReasoning(out []string, content Content) []string {
	switch c := content.(type) {
	case PlainText:
		if s := strings.TrimSpace(string(c)); s != "" {
			out = append(out, s)
		}
	case Fragments:
		for _, f := range c {
			block, ok := f.(TextBlock)
			if !ok {
				continue
			}
			if s := strings.TrimSpace(block.Text); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func answerOf(content Content) string {
	switch c := content.(type) {
	case nil:
		return ""
	case PlainText:
		return string(c)
	case Fragments:
		parts := make([]string, 0, len(c))
		for _, f := range c {
			switch frag := f.(type) {
			case TextBlock:
				parts = append(parts, frag.Text)
			case PlainString:
				parts = append(parts, string(frag))
			}
		}
		return strings.Join(parts, " ")
	case Opaque:
		return fmt.Sprint(c.Value)
	default:
		return fmt.Sprint(c)
	}
}
