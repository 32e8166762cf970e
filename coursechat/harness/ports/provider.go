package harnessports

import (
	"context"
	"encoding/json"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Stop reasons reported by the model boundary.
const (
	StopEndTurn = "end_turn"
	StopToolUse = "tool_use"
)

// Content block kinds.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Tool choice modes for a provider call.
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
)

// ToolCall represents the model requesting a tool invocation.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"input"`
}

// ToolResult answers a ToolCall from the immediately preceding assistant turn.
type ToolResult struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
}

// ContentBlock is a single block in a message: text, tool_use, or tool_result.
type ContentBlock struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// TextBlock wraps plain text as a content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// ToolUseBlock wraps a tool invocation request as a content block.
func ToolUseBlock(id, name string, args json.RawMessage) ContentBlock {
	return ContentBlock{Type: BlockToolUse, ToolCall: &ToolCall{ID: id, Name: name, Args: args}}
}

// ToolResultBlock wraps a tool execution result as a content block.
func ToolResultBlock(toolUseID, content string) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ToolResult: &ToolResult{ToolUseID: toolUseID, Content: content}}
}

// Message is one turn in a conversation.
type Message struct {
	Role   string         `json:"role"`
	Blocks []ContentBlock `json:"content"`
}

// UserText builds a user message holding a single text block.
func UserText(text string) Message {
	return Message{Role: RoleUser, Blocks: []ContentBlock{TextBlock(text)}}
}

// ToolCalls returns the tool invocation requests contained in the message.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, b := range m.Blocks {
		if b.Type == BlockToolUse && b.ToolCall != nil {
			calls = append(calls, *b.ToolCall)
		}
	}
	return calls
}

// PromptInput aggregates everything the provider needs for one call.
type PromptInput struct {
	System   string       // system instructions, already composed
	Messages []Message    // full ordered conversation so far
	Tools    []ToolSchema // advertised tools; empty disables tool use
}

// Options controls sampling and tool preferences for one provider call.
type Options struct {
	MaxTokens   int
	Temperature float32
	// ToolChoice: "auto" | "none"
	ToolChoice string
}

// Completion is the provider's response to one call.
type Completion struct {
	StopReason string
	Blocks     []ContentBlock
}

// Text returns the first text block's content, or "" when there is none.
func (c Completion) Text() string {
	for _, b := range c.Blocks {
		if b.Type == BlockText {
			return b.Text
		}
	}
	return ""
}

// ToolCalls returns the tool invocation requests in block order.
func (c Completion) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, b := range c.Blocks {
		if b.Type == BlockToolUse && b.ToolCall != nil {
			calls = append(calls, *b.ToolCall)
		}
	}
	return calls
}

// Provider is the abstraction for the LLM backend (inference hidden behind this port).
type Provider interface {
	Complete(ctx context.Context, in PromptInput, opts Options) (Completion, error)
}
