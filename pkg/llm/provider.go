// Package llm defines a provider-agnostic contract for chat models that
// support tool invocation and schema-constrained output.
package llm

import (
	"context"
	"encoding/json"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a chat message in a provider-agnostic format.
type Message struct {
	Role    string
	Content string

	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall

	// ToolCallID links a tool-role message back to the call it answers.
	ToolCallID string
}

// ToolCall is a model-proposed invocation of a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolDef describes a callable tool to the model. Parameters is a JSON
// schema object.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// Provider defines the contract for any chat LLM backend.
type Provider interface {
	// Chat sends the history and available tools to the model. The reply
	// either carries final content or one or more tool calls.
	Chat(ctx context.Context, messages []Message, tools []ToolDef) (*Message, error)

	// Structured asks the model for a reply conforming to the given JSON
	// schema and returns the raw JSON.
	Structured(ctx context.Context, messages []Message, schemaName string, schema map[string]interface{}) (json.RawMessage, error)
}
