package harnessports

import (
	"context"
	"encoding/json"
	"sort"
)

// ParamSpec describes a single tool parameter.
type ParamSpec struct {
	Type        string // JSON Schema type: "string", "integer", "boolean", "number"
	Description string
	Required    bool
}

// ToolSchema describes a callable tool exposed to the model. It must stay
// stable for the lifetime of the registry that advertises it.
type ToolSchema struct {
	Name        string // unique logical name
	Description string // concise doc for model selection
	Params      map[string]ParamSpec
}

// JSONSchema renders the parameter specification as a JSON Schema object.
// Properties and the required list are emitted in sorted name order so the
// rendering is deterministic.
func (s ToolSchema) JSONSchema() []byte {
	props := make(map[string]any, len(s.Params))
	var required []string
	for name, p := range s.Params {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	b, _ := json.Marshal(schema)
	return b
}

// SourceReference is a citation for a passage surfaced by a tool.
type SourceReference struct {
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

// Tool defines the runtime that executes a tool call.
//
// Execute reports designed failures (no results, unknown course, bad
// arguments) in the returned string so the model can see them and adapt. The
// error return is reserved for collaborator faults and aborts the whole
// orchestration.
type Tool interface {
	Schema() ToolSchema
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// SourceTracker is implemented by tools that accumulate citations while
// executing. Sources are read after orchestration completes and must be reset
// before the next query so citations never leak across queries.
type SourceTracker interface {
	LastSources() []SourceReference
	ResetSources()
}
