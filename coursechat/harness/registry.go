package harness

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// Registry maps tool names to owned Tool instances and dispatches execution by
// name. It also aggregates citation state across tools: the registry does not
// own that state, it merely queries and clears it on the tools that track it.
//
// A Registry is exclusively owned by one query at a time; ResetSources must
// run before each query's first provider call.
type Registry struct {
	order []string
	tools map[string]ports.Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]ports.Tool)}
}

// Register adds a tool under its schema name. Empty or duplicate names are
// configuration errors and fail immediately.
func (r *Registry) Register(tool ports.Tool) error {
	name := tool.Schema().Name
	if name == "" {
		return fmt.Errorf("tool schema has no name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Schemas returns all tool schemas in registration order.
func (r *Registry) Schemas() []ports.ToolSchema {
	schemas := make([]ports.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.tools[name].Schema())
	}
	return schemas
}

// Lookup returns the schema for a registered tool name.
func (r *Registry) Lookup(name string) (ports.ToolSchema, bool) {
	tool, ok := r.tools[name]
	if !ok {
		return ports.ToolSchema{}, false
	}
	return tool.Schema(), true
}

// Dispatch executes a tool by name. An unregistered name produces a sentinel
// result string rather than an error: the model sees it as the tool's output
// and can recover, instead of the failure tearing down the round loop.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Tool '%s' not found", name), nil
	}
	return tool.Execute(ctx, args)
}

// LastSources returns the first non-empty source list across registered tools,
// checked in registration order. In practice at most one tool populates
// sources per query.
func (r *Registry) LastSources() []ports.SourceReference {
	for _, name := range r.order {
		if tracker, ok := r.tools[name].(ports.SourceTracker); ok {
			if sources := tracker.LastSources(); len(sources) > 0 {
				return sources
			}
		}
	}
	return nil
}

// ResetSources clears citation state on every tracking tool.
func (r *Registry) ResetSources() {
	for _, name := range r.order {
		if tracker, ok := r.tools[name].(ports.SourceTracker); ok {
			tracker.ResetSources()
		}
	}
}
