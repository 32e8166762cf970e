package harness

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// Guardrails validates tool invocations before dispatch. A validation failure
// here is recoverable conversation content, not a fault: the orchestrator
// turns it into the tool's result text so the model can correct itself.
type Guardrails struct{}

// NewGuardrails creates guardrails with default settings.
func NewGuardrails() *Guardrails {
	return &Guardrails{}
}

// ValidateToolCall checks a tool_use block against the tool's advertised
// schema. Empty arguments are treated as the empty object, which still fails
// for schemas with required parameters.
func (g *Guardrails) ValidateToolCall(call ports.ToolCall, schema ports.ToolSchema) error {
	if call.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	args := call.Args
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	if !json.Valid(args) {
		return fmt.Errorf("tool arguments are not valid JSON")
	}

	schemaLoader := gojsonschema.NewBytesLoader(schema.JSONSchema())
	documentLoader := gojsonschema.NewBytesLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var issues []string
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return fmt.Errorf("arguments do not match schema: %s", strings.Join(issues, "; "))
	}

	return nil
}
