package harness

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// Default provider call parameters. Temperature stays at 0 so identical
// inputs yield reproducible routing decisions.
const (
	defaultMaxTokens       = 800
	defaultToolConcurrency = 5
)

// Orchestrator runs the bounded round loop that lets the model interleave
// tool calls with retrieval until it produces a final answer:
//
//	Init -> AwaitingLLM -> (ToolsRequested -> ExecutingTools -> AwaitingLLM)* -> Answer
//
// with a tools-disabled synthesis call when the round budget runs out first.
// Rounds execute strictly sequentially; only the tool calls within one round
// may overlap.
type Orchestrator struct {
	provider ports.Provider
	registry *Registry
	guard    *Guardrails
	limiter  ports.RateLimiter
	tracer   ports.Tracer

	maxTokens   int
	temperature float32
	concurrency int
}

// NewOrchestrator wires an orchestrator with its collaborators. The limiter
// and tracer may be no-ops but must not be nil.
func NewOrchestrator(provider ports.Provider, registry *Registry, limiter ports.RateLimiter, tracer ports.Tracer) *Orchestrator {
	return &Orchestrator{
		provider:    provider,
		registry:    registry,
		guard:       NewGuardrails(),
		limiter:     limiter,
		tracer:      tracer,
		maxTokens:   defaultMaxTokens,
		concurrency: defaultToolConcurrency,
	}
}

// Answer runs the full round loop for one query and returns the final text.
// history, when non-empty, is a pre-formatted prior-conversation block folded
// into the system instructions. After return the caller may read
// Registry.LastSources for citations.
//
// Errors out of Answer are collaborator faults or configuration mistakes;
// tool-level problems never surface here, they are fed back to the model as
// result text.
func (o *Orchestrator) Answer(ctx context.Context, query, history string, maxRounds int) (string, error) {
	if maxRounds < 1 {
		return "", fmt.Errorf("maxRounds must be at least 1, got %d", maxRounds)
	}

	release, err := o.limiter.Acquire(ctx, "answer")
	if err != nil {
		return "", fmt.Errorf("rate limit exceeded: %w", err)
	}
	defer release()

	ctx, finish := o.tracer.StartSpan(ctx, "answer", map[string]any{
		"max_rounds": maxRounds,
		"tool_count": len(o.registry.Schemas()),
	})
	answer, err := o.run(ctx, query, history, maxRounds)
	finish(err)
	return answer, err
}

// run executes the round state machine. Sources are cleared up front so
// citations from an earlier query can never leak into this one.
func (o *Orchestrator) run(ctx context.Context, query, history string, maxRounds int) (string, error) {
	o.registry.ResetSources()

	system := BuildSystem(maxRounds, history)
	conv := NewConversation(query, maxRounds)
	schemas := o.registry.Schemas()

	for conv.Remaining > 0 {
		completion, err := o.complete(ctx, system, conv, schemas, ports.ToolChoiceAuto)
		if err != nil {
			return "", err
		}
		conv.AppendAssistant(completion.Blocks)

		calls := completion.ToolCalls()
		if len(calls) == 0 && completion.StopReason != ports.StopToolUse {
			// Early termination: the model answered without tools. Most
			// queries resolve here in one round, so this check runs every
			// round rather than only at exhaustion.
			return completion.Text(), nil
		}

		if len(calls) > 0 {
			results, err := o.dispatchBatch(ctx, calls)
			if err != nil {
				return "", err
			}
			conv.AppendToolResults(results)
		} else {
			// tool_use stop reason with no invocation blocks: proceed with an
			// empty result set and let the budget run its course.
			o.tracer.Event(ctx, "empty_tool_round", map[string]any{"remaining": conv.Remaining})
		}
		conv.Remaining--
	}

	// The budget ran out while the model was still requesting tools. It has
	// gathered but never been asked to answer, so make exactly one more call
	// with tools disabled; this one does not count against the budget.
	completion, err := o.complete(ctx, system+"\n\n"+synthesisInstruction, conv, nil, ports.ToolChoiceNone)
	if err != nil {
		return "", err
	}
	return completion.Text(), nil
}

// complete makes one provider call over the full message log.
func (o *Orchestrator) complete(ctx context.Context, system string, conv *Conversation, schemas []ports.ToolSchema, choice string) (ports.Completion, error) {
	ctx, finish := o.tracer.StartSpan(ctx, "provider_call", map[string]any{
		"remaining_rounds": conv.Remaining,
		"tool_choice":      choice,
	})
	completion, err := o.provider.Complete(ctx, ports.PromptInput{
		System:   system,
		Messages: conv.Messages,
		Tools:    schemas,
	}, ports.Options{
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
		ToolChoice:  choice,
	})
	finish(err)
	if err != nil {
		return ports.Completion{}, fmt.Errorf("provider call failed: %w", err)
	}
	return completion, nil
}

// dispatchBatch executes every tool call from one assistant turn and pairs
// each result with its originating invocation id. Calls may execute
// concurrently (they are independent reads against the corpus) but results
// come back in invocation order, so id-to-result mapping stays deterministic
// regardless of completion order. A tool fault aborts the whole batch.
func (o *Orchestrator) dispatchBatch(ctx context.Context, calls []ports.ToolCall) ([]ports.ToolResult, error) {
	ctx, finish := o.tracer.StartSpan(ctx, "tool_batch", map[string]any{"call_count": len(calls)})

	mapper := iter.Mapper[ports.ToolCall, ports.ToolResult]{MaxGoroutines: o.concurrency}
	results, err := mapper.MapErr(calls, func(call *ports.ToolCall) (ports.ToolResult, error) {
		content, err := o.dispatchOne(ctx, *call)
		if err != nil {
			return ports.ToolResult{}, err
		}
		return ports.ToolResult{ToolUseID: call.ID, Content: content}, nil
	})
	finish(err)
	if err != nil {
		return nil, fmt.Errorf("tool execution failed: %w", err)
	}
	return results, nil
}

// dispatchOne validates arguments against the advertised schema, then runs
// the tool. Validation failures become the tool's result text; unknown tool
// names fall through to the registry's sentinel.
func (o *Orchestrator) dispatchOne(ctx context.Context, call ports.ToolCall) (string, error) {
	if schema, ok := o.registry.Lookup(call.Name); ok {
		if err := o.guard.ValidateToolCall(call, schema); err != nil {
			return fmt.Sprintf("Invalid arguments for tool '%s': %v.", call.Name, err), nil
		}
	}
	return o.registry.Dispatch(ctx, call.Name, call.Args)
}
