package harness

import (
	"fmt"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// Conversation is the append-only message log for one query. It is owned by a
// single Answer invocation and discarded when the final answer is returned;
// prior-turn context arrives as a pre-formatted string in the system
// instructions, never as message history.
type Conversation struct {
	Query     string
	Messages  []ports.Message
	Remaining int // rounds left in the budget
}

// NewConversation seeds the log with the raw user query.
func NewConversation(query string, maxRounds int) *Conversation {
	return &Conversation{
		Query:     query,
		Messages:  []ports.Message{ports.UserText(query)},
		Remaining: maxRounds,
	}
}

// AppendAssistant records the model's turn verbatim.
func (c *Conversation) AppendAssistant(blocks []ports.ContentBlock) {
	c.Messages = append(c.Messages, ports.Message{Role: ports.RoleAssistant, Blocks: blocks})
}

// AppendToolResults records one round's tool results as a single user message,
// preserving the order the invocations were issued in.
func (c *Conversation) AppendToolResults(results []ports.ToolResult) {
	blocks := make([]ports.ContentBlock, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, ports.ToolResultBlock(r.ToolUseID, r.Content))
	}
	c.Messages = append(c.Messages, ports.Message{Role: ports.RoleUser, Blocks: blocks})
}

// Validate checks the tool-use pairing invariant across the whole log: every
// tool_result must reference a tool_use id from the immediately preceding
// assistant message, each tool_use is answered at most once, and a tool_use
// left unanswered is tolerated only in the final message, where the round
// budget may have run out before results were appended.
func (c *Conversation) Validate() error {
	for i, msg := range c.Messages {
		if calls := msg.ToolCalls(); len(calls) > 0 {
			if msg.Role != ports.RoleAssistant {
				return fmt.Errorf("message %d: tool_use block in %s message", i, msg.Role)
			}
			if i == len(c.Messages)-1 {
				continue
			}
			pending := make(map[string]bool, len(calls))
			for _, call := range calls {
				pending[call.ID] = true
			}
			for _, r := range toolResults(c.Messages[i+1]) {
				if !pending[r.ToolUseID] {
					return fmt.Errorf("message %d: tool_result %q does not match a pending tool_use", i+1, r.ToolUseID)
				}
				delete(pending, r.ToolUseID)
			}
			for id := range pending {
				return fmt.Errorf("message %d: tool_use %q never received a result", i, id)
			}
			continue
		}

		if results := toolResults(msg); len(results) > 0 {
			if i == 0 || len(c.Messages[i-1].ToolCalls()) == 0 {
				return fmt.Errorf("message %d: tool_result %q has no preceding tool_use", i, results[0].ToolUseID)
			}
		}
	}
	return nil
}

func toolResults(msg ports.Message) []ports.ToolResult {
	var results []ports.ToolResult
	for _, b := range msg.Blocks {
		if b.Type == ports.BlockToolResult && b.ToolResult != nil {
			results = append(results, *b.ToolResult)
		}
	}
	return results
}
