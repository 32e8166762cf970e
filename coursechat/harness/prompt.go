package harness

import (
	"fmt"
	"strings"
)

// systemPromptTemplate is the fixed instruction block sent on every provider
// call. It states the round budget literally because the model uses that
// number to plan its own tool-use strategy.
const systemPromptTemplate = `You are an assistant specialized in course materials, with tools for retrieving course information.

Tool usage:
- Use search_course_content for questions about specific course content or materials.
- Use get_course_outline for course structure: title, course link, and the full lesson list.
- You may use tools across up to %d rounds; for layered questions, retrieve the outline first, then search with specific targets.
- Give the final answer as soon as you have gathered enough information.
- If tools return nothing useful, state that clearly without offering alternatives.

Answer directly and concisely. Do not narrate which tools you used or how you reasoned.`

// synthesisInstruction is appended to the system text for the one
// tools-disabled call made after the round budget runs out.
const synthesisInstruction = `Provide the final answer from everything gathered so far. Do not request any more tools.`

// BuildSystem composes the system instructions for a query: the round-budget
// template, optionally followed by the pre-formatted prior conversation.
func BuildSystem(maxRounds int, history string) string {
	system := fmt.Sprintf(systemPromptTemplate, maxRounds)
	if history = strings.TrimSpace(history); history != "" {
		system += "\n\nPrevious conversation:\n" + history
	}
	return system
}
