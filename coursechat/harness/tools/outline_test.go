package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

func TestOutlineTool_RendersFullOutline(t *testing.T) {
	store := &stubCorpus{
		resolved: "Introduction to MCP",
		metadata: ports.CourseMetadata{
			Title:      "Introduction to MCP",
			Link:       "https://example.com/mcp",
			Instructor: "Jane Doe",
			LessonsJSON: `[
				{"lesson_number": 2, "lesson_title": "Servers"},
				{"lesson_number": 1, "lesson_title": "Protocol Basics"},
				{"lesson_number": 3, "lesson_title": ""}
			]`,
		},
	}
	tool := NewOutlineTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"course_title":"MCP"}`))
	require.NoError(t, err)

	// Lessons come back sorted by number even when stored out of order, and
	// a missing title degrades to a placeholder.
	assert.Equal(t,
		"**Course:** Introduction to MCP\n"+
			"**Course Link:** https://example.com/mcp\n"+
			"**Instructor:** Jane Doe\n"+
			"\n**Lessons (3 total):**\n"+
			"  1. Protocol Basics\n"+
			"  2. Servers\n"+
			"  3. Untitled",
		result)
}

func TestOutlineTool_OptionalFieldsOmitted(t *testing.T) {
	store := &stubCorpus{
		resolved: "Bare Course",
		metadata: ports.CourseMetadata{
			Title:       "Bare Course",
			LessonsJSON: `[{"lesson_number": 1, "lesson_title": "Only Lesson"}]`,
		},
	}
	tool := NewOutlineTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"course_title":"Bare"}`))
	require.NoError(t, err)
	assert.NotContains(t, result, "**Course Link:**")
	assert.NotContains(t, result, "**Instructor:**")
	assert.Contains(t, result, "  1. Only Lesson")
}

func TestOutlineTool_UnresolvableCourse(t *testing.T) {
	tool := NewOutlineTool(&stubCorpus{resolved: ""})

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"course_title":"Quantum Basket Weaving"}`))
	require.NoError(t, err)
	assert.Equal(t, "No course found matching 'Quantum Basket Weaving'. Please check the course name and try again.", result)
}

func TestOutlineTool_MalformedLessonsDegrade(t *testing.T) {
	store := &stubCorpus{
		resolved: "Broken Course",
		metadata: ports.CourseMetadata{
			Title:       "Broken Course",
			LessonsJSON: `{"not": "a list"`,
		},
	}
	tool := NewOutlineTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"course_title":"Broken"}`))
	require.NoError(t, err)
	assert.Contains(t, result, "**Course:** Broken Course")
	assert.Contains(t, result, "No lessons found for this course.")
}

func TestOutlineTool_MissingTitle(t *testing.T) {
	tool := NewOutlineTool(&stubCorpus{})

	result, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "A course title is required.", result)
}

func TestOutlineTool_StoreFaultPropagates(t *testing.T) {
	tool := NewOutlineTool(&stubCorpus{resolveErr: fmt.Errorf("catalog offline")})

	_, err := tool.Execute(context.Background(), json.RawMessage(`{"course_title":"MCP"}`))
	require.Error(t, err)
}

func TestOutlineTool_FallsBackToResolvedTitle(t *testing.T) {
	store := &stubCorpus{
		resolved: "Resolved Title",
		metadata: ports.CourseMetadata{LessonsJSON: `[]`},
	}
	tool := NewOutlineTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"course_title":"Res"}`))
	require.NoError(t, err)
	assert.Contains(t, result, "**Course:** Resolved Title")
}
