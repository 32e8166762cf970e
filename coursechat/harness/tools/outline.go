package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// OutlineTool retrieves a course's structure: title, course link, instructor,
// and the complete lesson list. It never records sources.
type OutlineTool struct {
	store ports.CorpusStore
}

// NewOutlineTool creates the outline tool over a corpus store.
func NewOutlineTool(store ports.CorpusStore) *OutlineTool {
	return &OutlineTool{store: store}
}

// Schema returns the tool definition advertised to the model.
func (t *OutlineTool) Schema() ports.ToolSchema {
	return ports.ToolSchema{
		Name:        "get_course_outline",
		Description: "Get course outline including title, course link, and complete lesson list with numbers and titles",
		Params: map[string]ports.ParamSpec{
			"course_title": {
				Type:        "string",
				Description: "Course title or partial name (e.g. 'MCP', 'Introduction')",
				Required:    true,
			},
		},
	}
}

type outlineArgs struct {
	CourseTitle string `json:"course_title"`
}

type lessonEntry struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
}

// Execute resolves the (possibly partial) title and renders the outline.
// An unresolvable title is a result string; corpus faults return an error.
func (t *OutlineTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params outlineArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return fmt.Sprintf("Invalid arguments: %v.", err), nil
	}
	if params.CourseTitle == "" {
		return "A course title is required.", nil
	}

	resolved, err := t.store.ResolveCourseName(ctx, params.CourseTitle)
	if err != nil {
		return "", err
	}
	if resolved == "" {
		return fmt.Sprintf("No course found matching '%s'. Please check the course name and try again.", params.CourseTitle), nil
	}

	meta, err := t.store.GetCourseMetadata(ctx, resolved)
	if err != nil {
		return "", err
	}

	title := meta.Title
	if title == "" {
		title = resolved
	}

	lines := []string{"**Course:** " + title}
	if meta.Link != "" {
		lines = append(lines, "**Course Link:** "+meta.Link)
	}
	if meta.Instructor != "" {
		lines = append(lines, "**Instructor:** "+meta.Instructor)
	}

	// Malformed lesson metadata degrades to an empty list rather than failing
	// the whole call.
	var lessons []lessonEntry
	if err := json.Unmarshal([]byte(meta.LessonsJSON), &lessons); err != nil {
		lessons = nil
	}

	if len(lessons) > 0 {
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].Number < lessons[j].Number })
		lines = append(lines, fmt.Sprintf("\n**Lessons (%d total):**", len(lessons)))
		for _, lesson := range lessons {
			lessonTitle := lesson.Title
			if lessonTitle == "" {
				lessonTitle = "Untitled"
			}
			lines = append(lines, fmt.Sprintf("  %d. %s", lesson.Number, lessonTitle))
		}
	} else {
		lines = append(lines, "\nNo lessons found for this course.")
	}

	return strings.Join(lines, "\n"), nil
}

var _ ports.Tool = (*OutlineTool)(nil)
