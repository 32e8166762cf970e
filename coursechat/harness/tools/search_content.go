package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// ContentSearchTool searches course passages with fuzzy course-name matching
// and optional lesson filtering. It records one SourceReference per matched
// passage so the caller can surface citations after the query completes.
type ContentSearchTool struct {
	store ports.CorpusStore

	mu          sync.Mutex
	lastSources []ports.SourceReference
}

// NewContentSearchTool creates the search tool over a corpus store.
func NewContentSearchTool(store ports.CorpusStore) *ContentSearchTool {
	return &ContentSearchTool{store: store}
}

// Schema returns the tool definition advertised to the model.
func (t *ContentSearchTool) Schema() ports.ToolSchema {
	return ports.ToolSchema{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		Params: map[string]ports.ParamSpec{
			"query": {
				Type:        "string",
				Description: "What to search for in the course content",
				Required:    true,
			},
			"course_name": {
				Type:        "string",
				Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
			},
			"lesson_number": {
				Type:        "integer",
				Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
			},
		},
	}
}

type searchArgs struct {
	Query        string `json:"query"`
	CourseName   string `json:"course_name"`
	LessonNumber *int   `json:"lesson_number"`
}

// Execute runs the search. Empty result sets and retrieval-level problems are
// reported in the result string; only corpus faults return an error.
func (t *ContentSearchTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var params searchArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return fmt.Sprintf("Invalid arguments: %v.", err), nil
	}
	if params.Query == "" {
		return "A search query is required.", nil
	}

	results, err := t.store.Search(ctx, params.Query, params.CourseName, params.LessonNumber)
	if err != nil {
		return "", err
	}
	if results.Err != "" {
		return results.Err, nil
	}
	if results.IsEmpty() {
		var filters strings.Builder
		if params.CourseName != "" {
			fmt.Fprintf(&filters, " in course '%s'", params.CourseName)
		}
		if params.LessonNumber != nil {
			fmt.Fprintf(&filters, " in lesson %d", *params.LessonNumber)
		}
		return fmt.Sprintf("No relevant content found%s.", filters.String()), nil
	}

	return t.formatResults(ctx, results), nil
}

// formatResults renders each passage under a course/lesson header and records
// the matching sources. Lesson link lookup is best-effort: an unresolvable
// link just leaves the citation without one.
func (t *ContentSearchTool) formatResults(ctx context.Context, results ports.SearchResults) string {
	formatted := make([]string, 0, len(results.Documents))
	sources := make([]ports.SourceReference, 0, len(results.Documents))

	for i, doc := range results.Documents {
		meta := ports.DocumentMeta{CourseTitle: "unknown"}
		if i < len(results.Metadata) {
			meta = results.Metadata[i]
		}

		header := meta.CourseTitle
		source := ports.SourceReference{Text: meta.CourseTitle}
		if meta.LessonNumber != nil {
			suffix := fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
			header += suffix
			source.Text += suffix
			if link, err := t.store.GetLessonLink(ctx, meta.CourseTitle, *meta.LessonNumber); err == nil {
				source.Link = link
			}
		}

		sources = append(sources, source)
		formatted = append(formatted, "["+header+"]\n"+doc)
	}

	t.mu.Lock()
	t.lastSources = sources
	t.mu.Unlock()

	return strings.Join(formatted, "\n\n")
}

// LastSources returns the citations recorded by the most recent search.
func (t *ContentSearchTool) LastSources() []ports.SourceReference {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSources
}

// ResetSources clears recorded citations; called once per new query.
func (t *ContentSearchTool) ResetSources() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSources = nil
}

var (
	_ ports.Tool          = (*ContentSearchTool)(nil)
	_ ports.SourceTracker = (*ContentSearchTool)(nil)
)
