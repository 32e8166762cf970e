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

// stubCorpus is a canned CorpusStore shared across tool tests.
type stubCorpus struct {
	searchResults ports.SearchResults
	searchErr     error
	searchCalls   []string

	resolved   string
	resolveErr error

	metadata    ports.CourseMetadata
	metadataErr error

	lessonLinks   map[string]string
	lessonLinkErr error
}

func (s *stubCorpus) Search(ctx context.Context, query, courseName string, lessonNumber *int) (ports.SearchResults, error) {
	s.searchCalls = append(s.searchCalls, query)
	return s.searchResults, s.searchErr
}

func (s *stubCorpus) ResolveCourseName(ctx context.Context, partial string) (string, error) {
	return s.resolved, s.resolveErr
}

func (s *stubCorpus) GetCourseMetadata(ctx context.Context, title string) (ports.CourseMetadata, error) {
	return s.metadata, s.metadataErr
}

func (s *stubCorpus) GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error) {
	if s.lessonLinkErr != nil {
		return "", s.lessonLinkErr
	}
	link, ok := s.lessonLinks[fmt.Sprintf("%s/%d", courseTitle, lessonNumber)]
	if !ok {
		return "", nil
	}
	return link, nil
}

var _ ports.CorpusStore = (*stubCorpus)(nil)

func intPtr(n int) *int { return &n }

func TestContentSearchTool_FormatsResultsAndSources(t *testing.T) {
	store := &stubCorpus{
		searchResults: ports.SearchResults{
			Documents: []string{"Embeddings map text to vectors.", "Vectors live in a metric space."},
			Metadata: []ports.DocumentMeta{
				{CourseTitle: "Intro to RAG", LessonNumber: intPtr(3)},
				{CourseTitle: "Intro to RAG", LessonNumber: intPtr(4)},
			},
		},
		lessonLinks: map[string]string{
			"Intro to RAG/3": "https://example.com/rag/3",
		},
	}
	tool := NewContentSearchTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query":"embeddings"}`))
	require.NoError(t, err)
	assert.Equal(t,
		"[Intro to RAG - Lesson 3]\nEmbeddings map text to vectors.\n\n[Intro to RAG - Lesson 4]\nVectors live in a metric space.",
		result)

	sources := tool.LastSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "Intro to RAG - Lesson 3", sources[0].Text)
	assert.Equal(t, "https://example.com/rag/3", sources[0].Link)
	assert.Equal(t, "Intro to RAG - Lesson 4", sources[1].Text)
	assert.Empty(t, sources[1].Link)

	tool.ResetSources()
	assert.Empty(t, tool.LastSources())
}

func TestContentSearchTool_NoResultsNamesFilters(t *testing.T) {
	tool := NewContentSearchTool(&stubCorpus{})

	cases := []struct {
		name string
		args string
		want string
	}{
		{"no filters", `{"query":"x"}`, "No relevant content found."},
		{"course filter", `{"query":"x","course_name":"MCP"}`, "No relevant content found in course 'MCP'."},
		{"lesson filter", `{"query":"x","lesson_number":5}`, "No relevant content found in lesson 5."},
		{"both filters", `{"query":"x","course_name":"MCP","lesson_number":5}`, "No relevant content found in course 'MCP' in lesson 5."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := tool.Execute(context.Background(), json.RawMessage(tc.args))
			require.NoError(t, err)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestContentSearchTool_StoreErrStringPassesThrough(t *testing.T) {
	store := &stubCorpus{searchResults: ports.SearchResults{Err: "No course found matching 'Quantum'"}}
	tool := NewContentSearchTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query":"x","course_name":"Quantum"}`))
	require.NoError(t, err)
	assert.Equal(t, "No course found matching 'Quantum'", result)
	assert.Empty(t, tool.LastSources())
}

func TestContentSearchTool_StoreFaultPropagates(t *testing.T) {
	store := &stubCorpus{searchErr: fmt.Errorf("connection refused")}
	tool := NewContentSearchTool(store)

	_, err := tool.Execute(context.Background(), json.RawMessage(`{"query":"x"}`))
	require.Error(t, err)
}

func TestContentSearchTool_MissingQuery(t *testing.T) {
	store := &stubCorpus{}
	tool := NewContentSearchTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "A search query is required.", result)
	assert.Empty(t, store.searchCalls)
}

func TestContentSearchTool_LinkLookupFailureKeepsCitation(t *testing.T) {
	store := &stubCorpus{
		searchResults: ports.SearchResults{
			Documents: []string{"passage"},
			Metadata:  []ports.DocumentMeta{{CourseTitle: "Intro to RAG", LessonNumber: intPtr(3)}},
		},
		lessonLinkErr: fmt.Errorf("link service down"),
	}
	tool := NewContentSearchTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "[Intro to RAG - Lesson 3]\npassage", result)

	sources := tool.LastSources()
	require.Len(t, sources, 1)
	assert.Equal(t, "Intro to RAG - Lesson 3", sources[0].Text)
	assert.Empty(t, sources[0].Link)
}

func TestContentSearchTool_MetadataShorterThanDocuments(t *testing.T) {
	store := &stubCorpus{
		searchResults: ports.SearchResults{
			Documents: []string{"passage one", "passage two"},
			Metadata:  []ports.DocumentMeta{{CourseTitle: "Course A"}},
		},
	}
	tool := NewContentSearchTool(store)

	result, err := tool.Execute(context.Background(), json.RawMessage(`{"query":"x"}`))
	require.NoError(t, err)
	assert.Contains(t, result, "[Course A]\npassage one")
	assert.Contains(t, result, "[unknown]\npassage two")
}
