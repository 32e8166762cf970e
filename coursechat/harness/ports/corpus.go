package harnessports

import "context"

// DocumentMeta locates a matched passage within the corpus.
type DocumentMeta struct {
	CourseTitle  string
	LessonNumber *int // nil when the chunk is not tied to a lesson
}

// SearchResults carries ranked passages with parallel metadata. Err holds a
// recoverable retrieval problem the model should see as plain text; it is not
// a fault.
type SearchResults struct {
	Documents []string
	Metadata  []DocumentMeta
	Err       string
}

// IsEmpty reports whether the search matched nothing.
func (r SearchResults) IsEmpty() bool { return len(r.Documents) == 0 }

// CourseMetadata is the catalog entry for one course. Lessons travel as the
// stored JSON payload; callers own the parse and its failure policy.
type CourseMetadata struct {
	Title       string
	Link        string
	Instructor  string
	LessonsJSON string // serialized [{"lesson_number": n, "lesson_title": "..."}]
}

// CorpusStore is the retrieval boundary over the course corpus. Errors from
// these methods are collaborator faults; retrieval-level problems (no match,
// unresolvable name) are reported in-band.
type CorpusStore interface {
	// Search returns ranked passages for the query, optionally filtered by
	// course name (fuzzy-matched) and lesson number.
	Search(ctx context.Context, query, courseName string, lessonNumber *int) (SearchResults, error)

	// ResolveCourseName maps a partial title to the canonical course title.
	// "" means no course matched.
	ResolveCourseName(ctx context.Context, partial string) (string, error)

	// GetCourseMetadata fetches the catalog entry for a canonical title.
	GetCourseMetadata(ctx context.Context, title string) (CourseMetadata, error)

	// GetLessonLink returns the lesson URL, or "" when none is recorded.
	// Link resolution is best-effort decoration for citations: callers keep
	// the citation without a link on error instead of failing the query.
	GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error)
}
