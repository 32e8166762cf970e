// Package corpus provides decorators over the CorpusStore port.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/xetalita/coursechat/coursechat/harness/ports"
)

// CachedStore memoizes Search results from an underlying store. Error-bearing
// results are never cached so transient store failures retry on the next call.
type CachedStore struct {
	inner      ports.CorpusStore
	cache      ports.Cache
	ttlSeconds int
}

// NewCachedStore wraps inner with a search cache.
func NewCachedStore(inner ports.CorpusStore, cache ports.Cache, ttlSeconds int) *CachedStore {
	return &CachedStore{inner: inner, cache: cache, ttlSeconds: ttlSeconds}
}

// searchKey renders the search tuple as a cache key. The variable-length
// components are hashed so no query or course string can bleed into a
// neighboring field and collide with a different tuple.
func searchKey(query, courseName string, lessonNumber *int) string {
	lesson := "-"
	if lessonNumber != nil {
		lesson = fmt.Sprintf("%d", *lessonNumber)
	}
	return fmt.Sprintf("search|q:%s|c:%s|l:%s", hashString(query), hashString(courseName), lesson)
}

// hashString creates a simple hash of a string for cache key generation.
func hashString(s string) string {
	// djb2 for deterministic but short keys
	hash := uint32(5381)
	for _, r := range s {
		hash = ((hash << 5) + hash) + uint32(r)
	}
	return fmt.Sprintf("%08x", hash)
}

func (s *CachedStore) Search(ctx context.Context, query, courseName string, lessonNumber *int) (ports.SearchResults, error) {
	key := searchKey(query, courseName, lessonNumber)

	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached ports.SearchResults
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Unreadable entry, drop it and fall through to the store.
		_ = s.cache.Delete(ctx, key)
	}

	results, err := s.inner.Search(ctx, query, courseName, lessonNumber)
	if err != nil {
		return results, err
	}

	if results.Err == "" {
		if raw, err := json.Marshal(results); err == nil {
			_ = s.cache.Set(ctx, key, raw, s.ttlSeconds)
		}
	}

	return results, nil
}

func (s *CachedStore) ResolveCourseName(ctx context.Context, partial string) (string, error) {
	return s.inner.ResolveCourseName(ctx, partial)
}

func (s *CachedStore) GetCourseMetadata(ctx context.Context, title string) (ports.CourseMetadata, error) {
	return s.inner.GetCourseMetadata(ctx, title)
}

func (s *CachedStore) GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, error) {
	return s.inner.GetLessonLink(ctx, courseTitle, lessonNumber)
}

var _ ports.CorpusStore = (*CachedStore)(nil)
