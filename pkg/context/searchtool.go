package context

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/robotforge/robotforge/pkg/models"
)

// KeywordSearcher is satisfied by the keyword store's Search method.
// Declared locally so pkg/context never imports pkg/keywordstore directly,
// the same decoupling pkg/agent uses for ContextProvider and ProbeClient.
type KeywordSearcher interface {
	Search(ctx context.Context, query string, k int, library string) ([]models.KeywordEntry, error)
}

type searchCacheKey struct {
	query   string
	k       int
	library string
}

// SearchTool is the zero-context tier's keyword lookup. Builder calls it
// while assembling the context and inlines the results; agents cannot call
// it themselves. It is cached so repeated identical lookups within a run
// don't re-embed the same query.
type SearchTool struct {
	store KeywordSearcher
	cache *lru.Cache[searchCacheKey, []models.KeywordEntry]
}

// searchCacheSize bounds the tool's LRU cache to the last 100 distinct
// (query, k, library) lookups, comfortably above what one workflow run
// issues.
const searchCacheSize = 100

// NewSearchTool builds a SearchTool backed by store.
func NewSearchTool(store KeywordSearcher) *SearchTool {
	cache, err := lru.New[searchCacheKey, []models.KeywordEntry](searchCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which
		// searchCacheSize never is.
		panic(fmt.Sprintf("context: search tool cache: %v", err))
	}
	return &SearchTool{store: store, cache: cache}
}

// Search never returns an error: a failing backend degrades to an empty
// result set rather than propagating upward, so a flaky keyword store
// never aborts a run that could otherwise still succeed on core rules
// alone.
func (s *SearchTool) Search(ctx context.Context, query string, k int, library string) []models.KeywordEntry {
	key := searchCacheKey{query: query, k: k, library: library}
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	results, err := s.store.Search(ctx, query, k, library)
	if err != nil {
		return nil
	}

	s.cache.Add(key, results)
	return results
}
