// Package keywordstore is the C1 vector keyword store: an embedded,
// disk-backed vector index over KeywordEntry documentation, searchable by
// free-text similarity and filterable by library.
package keywordstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/robotforge/robotforge/pkg/models"
)

// collectionName is the single chromem-go collection backing the store.
// Library is carried as document metadata rather than a separate
// collection per library, so a query can span all libraries when the
// caller has no library preference yet (e.g. during classification).
const collectionName = "keywords"

// Store wraps a chromem-go collection of KeywordEntry documents. Entries
// are immutable once ingested; Rebuild replaces the whole collection
// wholesale rather than attempting a diff-based update. The store records
// no library version.
type Store struct {
	mu  sync.RWMutex
	db  *chromem.DB
	col *chromem.Collection
}

// New opens (or creates) a persistent chromem-go database at path. An
// empty path keeps the store in memory only — used by tests.
func New(path string) (*Store, error) {
	var db *chromem.DB
	var err error
	if path != "" {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("keywordstore: open %s: %w", path, err)
		}
	} else {
		db = chromem.NewDB()
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, Embed)
	if err != nil {
		return nil, fmt.Errorf("keywordstore: get or create collection: %w", err)
	}

	return &Store{db: db, col: col}, nil
}

func docID(library, name string) string { return library + "::" + name }

// Upsert ingests or replaces a single KeywordEntry.
func (s *Store) Upsert(ctx context.Context, e models.KeywordEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := chromem.Document{
		ID:      docID(e.Library, e.Name),
		Content: e.Name + " " + e.Args + " " + e.Documentation,
		Metadata: map[string]string{
			"name":    e.Name,
			"args":    e.Args,
			"library": e.Library,
		},
	}
	if err := s.col.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
		return fmt.Errorf("keywordstore: upsert %s: %w", doc.ID, err)
	}
	return nil
}

// Rebuild replaces the entire collection's contents with entries. Its only
// caller in this module is SeedIfEmpty; no version check triggers it.
func (s *Store) Rebuild(ctx context.Context, entries []models.KeywordEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("keywordstore: drop collection: %w", err)
	}
	col, err := s.db.GetOrCreateCollection(collectionName, nil, Embed)
	if err != nil {
		return fmt.Errorf("keywordstore: recreate collection: %w", err)
	}
	s.col = col

	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, chromem.Document{
			ID:      docID(e.Library, e.Name),
			Content: e.Name + " " + e.Args + " " + e.Documentation,
			Metadata: map[string]string{
				"name":    e.Name,
				"args":    e.Args,
				"library": e.Library,
			},
		})
	}
	if len(docs) == 0 {
		return nil
	}
	if err := col.AddDocuments(ctx, docs, 4); err != nil {
		return fmt.Errorf("keywordstore: bulk ingest: %w", err)
	}
	return nil
}

// Search returns the k closest KeywordEntry documents to query, optionally
// restricted to a single library. Returns an empty slice (never an error)
// when the collection is empty — callers treat "no results" as a normal
// outcome, not a failure.
func (s *Store) Search(ctx context.Context, query string, k int, library string) ([]models.KeywordEntry, error) {
	s.mu.RLock()
	col := s.col
	s.mu.RUnlock()

	if col.Count() == 0 {
		return nil, nil
	}
	if k > col.Count() {
		k = col.Count()
	}

	var where map[string]string
	if library != "" {
		where = map[string]string{"library": library}
	}

	results, err := col.Query(ctx, query, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("keywordstore: search: %w", err)
	}

	out := make([]models.KeywordEntry, 0, len(results))
	for _, r := range results {
		out = append(out, models.KeywordEntry{
			Name:          r.Metadata["name"],
			Args:          r.Metadata["args"],
			Documentation: r.Content,
			Library:       r.Metadata["library"],
		})
	}
	return out, nil
}

// Count returns the number of ingested keyword documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col.Count()
}

// DB returns the underlying chromem-go database, so a second collection
// (the C2 pattern store) can be opened against the same on-disk file
// without each package managing its own chromem.DB lifecycle.
func (s *Store) DB() *chromem.DB {
	return s.db
}
