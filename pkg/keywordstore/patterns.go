package keywordstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/philippgille/chromem-go"

	"github.com/robotforge/robotforge/pkg/models"
)

// patternCollectionName is C2's embedding collection: one document per
// successful run's query text, used only for nearest-neighbor similarity
// search over past queries. Keyword usage counts are a separate concern
// and stay in Postgres (pkg/patternjournal) — mirroring the upstream
// split of a ChromaDB query-embedding store from a SQL stats table.
const patternCollectionName = "patterns"

// PatternStore wraps a second chromem-go collection, embedding past query
// text so C2 can rank prior requests by semantic similarity rather than
// lexical overlap. It shares no state with Store beyond the library
// import; callers typically point both at the same on-disk chromem-go
// file so one process owns one set of collections.
type PatternStore struct {
	mu    sync.RWMutex
	col   *chromem.Collection
	count int
}

// NewPatternStore opens (or creates) the pattern collection inside an
// already-open chromem-go database, such as the one backing Store.
func NewPatternStore(db *chromem.DB) (*PatternStore, error) {
	col, err := db.GetOrCreateCollection(patternCollectionName, nil, Embed)
	if err != nil {
		return nil, fmt.Errorf("keywordstore: get or create pattern collection: %w", err)
	}
	return &PatternStore{col: col, count: col.Count()}, nil
}

// Add embeds a pattern's query text and records which keywords the run
// that produced it used, plus when. The document ID is a monotonic
// counter rather than a hash of the query, so repeated identical queries
// are stored as distinct points rather than colliding.
func (p *PatternStore) Add(ctx context.Context, pattern models.Pattern) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	keywordsJSON, err := json.Marshal(pattern.KeywordsUsed)
	if err != nil {
		return fmt.Errorf("keywordstore: encode pattern keywords: %w", err)
	}

	doc := chromem.Document{
		ID:      strconv.Itoa(p.count) + "-" + strconv.FormatInt(pattern.Timestamp.UnixNano(), 10),
		Content: pattern.QueryText,
		Metadata: map[string]string{
			"keywords_used": string(keywordsJSON),
			"timestamp":     pattern.Timestamp.Format(time.RFC3339Nano),
		},
	}
	if err := p.col.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
		return fmt.Errorf("keywordstore: add pattern: %w", err)
	}
	p.count++
	return nil
}

// MostSimilar returns the single closest embedded query to query, by
// cosine similarity (higher is better, in [0,1] for the normalized text
// embeddings Embed produces). Returns ok=false when the collection is
// empty.
func (p *PatternStore) MostSimilar(ctx context.Context, query string) (pattern models.Pattern, similarity float64, ok bool, err error) {
	p.mu.RLock()
	col := p.col
	p.mu.RUnlock()

	if col.Count() == 0 {
		return models.Pattern{}, 0, false, nil
	}

	results, err := col.Query(ctx, query, 1, nil, nil)
	if err != nil {
		return models.Pattern{}, 0, false, fmt.Errorf("keywordstore: most similar pattern: %w", err)
	}
	if len(results) == 0 {
		return models.Pattern{}, 0, false, nil
	}

	r := results[0]
	var keywords []string
	if err := json.Unmarshal([]byte(r.Metadata["keywords_used"]), &keywords); err != nil {
		return models.Pattern{}, 0, false, fmt.Errorf("keywordstore: decode pattern keywords: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, r.Metadata["timestamp"])
	if err != nil {
		return models.Pattern{}, 0, false, fmt.Errorf("keywordstore: decode pattern timestamp: %w", err)
	}

	return models.Pattern{
		QueryText:    r.Content,
		KeywordsUsed: keywords,
		Timestamp:    ts,
	}, float64(r.Similarity), true, nil
}

// Count returns the number of embedded past queries.
func (p *PatternStore) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.col.Count()
}
