// Package patternjournal is C2: it logs which keywords a successful run
// actually used and predicts keywords for a new query by finding the most
// semantically similar past query. The durable log and keyword usage
// counters live in Postgres; the similarity search itself is delegated to
// a chromem-go embedding collection (pkg/keywordstore.PatternStore), since
// ranking past queries by intent is a nearest-neighbor problem, not a
// relational one.
package patternjournal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robotforge/robotforge/pkg/models"
)

// PatternEmbedder is satisfied by *keywordstore.PatternStore. Declared
// locally so Journal can be tested against a fake without chromem-go.
type PatternEmbedder interface {
	Add(ctx context.Context, pattern models.Pattern) error
	MostSimilar(ctx context.Context, query string) (models.Pattern, float64, bool, error)
}

// Journal pairs the Postgres-backed durable pattern log and keyword usage
// counters with the embedding collection used for similarity search.
// Patterns are appended, never mutated in place; keyword counters are
// maintained by upsert+increment alongside each append.
type Journal struct {
	db       *sql.DB
	embedder PatternEmbedder
}

// New wraps an already-migrated *sql.DB and the pattern embedding
// collection backing semantic similarity search.
func New(db *sql.DB, embedder PatternEmbedder) *Journal {
	return &Journal{db: db, embedder: embedder}
}

// Append records a new Pattern in the durable Postgres log, increments
// the usage counter for each of its keywords, and embeds the query text
// into the pattern collection so future queries can find it by
// similarity. The Postgres write and the embedding write are not
// transactional with each other — a crash between them leaves the
// pattern logged but not yet searchable, which only degrades C3 back to
// its zero-context tier rather than corrupting anything.
func (j *Journal) Append(ctx context.Context, p models.Pattern) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("patternjournal: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	keywordsJSON, err := json.Marshal(p.KeywordsUsed)
	if err != nil {
		return fmt.Errorf("patternjournal: encode keywords: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO patterns (query_text, keywords_used, created_at) VALUES ($1, $2, $3)`,
		p.QueryText, keywordsJSON, p.Timestamp,
	); err != nil {
		return fmt.Errorf("patternjournal: insert pattern: %w", err)
	}

	for _, kw := range p.KeywordsUsed {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO keyword_usage (keyword, usage_count, last_used) VALUES ($1, 1, $2)
			 ON CONFLICT (keyword) DO UPDATE SET usage_count = keyword_usage.usage_count + 1, last_used = $2`,
			kw, p.Timestamp,
		); err != nil {
			return fmt.Errorf("patternjournal: upsert usage for %q: %w", kw, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("patternjournal: commit: %w", err)
	}

	if j.embedder != nil {
		if err := j.embedder.Add(ctx, p); err != nil {
			return fmt.Errorf("patternjournal: embed pattern: %w", err)
		}
	}
	return nil
}

// PredictedPattern is one candidate pattern C3 can use to seed the
// predicted-keywords tier, paired with its similarity to the query.
type PredictedPattern struct {
	Pattern    models.Pattern
	Similarity float64
}

// MostSimilar returns the single closest recorded pattern to query, by
// embedding similarity against the pattern collection. Returns ok=false
// when the collection is empty or no embedder is configured.
func (j *Journal) MostSimilar(ctx context.Context, query string) (PredictedPattern, bool, error) {
	if j.embedder == nil {
		return PredictedPattern{}, false, nil
	}
	pattern, similarity, ok, err := j.embedder.MostSimilar(ctx, query)
	if err != nil {
		return PredictedPattern{}, false, fmt.Errorf("patternjournal: most similar: %w", err)
	}
	if !ok {
		return PredictedPattern{}, false, nil
	}
	return PredictedPattern{Pattern: pattern, Similarity: similarity}, true, nil
}

// UsageCounters returns the current usage counter for each of the given
// keywords. Keywords absent from the journal are omitted from the result
// rather than returned with a zero count, so callers can distinguish
// "never used" from "used zero times" (the latter cannot occur).
func (j *Journal) UsageCounters(ctx context.Context, keywords []string) (map[string]models.KeywordUsage, error) {
	if len(keywords) == 0 {
		return map[string]models.KeywordUsage{}, nil
	}

	placeholders := make([]string, len(keywords))
	args := make([]any, len(keywords))
	for i, kw := range keywords {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = kw
	}
	query := fmt.Sprintf(
		`SELECT keyword, usage_count, last_used FROM keyword_usage WHERE keyword IN (%s)`,
		strings.Join(placeholders, ","),
	)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("patternjournal: usage counters: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.KeywordUsage, len(keywords))
	for rows.Next() {
		var u models.KeywordUsage
		if err := rows.Scan(&u.Keyword, &u.UsageCount, &u.LastUsed); err != nil {
			return nil, fmt.Errorf("patternjournal: scan usage counter: %w", err)
		}
		out[u.Keyword] = u
	}
	return out, rows.Err()
}
