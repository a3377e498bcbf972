package context

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robotforge/robotforge/pkg/config"
	"github.com/robotforge/robotforge/pkg/models"
	"github.com/robotforge/robotforge/pkg/patternjournal"
)

const (
	chainContextStart = "<!-- CHAIN_CONTEXT_START -->"
	chainContextEnd   = "<!-- CHAIN_CONTEXT_END -->"

	defaultSearchK     = 3
	fullFallbackLimit  = 20
	predictedKeywordsK = 1
)

// PatternPredictor is satisfied by patternjournal.Journal. Declared locally
// so Builder's dependency on the journal can be swapped in tests without
// standing up Postgres.
type PatternPredictor interface {
	MostSimilar(ctx context.Context, query string) (patternjournal.PredictedPattern, bool, error)
}

// Builder implements agent.ContextProvider: it assembles the tiered
// context string handed to each agent, following a three-tier retrieval
// policy. It never returns an error from BuildContext — a failing journal
// falls through to the next tier, and a keyword store that yields nothing
// leaves the core-rules block alone, rather than aborting the run,
// formatting only what it has.
type Builder struct {
	cfg        *config.Config
	journal    PatternPredictor
	keywords   KeywordSearcher
	classifier *Classifier
	search     *SearchTool
}

// NewBuilder wires a Builder from its already-constructed collaborators.
// classifier may be nil, in which case category pruning is skipped and the
// zero-context tier searches unfiltered.
func NewBuilder(cfg *config.Config, journal PatternPredictor, keywords KeywordSearcher, classifier *Classifier) *Builder {
	return &Builder{
		cfg:        cfg,
		journal:    journal,
		keywords:   keywords,
		classifier: classifier,
		search:     NewSearchTool(keywords),
	}
}

// BuildContext implements agent.ContextProvider.
func (b *Builder) BuildContext(ctx context.Context, query string, role models.AgentName) (string, error) {
	var sb strings.Builder
	sb.WriteString(chainContextStart)
	sb.WriteString("\n\n")

	sb.WriteString(config.CoreRules(b.cfg.RobotLibrary, config.AgentRole(role)))
	sb.WriteString("\n\n")

	if !b.cfg.OptimizationEnabled {
		b.writeFullFallback(ctx, &sb, query)
		sb.WriteString(chainContextEnd)
		return sb.String(), nil
	}

	wrote := b.writePredictedTier(ctx, &sb, query)
	if !wrote {
		wrote = b.writeZeroContextTier(ctx, &sb, query)
	}
	if !wrote {
		b.writeFullFallback(ctx, &sb, query)
	}

	sb.WriteString(chainContextEnd)
	return sb.String(), nil
}

// writePredictedTier appends the predicted-keywords section when the
// journal holds a sufficiently similar prior query. Returns false (writing
// nothing) when the journal is empty, errors, or the best match falls
// below T_pred.
func (b *Builder) writePredictedTier(ctx context.Context, sb *strings.Builder, query string) bool {
	if b.journal == nil {
		return false
	}
	predicted, ok, err := b.journal.MostSimilar(ctx, query)
	if err != nil || !ok {
		return false
	}
	if predicted.Similarity < b.cfg.PredictionThreshold {
		return false
	}
	if len(predicted.Pattern.KeywordsUsed) == 0 {
		return false
	}

	sb.WriteString("### Predicted keywords\n")
	sb.WriteString(fmt.Sprintf("A similar prior request (similarity %.2f) used:\n", predicted.Similarity))
	for _, kw := range predicted.Pattern.KeywordsUsed {
		doc := b.lookupDocumentation(ctx, kw)
		if doc != "" {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", kw, doc))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", kw))
		}
	}
	sb.WriteString("\n")
	return true
}

// writeZeroContextTier appends a category-pruned keyword search result.
// Returns false when classification and search both produce nothing
// usable, signaling the caller to fall all the way back.
func (b *Builder) writeZeroContextTier(ctx context.Context, sb *strings.Builder, query string) bool {
	if b.keywords == nil {
		return false
	}

	var categories []string
	if b.classifier != nil && b.cfg.PruningEnabled {
		cats, err := b.classifier.Classify(ctx, query, b.cfg.CategoryThreshold)
		if err == nil {
			categories = cats
		}
	}

	results := b.search.Search(ctx, query, defaultSearchK, "")
	if len(categories) > 0 {
		results = pruneByCategory(results, categories)
	}
	if len(results) == 0 {
		return false
	}

	sb.WriteString("### Relevant keywords\n")
	for _, kw := range results {
		sb.WriteString(fmt.Sprintf("- %s(%s): %s\n", kw.Name, kw.Args, kw.Documentation))
	}
	sb.WriteString("\n")
	return true
}

// writeFullFallback dumps as many known keywords as fullFallbackLimit
// allows. Used when optimization is disabled or both tiers above come up
// empty, so an agent is never left with only the core rules when keyword
// documentation exists to give it.
func (b *Builder) writeFullFallback(ctx context.Context, sb *strings.Builder, query string) {
	if b.keywords == nil {
		return
	}
	results := b.search.Search(ctx, query, fullFallbackLimit, "")
	if len(results) == 0 {
		return
	}
	sb.WriteString("### Known keywords (fallback)\n")
	for _, kw := range results {
		sb.WriteString(fmt.Sprintf("- %s(%s): %s\n", kw.Name, kw.Args, kw.Documentation))
	}
	sb.WriteString("\n")
}

func (b *Builder) lookupDocumentation(ctx context.Context, keywordName string) string {
	if b.keywords == nil {
		return ""
	}
	results := b.search.Search(ctx, keywordName, predictedKeywordsK, "")
	if len(results) == 0 {
		return ""
	}
	return results[0].Documentation
}

func pruneByCategory(entries []models.KeywordEntry, categories []string) []models.KeywordEntry {
	var pruned []models.KeywordEntry
	for _, e := range entries {
		cat := keywordCategory(e.Name)
		if cat == "" || containsCategory(categories, cat) {
			pruned = append(pruned, e)
		}
	}
	return pruned
}

// Learn records a completed, successful run's query and the keywords its
// final script used, so future similar queries can hit the predicted tier.
func (b *Builder) Learn(ctx context.Context, query, finishedScript string) error {
	if b.journal == nil {
		return nil
	}
	keywords := ExtractKeywords(finishedScript)
	if len(keywords) == 0 {
		return nil
	}
	journal, ok := b.journal.(interface {
		Append(ctx context.Context, p models.Pattern) error
	})
	if !ok {
		return nil
	}
	return journal.Append(ctx, models.Pattern{
		QueryText:    query,
		KeywordsUsed: keywords,
		Timestamp:    time.Now(),
	})
}
