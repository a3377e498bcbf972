// Package context builds the compact, role-specific context string C4
// hands to each agent: a fixed core-rules block, plus predicted keyword
// documentation when C2 has seen a similar query before, plus
// category-pruned keyword search results when it hasn't.
package context

import (
	"context"
	"math"
	"strings"
)

// Category is one action category used to prune keyword search results to
// those plausibly relevant to the query (navigation, input, interaction,
// extraction, assertion, wait).
type Category struct {
	Name        string
	Description string
	embedding   []float32
}

// defaultCategories are the fixed, built-in action categories. Their
// reference embeddings are computed once at startup (see NewClassifier)
// rather than recomputed per query.
var defaultCategories = []Category{
	{Name: "navigation", Description: "open a browser, navigate to a URL, go to a page, visit a site"},
	{Name: "input", Description: "type text, fill a field, enter a value, select a dropdown option"},
	{Name: "interaction", Description: "click a button, link, or element, hover, drag and drop"},
	{Name: "extraction", Description: "read the text or attribute of an element, capture a value"},
	{Name: "assertion", Description: "verify, check, or assert that a page contains expected content"},
	{Name: "wait", Description: "wait for an element to appear, become visible, or become enabled"},
}

// Embedder computes a vector embedding for a piece of text. The keyword
// store's embedding function satisfies this signature, so the classifier
// and the keyword store can share one embedding strategy.
type Embedder func(ctx context.Context, text string) ([]float32, error)

// Classifier prunes a set of keywords to those belonging to categories the
// query is plausibly about, per the query classifier in §4.2.
type Classifier struct {
	embed      Embedder
	categories []Category
}

// NewClassifier precomputes each category's reference embedding.
func NewClassifier(ctx context.Context, embed Embedder) (*Classifier, error) {
	categories := make([]Category, len(defaultCategories))
	copy(categories, defaultCategories)

	for i := range categories {
		vec, err := embed(ctx, categories[i].Description)
		if err != nil {
			return nil, err
		}
		categories[i].embedding = vec
	}

	return &Classifier{embed: embed, categories: categories}, nil
}

// Classify returns the names of categories whose cosine similarity to
// query is at least threshold. When none clear the threshold, it
// gracefully degrades by returning every category name — pruning then
// becomes a no-op rather than an over-aggressive filter.
func (c *Classifier) Classify(ctx context.Context, query string, threshold float64) ([]string, error) {
	vec, err := c.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	var selected []string
	for _, cat := range c.categories {
		if cosineSimilarity(vec, cat.embedding) >= threshold {
			selected = append(selected, cat.Name)
		}
	}

	if len(selected) == 0 {
		selected = make([]string, len(c.categories))
		for i, cat := range c.categories {
			selected[i] = cat.Name
		}
	}
	return selected, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// keywordCategory classifies a single keyword (not the query) by which
// action category its name most resembles — a cheap heuristic over its
// verb, since keyword documentation is normally too short to embed
// reliably on its own.
func keywordCategory(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "open") || strings.Contains(lower, "navigate") || strings.Contains(lower, "go to"):
		return "navigation"
	case strings.Contains(lower, "input") || strings.Contains(lower, "type") || strings.Contains(lower, "fill") || strings.Contains(lower, "select"):
		return "input"
	case strings.Contains(lower, "click") || strings.Contains(lower, "hover") || strings.Contains(lower, "drag"):
		return "interaction"
	case strings.Contains(lower, "get") || strings.Contains(lower, "capture") || strings.Contains(lower, "read"):
		return "extraction"
	case strings.Contains(lower, "should") || strings.Contains(lower, "verify") || strings.Contains(lower, "assert") || strings.Contains(lower, "contain"):
		return "assertion"
	case strings.Contains(lower, "wait"):
		return "wait"
	default:
		return ""
	}
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
