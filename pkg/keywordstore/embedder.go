package keywordstore

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// embeddingDims is the fixed dimensionality of the hashing embedding.
// Chosen small enough to keep the store cheap for a few thousand keyword
// documentation strings.
const embeddingDims = 128

// Embed is the default embedding function: a deterministic hashed
// bag-of-words projection (no model call, no network, no API key). It is
// intentionally crude — good enough to cluster documentation strings that
// share vocabulary, never intended as a quality bar for semantic search.
//
// Both New (see store.go) and NewPatternStore pass Embed to chromem-go as
// their collection's embedding function; neither accepts another one.
func Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, embeddingDims)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[int(h.Sum32())%embeddingDims]++
	}
	normalize(vec)
	return vec, nil
}

func normalize(vec []float32) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSquares))
	for i := range vec {
		vec[i] /= norm
	}
}
