package context

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotforge/robotforge/pkg/models"
)

type fakeSearcher struct {
	calls   int
	results []models.KeywordEntry
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int, _ string) ([]models.KeywordEntry, error) {
	f.calls++
	return f.results, f.err
}

func TestSearchTool_CachesRepeatedLookups(t *testing.T) {
	fake := &fakeSearcher{results: []models.KeywordEntry{{Name: "Click Element"}}}
	tool := NewSearchTool(fake)

	first := tool.Search(context.Background(), "click the button", 3, "")
	second := tool.Search(context.Background(), "click the button", 3, "")

	require.Equal(t, first, second)
	require.Equal(t, 1, fake.calls)
}

func TestSearchTool_DegradesToEmptyOnBackendError(t *testing.T) {
	fake := &fakeSearcher{err: errors.New("backend unavailable")}
	tool := NewSearchTool(fake)

	results := tool.Search(context.Background(), "anything", 3, "")
	require.Empty(t, results)
}

func TestSearchTool_DistinguishesByLibraryFilter(t *testing.T) {
	fake := &fakeSearcher{results: []models.KeywordEntry{{Name: "Click"}}}
	tool := NewSearchTool(fake)

	tool.Search(context.Background(), "click", 3, "selenium")
	tool.Search(context.Background(), "click", 3, "browser")

	require.Equal(t, 2, fake.calls)
}
