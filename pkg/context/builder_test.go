package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotforge/robotforge/pkg/config"
	"github.com/robotforge/robotforge/pkg/models"
	"github.com/robotforge/robotforge/pkg/patternjournal"
)

type fakePredictor struct {
	predicted patternjournal.PredictedPattern
	ok        bool
	err       error
}

func (f *fakePredictor) MostSimilar(_ context.Context, _ string) (patternjournal.PredictedPattern, bool, error) {
	return f.predicted, f.ok, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		RobotLibrary:        config.RobotLibrarySelenium,
		OptimizationEnabled: true,
		PruningEnabled:      true,
		CategoryThreshold:   0.8,
		PredictionThreshold: 0.7,
	}
}

func TestBuilder_IncludesCoreRulesAlways(t *testing.T) {
	b := NewBuilder(testConfig(), &fakePredictor{}, &fakeSearcher{}, nil)

	out, err := b.BuildContext(context.Background(), "log in", models.AgentPlanner)
	require.NoError(t, err)
	require.Contains(t, out, "Core rules (SeleniumLibrary)")
	require.Contains(t, out, chainContextStart)
	require.Contains(t, out, chainContextEnd)
}

func TestBuilder_UsesPredictedTierWhenAboveThreshold(t *testing.T) {
	predictor := &fakePredictor{
		ok: true,
		predicted: patternjournal.PredictedPattern{
			Pattern: models.Pattern{
				QueryText:    "log in and check dashboard",
				KeywordsUsed: []string{"Open Browser", "Click Element"},
			},
			Similarity: 0.9,
		},
	}
	searcher := &fakeSearcher{results: []models.KeywordEntry{{Name: "Open Browser", Documentation: "opens a browser"}}}
	b := NewBuilder(testConfig(), predictor, searcher, nil)

	out, err := b.BuildContext(context.Background(), "log in and view dashboard", models.AgentAssembler)
	require.NoError(t, err)
	require.Contains(t, out, "Predicted keywords")
	require.Contains(t, out, "Open Browser")
	require.NotContains(t, out, "Relevant keywords")
}

func TestBuilder_FallsBackToZeroContextTierBelowThreshold(t *testing.T) {
	predictor := &fakePredictor{
		ok: true,
		predicted: patternjournal.PredictedPattern{
			Pattern:    models.Pattern{KeywordsUsed: []string{"Click Element"}},
			Similarity: 0.1,
		},
	}
	searcher := &fakeSearcher{results: []models.KeywordEntry{{Name: "Click Element", Documentation: "clicks an element"}}}
	b := NewBuilder(testConfig(), predictor, searcher, nil)

	out, err := b.BuildContext(context.Background(), "click the submit button", models.AgentAssembler)
	require.NoError(t, err)
	require.NotContains(t, out, "Predicted keywords")
	require.Contains(t, out, "Relevant keywords")
}

func TestBuilder_FullFallbackWhenNothingElseAvailable(t *testing.T) {
	cfg := testConfig()
	cfg.OptimizationEnabled = false
	searcher := &fakeSearcher{results: []models.KeywordEntry{{Name: "Open Browser"}}}
	b := NewBuilder(cfg, &fakePredictor{}, searcher, nil)

	out, err := b.BuildContext(context.Background(), "anything", models.AgentValidator)
	require.NoError(t, err)
	require.Contains(t, out, "Known keywords (fallback)")
}

func TestBuilder_Learn_AppendsExtractedKeywords(t *testing.T) {
	journal := &recordingPredictor{fakePredictor: fakePredictor{}}
	b := NewBuilder(testConfig(), journal, &fakeSearcher{}, nil)

	script := `*** Test Cases ***
Case
    Open Browser    https://example.com    chrome
    Close Browser
`
	err := b.Learn(context.Background(), "log in", script)
	require.NoError(t, err)
	require.Equal(t, []string{"Open Browser", "Close Browser"}, journal.appended.KeywordsUsed)
}

type recordingPredictor struct {
	fakePredictor
	appended models.Pattern
}

func (r *recordingPredictor) Append(_ context.Context, p models.Pattern) error {
	r.appended = p
	return nil
}
