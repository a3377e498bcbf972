package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotforge/robotforge/pkg/models"
)

// erroringLLMClient always responds with an ErrorChunk, simulating a
// provider failure that every agent task must wrap with its own prefix.
type erroringLLMClient struct{}

func (erroringLLMClient) Generate(_ context.Context, _ *GenerateInput) (<-chan Chunk, error) {
	out := make(chan Chunk, 1)
	out <- &ErrorChunk{Message: "provider unavailable"}
	close(out)
	return out, nil
}

func TestPlanner_NameIsAgentPlanner(t *testing.T) {
	require.Equal(t, models.AgentPlanner, Planner{}.Name())
}

func TestPlanner_RunReturnsModelOutputAndUsage(t *testing.T) {
	llm := &scriptedLLMClient{responses: []string{"1. Open the site\n2. Click login"}}

	result, thinking, err := Planner{}.Run(context.Background(), llm, "test-model", TaskInput{
		Query:   models.Query{Text: "log in at https://example.com"},
		Context: "core rules",
	})

	require.NoError(t, err)
	require.Empty(t, thinking)
	require.Equal(t, models.AgentPlanner, result.Agent)
	require.Equal(t, "1. Open the site\n2. Click login", result.Output)
	require.Equal(t, 15, result.Usage.Total)
}

func TestPlanner_RunWrapsProviderError(t *testing.T) {
	llm := &erroringLLMClient{}

	_, _, err := Planner{}.Run(context.Background(), llm, "test-model", TaskInput{Query: models.Query{Text: "log in"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "planner")
}
