package agent

import (
	"context"
	"fmt"

	"github.com/robotforge/robotforge/pkg/models"
)

// Planner turns the raw query into a sequence of atomic steps: one
// navigation, one input, one click, one assertion per step.
type Planner struct{}

func (Planner) Name() models.AgentName { return models.AgentPlanner }

func (Planner) Run(ctx context.Context, client LLMClient, model string, in TaskInput) (models.AgentTaskResult, string, error) {
	prompt := fmt.Sprintf(
		"Plan the UI test described below as a numbered list of atomic steps. "+
			"One navigation, one input, one click, or one assertion per step.\n\nTest description:\n%s",
		in.Query.Text,
	)
	text, thinking, usage, err := runCompletion(ctx, client, model, in.Context, prompt)
	if err != nil {
		return models.AgentTaskResult{}, "", fmt.Errorf("planner: %w", err)
	}
	return models.AgentTaskResult{Agent: models.AgentPlanner, Output: text, Usage: usage}, thinking, nil
}
