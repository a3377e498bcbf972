package agent

import (
	"context"
	"fmt"

	"github.com/robotforge/robotforge/pkg/models"
	"github.com/robotforge/robotforge/pkg/script"
)

// Validator judges a draft script, emitting a structured verdict whose
// reason is user-visible when invalid. The verdict may arrive from the
// model in any of the five forms script.ParseVerdict tolerates.
type Validator struct{}

func (Validator) Name() models.AgentName { return models.AgentValidator }

func (Validator) Run(ctx context.Context, client LLMClient, model string, in TaskInput) (models.AgentTaskResult, string, error) {
	prompt := fmt.Sprintf(
		"Judge whether the script below is a valid, runnable test. "+
			"Respond with a JSON object {\"valid\": bool, \"reason\": string}.\n\nScript:\n%s",
		in.DraftScript,
	)
	text, thinking, usage, err := runCompletion(ctx, client, model, in.Context, prompt)
	if err != nil {
		return models.AgentTaskResult{}, "", fmt.Errorf("validator: %w", err)
	}

	verdict, err := script.ParseVerdict(text)
	if err != nil {
		return models.AgentTaskResult{}, "", fmt.Errorf("validator: %w", err)
	}

	return models.AgentTaskResult{
		Agent:   models.AgentValidator,
		Output:  text,
		Usage:   usage,
		Verdict: verdict,
	}, thinking, nil
}
