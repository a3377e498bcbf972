package agent

import (
	"context"
	"fmt"

	"github.com/robotforge/robotforge/pkg/models"
)

// Assembler combines the plan and identified locators with Assembler-role
// context into a draft Robot-Framework-style script.
type Assembler struct{}

func (Assembler) Name() models.AgentName { return models.AgentAssembler }

func (Assembler) Run(ctx context.Context, client LLMClient, model string, in TaskInput) (models.AgentTaskResult, string, error) {
	prompt := fmt.Sprintf(
		"Assemble a complete script from the plan and locators below.\n\n"+
			"Plan:\n%s\n\nLocators:\n%s\n\n"+
			"Emit only the script: *** Settings ***, *** Variables ***, *** Test Cases *** sections, nothing else.",
		in.PlanText, formatLocators(in.Locators),
	)
	text, thinking, usage, err := runCompletion(ctx, client, model, in.Context, prompt)
	if err != nil {
		return models.AgentTaskResult{}, "", fmt.Errorf("assembler: %w", err)
	}
	return models.AgentTaskResult{Agent: models.AgentAssembler, Output: text, Usage: usage}, thinking, nil
}

func formatLocators(locators []CandidateLocator) string {
	if len(locators) == 0 {
		return "(none)"
	}
	out := ""
	for _, l := range locators {
		out += "- " + l.Description + " (" + l.Kind + "): " + l.Locator + "\n"
	}
	return out
}
