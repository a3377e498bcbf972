package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/robotforge/robotforge/pkg/models"
)

// Identifier invokes the external browser-probing collaborator to obtain
// candidate locators for the plan's interaction points, validated
// up-front against the live page rather than hallucinated by the model.
type Identifier struct {
	Probe ProbeClient
}

func (Identifier) Name() models.AgentName { return models.AgentIdentifier }

func (a Identifier) Run(ctx context.Context, client LLMClient, model string, in TaskInput) (models.AgentTaskResult, string, error) {
	targetURL := in.TargetURL
	if targetURL == "" {
		targetURL = ExtractURL(in.Query.Text)
	}

	locators, err := a.Probe.IdentifyLocators(ctx, targetURL, in.PlanText)
	if err != nil {
		return models.AgentTaskResult{}, "", fmt.Errorf("identifier: probe: %w", err)
	}

	var b strings.Builder
	for _, l := range locators {
		fmt.Fprintf(&b, "- %s (%s): %s\n", l.Description, l.Kind, l.Locator)
	}

	return models.AgentTaskResult{Agent: models.AgentIdentifier, Output: b.String()}, "", nil
}
