package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/robotforge/robotforge/pkg/models"
)

// ContextProvider is the C3 contract consumed by C4. Declared here (rather
// than imported as a concrete type) so pkg/agent never depends on how
// context is built — only pkg/context implements it.
type ContextProvider interface {
	BuildContext(ctx context.Context, query string, role models.AgentName) (string, error)
}

// ProbeClient is the external browser-probing collaborator contract the
// identifier agent calls to obtain candidate locators (see pkg/probe).
type ProbeClient interface {
	IdentifyLocators(ctx context.Context, targetURL string, plan string) ([]CandidateLocator, error)
}

// CandidateLocator is one locator candidate returned by the probe
// collaborator, already validated against the live page.
type CandidateLocator struct {
	Description string
	Locator     string
	Kind        string // "click", "input", "assertion", ...
}

// TaskInput is the read-only input every agent task receives. Task
// implementations read only the fields they need.
type TaskInput struct {
	Query       models.Query
	Context     string // role-specific context string from C3
	PlanText    string // Planner's output, available from Identifier onward
	Locators    []CandidateLocator
	DraftScript string // Assembler's output, available to Validator
	TargetURL   string
}

// Task is implemented by each of the four pipeline stages. The returned
// thinking string is the model's internal reasoning, if the provider
// emitted any (*agent.ThinkingChunk), kept out of Output. Runner discards
// it, so no Event carries it.
type Task interface {
	Name() models.AgentName
	Run(ctx context.Context, llmClient LLMClient, model string, input TaskInput) (result models.AgentTaskResult, thinking string, err error)
}

// runCompletion drives a single-turn completion through llmClient, merging
// all TextChunk content into one string and accumulating token usage.
// ThinkingChunk content is ignored for the merged text but returned
// separately. Any ErrorChunk
// short-circuits with a Go error, since once streaming has started the
// client delivers failures in-band rather than via a non-nil return.
func runCompletion(ctx context.Context, client LLMClient, model, system, prompt string) (text, thinking string, usage models.TokenUsage, err error) {
	chunks, err := client.Generate(ctx, &GenerateInput{
		Model:  model,
		System: system,
		Messages: []ConversationMessage{
			{Role: RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", "", models.TokenUsage{}, fmt.Errorf("agent: generate: %w", err)
	}

	var textBuf, thinkBuf strings.Builder
	for chunk := range chunks {
		switch c := chunk.(type) {
		case *TextChunk:
			textBuf.WriteString(c.Content)
		case *ThinkingChunk:
			thinkBuf.WriteString(c.Content)
		case *UsageChunk:
			usage = models.TokenUsage{Prompt: c.InputTokens, Completion: c.OutputTokens, Total: c.TotalTokens}
		case *ErrorChunk:
			return "", "", models.TokenUsage{}, fmt.Errorf("agent: provider error: %s", c.Message)
		}
	}
	return textBuf.String(), thinkBuf.String(), usage, nil
}
