package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/robotforge/robotforge/pkg/models"
)

// PipelineResult is the Agent Runner's output: the draft script, the
// validator's verdict, and token accounting at run/agent granularity.
type PipelineResult struct {
	Script          string
	Verdict         *models.ValidatorVerdict
	TargetURL       string
	Usage           models.TokenUsage
	PerAgent        map[models.AgentName]models.TokenUsage
	SuccessfulCalls int
}

// Runner drives the four-agent pipeline sequentially, handing off each
// stage's output to the next and collecting token metrics: a thin wiring
// layer around one LLM call per stage, except the identifier, which calls
// the probe collaborator instead.
type Runner struct {
	llmClient       LLMClient
	model           string
	contextProvider ContextProvider
	maxIterations   int
	planner         Task
	identifier      Task
	assembler       Task
	validator       Task
}

// NewRunner wires the four stage tasks together. maxIterations bounds
// retries for the planner, identifier, and assembler stages only — the
// validator is never retried.
func NewRunner(llmClient LLMClient, model string, contextProvider ContextProvider, probe ProbeClient, maxIterations int) *Runner {
	return &Runner{
		llmClient:       llmClient,
		model:           model,
		contextProvider: contextProvider,
		maxIterations:   maxIterations,
		planner:         &Planner{},
		identifier:      &Identifier{Probe: probe},
		assembler:       &Assembler{},
		validator:       &Validator{},
	}
}

// StageFunc is invoked by Run after each stage completes, letting the
// caller (the orchestrator) emit a progress event without the runner
// knowing anything about events.
type StageFunc func(stage models.AgentName, result models.AgentTaskResult)

// Run executes the pipeline for query and returns the final result.
func (r *Runner) Run(ctx context.Context, query models.Query, onStage StageFunc) (*PipelineResult, error) {
	result := &PipelineResult{PerAgent: make(map[models.AgentName]models.TokenUsage)}

	planResult, err := r.runStage(ctx, r.planner, query, TaskInput{Query: query})
	if err != nil {
		return nil, fmt.Errorf("agent: planner: %w", err)
	}
	result.record(planResult)
	if onStage != nil {
		onStage(models.AgentPlanner, planResult)
	}

	targetURL := ExtractURL(query.Text)
	idResult, err := r.runStage(ctx, r.identifier, query, TaskInput{
		Query:     query,
		PlanText:  planResult.Output,
		TargetURL: targetURL,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: identifier: %w", err)
	}
	result.record(idResult)
	result.TargetURL = targetURL
	if onStage != nil {
		onStage(models.AgentIdentifier, idResult)
	}

	locators := parseLocatorSummary(idResult.Output)
	asmResult, err := r.runStage(ctx, r.assembler, query, TaskInput{
		Query:    query,
		PlanText: planResult.Output,
		Locators: locators,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: assembler: %w", err)
	}
	result.record(asmResult)
	result.Script = asmResult.Output
	if onStage != nil {
		onStage(models.AgentAssembler, asmResult)
	}

	// The validator is never retried: it runs exactly once against the
	// draft script, per §4.3.
	valResult, _, err := r.validator.Run(ctx, r.llmClient, r.model, TaskInput{
		Query:       query,
		DraftScript: asmResult.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: validator: %w", err)
	}
	result.record(valResult)
	result.Verdict = valResult.Verdict
	if onStage != nil {
		onStage(models.AgentValidator, valResult)
	}

	return result, nil
}

// runStage invokes task, building its role-specific context via
// contextProvider, and retries up to maxIterations times on error.
func (r *Runner) runStage(ctx context.Context, task Task, query models.Query, input TaskInput) (models.AgentTaskResult, error) {
	name := task.Name()

	var taskContext string
	if r.contextProvider != nil {
		c, err := r.contextProvider.BuildContext(ctx, query.Text, name)
		if err == nil {
			taskContext = c
		}
	}
	input.Context = taskContext

	var lastErr error
	attempts := r.maxIterations
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		result, _, err := task.Run(ctx, r.llmClient, r.model, input)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return models.AgentTaskResult{}, lastErr
}

func (r *PipelineResult) record(res models.AgentTaskResult) {
	r.Usage.Add(res.Usage)
	if res.Usage.Total > 0 {
		r.SuccessfulCalls++
	}
	perAgent := r.PerAgent[res.Agent]
	perAgent.Add(res.Usage)
	r.PerAgent[res.Agent] = perAgent
}

// parseLocatorSummary re-parses the identifier's "- Description (Kind):
// Locator" lines (see Identifier.Run) back into structured
// CandidateLocators for the assembler stage. The identifier formats its
// result as plain text rather than returning a structured value because
// models.AgentTaskResult.Output is the one field every stage's output
// flows through; re-parsing it here keeps that contract uniform across
// all four stages instead of special-casing the identifier.
func parseLocatorSummary(summary string) []CandidateLocator {
	var locators []CandidateLocator
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "-")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		descAndKind, locatorPart, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		locatorPart = strings.TrimSpace(locatorPart)

		openParen := strings.LastIndex(descAndKind, "(")
		closeParen := strings.LastIndex(descAndKind, ")")
		if openParen < 0 || closeParen < openParen {
			continue
		}
		desc := strings.TrimSpace(descAndKind[:openParen])
		kind := strings.TrimSpace(descAndKind[openParen+1 : closeParen])

		locators = append(locators, CandidateLocator{
			Description: desc,
			Kind:        kind,
			Locator:     locatorPart,
		})
	}
	return locators
}
