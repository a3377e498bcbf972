// Package orchestrator implements C7: the two public operations the HTTP
// shell drives (generate, execute) plus their legacy combination
// (generate_and_run), each returning a finite, ordered stream of events
// bridged off a worker goroutine, using a channel-returning
// LLMClient.Generate shape together with a run/runHeartbeat worker
// pattern narrowed from "poll a DB queue forever" to "bridge one
// blocking pipeline run".
package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/robotforge/robotforge/pkg/agent"
	"github.com/robotforge/robotforge/pkg/bridge"
	"github.com/robotforge/robotforge/pkg/config"
	"github.com/robotforge/robotforge/pkg/exec"
	"github.com/robotforge/robotforge/pkg/models"
	"github.com/robotforge/robotforge/pkg/script"
)

// stageProgress is the fixed generation progress map from §4.1: planning
// 10%, identifying 30%, generating 60%, validating 85%, finalizing 95%,
// done 100%. Progress is never allowed to regress within a run.
var stageProgress = map[models.AgentName]int{
	models.AgentPlanner:    10,
	models.AgentIdentifier: 30,
	models.AgentAssembler:  60,
	models.AgentValidator:  85,
}

const (
	progressFinalizing = 95
	progressDone       = 100
)

// LLMClients selects the Generate backend by provider name, so Orchestrator
// never constructs an LLM client itself.
type LLMClients struct {
	Online agent.LLMClient
	Local  agent.LLMClient
}

func (c LLMClients) forProvider(provider string) agent.LLMClient {
	if config.ModelProvider(provider) == config.ModelProviderLocal {
		return c.Local
	}
	return c.Online
}

// Learner is satisfied by context.Builder's Learn method.
type Learner interface {
	Learn(ctx context.Context, query, finishedScript string) error
}

// ContainerRunner is satisfied by exec.Runner. Declared locally so tests
// can substitute a fake instead of standing up Docker.
type ContainerRunner interface {
	Run(ctx context.Context, runID, script string) (*models.ExecutionResult, error)
	CleanupOrphans(ctx context.Context) ([]string, error)
}

// Provisioner is satisfied by exec.ImageProvisioner.
type Provisioner interface {
	Ensure(ctx context.Context, onProgress exec.ProgressFunc) error
}

// Orchestrator wires together the context optimizer, agent runner, script
// post-processor, and container execution engine behind the three
// streaming operations.
type Orchestrator struct {
	cfg             *config.Config
	llms            LLMClients
	contextProvider agent.ContextProvider
	probe           agent.ProbeClient
	runner          ContainerRunner
	provisioner     Provisioner
	learner         Learner
	bridge          *bridge.Bridge
}

// New builds an Orchestrator from its already-constructed collaborators,
// ensuring the per-run directory root exists so the first Execute call
// doesn't fail on a missing directory. provisioner may be nil to skip
// image provisioning (e.g. when the configured image is known-present).
func New(cfg *config.Config, llms LLMClients, contextProvider agent.ContextProvider, probe agent.ProbeClient, runner ContainerRunner, provisioner Provisioner, learner Learner) *Orchestrator {
	_ = ensureTestsRoot(cfg.TestsRoot)
	return &Orchestrator{
		cfg:             cfg,
		llms:            llms,
		contextProvider: contextProvider,
		probe:           probe,
		runner:          runner,
		provisioner:     provisioner,
		learner:         learner,
		bridge:          bridge.New(cfg.HeartbeatInterval),
	}
}

// Generate runs the four-agent pipeline for query and streams
// generation.* events, terminating with exactly one generation.complete
// (carrying the final script) or generation.error.
func (o *Orchestrator) Generate(ctx context.Context, query models.Query) <-chan bridge.Message {
	seq := 0
	return o.bridge.Run(ctx, &seq, func(ctx context.Context, emit bridge.Emit) error {
		_, err := o.runGenerate(ctx, query, emit)
		return err
	})
}

// runGenerate is factored out of Generate so GenerateAndRun can reuse it
// and obtain the finished script directly, without re-parsing events.
func (o *Orchestrator) runGenerate(ctx context.Context, query models.Query, emit bridge.Emit) (string, error) {
	emit(models.Event{Stage: models.PhaseGeneration, Status: models.StatusRunning, Progress: 0})

	provider := query.Provider
	if provider == "" {
		provider = string(o.cfg.ModelProvider)
	}
	model := query.Model
	if model == "" {
		model = o.cfg.OnlineModel
		if config.ModelProvider(provider) == config.ModelProviderLocal {
			model = o.cfg.LocalModel
		}
	}
	llmClient := o.llms.forProvider(provider)
	runner := agent.NewRunner(llmClient, model, o.contextProvider, o.probe, o.cfg.MaxAgentIterations)

	result, err := runner.Run(ctx, query, func(stage models.AgentName, res models.AgentTaskResult) {
		progress := stageProgress[stage]
		msg := fmt.Sprintf("%s complete", stage)
		if stage == models.AgentValidator && res.Verdict != nil && !res.Verdict.Valid {
			msg = fmt.Sprintf("validator rejected draft: %s", res.Verdict.Reason)
		}
		emit(models.Event{
			Stage:    models.PhaseGeneration,
			Status:   models.StatusRunning,
			Progress: progress,
			Message:  msg,
		})
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	if result.Verdict != nil && !result.Verdict.Valid {
		return "", fmt.Errorf("generated script failed validation: %s", result.Verdict.Reason)
	}

	finalScript := script.Extract(result.Script)

	emit(models.Event{Stage: models.PhaseGeneration, Status: models.StatusRunning, Progress: progressFinalizing, Message: "finalizing script"})
	emit(models.Event{
		Stage:     models.PhaseGeneration,
		Status:    models.StatusComplete,
		Progress:  progressDone,
		RobotCode: finalScript,
	})

	return finalScript, nil
}

// Execute runs finalScript inside the container execution engine and
// streams execution.* events. When originalQuery is non-empty and the run
// passes, it invokes the pattern journal's learn hook exactly once before
// terminating — a failure to learn never fails the run.
func (o *Orchestrator) Execute(ctx context.Context, finalScript, originalQuery string) <-chan bridge.Message {
	seq := 0
	return o.bridge.Run(ctx, &seq, func(ctx context.Context, emit bridge.Emit) error {
		return o.runExecute(ctx, finalScript, originalQuery, emit)
	})
}

func (o *Orchestrator) runExecute(ctx context.Context, finalScript, originalQuery string, emit bridge.Emit) error {
	emit(models.Event{Stage: models.PhaseExecution, Status: models.StatusRunning, Progress: 0})

	if o.provisioner != nil {
		if err := o.provisioner.Ensure(ctx, func(line string) {
			emit(models.Event{Stage: models.PhaseExecution, Status: models.StatusRunning, Log: line})
		}); err != nil {
			return fmt.Errorf("image provisioning failed: %w", err)
		}
	}

	runID := uuid.NewString()
	result, err := o.runner.Run(ctx, runID, finalScript)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	if originalQuery != "" && result.TestStatus == models.TestStatusPassed && o.learner != nil {
		if err := o.learner.Learn(ctx, originalQuery, finalScript); err != nil {
			emit(models.Event{Stage: models.PhaseExecution, Status: models.StatusInfo, Message: "pattern learn skipped: " + err.Error()})
		}
	}

	emit(models.Event{
		Stage:    models.PhaseExecution,
		Status:   models.StatusComplete,
		Progress: progressDone,
		Result:   result,
	})
	return nil
}

// GenerateAndRun runs Generate followed by Execute(originalQuery=query),
// passing through every event from both stages on one ordered stream.
func (o *Orchestrator) GenerateAndRun(ctx context.Context, query models.Query) <-chan bridge.Message {
	seq := 0
	return o.bridge.Run(ctx, &seq, func(ctx context.Context, emit bridge.Emit) error {
		finalScript, err := o.runGenerate(ctx, query, emit)
		if err != nil {
			return err
		}
		return o.runExecute(ctx, finalScript, query.Text, emit)
	})
}

// CleanupContainers force-removes orphaned robot-test-* containers, for
// the /test/containers/cleanup endpoint.
func (o *Orchestrator) CleanupContainers(ctx context.Context) ([]string, error) {
	return o.runner.CleanupOrphans(ctx)
}

// ensureTestsRoot is called once by New, so a fresh deployment doesn't
// fail its first run on a missing directory.
func ensureTestsRoot(path string) error {
	return os.MkdirAll(path, 0o755)
}
