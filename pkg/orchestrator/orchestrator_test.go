package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotforge/robotforge/pkg/agent"
	"github.com/robotforge/robotforge/pkg/config"
	"github.com/robotforge/robotforge/pkg/models"
)

type stubLLMClient struct {
	responses []string
	i         int
}

func (c *stubLLMClient) Generate(_ context.Context, _ *agent.GenerateInput) (<-chan agent.Chunk, error) {
	out := make(chan agent.Chunk, 2)
	text := ""
	if c.i < len(c.responses) {
		text = c.responses[c.i]
	}
	c.i++
	out <- &agent.TextChunk{Content: text}
	out <- &agent.UsageChunk{InputTokens: 1, OutputTokens: 1, TotalTokens: 2}
	close(out)
	return out, nil
}

type stubContextProvider struct{}

func (stubContextProvider) BuildContext(_ context.Context, _ string, _ models.AgentName) (string, error) {
	return "", nil
}

type stubProbe struct{}

func (stubProbe) IdentifyLocators(_ context.Context, _, _ string) ([]agent.CandidateLocator, error) {
	return []agent.CandidateLocator{{Description: "button", Kind: "css", Locator: "#go"}}, nil
}

type stubRunner struct {
	result *models.ExecutionResult
	err    error
}

func (s *stubRunner) Run(_ context.Context, _, _ string) (*models.ExecutionResult, error) {
	return s.result, s.err
}
func (s *stubRunner) CleanupOrphans(_ context.Context) ([]string, error) { return nil, nil }

type stubLearner struct {
	called bool
	query  string
	script string
}

func (s *stubLearner) Learn(_ context.Context, query, finishedScript string) error {
	s.called = true
	s.query = query
	s.script = finishedScript
	return nil
}

func testOrchConfig() *config.Config {
	return &config.Config{
		RobotLibrary:       config.RobotLibrarySelenium,
		MaxAgentIterations: 3,
		HeartbeatInterval:  50 * time.Millisecond,
		TestsRoot:          "/tmp/robotforge-orchestrator-test",
	}
}

func TestOrchestrator_Generate_EmitsCompleteWithScript(t *testing.T) {
	llm := &stubLLMClient{responses: []string{
		"1. Open page\n2. Click button",
		"*** Settings ***\nLibrary    SeleniumLibrary\n\n*** Test Cases ***\nCase\n    Open Browser    https://example.com    chrome\n    Close Browser\n",
		`{"valid": true, "reason": ""}`,
	}}
	o := New(testOrchConfig(), LLMClients{Online: llm, Local: llm}, stubContextProvider{}, stubProbe{}, &stubRunner{}, nil, nil)

	ch := o.Generate(context.Background(), models.Query{Text: "log in at https://example.com", Provider: "online"})

	var last *models.Event
	for msg := range ch {
		if msg.Event != nil {
			last = msg.Event
		}
	}
	require.NotNil(t, last)
	require.Equal(t, models.StatusComplete, last.Status)
	require.Contains(t, last.RobotCode, "*** Test Cases ***")
}

func TestOrchestrator_Generate_EmitsErrorOnInvalidVerdict(t *testing.T) {
	llm := &stubLLMClient{responses: []string{
		"plan",
		"*** Settings ***\n*** Test Cases ***\nCase\n    Close Browser\n",
		`{"valid": false, "reason": "never opens a browser"}`,
	}}
	o := New(testOrchConfig(), LLMClients{Online: llm, Local: llm}, stubContextProvider{}, stubProbe{}, &stubRunner{}, nil, nil)

	ch := o.Generate(context.Background(), models.Query{Text: "do a thing", Provider: "online"})

	var last *models.Event
	for msg := range ch {
		if msg.Event != nil {
			last = msg.Event
		}
	}
	require.NotNil(t, last)
	require.Equal(t, models.StatusError, last.Status)
}

func TestOrchestrator_Execute_LearnsOnPassedStatus(t *testing.T) {
	learner := &stubLearner{}
	runner := &stubRunner{result: &models.ExecutionResult{TestStatus: models.TestStatusPassed, Passed: 1, Total: 1}}
	o := New(testOrchConfig(), LLMClients{}, stubContextProvider{}, stubProbe{}, runner, nil, learner)

	ch := o.Execute(context.Background(), "*** Test Cases ***\nCase\n    Close Browser\n", "log in")
	for range ch {
	}

	require.True(t, learner.called)
	require.Equal(t, "log in", learner.query)
}

func TestOrchestrator_Execute_SkipsLearnOnFailedStatus(t *testing.T) {
	learner := &stubLearner{}
	runner := &stubRunner{result: &models.ExecutionResult{TestStatus: models.TestStatusFailed, Failed: 1, Total: 1}}
	o := New(testOrchConfig(), LLMClients{}, stubContextProvider{}, stubProbe{}, runner, nil, learner)

	ch := o.Execute(context.Background(), "*** Test Cases ***\nCase\n    Close Browser\n", "log in")
	for range ch {
	}

	require.False(t, learner.called)
}
