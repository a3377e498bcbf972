package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotforge/robotforge/pkg/models"
)

func TestAssembler_NameIsAgentAssembler(t *testing.T) {
	require.Equal(t, models.AgentAssembler, Assembler{}.Name())
}

func TestAssembler_RunReturnsScriptFromModel(t *testing.T) {
	script := "*** Settings ***\nLibrary    SeleniumLibrary\n\n*** Test Cases ***\nLogin\n    Open Browser    https://example.com    chrome\n"
	llm := &scriptedLLMClient{responses: []string{script}}

	result, _, err := Assembler{}.Run(context.Background(), llm, "test-model", TaskInput{
		PlanText: "1. Open the site",
		Locators: []CandidateLocator{{Description: "login button", Locator: "#login", Kind: "click"}},
	})

	require.NoError(t, err)
	require.Equal(t, models.AgentAssembler, result.Agent)
	require.Equal(t, script, result.Output)
}

func TestAssembler_RunWrapsProviderError(t *testing.T) {
	llm := &erroringLLMClient{}

	_, _, err := Assembler{}.Run(context.Background(), llm, "test-model", TaskInput{PlanText: "1. Open the site"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "assembler")
}

func TestFormatLocators_ReturnsPlaceholderWhenEmpty(t *testing.T) {
	require.Equal(t, "(none)", formatLocators(nil))
}

func TestFormatLocators_ListsEachLocator(t *testing.T) {
	out := formatLocators([]CandidateLocator{
		{Description: "email field", Locator: "#email", Kind: "input"},
	})
	require.Equal(t, "- email field (input): #email\n", out)
}
