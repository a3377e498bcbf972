package models

// AgentName identifies one of the four cooperating pipeline stages. Mirrors
// config.AgentRole but lives in models so agent outputs can be keyed by it
// without importing config from the data-model package.
type AgentName string

const (
	AgentPlanner    AgentName = "planner"
	AgentIdentifier AgentName = "identifier"
	AgentAssembler  AgentName = "assembler"
	AgentValidator  AgentName = "validator"
)

// TokenUsage is the prompt/completion/total token accounting a single LLM
// call reports, aggregated at run, agent, and task granularity by C4.
type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

// Add accumulates o into u in place.
func (u *TokenUsage) Add(o TokenUsage) {
	u.Prompt += o.Prompt
	u.Completion += o.Completion
	u.Total += o.Total
}

// AgentTaskResult is the output of a single stage of the four-agent
// pipeline: raw text (always) plus, for the validator, a structured verdict.
type AgentTaskResult struct {
	Agent   AgentName
	Output  string
	Usage   TokenUsage
	Verdict *ValidatorVerdict // non-nil only for AgentValidator
}

// ValidatorVerdict is the validator agent's structured judgment on a draft
// script. Reason is user-visible when Valid is false.
type ValidatorVerdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}
