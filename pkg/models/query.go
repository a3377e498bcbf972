package models

// Query is the immutable user request that seeds a WorkflowRun. It carries
// no behavior of its own — it is read by the orchestrator at run creation
// and handed to the agent runner by value.
type Query struct {
	Text     string `json:"text"`
	Provider string `json:"provider,omitempty"` // "online" or "local"; empty defers to config default
	Model    string `json:"model,omitempty"`    // overrides config.OnlineModel/LocalModel when set
}
