package models

// Event phase names. A phase is paired with a status to form the wire
// "stage" string (e.g. "generation", "execution") used by the HTTP/SSE shell.
const (
	PhaseGeneration = "generation"
	PhaseExecution  = "execution"
)

// Event status values, shared across generation and execution phases.
// This is the wire "status" enum: {running, info, complete, error}. A
// phase emits StatusRunning for every in-flight event — its start, each
// intermediate progress tick, and any raw log line alike — there is no
// separate "started" or "progress" value.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusError    = "error"
	StatusInfo     = "info"
)

// Event is the single external view of WorkflowRun state. Every value
// emitted to a caller — whether over SSE or collected in a test — is an
// Event. Ordering is per-run FIFO; Sequence is assigned by the bridge that
// drains the orchestrator's internal channel.
type Event struct {
	Sequence int    `json:"sequence"`
	Stage    string `json:"stage"`              // PhaseGeneration or PhaseExecution
	Status   string `json:"status"`             // one of the Status* constants
	Message  string `json:"message,omitempty"`  // human-readable note, set on StatusInfo/StatusError
	Progress int    `json:"progress,omitempty"` // 0-100, monotonically non-decreasing within a run
	Log      string `json:"log,omitempty"`      // raw agent/container output line, best-effort

	RobotCode string          `json:"robot_code,omitempty"` // set on generation.complete
	Result    *ExecutionResult `json:"result,omitempty"`    // set on execution.complete

	Info map[string]any `json:"info,omitempty"` // advisory payload for StatusInfo events (e.g. pruning stats)
}
