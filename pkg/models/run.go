package models

import "time"

// RunStatus is the terminal-or-not status of a WorkflowRun.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusError    RunStatus = "error"
)

// Stage names a point in the fixed generation/execution state machine.
type Stage string

const (
	StagePlanning    Stage = "planning"
	StageIdentifying Stage = "identifying"
	StageGenerating  Stage = "generating"
	StageValidating  Stage = "validating"
	StageExecuting   Stage = "executing"
	StageFinalizing  Stage = "finalizing"
	StageDone        Stage = "done"
)

// WorkflowRun tracks one generate/execute/generate_and_run invocation.
// Progress is monotonically non-decreasing and the run is terminal once
// Status leaves RunStatusRunning.
type WorkflowRun struct {
	ID       string
	Query    Query
	Provider string
	Model    string

	Status   RunStatus
	Stage    Stage
	Progress int // 0-100

	CreatedAt time.Time
}
