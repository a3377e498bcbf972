package models

import "time"

// KeywordEntry is one entry in the C1 vector keyword store. Identified by
// Name within a Library's collection; immutable once ingested. The store
// records no library version; Store.Rebuild replaces the collection
// wholesale.
type KeywordEntry struct {
	Name          string `json:"name"`
	Args          string `json:"args"`
	Documentation string `json:"documentation"`
	Library       string `json:"library"`
}

// Pattern is one append-only C2 record: a query paired with the keywords a
// successful run of it actually used. Never mutated in place.
type Pattern struct {
	QueryText    string    `json:"query_text"`
	KeywordsUsed []string  `json:"keywords_used"`
	Timestamp    time.Time `json:"timestamp"`
}

// KeywordUsage is the aggregate counter C2 maintains per keyword, updated
// by upsert+increment alongside each Pattern append.
type KeywordUsage struct {
	Keyword    string    `json:"keyword"`
	UsageCount int       `json:"usage_count"`
	LastUsed   time.Time `json:"last_used"`
}

// RunMetrics merges agent-side and browser-side run accounting. Nothing in
// this module builds or stores a RunMetrics value.
type RunMetrics struct {
	WorkflowID string    `json:"workflow_id"`
	URL        string    `json:"url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Agent-side (C4).
	LLMCalls int                        `json:"llm_calls"`
	Tokens   TokenUsage                 `json:"tokens"`
	Cost     float64                    `json:"cost"`
	PerAgent map[AgentName]TokenUsage   `json:"per_agent,omitempty"`
	PerTask  map[AgentName]TokenUsage   `json:"per_task,omitempty"`

	// Browser-side (container sidecar).
	ElementsProcessed int     `json:"elements_processed,omitempty"`
	Successful        int     `json:"successful,omitempty"`
	Failed            int     `json:"failed,omitempty"`
	BrowserLLMCalls   int     `json:"browser_llm_calls,omitempty"`
	BrowserTokens     int     `json:"browser_tokens,omitempty"`
	BrowserCost       float64 `json:"browser_cost,omitempty"`
	ExecutionTime     float64 `json:"execution_time,omitempty"` // seconds
	SessionID         string  `json:"session_id,omitempty"`
}
