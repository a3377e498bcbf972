// Package agent runs the four-stage pipeline — planner, identifier,
// assembler, validator — that turns a Query into a draft Script, handing
// each task's output to the next and collecting token metrics at run,
// agent, and task granularity.
package agent

import "context"

// LLMClient is the provider-agnostic interface the four agents call
// through. Two concrete implementations exist (pkg/agent/llm): one backed
// by the Anthropic API for config.ModelProviderOnline, one backed by a
// local HTTP-served model for config.ModelProviderLocal. Both deliver a
// channel-based streaming API so agents can surface partial output without
// blocking on the full completion.
type LLMClient interface {
	// Generate sends a conversation to the model and returns a stream of
	// chunks. The returned channel is closed when the stream completes.
	// Errors are delivered as *ErrorChunk values in the channel, never as
	// a non-nil error return once streaming has started.
	Generate(ctx context.Context, input *GenerateInput) (<-chan Chunk, error)
}

// GenerateInput is the provider-agnostic representation of one completion
// request.
type GenerateInput struct {
	Model    string
	System   string
	Messages []ConversationMessage
}

// Conversation message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is a single turn in the conversation sent to the model.
type ConversationMessage struct {
	Role    string
	Content string
}

// Chunk is the interface implemented by all streaming chunk types.
type Chunk interface {
	chunkType() ChunkType
}

// ChunkType identifies the kind of streaming chunk.
type ChunkType string

const (
	ChunkTypeText     ChunkType = "text"
	ChunkTypeThinking ChunkType = "thinking"
	ChunkTypeUsage    ChunkType = "usage"
	ChunkTypeError    ChunkType = "error"
)

// TextChunk is a chunk of the model's visible text response.
type TextChunk struct{ Content string }

// ThinkingChunk is a chunk of the model's internal reasoning, emitted only
// by the Anthropic client, for any thinking delta its stream carries (the
// client does not itself request extended thinking). Tasks return it
// separately from their output; Runner discards it, so no Event carries it.
type ThinkingChunk struct{ Content string }

// UsageChunk reports token consumption for the completed call.
type UsageChunk struct{ InputTokens, OutputTokens, TotalTokens int }

// ErrorChunk signals an error from the model provider. Retryable is the
// client's own hint: the Anthropic client sets it for every stream error,
// the local client only for read failures, not for decode failures.
// Runner does not consult it; it retries a failed stage on any error.
type ErrorChunk struct {
	Message   string
	Retryable bool
}

func (c *TextChunk) chunkType() ChunkType     { return ChunkTypeText }
func (c *ThinkingChunk) chunkType() ChunkType { return ChunkTypeThinking }
func (c *UsageChunk) chunkType() ChunkType    { return ChunkTypeUsage }
func (c *ErrorChunk) chunkType() ChunkType    { return ChunkTypeError }
