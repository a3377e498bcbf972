// Package llm provides the two concrete agent.LLMClient backends: one for
// config.ModelProviderOnline (Anthropic API) and one for
// config.ModelProviderLocal (a local HTTP-served model).
package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/robotforge/robotforge/pkg/agent"
)

// defaultMaxTokens bounds a single agent completion. Robot Framework
// scripts and validator verdicts are small relative to chat completions,
// so this is conservative rather than provider-maximal.
const defaultMaxTokens = 4096

// AnthropicClient implements agent.LLMClient against the Anthropic API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient builds a client from an API key. An empty key is
// valid — the SDK then falls back to the ANTHROPIC_API_KEY environment
// variable, matching anthropic-sdk-go's own default resolution.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...)}
}

// Generate implements agent.LLMClient.
func (c *AnthropicClient) Generate(ctx context.Context, input *agent.GenerateInput) (<-chan agent.Chunk, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(input.Model),
		MaxTokens: int64(defaultMaxTokens),
		Messages:  convertMessages(input.Messages),
	}
	if input.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: input.System}}
	}

	stream := c.client.Messages.NewStreaming(ctx, params)

	out := make(chan agent.Chunk, 16)
	go processStream(stream, out)
	return out, nil
}

func convertMessages(msgs []agent.ConversationMessage) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case agent.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return result
}

// processStream drains an Anthropic SSE stream, translating its events
// into agent.Chunk values. It always closes out, even on a mid-stream
// error — the error is delivered as a final *agent.ErrorChunk rather than
// by a non-nil return, so callers only ever need to range over the channel.
func processStream(stream *ssestream.Stream[anthropic.MessageStreamEventUnion], out chan<- agent.Chunk) {
	defer close(out)
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch d := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				out <- &agent.TextChunk{Content: d.Text}
			case anthropic.ThinkingDelta:
				out <- &agent.ThinkingChunk{Content: d.Thinking}
			}
		case anthropic.MessageDeltaEvent:
			out <- &agent.UsageChunk{
				InputTokens:  int(ev.Usage.InputTokens),
				OutputTokens: int(ev.Usage.OutputTokens),
				TotalTokens:  int(ev.Usage.InputTokens + ev.Usage.OutputTokens),
			}
		}
	}
	if err := stream.Err(); err != nil {
		out <- &agent.ErrorChunk{Message: fmt.Sprintf("anthropic stream: %v", err), Retryable: true}
	}
}
