package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/robotforge/robotforge/pkg/agent"
)

// LocalClient implements agent.LLMClient against an Ollama-compatible
// local chat-completion endpoint (config.ModelProviderLocal). No example
// in the corpus ships a Go client for a local model server, so this is
// built directly on net/http/bufio — see DESIGN.md for why no third-party
// client was available to ground this on.
type LocalClient struct {
	baseURL string
	http    *http.Client
}

// NewLocalClient builds a client targeting baseURL (e.g. http://localhost:11434).
func NewLocalClient(baseURL string) *LocalClient {
	return &LocalClient{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{}}
}

type localChatRequest struct {
	Model    string              `json:"model"`
	Messages []localChatMessage  `json:"messages"`
	Stream   bool                `json:"stream"`
}

type localChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type localChatStreamLine struct {
	Message localChatMessage `json:"message"`
	Done    bool             `json:"done"`

	PromptEvalCount int `json:"prompt_eval_count"`
	EvalCount       int `json:"eval_count"`
}

// Generate implements agent.LLMClient by streaming newline-delimited JSON
// chat chunks, the wire format used by Ollama's /api/chat endpoint.
func (c *LocalClient) Generate(ctx context.Context, input *agent.GenerateInput) (<-chan agent.Chunk, error) {
	messages := make([]localChatMessage, 0, len(input.Messages)+1)
	if input.System != "" {
		messages = append(messages, localChatMessage{Role: agent.RoleSystem, Content: input.System})
	}
	for _, m := range input.Messages {
		messages = append(messages, localChatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(localChatRequest{Model: input.Model, Messages: messages, Stream: true})
	if err != nil {
		return nil, fmt.Errorf("local llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("local llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("local llm: request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("local llm: unexpected status %d", resp.StatusCode)
	}

	out := make(chan agent.Chunk, 16)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var chunk localChatStreamLine
			if err := json.Unmarshal(line, &chunk); err != nil {
				out <- &agent.ErrorChunk{Message: fmt.Sprintf("local llm: decode chunk: %v", err), Retryable: false}
				return
			}
			if chunk.Message.Content != "" {
				out <- &agent.TextChunk{Content: chunk.Message.Content}
			}
			if chunk.Done {
				out <- &agent.UsageChunk{
					InputTokens:  chunk.PromptEvalCount,
					OutputTokens: chunk.EvalCount,
					TotalTokens:  chunk.PromptEvalCount + chunk.EvalCount,
				}
			}
		}
		if err := scanner.Err(); err != nil {
			out <- &agent.ErrorChunk{Message: fmt.Sprintf("local llm: stream read: %v", err), Retryable: true}
		}
	}()
	return out, nil
}
