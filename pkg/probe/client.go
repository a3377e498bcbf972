// Package probe is the HTTP client to the external browser-probing
// microservice: given a target URL and a plan, it drives a real browser
// to resolve candidate element locators. The microservice itself is
// explicitly out of scope to implement; this package only talks to it,
// using a plain net/http request/response client.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/robotforge/robotforge/pkg/agent"
)

// Client talks to the probing microservice's /identify endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New builds a Client targeting baseURL (e.g. config.Config.ProbeServiceURL).
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		logger:     slog.Default(),
	}
}

type identifyRequest struct {
	URL  string `json:"url"`
	Plan string `json:"plan"`
}

type identifyResponse struct {
	Locators []locatorPayload `json:"locators"`
}

type locatorPayload struct {
	Description string `json:"description"`
	Locator     string `json:"locator"`
	Kind        string `json:"kind"`
}

// IdentifyLocators implements agent.ProbeClient: it asks the microservice
// to resolve candidate element locators for targetURL given the plan text
// from the planner stage.
func (c *Client) IdentifyLocators(ctx context.Context, targetURL, plan string) ([]agent.CandidateLocator, error) {
	body, err := json.Marshal(identifyRequest{URL: targetURL, Plan: plan})
	if err != nil {
		return nil, fmt.Errorf("probe: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/identify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("probe: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe: call identify for %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("probe: identify returned HTTP %d for %s", resp.StatusCode, targetURL)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("probe: read response: %w", err)
	}

	var parsed identifyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("probe: decode response: %w", err)
	}

	locators := make([]agent.CandidateLocator, 0, len(parsed.Locators))
	for _, l := range parsed.Locators {
		locators = append(locators, agent.CandidateLocator{
			Description: l.Description,
			Locator:     l.Locator,
			Kind:        l.Kind,
		})
	}

	c.logger.Debug("probe: identified locators", "url", targetURL, "count", len(locators))
	return locators, nil
}
