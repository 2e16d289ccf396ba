package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"caseflow/internal/core/ports"
)

// Client talks to the generation gateway over a single JSON endpoint. The
// gateway multiplexes model selection; deep_thinking selects the
// higher-effort mode.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

var _ ports.Generator = (*Client)(nil)

type generateRequest struct {
	Prompt       string `json:"prompt"`
	DeepThinking bool   `json:"deep_thinking"`
}

type generateResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func (c *Client) Generate(ctx context.Context, prompt string, deepThinking bool) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, DeepThinking: deepThinking})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("generation gateway: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation gateway: status %d: %s", resp.StatusCode, string(raw))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("generation gateway: decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("generation gateway: %s", out.Error)
	}
	return out.Text, nil
}
