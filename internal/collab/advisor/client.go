package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the text-suggestion endpoint used for budget advice. The
// provider is treated as an opaque prompt-in, text-out service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

type suggestRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type suggestResponse struct {
	Output string `json:"output"`
}

// Suggest returns free-text advice for a prompt.
func (c *Client) Suggest(ctx context.Context, prompt string) (string, error) {
	raw, err := json.Marshal(suggestRequest{Model: c.model, Input: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal suggestion request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build suggestion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch suggestion: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch suggestion: unexpected status %d", resp.StatusCode)
	}

	var payload suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode suggestion: %w", err)
	}
	return payload.Output, nil
}
