package zipcode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://app.zipcodebase.com/api/v1/search"

// Client resolves US zip codes to a city and province via zipcodebase.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type searchResponse struct {
	Results map[string][]struct {
		City     string `json:"city"`
		Province string `json:"province"`
	} `json:"results"`
}

// Locate returns the city and province for a zip code. Callers treat any
// error as a degradable collaborator failure, not a fatal one.
func (c *Client) Locate(ctx context.Context, zip string) (city, province string, err error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("codes", zip)
	params.Set("country", "US")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", "", fmt.Errorf("build zip request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("zip lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("zip lookup: unexpected status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", fmt.Errorf("decode zip response: %w", err)
	}
	matches := payload.Results[zip]
	if len(matches) == 0 {
		return "", "", fmt.Errorf("zip lookup: no results for %s", zip)
	}
	return matches[0].City, matches[0].Province, nil
}
