package guides

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type guidesRequest struct {
	Place string `json:"place"`
}

// GuidesAPIResponse is the body returned by the guides endpoint.
type GuidesAPIResponse struct {
	Dos   []string `json:"dos"`
	Donts []string `json:"donts"`
}

// Client calls the content endpoint that produces travel guides for a place.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		logger:     logger.With("component", "guides-client"),
	}
}

// GetGuides fetches the do's and don'ts for a "{city}, {country}" key.
func (c *Client) GetGuides(ctx context.Context, place string) (*GuidesAPIResponse, error) {
	payload, err := json.Marshal(guidesRequest{Place: place})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("fetching guides", "place", place)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch guides", "place", place, "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("guides API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp GuidesAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.logger.Error("failed to decode guides response", "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &apiResp, nil
}
