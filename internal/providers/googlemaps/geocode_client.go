package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// API Docs: https://developers.google.com/maps/documentation/geocoding/requests-reverse-geocoding
// Sample request: https://maps.googleapis.com/maps/api/geocode/json?latlng=6.9271,79.8612&key=KEY
const (
	baseGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
)

// ErrAPIStatus is returned when the geocoding API answers with a non-OK,
// non-empty status.
var ErrAPIStatus = errors.New("geocoding API returned an error status")

type GeocodeClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewGeocodeClient creates a reverse-geocoding client. requestsPerSecond <= 0
// disables client-side throttling.
func NewGeocodeClient(apiKey string, requestsPerSecond float64, logger *slog.Logger) *GeocodeClient {
	return NewGeocodeClientWithURL(baseGeocodeURL, apiKey, requestsPerSecond, logger)
}

func NewGeocodeClientWithURL(baseURL, apiKey string, requestsPerSecond float64, logger *slog.Logger) *GeocodeClient {
	return &GeocodeClient{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    newLimiter(requestsPerSecond),
		logger:     logger.With("component", "google-geocode-client"),
	}
}

// ReverseGeocode looks up the addresses at the given coordinate. A
// ZERO_RESULTS status is not an error; the response simply has no results.
func (c *GeocodeClient) ReverseGeocode(ctx context.Context, latitude, longitude float64) (*GeocodeAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("latlng", fmt.Sprintf("%f,%f", latitude, longitude))
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	c.logger.Debug("reverse geocoding",
		"latitude", latitude,
		"longitude", longitude,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = redactURL(err, c.baseURL)
		c.logger.Error("failed to reach geocoding API", "error", err)
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("geocoding API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp GeocodeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.logger.Error("failed to decode geocoding response", "error", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	switch apiResp.Status {
	case StatusOK, StatusZeroResults, "":
	default:
		c.logger.Error("geocoding API returned error status",
			"status", apiResp.Status,
			"error_message", apiResp.ErrorMessage,
		)
		return nil, fmt.Errorf("%w: %s: %s", ErrAPIStatus, apiResp.Status, apiResp.ErrorMessage)
	}

	c.logger.Debug("reverse geocoding complete", "results", len(apiResp.Results))

	return &apiResp, nil
}

// redactURL replaces the request URL in a transport error, which carries the
// API key in its query, with the bare endpoint.
func redactURL(err error, endpoint string) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = endpoint
	}
	return err
}

func newLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
