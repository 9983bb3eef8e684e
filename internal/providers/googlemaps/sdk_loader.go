package googlemaps

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// API Docs: https://developers.google.com/maps/documentation/javascript/load-maps-js-api
const (
	baseMapsJSURL = "https://maps.googleapis.com/maps/api/js"
	sdkVersion    = "weekly"
	sdkLibraries  = "places"

	// loadTimeout bounds the bootstrap fetch; the script is a few KB.
	loadTimeout = 10 * time.Second
)

// SDKLoader fetches the Maps JavaScript API bootstrap for a key, confirming
// the SDK can be served to the browser.
type SDKLoader struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

func NewSDKLoader(apiKey string, logger *slog.Logger) *SDKLoader {
	return NewSDKLoaderWithURL(baseMapsJSURL, apiKey, logger)
}

func NewSDKLoaderWithURL(baseURL, apiKey string, logger *slog.Logger) *SDKLoader {
	return &SDKLoader{
		httpClient: &http.Client{Timeout: loadTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger.With("component", "google-maps-sdk-loader"),
	}
}

// ScriptURL is the URL the browser loads the SDK from.
func (l *SDKLoader) ScriptURL() string {
	u, err := url.Parse(l.baseURL)
	if err != nil {
		return l.baseURL
	}
	q := u.Query()
	q.Set("key", l.apiKey)
	q.Set("v", sdkVersion)
	q.Set("libraries", sdkLibraries)
	u.RawQuery = q.Encode()
	return u.String()
}

// Load fetches the SDK bootstrap script and returns its URL.
func (l *SDKLoader) Load(ctx context.Context) (string, error) {
	scriptURL := l.ScriptURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, scriptURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	l.logger.Debug("loading maps SDK")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		err = redactURL(err, l.baseURL)
		l.logger.Error("failed to load maps SDK", "error", err)
		return "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		l.logger.Error("maps SDK returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return "", fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return scriptURL, nil
}
