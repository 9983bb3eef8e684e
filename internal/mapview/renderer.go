package mapview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrRenderFailed is returned when the map SDK could not be loaded. It is
// fatal to the overlay only.
var ErrRenderFailed = errors.New("map render failed")

// SDKLoader loads the map SDK and returns the script URL it was served from.
type SDKLoader interface {
	Load(ctx context.Context) (string, error)
}

// Renderer produces MapViews. The SDK is loaded on first use; a successful
// load is reused for every later render, a failed one is retried. Concurrent
// renders share one in-flight load.
type Renderer struct {
	loader SDKLoader
	logger *slog.Logger
	group  singleflight.Group

	mu        sync.Mutex
	scriptURL string
}

func NewRenderer(loader SDKLoader, logger *slog.Logger) *Renderer {
	return &Renderer{
		loader: loader,
		logger: logger.With("component", "map-renderer"),
	}
}

// Render waits for the SDK and returns a view of the frame.
func (r *Renderer) Render(ctx context.Context, frame Frame) (*MapView, error) {
	scriptURL, err := r.load(ctx)
	if err != nil {
		r.logger.Warn("map SDK unavailable",
			"latitude", frame.Center.Latitude,
			"longitude", frame.Center.Longitude,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return Build(scriptURL, frame), nil
}

// Loaded reports whether the SDK has been loaded successfully.
func (r *Renderer) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scriptURL != ""
}

func (r *Renderer) load(ctx context.Context) (string, error) {
	r.mu.Lock()
	scriptURL := r.scriptURL
	r.mu.Unlock()
	if scriptURL != "" {
		return scriptURL, nil
	}

	// The shared load outlives any single caller; the loader bounds it.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan("sdk", func() (any, error) {
		scriptURL, err := r.loader.Load(loadCtx)
		if err != nil {
			return "", err
		}
		r.mu.Lock()
		r.scriptURL = scriptURL
		r.mu.Unlock()
		return scriptURL, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
