package unlock

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"wayguard/internal/geolocation"
	"wayguard/internal/mapview"
	"wayguard/internal/place"
	"wayguard/internal/timezone"
	"wayguard/internal/types"
)

// PositionAcquirer defines the interface for single-shot position sources
type PositionAcquirer interface {
	Acquire(ctx context.Context) (types.Coords, error)
	Options() geolocation.Options
}

// MapRenderer defines the interface for building the overlay map
type MapRenderer interface {
	Render(ctx context.Context, frame mapview.Frame) (*mapview.MapView, error)
}

// Settings controls the fallback path and map zoom levels.
type Settings struct {
	FallbackCoords types.Coords
	// FallbackPlace is used when geocoding the fallback coordinate fails
	// outright rather than returning no results.
	FallbackPlace types.PlaceDetails
	LiveZoom      int
	FallbackZoom  int
}

// DefaultSettings falls back to Colombo.
func DefaultSettings() Settings {
	return Settings{
		FallbackCoords: types.NewCoords(6.9271, 79.8612),
		FallbackPlace: types.PlaceDetails{
			Address:   "Colombo, Sri Lanka",
			PlaceName: "Colombo",
			PlaceType: "city",
			City:      "Colombo",
			Country:   "Sri Lanka",
		},
		LiveZoom:     mapview.LiveZoom,
		FallbackZoom: mapview.FallbackZoom,
	}
}

// Orchestrator drives one session through acquire -> resolve -> render and
// owns its UnlockState and MapView. Each activation starts a new generation;
// results from older generations are discarded.
type Orchestrator struct {
	id       string
	ctx      context.Context
	acquirer PositionAcquirer
	resolver place.Resolver
	renderer MapRenderer
	timezone timezone.Service
	settings Settings
	logger   *slog.Logger

	mu            sync.Mutex
	generation    uint64
	state         State
	place         *types.PlaceDetails
	coords        *types.Coords
	fallback      bool
	tz            string
	overlay       overlay
	frame         *mapview.Frame
	scriptURL     string
	rendering     bool
	cancelAcquire context.CancelFunc
	settled       chan struct{}
}

type overlay struct {
	visible bool
	loading bool
	notice  string
	view    *mapview.MapView
}

// NewOrchestrator creates a Locked session. ctx bounds every pipeline run;
// tz may be nil.
func NewOrchestrator(
	ctx context.Context,
	id string,
	acquirer PositionAcquirer,
	resolver place.Resolver,
	renderer MapRenderer,
	tz timezone.Service,
	settings Settings,
	logger *slog.Logger,
) *Orchestrator {
	settled := make(chan struct{})
	close(settled)
	return &Orchestrator{
		id:       id,
		ctx:      ctx,
		acquirer: acquirer,
		resolver: resolver,
		renderer: renderer,
		timezone: tz,
		settings: settings,
		logger:   logger.With("component", "unlock-orchestrator", "session_id", id),
		state:    StateLocked,
		settled:  settled,
	}
}

// Activate starts a pipeline run and shows the overlay straight away. A
// run already in flight is superseded: its sensor wait is cancelled and any
// result it still produces is dropped.
func (o *Orchestrator) Activate() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancelAcquire != nil {
		o.cancelAcquire()
	}
	o.generation++
	gen := o.generation

	if o.state == StateLocked {
		o.state = StateAcquiring
	}
	o.overlay = overlay{visible: true, loading: true}

	acquireCtx, cancel := context.WithCancel(o.ctx)
	o.cancelAcquire = cancel
	settled := make(chan struct{})
	o.settled = settled

	o.logger.Info("activation started", "generation", gen, "state", o.state)

	go o.run(gen, acquireCtx, cancel, settled)

	return o.snapshot()
}

// Dismiss hides the overlay and tears down the map. The unlock state is
// left untouched.
func (o *Orchestrator) Dismiss() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.overlay = overlay{}
	o.logger.Debug("overlay dismissed", "state", o.state)

	return o.snapshot()
}

// ReopenOverlay shows the overlay again from the last rendered frame. It
// never acquires, geocodes or loads the map SDK.
func (o *Orchestrator) ReopenOverlay() (View, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateLocked:
		return o.snapshot(), ErrLocked
	case StateAcquiring:
		o.overlay = overlay{visible: true, loading: true}
		return o.snapshot(), nil
	}

	o.overlay = overlay{visible: true, loading: o.cancelAcquire != nil || o.rendering}
	switch {
	case o.rendering:
	case o.frame != nil && o.scriptURL != "":
		o.overlay.view = mapview.Build(o.scriptURL, *o.frame)
	default:
		o.overlay.notice = RenderNotice
	}

	return o.snapshot(), nil
}

// View returns the current snapshot.
func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

// Wait blocks until the latest run has settled or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context) error {
	o.mu.Lock()
	settled := o.settled
	o.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) run(gen uint64, acquireCtx context.Context, cancel context.CancelFunc, settled chan struct{}) {
	defer close(settled)

	acquired := settle(o.acquirer.Acquire(acquireCtx))
	cancel()
	if o.superseded(gen) {
		o.logger.Debug("discarding superseded acquisition", "generation", gen)
		return
	}

	target := acquired.or(o.settings.FallbackCoords)
	zoom := o.settings.LiveZoom
	if !acquired.ok() {
		o.logger.Warn("location unavailable, using fallback coordinate",
			"generation", gen,
			"latitude", o.settings.FallbackCoords.Latitude,
			"longitude", o.settings.FallbackCoords.Longitude,
			"error", acquired.err,
		)
		zoom = o.settings.FallbackZoom
	}

	resolved := settle(o.resolver.Resolve(o.ctx, target))
	details := resolved.value
	if !acquired.ok() && !resolved.ok() && !errors.Is(resolved.err, place.ErrNoResults) {
		details = o.settings.FallbackPlace
	}
	if !resolved.ok() {
		o.logger.Warn("place resolution failed", "generation", gen, "error", resolved.err)
	}
	if o.superseded(gen) {
		o.logger.Debug("discarding superseded resolution", "generation", gen)
		return
	}

	tz := o.lookupTimezone(target)
	frame := mapview.Frame{Center: target, Zoom: zoom}

	if !o.unlock(gen, details, target, !acquired.ok(), tz, frame) {
		return
	}

	// The map is presentational; the session is already unlocked while it
	// loads.
	rendered := settle(o.renderer.Render(o.ctx, frame))

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		o.logger.Debug("discarding superseded render", "generation", gen, "current", o.generation)
		return
	}

	o.rendering = false
	o.scriptURL = ""
	if rendered.ok() {
		o.scriptURL = rendered.value.ScriptURL
	}

	if o.overlay.visible {
		o.overlay.loading = false
		if rendered.ok() {
			o.overlay.view = rendered.value
		} else {
			o.overlay.notice = RenderNotice
		}
	}

	o.logger.Debug("overlay map settled", "generation", gen, "map_rendered", rendered.ok())
}

// unlock commits the run's place unless a newer activation superseded it.
func (o *Orchestrator) unlock(gen uint64, details types.PlaceDetails, target types.Coords, fallback bool, tz string, frame mapview.Frame) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		o.logger.Debug("discarding superseded run", "generation", gen, "current", o.generation)
		return false
	}

	o.state = StateUnlocked
	o.place = &details
	o.coords = &target
	o.fallback = fallback
	o.tz = tz
	o.frame = &frame
	o.cancelAcquire = nil
	o.rendering = true

	o.logger.Info("session unlocked",
		"generation", gen,
		"fallback", fallback,
		"place_name", details.PlaceName,
		"city", details.City,
		"country", details.Country,
	)
	return true
}

func (o *Orchestrator) superseded(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return gen != o.generation
}

func (o *Orchestrator) lookupTimezone(coords types.Coords) string {
	if o.timezone == nil {
		return ""
	}
	tz, err := o.timezone.GetTimezone(coords)
	if err != nil {
		o.logger.Debug("no timezone for coordinate", "error", err)
		return ""
	}
	return tz
}

// snapshot must be called with o.mu held.
func (o *Orchestrator) snapshot() View {
	opts := o.acquirer.Options()
	v := View{
		ID:       o.id,
		State:    o.state,
		Unlocked: o.state == StateUnlocked,
		Fallback: o.fallback,
		Timezone: o.tz,
		Overlay: OverlayView{
			Visible: o.overlay.visible,
			Loading: o.overlay.loading,
			Notice:  o.overlay.notice,
			Map:     o.overlay.view.Clone(),
		},
		Geolocation: GeolocationView{
			HighAccuracy: opts.HighAccuracy,
			TimeoutMs:    opts.Timeout.Milliseconds(),
			MaximumAgeMs: opts.MaximumAge.Milliseconds(),
		},
	}
	if o.place != nil {
		v.Place = newPlaceView(*o.place)
	}
	if o.coords != nil {
		c := *o.coords
		v.Coordinates = &c
	}
	return v
}
