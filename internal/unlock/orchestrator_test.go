package unlock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"wayguard/internal/geolocation"
	"wayguard/internal/mapview"
	"wayguard/internal/place"
	"wayguard/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type acquireResult struct {
	coords types.Coords
	err    error
}

// mockAcquirer returns queued results; a nil queue entry blocks until ctx
// is cancelled.
type mockAcquirer struct {
	mu      sync.Mutex
	results []*acquireResult
	calls   int
}

func (m *mockAcquirer) Acquire(ctx context.Context) (types.Coords, error) {
	m.mu.Lock()
	i := m.calls
	m.calls++
	var r *acquireResult
	if i < len(m.results) {
		r = m.results[i]
	}
	m.mu.Unlock()

	if r == nil {
		<-ctx.Done()
		return types.Coords{}, &geolocation.UnavailableError{Reason: geolocation.ReasonTimeout, Err: ctx.Err()}
	}
	return r.coords, r.err
}

func (m *mockAcquirer) Options() geolocation.Options {
	return geolocation.DefaultOptions()
}

func (m *mockAcquirer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type resolveResult struct {
	details types.PlaceDetails
	err     error
	gate    chan struct{}
}

type mockResolver struct {
	mu      sync.Mutex
	results []resolveResult
	coords  []types.Coords
}

func (m *mockResolver) Resolve(ctx context.Context, coords types.Coords) (types.PlaceDetails, error) {
	m.mu.Lock()
	i := len(m.coords)
	m.coords = append(m.coords, coords)
	r := m.results[len(m.results)-1]
	if i < len(m.results) {
		r = m.results[i]
	}
	m.mu.Unlock()

	if r.gate != nil {
		<-r.gate
	}
	return r.details, r.err
}

func (m *mockResolver) Calls() []types.Coords {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Coords(nil), m.coords...)
}

type mockRenderer struct {
	mu     sync.Mutex
	err    error
	frames []mapview.Frame
}

func (m *mockRenderer) Render(ctx context.Context, frame mapview.Frame) (*mapview.MapView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, frame)
	if m.err != nil {
		return nil, m.err
	}
	return mapview.Build("https://maps.example/js", frame), nil
}

func (m *mockRenderer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

type mockTimezone struct{}

func (mockTimezone) GetTimezone(coords types.Coords) (string, error) {
	return "Asia/Colombo", nil
}

func waitSettled(t *testing.T, o *Orchestrator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := o.Wait(ctx); err != nil {
		t.Fatalf("pipeline did not settle: %v", err)
	}
}

var galleFace = types.PlaceDetails{
	Address:   "2 Galle Rd, Colombo 00300, Sri Lanka",
	PlaceName: "Galle Face Hotel",
	PlaceType: "point_of_interest",
	City:      "Colombo",
	Country:   "Sri Lanka",
}

func newTestOrchestrator(acq *mockAcquirer, res *mockResolver, ren *mockRenderer) *Orchestrator {
	return NewOrchestrator(context.Background(), "session-1", acq, res, ren, mockTimezone{}, DefaultSettings(), testLogger())
}

func TestOrchestrator_InitialState(t *testing.T) {
	o := newTestOrchestrator(&mockAcquirer{}, &mockResolver{}, &mockRenderer{})
	v := o.View()

	if v.State != StateLocked || v.Unlocked {
		t.Errorf("State = %v, Unlocked = %v, want locked", v.State, v.Unlocked)
	}
	if v.Place != nil || v.Overlay.Visible {
		t.Errorf("unexpected place or overlay in %+v", v)
	}
	if v.Geolocation.TimeoutMs != 10000 || v.Geolocation.MaximumAgeMs != 60000 || !v.Geolocation.HighAccuracy {
		t.Errorf("Geolocation = %+v", v.Geolocation)
	}
}

func TestOrchestrator_Pipeline(t *testing.T) {
	live := types.NewCoords(6.9271, 79.8612)
	fallback := DefaultSettings().FallbackCoords

	tests := []struct {
		name         string
		acquire      *acquireResult
		resolve      resolveResult
		renderErr    error
		wantPlace    types.PlaceDetails
		wantCoords   types.Coords
		wantZoom     int
		wantFallback bool
		wantNotice   bool
	}{
		{
			name:       "sensor and geocoder succeed",
			acquire:    &acquireResult{coords: live},
			resolve:    resolveResult{details: galleFace},
			wantPlace:  galleFace,
			wantCoords: live,
			wantZoom:   mapview.LiveZoom,
		},
		{
			name:    "sensor times out and fallback has no results",
			acquire: &acquireResult{err: &geolocation.UnavailableError{Reason: geolocation.ReasonTimeout}},
			resolve: resolveResult{
				details: types.DefaultPlaceDetails(),
				err:     errors.Join(place.ErrResolutionFailed, place.ErrNoResults),
			},
			wantPlace:    types.DefaultPlaceDetails(),
			wantCoords:   fallback,
			wantZoom:     mapview.FallbackZoom,
			wantFallback: true,
		},
		{
			name:    "sensor denied and fallback geocoding errors",
			acquire: &acquireResult{err: &geolocation.UnavailableError{Reason: geolocation.ReasonPermissionDenied}},
			resolve: resolveResult{
				details: types.DefaultPlaceDetails(),
				err:     errors.Join(place.ErrResolutionFailed, errors.New("network down")),
			},
			wantPlace:    DefaultSettings().FallbackPlace,
			wantCoords:   fallback,
			wantZoom:     mapview.FallbackZoom,
			wantFallback: true,
		},
		{
			name:    "sensor succeeds and geocoder errors",
			acquire: &acquireResult{coords: live},
			resolve: resolveResult{
				details: types.DefaultPlaceDetails(),
				err:     errors.Join(place.ErrResolutionFailed, errors.New("network down")),
			},
			wantPlace:  types.DefaultPlaceDetails(),
			wantCoords: live,
			wantZoom:   mapview.LiveZoom,
		},
		{
			name:       "map SDK fails to load",
			acquire:    &acquireResult{coords: live},
			resolve:    resolveResult{details: galleFace},
			renderErr:  mapview.ErrRenderFailed,
			wantPlace:  galleFace,
			wantCoords: live,
			wantZoom:   mapview.LiveZoom,
			wantNotice: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acq := &mockAcquirer{results: []*acquireResult{tt.acquire}}
			res := &mockResolver{results: []resolveResult{tt.resolve}}
			ren := &mockRenderer{err: tt.renderErr}
			o := newTestOrchestrator(acq, res, ren)

			started := o.Activate()
			if started.State != StateAcquiring || !started.Overlay.Visible || !started.Overlay.Loading {
				t.Errorf("after Activate: state = %v, overlay = %+v", started.State, started.Overlay)
			}

			waitSettled(t, o)
			v := o.View()

			if v.State != StateUnlocked || !v.Unlocked {
				t.Fatalf("State = %v, want unlocked", v.State)
			}
			if v.Place == nil || v.Place.PlaceDetails != tt.wantPlace {
				t.Fatalf("Place = %+v, want %+v", v.Place, tt.wantPlace)
			}
			if !v.Place.Complete() {
				t.Errorf("Place is incomplete: %+v", v.Place.PlaceDetails)
			}
			if calls := res.Calls(); len(calls) != 1 || calls[0] != tt.wantCoords {
				t.Errorf("resolver calls = %v, want [%v]", calls, tt.wantCoords)
			}
			if v.Coordinates == nil || *v.Coordinates != tt.wantCoords {
				t.Errorf("Coordinates = %v, want %v", v.Coordinates, tt.wantCoords)
			}
			if v.Fallback != tt.wantFallback {
				t.Errorf("Fallback = %v, want %v", v.Fallback, tt.wantFallback)
			}
			if v.Overlay.Loading {
				t.Error("Overlay.Loading = true after settle")
			}
			if tt.wantNotice {
				if v.Overlay.Notice != RenderNotice || v.Overlay.Map != nil {
					t.Errorf("Overlay = %+v, want render notice and no map", v.Overlay)
				}
			} else {
				if v.Overlay.Map == nil {
					t.Fatal("Overlay.Map = nil, want a map")
				}
				if v.Overlay.Map.Zoom != tt.wantZoom || v.Overlay.Map.Center != tt.wantCoords {
					t.Errorf("map center/zoom = %v/%d, want %v/%d", v.Overlay.Map.Center, v.Overlay.Map.Zoom, tt.wantCoords, tt.wantZoom)
				}
			}
			if v.Timezone != "Asia/Colombo" {
				t.Errorf("Timezone = %q", v.Timezone)
			}
		})
	}
}

func TestOrchestrator_PlaceViewDecoration(t *testing.T) {
	acq := &mockAcquirer{results: []*acquireResult{{coords: types.NewCoords(6.9271, 79.8612)}}}
	res := &mockResolver{results: []resolveResult{{details: galleFace}}}
	o := newTestOrchestrator(acq, res, &mockRenderer{})

	o.Activate()
	waitSettled(t, o)

	v := o.View()
	if v.Place.Icon != place.DefaultIcon {
		t.Errorf("Icon = %q, want %q", v.Place.Icon, place.DefaultIcon)
	}
	if v.Place.PlaceTypeLabel != "Point of Interest" {
		t.Errorf("PlaceTypeLabel = %q, want Point of Interest", v.Place.PlaceTypeLabel)
	}
	details, ok := v.PlaceDetails()
	if !ok || details.GuideKey() != "Colombo, Sri Lanka" {
		t.Errorf("PlaceDetails() = %+v, %v", details, ok)
	}
}

func TestOrchestrator_DismissAndReopen(t *testing.T) {
	acq := &mockAcquirer{results: []*acquireResult{{coords: types.NewCoords(6.9271, 79.8612)}}}
	res := &mockResolver{results: []resolveResult{{details: galleFace}}}
	ren := &mockRenderer{}
	o := newTestOrchestrator(acq, res, ren)

	if _, err := o.ReopenOverlay(); !errors.Is(err, ErrLocked) {
		t.Errorf("ReopenOverlay() before activation error = %v, want ErrLocked", err)
	}

	o.Activate()
	waitSettled(t, o)
	before := o.View()

	dismissed := o.Dismiss()
	if dismissed.Overlay.Visible || dismissed.Overlay.Map != nil {
		t.Errorf("after Dismiss overlay = %+v", dismissed.Overlay)
	}
	if dismissed.State != StateUnlocked || dismissed.Place.PlaceDetails != before.Place.PlaceDetails {
		t.Errorf("Dismiss changed unlock state: %+v", dismissed)
	}

	reopened, err := o.ReopenOverlay()
	if err != nil {
		t.Fatalf("ReopenOverlay() error = %v", err)
	}
	if !reopened.Overlay.Visible || reopened.Overlay.Map == nil {
		t.Fatalf("after reopen overlay = %+v", reopened.Overlay)
	}
	if reopened.Overlay.Map.Center != before.Overlay.Map.Center || reopened.Overlay.Map.Zoom != before.Overlay.Map.Zoom {
		t.Errorf("reopened map %+v differs from %+v", reopened.Overlay.Map, before.Overlay.Map)
	}
	if reopened.State != StateUnlocked || reopened.Place.PlaceDetails != before.Place.PlaceDetails {
		t.Errorf("reopen changed unlock state: %+v", reopened)
	}

	if acq.Calls() != 1 || len(res.Calls()) != 1 || ren.Calls() != 1 {
		t.Errorf("calls after reopen: acquire=%d resolve=%d render=%d, want 1 each",
			acq.Calls(), len(res.Calls()), ren.Calls())
	}
}

func TestOrchestrator_ReopenAfterRenderFailureShowsNotice(t *testing.T) {
	acq := &mockAcquirer{results: []*acquireResult{{coords: types.NewCoords(6.9271, 79.8612)}}}
	res := &mockResolver{results: []resolveResult{{details: galleFace}}}
	ren := &mockRenderer{err: mapview.ErrRenderFailed}
	o := newTestOrchestrator(acq, res, ren)

	o.Activate()
	waitSettled(t, o)
	o.Dismiss()

	v, err := o.ReopenOverlay()
	if err != nil {
		t.Fatalf("ReopenOverlay() error = %v", err)
	}
	if v.Overlay.Map != nil || v.Overlay.Notice != RenderNotice {
		t.Errorf("overlay = %+v, want notice only", v.Overlay)
	}
	if ren.Calls() != 1 {
		t.Errorf("render calls = %d, want 1", ren.Calls())
	}
}

func TestOrchestrator_DismissWhileAcquiring(t *testing.T) {
	gate := make(chan struct{})
	acq := &mockAcquirer{results: []*acquireResult{{coords: types.NewCoords(6.9271, 79.8612)}}}
	res := &mockResolver{results: []resolveResult{{details: galleFace, gate: gate}}}
	o := newTestOrchestrator(acq, res, &mockRenderer{})

	o.Activate()
	v := o.Dismiss()
	if v.State != StateAcquiring || v.Overlay.Visible {
		t.Errorf("after Dismiss: state = %v overlay = %+v", v.State, v.Overlay)
	}

	close(gate)
	waitSettled(t, o)

	v = o.View()
	if v.State != StateUnlocked {
		t.Errorf("State = %v, want unlocked", v.State)
	}
	if v.Overlay.Visible || v.Overlay.Map != nil {
		t.Errorf("hidden overlay was given a map: %+v", v.Overlay)
	}
}

func TestOrchestrator_ReactivationSupersedesEarlierRun(t *testing.T) {
	first := types.NewCoords(6.9271, 79.8612)
	second := types.NewCoords(7.2906, 80.6337)
	kandy := types.PlaceDetails{
		Address:   "Kandy, Sri Lanka",
		PlaceName: "Kandy",
		PlaceType: types.AreaPlaceType,
		City:      "Kandy",
		Country:   "Sri Lanka",
	}

	firstGate := make(chan struct{})
	acq := &mockAcquirer{results: []*acquireResult{{coords: first}, {coords: second}}}
	res := &mockResolver{results: []resolveResult{
		{details: galleFace, gate: firstGate},
		{details: kandy},
	}}
	o := newTestOrchestrator(acq, res, &mockRenderer{})

	o.Activate()
	waitForResolveCalls(t, res, 1)

	o.Activate()
	waitSettled(t, o)

	if v := o.View(); v.Place == nil || v.Place.PlaceDetails != kandy {
		t.Fatalf("Place = %+v, want Kandy", v.Place)
	}

	// The first run completes late and must be discarded.
	close(firstGate)
	time.Sleep(20 * time.Millisecond)

	v := o.View()
	if v.Place.PlaceDetails != kandy {
		t.Errorf("late run overwrote place: %+v", v.Place)
	}
	if *v.Coordinates != second {
		t.Errorf("Coordinates = %v, want %v", *v.Coordinates, second)
	}
	if v.State != StateUnlocked {
		t.Errorf("State = %v, want unlocked", v.State)
	}
}

func TestOrchestrator_ReactivationCancelsPendingSensorWait(t *testing.T) {
	live := types.NewCoords(6.9271, 79.8612)
	acq := &mockAcquirer{results: []*acquireResult{nil, {coords: live}}}
	res := &mockResolver{results: []resolveResult{{details: galleFace}}}
	o := newTestOrchestrator(acq, res, &mockRenderer{})

	o.Activate()
	waitForAcquireCalls(t, acq, 1)
	o.Activate()
	waitSettled(t, o)

	v := o.View()
	if v.Fallback {
		t.Error("Fallback = true, the cancelled wait leaked into the result")
	}
	if calls := res.Calls(); len(calls) != 1 || calls[0] != live {
		t.Errorf("resolver calls = %v, want only the live coordinate", calls)
	}
}

func TestOrchestrator_StaysUnlockedOnReactivation(t *testing.T) {
	gate := make(chan struct{})
	acq := &mockAcquirer{results: []*acquireResult{
		{coords: types.NewCoords(6.9271, 79.8612)},
		{coords: types.NewCoords(6.9271, 79.8612)},
	}}
	res := &mockResolver{results: []resolveResult{{details: galleFace}, {details: galleFace, gate: gate}}}
	o := newTestOrchestrator(acq, res, &mockRenderer{})

	o.Activate()
	waitSettled(t, o)

	v := o.Activate()
	if v.State != StateUnlocked || v.Place == nil {
		t.Errorf("re-activation re-locked the session: %+v", v)
	}
	if !v.Overlay.Loading {
		t.Error("Overlay.Loading = false during re-activation")
	}

	close(gate)
	waitSettled(t, o)
	if v := o.View(); v.State != StateUnlocked || v.Overlay.Loading {
		t.Errorf("after second run: %+v", v)
	}
}

func TestOrchestrator_ViewIsACopy(t *testing.T) {
	acq := &mockAcquirer{results: []*acquireResult{{coords: types.NewCoords(6.9271, 79.8612)}}}
	res := &mockResolver{results: []resolveResult{{details: galleFace}}}
	o := newTestOrchestrator(acq, res, &mockRenderer{})

	o.Activate()
	waitSettled(t, o)

	v := o.View()
	v.Place.City = "Mutated"
	v.Coordinates.Latitude = 0
	v.Overlay.Map.Zoom = 1
	v.Overlay.Map.Styles[0].Stylers[0].Visibility = "on"

	again := o.View()
	if again.Place.City != "Colombo" || again.Coordinates.Latitude != 6.9271 {
		t.Errorf("snapshot mutation leaked: %+v", again)
	}
	if again.Overlay.Map.Zoom != mapview.LiveZoom || again.Overlay.Map.Styles[0].Stylers[0].Visibility != "off" {
		t.Errorf("map mutation leaked: %+v", again.Overlay.Map)
	}
}

func waitForResolveCalls(t *testing.T, res *mockResolver, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for len(res.Calls()) < n {
		if time.Now().After(deadline) {
			t.Fatalf("resolver never reached %d calls", n)
		}
		time.Sleep(time.Millisecond)
	}
}

func waitForAcquireCalls(t *testing.T, acq *mockAcquirer, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for acq.Calls() < n {
		if time.Now().After(deadline) {
			t.Fatalf("acquirer never reached %d calls", n)
		}
		time.Sleep(time.Millisecond)
	}
}

// stalledLoader holds the map SDK load until release is closed.
type stalledLoader struct {
	release chan struct{}
}

func (s *stalledLoader) Load(ctx context.Context) (string, error) {
	select {
	case <-s.release:
		return "https://maps.example/js", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func waitForState(t *testing.T, o *Orchestrator, want State) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		v := o.View()
		if v.State == want {
			return v
		}
		if time.Now().After(deadline) {
			t.Fatalf("State = %v, never reached %v", v.State, want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestOrchestrator_UnlocksWhileMapIsLoading(t *testing.T) {
	loader := &stalledLoader{release: make(chan struct{})}
	renderer := mapview.NewRenderer(loader, testLogger())

	newSession := func(id string) *Orchestrator {
		acq := &mockAcquirer{results: []*acquireResult{{coords: types.NewCoords(6.9271, 79.8612)}}}
		res := &mockResolver{results: []resolveResult{{details: galleFace}}}
		return NewOrchestrator(context.Background(), id, acq, res, renderer, mockTimezone{}, DefaultSettings(), testLogger())
	}
	a, b := newSession("a"), newSession("b")

	a.Activate()
	b.Activate()

	for _, o := range []*Orchestrator{a, b} {
		v := waitForState(t, o, StateUnlocked)
		if !v.Unlocked || v.Place == nil || v.Place.PlaceDetails != galleFace {
			t.Errorf("session %s: %+v, want unlocked with place", v.ID, v)
		}
		if !v.Overlay.Loading || v.Overlay.Map != nil || v.Overlay.Notice != "" {
			t.Errorf("session %s overlay = %+v, want loading without map", v.ID, v.Overlay)
		}
	}

	a.Dismiss()
	reopened, err := a.ReopenOverlay()
	if err != nil {
		t.Fatalf("ReopenOverlay() error = %v", err)
	}
	if !reopened.Overlay.Loading || reopened.Overlay.Notice != "" {
		t.Errorf("reopened mid-load overlay = %+v, want loading", reopened.Overlay)
	}

	close(loader.release)
	waitSettled(t, a)
	waitSettled(t, b)

	for _, o := range []*Orchestrator{a, b} {
		v := o.View()
		if v.Overlay.Loading || v.Overlay.Map == nil {
			t.Errorf("session %s overlay = %+v, want map after load", v.ID, v.Overlay)
		}
	}
}
