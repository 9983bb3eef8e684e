package unlock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"wayguard/internal/geolocation"
	"wayguard/internal/place"
	"wayguard/internal/timezone"
)

// Session pairs an orchestrator with the sensor its browser reports into.
type Session struct {
	*Orchestrator
	sensor   *geolocation.ReportedSensor
	lastSeen time.Time
}

// Registry holds the in-memory sessions. Sessions idle longer than the TTL
// are dropped by Sweep.
type Registry struct {
	ctx      context.Context
	resolver place.Resolver
	renderer MapRenderer
	timezone timezone.Service
	options  geolocation.Options
	settings Settings
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(
	ctx context.Context,
	resolver place.Resolver,
	renderer MapRenderer,
	tz timezone.Service,
	options geolocation.Options,
	settings Settings,
	ttl time.Duration,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		ctx:      ctx,
		resolver: resolver,
		renderer: renderer,
		timezone: tz,
		options:  options,
		settings: settings,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new Locked session.
func (r *Registry) Create() View {
	id := uuid.NewString()
	sensor := geolocation.NewReportedSensor()
	acquirer := geolocation.NewAcquirer(sensor, r.options, r.logger)
	orch := NewOrchestrator(r.ctx, id, acquirer, r.resolver, r.renderer, r.timezone, r.settings, r.logger)

	r.mu.Lock()
	r.sessions[id] = &Session{Orchestrator: orch, sensor: sensor, lastSeen: r.now()}
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("session created", "session_id", id, "sessions", count)

	return orch.View()
}

// Get returns a session and marks it as seen.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.lastSeen = r.now()
	return s, nil
}

// Activate discards any stale position report and starts a run.
func (r *Registry) Activate(id string) (View, error) {
	s, err := r.Get(id)
	if err != nil {
		return View{}, err
	}
	s.sensor.Drain()
	return s.Activate(), nil
}

// ReportPosition delivers the browser's geolocation result to the session.
func (r *Registry) ReportPosition(id string, report geolocation.Report) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	return s.sensor.Submit(report)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("expired idle sessions", "removed", removed, "remaining", len(r.sessions))
	}
	return removed
}

// Run sweeps on the given interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
