package geolocation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"wayguard/internal/types"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaximumAge = 60 * time.Second
)

// Options are the acquisition parameters handed to the position sensor.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// DefaultOptions requests a high-accuracy fix within 10s, accepting a
// reading up to 60s old.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      DefaultTimeout,
		MaximumAge:   DefaultMaximumAge,
	}
}

// Reading is one fix produced by a sensor.
type Reading struct {
	Coords    types.Coords
	Accuracy  float64
	Timestamp time.Time
}

// Sensor is the device position source. ReadPosition blocks until a fix is
// available, the sensor fails, or ctx is done.
type Sensor interface {
	ReadPosition(ctx context.Context, opts Options) (Reading, error)
}

// Acquirer performs bounded, single-shot position acquisitions.
type Acquirer struct {
	sensor Sensor
	opts   Options
	now    func() time.Time
	logger *slog.Logger

	mu   sync.Mutex
	last *Reading
}

func NewAcquirer(sensor Sensor, opts Options, logger *slog.Logger) *Acquirer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaximumAge < 0 {
		opts.MaximumAge = 0
	}
	return &Acquirer{
		sensor: sensor,
		opts:   opts,
		now:    time.Now,
		logger: logger.With("component", "geolocation-acquirer"),
	}
}

// Options returns the options this acquirer reads the sensor with.
func (a *Acquirer) Options() Options {
	return a.opts
}

// Acquire returns the current position. A previous reading no older than
// MaximumAge is returned without touching the sensor. Every failure is an
// *UnavailableError; callers must not retry.
func (a *Acquirer) Acquire(ctx context.Context) (types.Coords, error) {
	if r, ok := a.cached(); ok {
		a.logger.Debug("reusing cached position",
			"latitude", r.Coords.Latitude,
			"longitude", r.Coords.Longitude,
			"age", a.now().Sub(r.Timestamp),
		)
		return r.Coords, nil
	}

	readCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	reading, err := a.sensor.ReadPosition(readCtx, a.opts)
	if err != nil {
		err = a.classify(readCtx, err)
		a.logger.Warn("position acquisition failed", "error", err)
		return types.Coords{}, err
	}

	if err := reading.Coords.Validate(); err != nil {
		a.logger.Warn("sensor returned an invalid position", "error", err)
		return types.Coords{}, unavailable(ReasonPositionUnavailable, err)
	}

	if reading.Timestamp.IsZero() {
		reading.Timestamp = a.now()
	}
	if a.now().Sub(reading.Timestamp) > a.opts.MaximumAge {
		a.logger.Warn("sensor returned a stale position", "timestamp", reading.Timestamp)
		return types.Coords{}, unavailable(ReasonStale, nil)
	}

	a.mu.Lock()
	a.last = &reading
	a.mu.Unlock()

	a.logger.Debug("position acquired",
		"latitude", reading.Coords.Latitude,
		"longitude", reading.Coords.Longitude,
		"accuracy", reading.Accuracy,
	)
	return reading.Coords, nil
}

func (a *Acquirer) cached() (Reading, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last == nil || a.opts.MaximumAge == 0 {
		return Reading{}, false
	}
	if a.now().Sub(a.last.Timestamp) > a.opts.MaximumAge {
		return Reading{}, false
	}
	return *a.last, true
}

func (a *Acquirer) classify(ctx context.Context, err error) error {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return unavailable(ReasonTimeout, err)
	}
	return unavailable(ReasonPositionUnavailable, err)
}
