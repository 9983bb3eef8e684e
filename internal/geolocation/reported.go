package geolocation

import (
	"context"
	"time"

	"wayguard/internal/types"
)

// Report is what the browser posts back after calling getCurrentPosition.
// Exactly one of Reading or Reason is meaningful.
type Report struct {
	Reading Reading
	Reason  Reason
}

// ReportedSensor is a Sensor fed by client position reports. It holds at
// most one undelivered report; a report posted before the read starts is
// delivered to the next read.
type ReportedSensor struct {
	reports chan Report
	now     func() time.Time
}

func NewReportedSensor() *ReportedSensor {
	return &ReportedSensor{
		reports: make(chan Report, 1),
		now:     time.Now,
	}
}

// Submit hands a report to the waiting (or next) read. The reading is
// stamped with the time it was received; the client's own clock has already
// applied maximumAge and may be skewed against ours.
func (s *ReportedSensor) Submit(r Report) error {
	if r.Reason == "" {
		r.Reading.Timestamp = s.now()
	}
	select {
	case s.reports <- r:
		return nil
	default:
		return ErrNotWaiting
	}
}

// Drain discards any buffered report so a new acquisition starts clean.
func (s *ReportedSensor) Drain() {
	select {
	case <-s.reports:
	default:
	}
}

func (s *ReportedSensor) ReadPosition(ctx context.Context, _ Options) (Reading, error) {
	select {
	case r := <-s.reports:
		if r.Reason != "" {
			return Reading{}, unavailable(r.Reason, nil)
		}
		return r.Reading, nil
	case <-ctx.Done():
		return Reading{}, unavailable(ReasonTimeout, ctx.Err())
	}
}

// NewReading is a convenience for building a Reading from raw values.
func NewReading(latitude, longitude, accuracy float64, ts time.Time) Reading {
	return Reading{
		Coords:    types.NewCoords(latitude, longitude),
		Accuracy:  accuracy,
		Timestamp: ts,
	}
}
