package geolocation

import (
	"errors"
	"fmt"
)

// ErrLocationUnavailable is matched by every acquisition failure.
var ErrLocationUnavailable = errors.New("location unavailable")

// ErrNotWaiting is returned when a report arrives and one is already buffered.
var ErrNotWaiting = errors.New("a position report is already pending")

// Reason mirrors the platform geolocation error codes.
type Reason string

const (
	ReasonPermissionDenied    Reason = "permission_denied"
	ReasonPositionUnavailable Reason = "position_unavailable"
	ReasonTimeout             Reason = "timeout"
	ReasonUnsupported         Reason = "unsupported"
	ReasonStale               Reason = "stale"
)

// ParseReason maps a reported error code to a Reason.
func ParseReason(s string) (Reason, bool) {
	switch Reason(s) {
	case ReasonPermissionDenied, ReasonPositionUnavailable, ReasonTimeout, ReasonUnsupported:
		return Reason(s), true
	}
	return "", false
}

// UnavailableError describes why an acquisition produced no coordinate.
type UnavailableError struct {
	Reason Reason
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrLocationUnavailable, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrLocationUnavailable, e.Reason)
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrLocationUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(reason Reason, err error) error {
	return &UnavailableError{Reason: reason, Err: err}
}
