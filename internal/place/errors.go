package place

import "errors"

var (
	// ErrResolutionFailed is returned alongside defaulted details whenever
	// a coordinate could not be resolved.
	ErrResolutionFailed = errors.New("place resolution failed")

	// ErrNoResults marks a resolution that reached the geocoder but got
	// nothing back. It always accompanies ErrResolutionFailed.
	ErrNoResults = errors.New("geocoder returned no results")
)
