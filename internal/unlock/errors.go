package unlock

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrLocked          = errors.New("session has not been activated")
)

// RenderNotice is shown on the overlay when the map could not be drawn.
const RenderNotice = "Map unavailable. Your location details are shown below."
