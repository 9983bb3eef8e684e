package unlock

import (
	"fmt"

	"wayguard/internal/mapview"
	"wayguard/internal/place"
	"wayguard/internal/types"
)

// State is the position of a session in the unlock flow. It only moves
// forward: Locked -> Acquiring -> Unlocked.
type State int

const (
	StateLocked State = iota
	StateAcquiring
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateAcquiring:
		return "acquiring"
	case StateUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("unknown (%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// View is an immutable snapshot of a session, safe to hand to other
// components and to serialize.
type View struct {
	ID          string          `json:"id" example:"7b0f3c9e-5f7a-4d8e-a1a4-3c1f1b2d9e10"`
	State       State           `json:"state" swaggertype:"string" enums:"locked,acquiring,unlocked"`
	Unlocked    bool            `json:"unlocked"`
	Place       *PlaceView      `json:"place"`
	Coordinates *types.Coords   `json:"coordinates"`
	Fallback    bool            `json:"fallback"`
	Timezone    string          `json:"timezone,omitempty" example:"Asia/Colombo"`
	Overlay     OverlayView     `json:"overlay"`
	Geolocation GeolocationView `json:"geolocation"`
}

// PlaceView decorates PlaceDetails with its category icon and label.
type PlaceView struct {
	types.PlaceDetails
	Icon           string `json:"icon" example:"📍"`
	PlaceTypeLabel string `json:"placeTypeLabel" example:"Point of Interest"`
}

func newPlaceView(d types.PlaceDetails) *PlaceView {
	return &PlaceView{
		PlaceDetails:   d,
		Icon:           place.Icon(d.PlaceType),
		PlaceTypeLabel: place.Label(d.PlaceType),
	}
}

type OverlayView struct {
	Visible bool             `json:"visible"`
	Loading bool             `json:"loading"`
	Notice  string           `json:"notice,omitempty"`
	Map     *mapview.MapView `json:"map"`
}

// GeolocationView carries the options the browser must pass to
// getCurrentPosition.
type GeolocationView struct {
	HighAccuracy bool  `json:"highAccuracy"`
	TimeoutMs    int64 `json:"timeoutMs" example:"10000"`
	MaximumAgeMs int64 `json:"maximumAgeMs" example:"60000"`
}

// PlaceDetails returns the unlocked place, if any.
func (v View) PlaceDetails() (types.PlaceDetails, bool) {
	if !v.Unlocked || v.Place == nil {
		return types.PlaceDetails{}, false
	}
	return v.Place.PlaceDetails, true
}
