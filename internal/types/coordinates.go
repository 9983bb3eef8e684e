package types

import "fmt"

// Coords is an immutable latitude/longitude pair in decimal degrees.
type Coords struct {
	Latitude  float64 `json:"latitude" example:"6.9271"`
	Longitude float64 `json:"longitude" example:"79.8612"`
}

func NewCoords(latitude, longitude float64) Coords {
	return Coords{
		Latitude:  latitude,
		Longitude: longitude,
	}
}

// ParseCoords builds Coords after checking both axes are in range.
func ParseCoords(latitude, longitude float64) (Coords, error) {
	c := NewCoords(latitude, longitude)
	if err := c.Validate(); err != nil {
		return Coords{}, err
	}
	return c, nil
}

// Validate reports whether the coordinate lies on the globe.
func (c Coords) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: %f", ErrInvalidLatitude, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: %f", ErrInvalidLongitude, c.Longitude)
	}
	return nil
}

// String renders the coordinate the way geocoding APIs key it: "lat,lng".
func (c Coords) String() string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}
