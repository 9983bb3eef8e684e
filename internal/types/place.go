package types

import "fmt"

const (
	UnknownAddress   = "Unknown Address"
	CurrentLocation  = "Current Location"
	GenericPlaceType = "location"
	AreaPlaceType    = "area"
	UnknownCity      = "Unknown City"
	UnknownCountry   = "Unknown Country"
)

// PlaceDetails is the user-facing description of a resolved location.
// Every field is always populated.
type PlaceDetails struct {
	Address   string `json:"address" example:"Galle Face Hotel, 2 Galle Rd, Colombo 00300, Sri Lanka"`
	PlaceName string `json:"placeName" example:"Galle Face Hotel"`
	PlaceType string `json:"placeType" example:"point_of_interest"`
	City      string `json:"city" example:"Colombo"`
	Country   string `json:"country" example:"Sri Lanka"`
}

// DefaultPlaceDetails returns the fully defaulted description used when
// nothing could be resolved.
func DefaultPlaceDetails() PlaceDetails {
	return PlaceDetails{
		Address:   UnknownAddress,
		PlaceName: CurrentLocation,
		PlaceType: GenericPlaceType,
		City:      UnknownCity,
		Country:   UnknownCountry,
	}
}

// WithDefaults fills any empty field from DefaultPlaceDetails.
func (p PlaceDetails) WithDefaults() PlaceDetails {
	d := DefaultPlaceDetails()
	if p.Address == "" {
		p.Address = d.Address
	}
	if p.PlaceName == "" {
		p.PlaceName = d.PlaceName
	}
	if p.PlaceType == "" {
		p.PlaceType = d.PlaceType
	}
	if p.City == "" {
		p.City = d.City
	}
	if p.Country == "" {
		p.Country = d.Country
	}
	return p
}

// Complete reports whether every field is non-empty.
func (p PlaceDetails) Complete() bool {
	return p.Address != "" && p.PlaceName != "" && p.PlaceType != "" && p.City != "" && p.Country != ""
}

// GuideKey is the key downstream guide content is fetched by.
func (p PlaceDetails) GuideKey() string {
	return fmt.Sprintf("%s, %s", p.City, p.Country)
}
