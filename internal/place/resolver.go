package place

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"wayguard/internal/providers/googlemaps"
	"wayguard/internal/types"
)

// ReverseGeocodeProvider defines the interface for reverse-geocoding providers
type ReverseGeocodeProvider interface {
	ReverseGeocode(ctx context.Context, latitude, longitude float64) (*googlemaps.GeocodeAPIResponse, error)
}

// Resolver turns coordinates into PlaceDetails.
type Resolver interface {
	// Resolve always returns fully populated details. On failure the
	// details are the defaults and the error wraps ErrResolutionFailed.
	Resolve(ctx context.Context, coords types.Coords) (types.PlaceDetails, error)
}

// Address component tags, in the order they are preferred.
var (
	namedPlaceTags = []string{"establishment", "point_of_interest", "route"}
	areaTags       = []string{"locality", "sublocality"}
	cityTags       = []string{"locality", "administrative_area_level_2"}
	countryTags    = []string{"country"}
)

type resolver struct {
	provider ReverseGeocodeProvider
	logger   *slog.Logger
}

// NewResolver creates a resolver backed by the Google geocoding client.
func NewResolver(apiKey string, requestsPerSecond float64, logger *slog.Logger) Resolver {
	return NewResolverWithProvider(googlemaps.NewGeocodeClient(apiKey, requestsPerSecond, logger), logger)
}

// NewResolverWithProvider creates a resolver with a custom provider
// This is useful for testing with mock providers
func NewResolverWithProvider(provider ReverseGeocodeProvider, logger *slog.Logger) Resolver {
	return &resolver{
		provider: provider,
		logger:   logger.With("component", "place-resolver"),
	}
}

func (r *resolver) Resolve(ctx context.Context, coords types.Coords) (types.PlaceDetails, error) {
	resp, err := r.provider.ReverseGeocode(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		r.logger.Warn("reverse geocoding failed, using default place",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
			"error", err,
		)
		return types.DefaultPlaceDetails(), fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}

	if resp == nil || len(resp.Results) == 0 {
		r.logger.Info("no geocoding results, using default place",
			"latitude", coords.Latitude,
			"longitude", coords.Longitude,
		)
		return types.DefaultPlaceDetails(), fmt.Errorf("%w: %w", ErrResolutionFailed, ErrNoResults)
	}

	details := translatePlaceDetails(resp.Results[0])

	r.logger.Debug("resolved place",
		"latitude", coords.Latitude,
		"longitude", coords.Longitude,
		"place_name", details.PlaceName,
		"place_type", details.PlaceType,
		"city", details.City,
		"country", details.Country,
	)

	return details, nil
}

// translatePlaceDetails applies the component selection rules to the first
// geocoding result and fills anything unresolved with defaults.
func translatePlaceDetails(result googlemaps.GeocodeResult) types.PlaceDetails {
	components := result.AddressComponents
	details := types.PlaceDetails{Address: result.FormattedAddress}

	if named, ok := findComponent(components, namedPlaceTags); ok {
		details.PlaceName = named.LongName
		if len(named.Types) > 0 {
			details.PlaceType = named.Types[0]
		}
	} else if area, ok := findComponent(components, areaTags); ok {
		details.PlaceName = area.LongName
		details.PlaceType = types.AreaPlaceType
	}

	if city, ok := findComponent(components, cityTags); ok {
		details.City = city.LongName
	}
	if country, ok := findComponent(components, countryTags); ok {
		details.Country = country.LongName
	}

	return details.WithDefaults()
}

// findComponent returns the first component carrying any of the tags.
func findComponent(components []googlemaps.AddressComponent, tags []string) (googlemaps.AddressComponent, bool) {
	for _, comp := range components {
		for _, tag := range tags {
			if slices.Contains(comp.Types, tag) {
				return comp, true
			}
		}
	}
	return googlemaps.AddressComponent{}, false
}
