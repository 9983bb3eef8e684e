package guides

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wayguard/internal/types"
)

// ErrLocked is returned for sessions that have not unlocked a place yet.
var ErrLocked = errors.New("guides are locked until a location is activated")

// GuidesProvider defines the interface for guide content providers
type GuidesProvider interface {
	GetGuides(ctx context.Context, place string) (*GuidesAPIResponse, error)
}

// UnlockedPlace is the read-only view of a session the service needs.
type UnlockedPlace interface {
	PlaceDetails() (types.PlaceDetails, bool)
}

// Guide is the personalized content for an unlocked place.
type Guide struct {
	Place string   `json:"place" example:"Colombo, Sri Lanka"`
	Dos   []string `json:"dos"`
	Donts []string `json:"donts"`
}

type Service interface {
	GetGuide(ctx context.Context, session UnlockedPlace) (*Guide, error)
}

type guidesService struct {
	provider GuidesProvider
	logger   *slog.Logger
}

func NewGuidesService(baseURL string, logger *slog.Logger) Service {
	return NewGuidesServiceWithProvider(NewClient(baseURL, logger), logger)
}

// NewGuidesServiceWithProvider creates a guides service with a custom provider.
// This is useful for testing with mock providers.
func NewGuidesServiceWithProvider(provider GuidesProvider, logger *slog.Logger) Service {
	return &guidesService{
		provider: provider,
		logger:   logger.With("component", "guides-service"),
	}
}

func (s *guidesService) GetGuide(ctx context.Context, session UnlockedPlace) (*Guide, error) {
	details, ok := session.PlaceDetails()
	if !ok {
		return nil, ErrLocked
	}

	key := details.GuideKey()
	resp, err := s.provider.GetGuides(ctx, key)
	if err != nil {
		s.logger.Error("failed to get guides", "place", key, "error", err)
		return nil, fmt.Errorf("failed to get guides: %w", err)
	}

	guide := &Guide{
		Place: key,
		Dos:   resp.Dos,
		Donts: resp.Donts,
	}
	if guide.Dos == nil {
		guide.Dos = []string{}
	}
	if guide.Donts == nil {
		guide.Donts = []string{}
	}
	return guide, nil
}
