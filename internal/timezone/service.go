package timezone

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"

	"wayguard/internal/types"
)

// ErrUnknownTimezone is returned for coordinates no zone polygon covers.
var ErrUnknownTimezone = errors.New("no timezone for coordinate")

// Service names the IANA zone an unlocked place lies in.
type Service interface {
	GetTimezone(coords types.Coords) (string, error)
}

type finderService struct {
	mu     sync.RWMutex
	finder tzf.F
}

// The finder holds the full polygon set in memory, so it is built once per
// process and shared by every session.
var (
	shared     *finderService
	sharedOnce sync.Once
	sharedErr  error
)

func NewService() (Service, error) {
	sharedOnce.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			sharedErr = fmt.Errorf("failed to load timezone polygons: %w", err)
			return
		}
		shared = &finderService{finder: finder}
	})
	if sharedErr != nil {
		return nil, sharedErr
	}
	return shared, nil
}

// GetTimezone returns e.g. "Asia/Colombo" for a point in Sri Lanka.
func (s *finderService) GetTimezone(coords types.Coords) (string, error) {
	s.mu.RLock()
	name := s.finder.GetTimezoneName(coords.Longitude, coords.Latitude)
	s.mu.RUnlock()

	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownTimezone, coords)
	}
	return name, nil
}
