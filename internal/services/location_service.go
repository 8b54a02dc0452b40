package services

import (
	"context"
	"fmt"

	"github.com/rifaat-dev/propcore/internal/logger"
	"github.com/rifaat-dev/propcore/internal/models"
	"github.com/rifaat-dev/propcore/internal/repository"
)

// maxHierarchyDepth bounds the parent walk. The hierarchy has four levels;
// anything deeper means the data is malformed.
const maxHierarchyDepth = 8

// LocationService resolves the location hierarchy for display and
// validation.
type LocationService interface {
	// FullPath returns the names from the root country down to the given
	// location, ending with its own name. Malformed cyclic ancestry is
	// detected and reported rather than looping.
	FullPath(ctx context.Context, id int64) ([]string, error)

	// ValidParent reports whether a location of type child may be placed
	// under a parent of type parent.
	ValidParent(child, parent models.LocationType) bool
}

type locationService struct {
	repo repository.LocationRepository
	log  *logger.Logger
}

// NewLocationService creates a new LocationService.
func NewLocationService(repo repository.LocationRepository, log *logger.Logger) LocationService {
	return &locationService{repo: repo, log: log}
}

func (s *locationService) FullPath(ctx context.Context, id int64) ([]string, error) {
	loc, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	path := []string{loc.Name}
	seen := map[int64]bool{loc.ID: true}

	current := loc
	for current.ParentID != nil {
		parentID := *current.ParentID

		// The database does not enforce the hierarchy invariant, so a
		// repeated id must fail instead of walking forever.
		if seen[parentID] || len(path) >= maxHierarchyDepth {
			s.log.Error("Location ancestry is cyclic", repository.ErrCycleDetected, map[string]interface{}{
				"location_id": id,
				"repeated_id": parentID,
			})
			return nil, fmt.Errorf("%w: location %d revisits %d", repository.ErrCycleDetected, id, parentID)
		}
		seen[parentID] = true

		parent, err := s.repo.Find(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ancestor %d of location %d: %w", parentID, id, err)
		}

		path = append([]string{parent.Name}, path...)
		current = parent
	}

	return path, nil
}

func (s *locationService) ValidParent(child, parent models.LocationType) bool {
	return models.ValidTypeForParent(child, parent)
}
