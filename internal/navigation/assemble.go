package navigation

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

// DefaultWalkingSpeed is the walking speed, in units per second, used to
// derive EstimatedTime.
const DefaultWalkingSpeed = 1.4

// Assemble turns a finished search into an ordered route from start to end.
func Assemble(g *Graph, s Search, start, end int64, walkingSpeed float64) (domain.PathResult, error) {
	if walkingSpeed <= 0 || math.IsNaN(walkingSpeed) || math.IsInf(walkingSpeed, 0) {
		walkingSpeed = DefaultWalkingSpeed
	}

	if start == end {
		loc, ok := g.Node(start)
		if !ok {
			return domain.PathResult{}, errors.Wrapf(ErrNotFound, "location %d", start)
		}
		return domain.PathResult{Segments: []domain.PathSegment{segmentOf(loc)}}, nil
	}

	if _, ok := s.Predecessor(end); !ok {
		return domain.PathResult{}, errors.Wrapf(ErrNoPath, "from %d to %d", start, end)
	}

	ids := []int64{end}
	cur := end
	for steps := 0; cur != start; steps++ {
		if steps >= g.Len() {
			return domain.PathResult{}, errors.Wrapf(ErrBrokenChain, "walk from %d did not reach %d within %d steps", end, start, g.Len())
		}
		prev, ok := s.Predecessor(cur)
		if !ok {
			return domain.PathResult{}, errors.Wrapf(ErrBrokenChain, "node %d has no predecessor", cur)
		}
		ids = append(ids, prev)
		cur = prev
	}

	segments := make([]domain.PathSegment, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		loc, ok := g.Node(ids[i])
		if !ok {
			return domain.PathResult{}, errors.Wrapf(ErrBrokenChain, "node %d missing from graph", ids[i])
		}
		segments = append(segments, segmentOf(loc))
	}

	total := s.Distance(end)
	return domain.PathResult{
		Segments:      segments,
		TotalDistance: total,
		EstimatedTime: total / walkingSpeed / 60,
	}, nil
}

func segmentOf(loc domain.Location) domain.PathSegment {
	return domain.PathSegment{
		LocationID:  loc.ID,
		Name:        loc.Name,
		Coordinates: loc.Coordinates,
	}
}
