// Package navigation computes walking routes over the campus connectivity
// graph and maintains the symmetric edge set behind it.
package navigation

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

// Options tunes a Navigator.
type Options struct {
	// WalkingSpeed converts distance into EstimatedTime. Defaults to
	// DefaultWalkingSpeed.
	WalkingSpeed float64
	// StoreTimeout bounds every repository call. Zero means no extra bound.
	StoreTimeout time.Duration
}

// Navigator answers path queries and applies connection changes. Each query
// works on its own freshly loaded graph, so queries may run concurrently.
type Navigator struct {
	store        *GraphStore
	walkingSpeed float64
	logger       *slog.Logger
}

// New builds a Navigator over repo.
func New(repo Repository, opts Options, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.WalkingSpeed <= 0 {
		opts.WalkingSpeed = DefaultWalkingSpeed
	}
	return &Navigator{
		store:        NewGraphStore(repo, opts.StoreTimeout, logger),
		walkingSpeed: opts.WalkingSpeed,
		logger:       logger,
	}
}

// Store exposes the underlying graph store.
func (n *Navigator) Store() *GraphStore {
	return n.store
}

// ComputePath returns the shortest walking route from start to end.
func (n *Navigator) ComputePath(ctx context.Context, start, end int64) (domain.PathResult, error) {
	g, err := n.store.LoadGraph(ctx)
	if err != nil {
		return domain.PathResult{}, err
	}
	if _, ok := g.Node(start); !ok {
		return domain.PathResult{}, errors.Wrapf(ErrNotFound, "start location %d", start)
	}
	if _, ok := g.Node(end); !ok {
		return domain.PathResult{}, errors.Wrapf(ErrNotFound, "end location %d", end)
	}

	search := ShortestPath(g, start, end)
	result, err := Assemble(g, search, start, end, n.walkingSpeed)
	if err != nil {
		if errors.Is(err, ErrBrokenChain) {
			n.logger.Error("path reconstruction failed, graph state is corrupt",
				"error", err, "start", start, "end", end,
				"nodes", g.Len(), "edges", g.EdgeCount())
		}
		return domain.PathResult{}, err
	}

	n.logger.Debug("path computed",
		"start", start, "end", end,
		"hops", len(result.Segments)-1, "distance", result.TotalDistance)
	return result, nil
}

// ReplaceConnections makes targets the complete connection list of id.
func (n *Navigator) ReplaceConnections(ctx context.Context, id int64, targets []int64) error {
	return n.store.Replace(ctx, id, targets)
}

// RemoveAllConnections drops every edge touching id. Call it before the
// location itself is deleted.
func (n *Navigator) RemoveAllConnections(ctx context.Context, id int64) error {
	return n.store.DisconnectAll(ctx, id)
}

// Neighbors lists the ids id is currently connected to.
func (n *Navigator) Neighbors(ctx context.Context, id int64) ([]int64, error) {
	return n.store.ConnectedIDs(ctx, id)
}
