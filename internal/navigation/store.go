package navigation

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
)

// Repository is the storage contract the graph store needs. Implementations
// must apply each mutation atomically.
type Repository interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
	GetLocation(ctx context.Context, id int64) (domain.Location, error)
	ConnectedIDs(ctx context.Context, id int64) ([]int64, error)
	Connect(ctx context.Context, fromID, toID int64, distance float64) error
	DisconnectAll(ctx context.Context, id int64) error
	ReplaceConnections(ctx context.Context, id int64, conns []domain.Connection) error
}

// GraphStore loads navigation graphs from a Repository and keeps the stored
// edge set symmetric.
type GraphStore struct {
	repo    Repository
	timeout time.Duration
	logger  *slog.Logger

	// writeMu serializes mutations issued through this process so a
	// replace never computes weights from coordinates that are being changed.
	writeMu sync.Mutex
}

// NewGraphStore wraps repo. A zero timeout leaves store calls bounded only by
// the caller's context.
func NewGraphStore(repo Repository, timeout time.Duration, logger *slog.Logger) *GraphStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphStore{
		repo:    repo,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *GraphStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// LoadGraph reads a consistent snapshot and indexes it.
func (s *GraphStore) LoadGraph(ctx context.Context) (*Graph, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, storeError(err, "load graph")
	}

	g, dangling, err := NewGraph(snap)
	if err != nil {
		return nil, err
	}
	if len(dangling) > 0 {
		s.logger.Warn("skipped edges with unknown endpoints", "count", len(dangling))
	}
	return g, nil
}

// Connect is the single-link primitive: it stores both directed edges
// between from and to with the caller's weight. A self connection is a no-op.
// Location writes go through Replace, which derives weights from coordinates.
func (s *GraphStore) Connect(ctx context.Context, from, to int64, weight float64) error {
	if !validWeight(weight) {
		return errors.Wrapf(ErrInvalidWeight, "connect %d<->%d", from, to)
	}
	if from == to {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.Connect(ctx, from, to, weight); err != nil {
		return storeError(err, "connect %d<->%d", from, to)
	}
	return nil
}

// DisconnectAll removes every edge touching id. It succeeds when there is
// nothing to remove.
func (s *GraphStore) DisconnectAll(ctx context.Context, id int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.DisconnectAll(ctx, id); err != nil {
		return storeError(err, "disconnect %d", id)
	}
	return nil
}

// Replace swaps the whole connection list of id for targets. Weights come from
// the current coordinates of both endpoints. Nothing is written when id or
// any target is unknown, or when a distance is not a finite number (huge
// coordinates can overflow it).
func (s *GraphStore) Replace(ctx context.Context, id int64, targets []int64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	origin, err := s.repo.GetLocation(ctx, id)
	if err != nil {
		return storeError(err, "location %d", id)
	}

	seen := make(map[int64]struct{}, len(targets))
	conns := make([]domain.Connection, 0, len(targets))
	for _, target := range targets {
		if target == id {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}

		loc, err := s.repo.GetLocation(ctx, target)
		if err != nil {
			return storeError(err, "connection target %d", target)
		}
		weight := geo.Distance(origin.Coordinates, loc.Coordinates)
		if !validWeight(weight) {
			return errors.Wrapf(ErrInvalidWeight, "connect %d<->%d: distance %v", id, target, weight)
		}
		conns = append(conns, domain.Connection{TargetID: target, Distance: weight})
	}

	if err := s.repo.ReplaceConnections(ctx, id, conns); err != nil {
		return storeError(err, "replace connections of %d", id)
	}
	return nil
}

// ConnectedIDs lists the locations id currently has an outgoing edge to.
func (s *GraphStore) ConnectedIDs(ctx context.Context, id int64) ([]int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ids, err := s.repo.ConnectedIDs(ctx, id)
	if err != nil {
		return nil, storeError(err, "connections of %d", id)
	}
	return ids, nil
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0
}
