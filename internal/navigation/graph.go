package navigation

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

// Neighbor is the head of an outgoing edge.
type Neighbor struct {
	ID     int64
	Weight float64
}

// Graph is an immutable adjacency-list view of one store snapshot. It is safe
// for concurrent readers.
type Graph struct {
	nodes map[int64]domain.Location
	adj   map[int64][]Neighbor
}

// NewGraph indexes a snapshot. Edges that reference a location missing from
// the snapshot are skipped and returned so the caller can report them.
// Neighbour lists are sorted by id, which fixes the relaxation order.
func NewGraph(snap domain.Snapshot) (*Graph, []domain.Edge, error) {
	g := &Graph{
		nodes: make(map[int64]domain.Location, len(snap.Locations)),
		adj:   make(map[int64][]Neighbor, len(snap.Locations)),
	}
	for _, loc := range snap.Locations {
		g.nodes[loc.ID] = loc
	}

	var dangling []domain.Edge
	for _, e := range snap.Edges {
		if !validWeight(e.Distance) {
			return nil, nil, errors.Wrapf(ErrInvalidWeight, "edge %d->%d has weight %v", e.FromID, e.ToID, e.Distance)
		}
		_, fromOK := g.nodes[e.FromID]
		_, toOK := g.nodes[e.ToID]
		if !fromOK || !toOK {
			dangling = append(dangling, e)
			continue
		}
		g.adj[e.FromID] = append(g.adj[e.FromID], Neighbor{ID: e.ToID, Weight: e.Distance})
	}

	for id := range g.adj {
		list := g.adj[id]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return g, dangling, nil
}

// Node returns the location stored under id.
func (g *Graph) Node(id int64) (domain.Location, bool) {
	loc, ok := g.nodes[id]
	return loc, ok
}

// Neighbors returns the outgoing edges of id in ascending neighbour order.
// The returned slice must not be modified.
func (g *Graph) Neighbors(id int64) []Neighbor {
	return g.adj[id]
}

// Len is the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount is the number of directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, list := range g.adj {
		n += len(list)
	}
	return n
}

// Weight returns the weight of the directed edge from -> to.
func (g *Graph) Weight(from, to int64) (float64, bool) {
	list := g.adj[from]
	i := sort.Search(len(list), func(i int) bool { return list[i].ID >= to })
	if i < len(list) && list[i].ID == to {
		return list[i].Weight, true
	}
	return 0, false
}
