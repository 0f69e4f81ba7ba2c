package navigation

import (
	"container/heap"
	"math"
)

// Search holds the result of a single-source run: tentative distances and the
// predecessor of every node reached.
type Search struct {
	dist map[int64]float64
	prev map[int64]int64
}

// Distance returns the best known distance to id, +Inf when unreached.
func (s Search) Distance(id int64) float64 {
	if d, ok := s.dist[id]; ok {
		return d
	}
	return math.Inf(1)
}

// Predecessor returns the node before id on its shortest path. ok is false for
// the start node and for unreached nodes.
func (s Search) Predecessor(id int64) (int64, bool) {
	p, ok := s.prev[id]
	return p, ok
}

// ShortestPath runs Dijkstra from start and stops as soon as end is
// finalized. Edge weights must be non-negative.
//
// Entries with equal distance leave the frontier in the order they were
// pushed, and neighbours are relaxed in ascending id order, so the chosen path
// is stable for a given graph.
func ShortestPath(g *Graph, start, end int64) Search {
	s := Search{
		dist: make(map[int64]float64, g.Len()),
		prev: make(map[int64]int64),
	}
	if _, ok := g.Node(start); !ok {
		return s
	}
	s.dist[start] = 0

	done := make(map[int64]struct{}, g.Len())
	f := &frontier{}
	f.push(start, 0)

	for f.Len() > 0 {
		item := heap.Pop(f).(frontierItem)
		u := item.node
		if _, seen := done[u]; seen {
			continue
		}
		done[u] = struct{}{}
		if u == end {
			break
		}

		du := s.dist[u]
		for _, nb := range g.Neighbors(u) {
			if _, seen := done[nb.ID]; seen {
				continue
			}
			alt := du + nb.Weight
			if alt < s.Distance(nb.ID) {
				s.dist[nb.ID] = alt
				s.prev[nb.ID] = u
				f.push(nb.ID, alt)
			}
		}
	}
	return s
}

type frontierItem struct {
	node int64
	dist float64
	seq  uint64
}

// frontier is a min-heap on (dist, seq). Stale entries are skipped by the
// caller instead of being decreased in place.
type frontier struct {
	items []frontierItem
	next  uint64
}

func (f *frontier) push(node int64, dist float64) {
	heap.Push(f, frontierItem{node: node, dist: dist, seq: f.next})
	f.next++
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) { f.items = append(f.items, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	item := old[n-1]
	f.items = old[:n-1]
	return item
}
