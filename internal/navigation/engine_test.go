package navigation

import (
	"errors"
	"math"
	"testing"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
)

func loc(id int64, name string, x, y float64) domain.Location {
	return domain.Location{ID: id, Name: name, Coordinates: geo.NewPoint(x, y)}
}

func both(a, b int64, w float64) []domain.Edge {
	return []domain.Edge{{FromID: a, ToID: b, Distance: w}, {FromID: b, ToID: a, Distance: w}}
}

func mustGraph(t *testing.T, snap domain.Snapshot) *Graph {
	t.Helper()
	g, dangling, err := NewGraph(snap)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if len(dangling) != 0 {
		t.Fatalf("unexpected dangling edges: %v", dangling)
	}
	return g
}

func triangleSnapshot() domain.Snapshot {
	var edges []domain.Edge
	edges = append(edges, both(1, 2, 3)...)
	edges = append(edges, both(2, 3, 4)...)
	return domain.Snapshot{
		Locations: []domain.Location{
			loc(1, "Gate", 0, 0),
			loc(2, "Library", 3, 0),
			loc(3, "Lab", 3, 4),
			loc(4, "Annex", 10, 10),
		},
		Edges: edges,
	}
}

func segmentIDs(res domain.PathResult) []int64 {
	ids := make([]int64, 0, len(res.Segments))
	for _, s := range res.Segments {
		ids = append(ids, s.LocationID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestShortestPath_Triangle(t *testing.T) {
	g := mustGraph(t, triangleSnapshot())

	s := ShortestPath(g, 1, 3)
	res, err := Assemble(g, s, 1, 3, DefaultWalkingSpeed)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if want := []int64{1, 2, 3}; !equalIDs(segmentIDs(res), want) {
		t.Fatalf("expected path %v, got %v", want, segmentIDs(res))
	}
	if res.TotalDistance != 7 {
		t.Fatalf("expected distance 7, got %v", res.TotalDistance)
	}
	wantTime := 7.0 / 1.4 / 60
	if math.Abs(res.EstimatedTime-wantTime) > 1e-12 {
		t.Fatalf("expected time %v, got %v", wantTime, res.EstimatedTime)
	}
	if res.Segments[1].Name != "Library" || res.Segments[2].Coordinates != geo.NewPoint(3, 4) {
		t.Fatalf("segment metadata not carried: %+v", res.Segments)
	}
}

func TestShortestPath_SameNode(t *testing.T) {
	g := mustGraph(t, triangleSnapshot())

	res, err := Assemble(g, ShortestPath(g, 2, 2), 2, 2, DefaultWalkingSpeed)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(res.Segments) != 1 || res.Segments[0].LocationID != 2 {
		t.Fatalf("expected single segment for node 2, got %+v", res.Segments)
	}
	if res.TotalDistance != 0 || res.EstimatedTime != 0 {
		t.Fatalf("expected zero distance and time, got %v / %v", res.TotalDistance, res.EstimatedTime)
	}
}

func TestShortestPath_Unreachable(t *testing.T) {
	g := mustGraph(t, triangleSnapshot())

	s := ShortestPath(g, 1, 4)
	if !math.IsInf(s.Distance(4), 1) {
		t.Fatalf("expected +Inf distance, got %v", s.Distance(4))
	}
	if _, ok := s.Predecessor(4); ok {
		t.Fatal("expected no predecessor for unreachable node")
	}

	_, err := Assemble(g, s, 1, 4, DefaultWalkingSpeed)
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestShortestPath_PrefersCheaperLongerRoute(t *testing.T) {
	var edges []domain.Edge
	edges = append(edges, both(1, 2, 10)...)
	edges = append(edges, both(1, 3, 1)...)
	edges = append(edges, both(3, 4, 1)...)
	edges = append(edges, both(4, 2, 1)...)
	g := mustGraph(t, domain.Snapshot{
		Locations: []domain.Location{loc(1, "a", 0, 0), loc(2, "b", 0, 0), loc(3, "c", 0, 0), loc(4, "d", 0, 0)},
		Edges:     edges,
	})

	res, err := Assemble(g, ShortestPath(g, 1, 2), 1, 2, DefaultWalkingSpeed)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if want := []int64{1, 3, 4, 2}; !equalIDs(segmentIDs(res), want) {
		t.Fatalf("expected %v, got %v", want, segmentIDs(res))
	}
	if res.TotalDistance != 3 {
		t.Fatalf("expected 3, got %v", res.TotalDistance)
	}
}

func TestShortestPath_TieBreakIsDeterministic(t *testing.T) {
	// Two routes of equal cost: 1-2-4 and 1-3-4.
	var edges []domain.Edge
	edges = append(edges, both(1, 3, 1)...)
	edges = append(edges, both(1, 2, 1)...)
	edges = append(edges, both(3, 4, 1)...)
	edges = append(edges, both(2, 4, 1)...)
	snap := domain.Snapshot{
		Locations: []domain.Location{loc(1, "a", 0, 0), loc(2, "b", 0, 0), loc(3, "c", 0, 0), loc(4, "d", 0, 0)},
		Edges:     edges,
	}

	var first []int64
	for i := 0; i < 50; i++ {
		g := mustGraph(t, snap)
		res, err := Assemble(g, ShortestPath(g, 1, 4), 1, 4, DefaultWalkingSpeed)
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		ids := segmentIDs(res)
		if first == nil {
			first = ids
			continue
		}
		if !equalIDs(first, ids) {
			t.Fatalf("run %d chose %v, first run chose %v", i, ids, first)
		}
	}
	// Neighbour 2 is relaxed before 3, so it wins the tie.
	if want := []int64{1, 2, 4}; !equalIDs(first, want) {
		t.Fatalf("expected %v, got %v", want, first)
	}
}

func TestShortestPath_DirectedEdgesOnly(t *testing.T) {
	g := mustGraph(t, domain.Snapshot{
		Locations: []domain.Location{loc(1, "a", 0, 0), loc(2, "b", 1, 0)},
		Edges:     []domain.Edge{{FromID: 1, ToID: 2, Distance: 1}},
	})

	if _, err := Assemble(g, ShortestPath(g, 2, 1), 2, 1, DefaultWalkingSpeed); !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath against edge direction, got %v", err)
	}
}

func TestShortestPath_TotalMatchesEdgeSum(t *testing.T) {
	snap := domain.Snapshot{}
	for i := int64(1); i <= 6; i++ {
		snap.Locations = append(snap.Locations, loc(i, "n", float64(i), 0))
	}
	weights := map[[2]int64]float64{
		{1, 2}: 2.5, {2, 3}: 1.25, {1, 4}: 1, {4, 5}: 1, {5, 3}: 3, {3, 6}: 0.5, {2, 6}: 4,
	}
	for k, w := range weights {
		snap.Edges = append(snap.Edges, both(k[0], k[1], w)...)
	}
	g := mustGraph(t, snap)

	for start := int64(1); start <= 6; start++ {
		for end := int64(1); end <= 6; end++ {
			res, err := Assemble(g, ShortestPath(g, start, end), start, end, DefaultWalkingSpeed)
			if err != nil {
				t.Fatalf("%d->%d: %v", start, end, err)
			}
			if res.Segments[0].LocationID != start || res.Segments[len(res.Segments)-1].LocationID != end {
				t.Fatalf("%d->%d: bad endpoints %v", start, end, segmentIDs(res))
			}
			sum := 0.0
			for i := 1; i < len(res.Segments); i++ {
				w, ok := g.Weight(res.Segments[i-1].LocationID, res.Segments[i].LocationID)
				if !ok {
					t.Fatalf("%d->%d: segment pair without edge", start, end)
				}
				sum += w
			}
			if math.Abs(sum-res.TotalDistance) > 1e-9 {
				t.Fatalf("%d->%d: total %v != edge sum %v", start, end, res.TotalDistance, sum)
			}
		}
	}
}

func TestAssemble_BrokenChain(t *testing.T) {
	g := mustGraph(t, triangleSnapshot())
	// A predecessor cycle 3 -> 2 -> 3 that never reaches 1.
	s := Search{
		dist: map[int64]float64{1: 0, 2: 1, 3: 2},
		prev: map[int64]int64{3: 2, 2: 3},
	}
	if _, err := Assemble(g, s, 1, 3, DefaultWalkingSpeed); !errors.Is(err, ErrBrokenChain) {
		t.Fatalf("expected ErrBrokenChain, got %v", err)
	}
}

func TestNewGraph_DropsDanglingEdges(t *testing.T) {
	g, dangling, err := NewGraph(domain.Snapshot{
		Locations: []domain.Location{loc(1, "a", 0, 0), loc(2, "b", 1, 0)},
		Edges: []domain.Edge{
			{FromID: 1, ToID: 2, Distance: 1},
			{FromID: 1, ToID: 9, Distance: 1},
		},
	})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if len(dangling) != 1 || dangling[0].ToID != 9 {
		t.Fatalf("expected edge to 9 reported, got %v", dangling)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", g.EdgeCount())
	}
}

func TestNewGraph_RejectsNegativeWeight(t *testing.T) {
	_, _, err := NewGraph(domain.Snapshot{
		Locations: []domain.Location{loc(1, "a", 0, 0), loc(2, "b", 1, 0)},
		Edges:     []domain.Edge{{FromID: 1, ToID: 2, Distance: -1}},
	})
	if !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
}
