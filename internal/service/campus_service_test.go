package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
	"github.com/vanshika/campusnav/backend/internal/navigation"
	"github.com/vanshika/campusnav/backend/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*CampusService, *repository.Memory) {
	t.Helper()
	store := repository.NewMemory()
	nav := navigation.New(store, navigation.Options{}, discardLogger())
	return NewCampusService(store, nav, discardLogger()), store
}

func mustCreateLocation(t *testing.T, svc *CampusService, in LocationInput) domain.Location {
	t.Helper()
	loc, err := svc.CreateLocation(context.Background(), in)
	if err != nil {
		t.Fatalf("create %q: %v", in.Name, err)
	}
	return loc
}

func TestCampusService_CreateLocationConnects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreateLocation(t, svc, LocationInput{Name: "  Main   Gate ", Category: "Entrance", Coordinates: geo.NewPoint(0, 0)})
	b := mustCreateLocation(t, svc, LocationInput{Name: "Library", Category: "study", Coordinates: geo.NewPoint(3, 4), ConnectedTo: []int64{a.ID}})

	if a.Name != "Main Gate" || a.Category != "entrance" {
		t.Errorf("expected normalized fields, got %q / %q", a.Name, a.Category)
	}

	path, err := svc.ComputePath(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("compute path: %v", err)
	}
	if path.TotalDistance != 5 {
		t.Errorf("expected distance 5, got %v", path.TotalDistance)
	}
	if len(path.Segments) != 2 || path.Segments[1].Name != "Library" {
		t.Errorf("unexpected segments %+v", path.Segments)
	}
}

func TestCampusService_CreateLocationValidation(t *testing.T) {
	svc, store := newTestService(t)

	tests := []struct {
		name string
		in   LocationInput
	}{
		{name: "missing name", in: LocationInput{Category: "room"}},
		{name: "missing category", in: LocationInput{Name: "Room"}},
		{name: "non-finite coordinates", in: LocationInput{Name: "Room", Category: "room", Coordinates: geo.NewPoint(math.NaN(), 0)}},
		{name: "negative id", in: LocationInput{ID: -3, Name: "Room", Category: "room"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLocation(context.Background(), tt.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}

	locs, _ := store.ListLocations(context.Background(), domain.ListFilter{})
	if len(locs) != 0 {
		t.Errorf("rejected inputs must not be stored, got %d", len(locs))
	}
}

func TestCampusService_CreateLocationUnknownTargetRollsBack(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.CreateLocation(context.Background(), LocationInput{
		Name: "Orphan", Category: "room", ConnectedTo: []int64{404},
	})
	if !errors.Is(err, navigation.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	locs, _ := store.ListLocations(context.Background(), domain.ListFilter{})
	if len(locs) != 0 {
		t.Errorf("location should be removed after failed connect, got %+v", locs)
	}
}

func TestCampusService_CreateFarAwayLocationKeepsRoutingIntact(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	a := mustCreateLocation(t, svc, LocationInput{Name: "A", Category: "room", Coordinates: geo.NewPoint(0, 0)})
	b := mustCreateLocation(t, svc, LocationInput{Name: "B", Category: "room", Coordinates: geo.NewPoint(1, 0), ConnectedTo: []int64{a.ID}})

	// The distance to A overflows to +Inf.
	_, err := svc.CreateLocation(ctx, LocationInput{
		Name: "Far", Category: "room", Coordinates: geo.NewPoint(1e200, 1e200), ConnectedTo: []int64{a.ID},
	})
	if !errors.Is(err, navigation.ErrInvalidWeight) {
		t.Fatalf("expected invalid weight, got %v", err)
	}
	locs, _ := store.ListLocations(ctx, domain.ListFilter{})
	if len(locs) != 2 {
		t.Errorf("far location should be rolled back, got %+v", locs)
	}

	path, err := svc.ComputePath(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("existing route must still resolve: %v", err)
	}
	if path.TotalDistance != 1 {
		t.Errorf("expected distance 1, got %v", path.TotalDistance)
	}

	// Moving a connected location that far is refused the same way.
	far := geo.NewPoint(1e200, 0)
	if _, err := svc.UpdateLocation(ctx, b.ID, LocationUpdate{Patch: domain.LocationPatch{Coordinates: &far}, ConnectedTo: &[]int64{a.ID}}); !errors.Is(err, navigation.ErrInvalidWeight) {
		t.Fatalf("expected invalid weight on move, got %v", err)
	}
	stored, err := svc.GetLocation(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Coordinates != geo.NewPoint(1, 0) {
		t.Errorf("rejected move should leave coordinates unchanged, got %v", stored.Coordinates)
	}
}

func TestCampusService_UpdateCoordinatesRefreshesWeights(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreateLocation(t, svc, LocationInput{Name: "A", Category: "room", Coordinates: geo.NewPoint(0, 0)})
	b := mustCreateLocation(t, svc, LocationInput{Name: "B", Category: "room", Coordinates: geo.NewPoint(1, 0), ConnectedTo: []int64{a.ID}})

	moved := geo.NewPoint(0, 2)
	if _, err := svc.UpdateLocation(ctx, b.ID, LocationUpdate{Patch: domain.LocationPatch{Coordinates: &moved}}); err != nil {
		t.Fatalf("update: %v", err)
	}

	path, err := svc.ComputePath(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("compute path: %v", err)
	}
	if path.TotalDistance != 2 {
		t.Errorf("edge weight should follow the move, got %v", path.TotalDistance)
	}
}

func TestCampusService_UpdateReplacesConnections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreateLocation(t, svc, LocationInput{Name: "A", Category: "room"})
	b := mustCreateLocation(t, svc, LocationInput{Name: "B", Category: "room", ConnectedTo: []int64{a.ID}})
	c := mustCreateLocation(t, svc, LocationInput{Name: "C", Category: "room", Coordinates: geo.NewPoint(1, 1)})

	targets := []int64{c.ID}
	if _, err := svc.UpdateLocation(ctx, b.ID, LocationUpdate{ConnectedTo: &targets}); err != nil {
		t.Fatalf("update: %v", err)
	}
	ids, err := svc.Neighbors(ctx, b.ID)
	if err != nil {
		t.Fatalf("neighbors: %v", err)
	}
	if !slices.Equal(ids, []int64{c.ID}) {
		t.Errorf("neighbors = %v, want [%d]", ids, c.ID)
	}
	if _, err := svc.ComputePath(ctx, a.ID, b.ID); !errors.Is(err, navigation.ErrNoPath) {
		t.Errorf("old connection should be gone, got %v", err)
	}

	empty := []int64{}
	if _, err := svc.UpdateLocation(ctx, b.ID, LocationUpdate{ConnectedTo: &empty}); err != nil {
		t.Fatalf("clear connections: %v", err)
	}
	ids, _ = svc.Neighbors(ctx, b.ID)
	if len(ids) != 0 {
		t.Errorf("expected no neighbors, got %v", ids)
	}
}

func TestCampusService_UpdateUnknownTargetChangesNothing(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	a := mustCreateLocation(t, svc, LocationInput{Name: "A", Category: "room"})
	name := "Renamed"
	targets := []int64{999}

	_, err := svc.UpdateLocation(ctx, a.ID, LocationUpdate{Patch: domain.LocationPatch{Name: &name}, ConnectedTo: &targets})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	got, _ := store.GetLocation(ctx, a.ID)
	if got.Name != "A" {
		t.Errorf("patch must not be applied when targets are unknown, got %q", got.Name)
	}
}

func TestCampusService_DeleteLocationCascades(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	a := mustCreateLocation(t, svc, LocationInput{Name: "A", Category: "room"})
	b := mustCreateLocation(t, svc, LocationInput{Name: "B", Category: "room", ConnectedTo: []int64{a.ID}})
	if _, err := svc.CreatePOI(ctx, POIInput{Name: "Cafe", Type: "Cafe", LocationID: b.ID}); err != nil {
		t.Fatalf("create poi: %v", err)
	}

	if err := svc.DeleteLocation(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap, _ := store.Snapshot(ctx)
	if len(snap.Edges) != 0 {
		t.Errorf("edges should be removed with the location, got %+v", snap.Edges)
	}
	pois, _ := svc.ListPOIs(ctx, domain.ListFilter{})
	if len(pois) != 0 {
		t.Errorf("pois should be removed with the location, got %+v", pois)
	}
	if err := svc.DeleteLocation(ctx, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCampusService_POIDefaultsAndFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	loc := mustCreateLocation(t, svc, LocationInput{Name: "Hall", Category: "hall"})

	cafe, err := svc.CreatePOI(ctx, POIInput{Name: "Cafe", Type: "Cafe", LocationID: loc.ID})
	if err != nil {
		t.Fatalf("create poi: %v", err)
	}
	if !cafe.IsAvailable {
		t.Errorf("availability should default to true")
	}

	negative := -1
	if _, err := svc.CreatePOI(ctx, POIInput{Name: "Bad", Type: "cafe", Capacity: &negative, LocationID: loc.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected invalid input for negative capacity, got %v", err)
	}

	found, err := svc.ListPOIs(ctx, domain.ListFilter{Type: "CAFE"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(found) != 1 || found[0].ID != cafe.ID {
		t.Errorf("type filter should be case-insensitive, got %+v", found)
	}
}

func TestCampusService_EmergencyCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	loc := mustCreateLocation(t, svc, LocationInput{Name: "Lobby", Category: "hall"})

	created, err := svc.CreateEmergencyService(ctx, EmergencyServiceInput{Type: "AED", LocationID: loc.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.UpdateEmergencyService(ctx, created.ID, EmergencyServiceInput{Type: "exit", Description: "east", LocationID: loc.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Type != "exit" || updated.ID != created.ID {
		t.Errorf("unexpected update result %+v", updated)
	}
	if _, err := svc.CreateEmergencyService(ctx, EmergencyServiceInput{LocationID: loc.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected invalid input without type, got %v", err)
	}
	if err := svc.DeleteEmergencyService(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

type failingNavigator struct {
	Navigator
	err error
}

func (f failingNavigator) ReplaceConnections(context.Context, int64, []int64) error {
	return f.err
}

func TestCampusService_StoreUnavailableDuringConnect(t *testing.T) {
	store := repository.NewMemory()
	inner := navigation.New(store, navigation.Options{}, discardLogger())
	svc := NewCampusService(store, failingNavigator{Navigator: inner, err: navigation.ErrStoreUnavailable}, discardLogger())

	_, err := svc.CreateLocation(context.Background(), LocationInput{Name: "A", Category: "room", ConnectedTo: []int64{1}})
	if !errors.Is(err, navigation.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	locs, _ := store.ListLocations(context.Background(), domain.ListFilter{})
	if len(locs) != 0 {
		t.Errorf("location should be rolled back, got %+v", locs)
	}
}

type brokenPOIStore struct {
	*repository.Memory
	err error
}

func (b brokenPOIStore) ListPOIs(context.Context, domain.ListFilter) ([]domain.POI, error) {
	return nil, b.err
}

func TestCampusService_RawStoreFailuresReportUnavailable(t *testing.T) {
	ctx := context.Background()
	driverErr := errors.New("database is locked")
	store := brokenPOIStore{Memory: repository.NewMemory(), err: driverErr}
	svc := NewCampusService(store, navigation.New(store, navigation.Options{}, discardLogger()), discardLogger())

	_, err := svc.ListPOIs(ctx, domain.ListFilter{})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	if !errors.Is(err, driverErr) {
		t.Errorf("driver cause should be kept, got %v", err)
	}

	if _, err := svc.GetPOI(ctx, 404); !errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("not found should pass through unchanged, got %v", err)
	}
}

func TestStoreError(t *testing.T) {
	cases := []struct {
		name        string
		in          error
		unavailable bool
	}{
		{name: "nil", in: nil},
		{name: "not found", in: domain.ErrNotFound},
		{name: "conflict", in: domain.ErrConflict},
		{name: "canceled", in: context.Canceled},
		{name: "deadline", in: context.DeadlineExceeded, unavailable: true},
		{name: "driver", in: errors.New("disk I/O error"), unavailable: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := storeError(tc.in)
			if tc.in == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.in) {
				t.Errorf("cause lost: %v", got)
			}
			if errors.Is(got, domain.ErrStoreUnavailable) != tc.unavailable {
				t.Errorf("unavailable = %v, want %v (%v)", !tc.unavailable, tc.unavailable, got)
			}
		})
	}
}
