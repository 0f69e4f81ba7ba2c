package repository

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
	"github.com/vanshika/campusnav/backend/internal/graph"
)

func TestNeo4j_SnapshotDecodesEdges(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"id": int64(1), "name": "A", "lon": 0.0, "lat": 0.0, "floor": int64(3),
			"edges": []any{
				map[string]any{"to": int64(2), "distance": 4.0},
			},
		},
		{
			"id": int64(2), "name": "B", "lon": 4.0, "lat": 0.0,
			"edges": []any{
				map[string]any{"to": int64(1), "distance": 4.0},
			},
		},
	}})
	store := NewNeo4j(mem)

	snap, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(snap.Locations))
	}
	if snap.Locations[0].Floor == nil || *snap.Locations[0].Floor != 3 {
		t.Errorf("floor not decoded: %+v", snap.Locations[0])
	}
	if snap.Locations[1].Floor != nil {
		t.Errorf("missing floor should stay nil")
	}
	if snap.Locations[1].Coordinates != geo.NewPoint(4, 0) {
		t.Errorf("coordinates not decoded: %v", snap.Locations[1].Coordinates)
	}
	want := []domain.Edge{{FromID: 1, ToID: 2, Distance: 4}, {FromID: 2, ToID: 1, Distance: 4}}
	if !slices.Equal(snap.Edges, want) {
		t.Errorf("edges = %+v, want %+v", snap.Edges, want)
	}

	reads := mem.Reads()
	if len(reads) != 1 || reads[0].Cypher != snapshotCypher {
		t.Fatalf("expected one snapshot read, got %+v", reads)
	}
}

func TestNeo4j_ReplaceConnectionsIsOneStatement(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushWriteResults(graph.Result{Records: []graph.Record{{"id": int64(1)}}})
	store := NewNeo4j(mem)

	conns := []domain.Connection{{TargetID: 2, Distance: 1.5}, {TargetID: 3, Distance: 2}}
	if err := store.ReplaceConnections(context.Background(), 1, conns); err != nil {
		t.Fatalf("replace: %v", err)
	}

	writes := mem.Writes()
	if len(writes) != 1 || len(writes[0]) != 1 {
		t.Fatalf("expected a single write statement, got %+v", writes)
	}
	stmt := writes[0][0]
	if stmt.Cypher != replaceConnectionsCypher {
		t.Fatalf("unexpected cypher:\n%s", stmt.Cypher)
	}
	if ids, _ := stmt.Params["targetIds"].([]int64); !slices.Equal(ids, []int64{2, 3}) {
		t.Errorf("targetIds = %v", stmt.Params["targetIds"])
	}
	params, _ := stmt.Params["conns"].([]map[string]any)
	if len(params) != 2 || params[1]["target"] != int64(3) || params[1]["distance"] != 2.0 {
		t.Errorf("unexpected conns param %+v", stmt.Params["conns"])
	}
}

func TestNeo4j_ReplaceConnectionsNoMatchIsNotFound(t *testing.T) {
	mem := graph.NewMemoryClient()
	store := NewNeo4j(mem)

	err := store.ReplaceConnections(context.Background(), 1, []domain.Connection{{TargetID: 9, Distance: 1}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNeo4j_ConnectedIDsSorted(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{"id": int64(5), "targets": []any{int64(9), int64(2), int64(7)}}}})
	store := NewNeo4j(mem)

	ids, err := store.ConnectedIDs(context.Background(), 5)
	if err != nil {
		t.Fatalf("connected ids: %v", err)
	}
	if !slices.Equal(ids, []int64{2, 7, 9}) {
		t.Errorf("ids = %v", ids)
	}

	if _, err := store.ConnectedIDs(context.Background(), 6); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not found with no record, got %v", err)
	}
}

func TestNeo4j_CreateLocationExplicitIDConflict(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{Records: []graph.Record{{"id": int64(7)}}})
	store := NewNeo4j(mem)

	_, err := store.CreateLocation(context.Background(), domain.Location{ID: 7, Name: "Dup"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(mem.Writes()) != 0 {
		t.Errorf("conflict must not write")
	}
}

func TestNeo4j_ConstraintViolationIsConflict(t *testing.T) {
	violation := &neo4j.Neo4jError{
		Code: "Neo.ClientError.Schema.ConstraintValidationFailed",
		Msg:  "Node(12) already exists with label `Location` and property `id` = 7",
	}
	store := NewNeo4j(graph.NewMemoryClient().WithError(violation))

	_, err := store.CreateLocation(context.Background(), domain.Location{Name: "Racer"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var nerr *neo4j.Neo4jError
	if !errors.As(err, &nerr) {
		t.Errorf("driver error should stay reachable, got %v", err)
	}

	other := &neo4j.Neo4jError{Code: "Neo.TransientError.General.DatabaseUnavailable", Msg: "unavailable"}
	store = NewNeo4j(graph.NewMemoryClient().WithError(other))
	if _, err := store.CreateLocation(context.Background(), domain.Location{Name: "X"}); errors.Is(err, domain.ErrConflict) {
		t.Errorf("only constraint violations are conflicts, got %v", err)
	}
}

func TestNeo4j_CreateLocationSendsProperties(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushWriteResults(graph.Result{Records: []graph.Record{{"id": int64(11), "name": "Lab", "lon": 1.0, "lat": 2.0}}})
	store := NewNeo4j(mem)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.nowFn = func() time.Time { return fixed }

	floor := 1
	loc, err := store.CreateLocation(context.Background(), domain.Location{
		Name:        "Lab",
		Floor:       &floor,
		Coordinates: geo.NewPoint(1, 2),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if loc.ID != 11 {
		t.Errorf("expected id from record, got %d", loc.ID)
	}

	stmt := mem.Writes()[0][0]
	props, ok := stmt.Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", stmt.Params["props"])
	}
	if props["floor"] != int64(1) || props["lon"] != 1.0 || props["lat"] != 2.0 {
		t.Errorf("unexpected props %+v", props)
	}
	if props["createdAt"] != formatTime(fixed) {
		t.Errorf("createdAt = %v", props["createdAt"])
	}
	if stmt.Params["id"] != int64(0) {
		t.Errorf("zero id should be passed through for sequence allocation, got %v", stmt.Params["id"])
	}
}

func TestNeo4j_DeleteLocationRunsInOneTransaction(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushWriteResults(graph.Result{}, graph.Result{Records: []graph.Record{{"deleted": int64(1)}}})
	mem.PushWriteResults(graph.Result{}, graph.Result{Records: []graph.Record{{"deleted": int64(0)}}})
	store := NewNeo4j(mem)

	if err := store.DeleteLocation(context.Background(), 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteLocation(context.Background(), 4); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	writes := mem.Writes()
	if len(writes) != 2 || len(writes[0]) != 2 {
		t.Fatalf("expected two transactions of two statements, got %+v", writes)
	}
	if writes[0][0].Cypher != deleteLocationAmenitiesCypher || writes[0][1].Cypher != deleteLocationCypher {
		t.Errorf("amenities must be removed before the location")
	}
}

func TestNeo4j_AmenityQueriesUseLabel(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushWriteResults(graph.Result{Records: []graph.Record{{"id": int64(3)}}})
	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"id": int64(3), "type": "exit", "description": "north", "locationId": int64(1)},
	}})
	store := NewNeo4j(mem)

	svc, err := store.CreateEmergencyService(context.Background(), domain.EmergencyService{Type: "exit", LocationID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if svc.ID != 3 {
		t.Errorf("expected id 3, got %d", svc.ID)
	}
	create := mem.Writes()[0][0]
	if !strings.Contains(create.Cypher, "CREATE (a:EmergencyService") {
		t.Errorf("create should target the EmergencyService label:\n%s", create.Cypher)
	}
	if create.Params["sequence"] != "EmergencyService" {
		t.Errorf("unexpected sequence %v", create.Params["sequence"])
	}

	list, err := store.ListEmergencyServices(context.Background(), domain.ListFilter{Type: "exit", Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Description != "north" || list[0].LocationID != 1 {
		t.Errorf("unexpected list %+v", list)
	}
	read := mem.Reads()[0]
	if read.Params["limit"] != int64(500) {
		t.Errorf("limit should be clamped, got %v", read.Params["limit"])
	}
}

func TestNeo4j_PropagatesClientErrors(t *testing.T) {
	boom := errors.New("connection refused")
	store := NewNeo4j(graph.NewMemoryClient().WithError(boom))

	if _, err := store.Snapshot(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped client error, got %v", err)
	}
	if err := store.Connect(context.Background(), 1, 2, 1); !errors.Is(err, boom) {
		t.Errorf("expected wrapped client error, got %v", err)
	}
}

func TestNeo4j_CreateUserUsesSequence(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushWriteResults(graph.Result{Records: []graph.Record{{
		"id": int64(3), "username": "alice", "email": "alice@campus.edu",
		"passwordHash": "hash", "role": "admin", "isActive": true, "createdAt": "2024-01-02T03:04:05Z",
	}}})
	store := NewNeo4j(mem)

	user, err := store.CreateUser(context.Background(), domain.User{
		Username: "alice", Email: "alice@campus.edu", PasswordHash: "hash", Role: domain.RoleAdmin, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID != 3 || user.Role != domain.RoleAdmin || !user.IsActive || user.CreatedAt.IsZero() {
		t.Errorf("unexpected user %+v", user)
	}

	writes := mem.Writes()
	if len(writes) != 1 || writes[0][0].Cypher != createUserCypher {
		t.Fatalf("expected one create statement, got %+v", writes)
	}
	props, _ := writes[0][0].Params["props"].(map[string]any)
	if props["username"] != "alice" || props["passwordHash"] != "hash" {
		t.Errorf("unexpected props %+v", props)
	}
}

func TestNeo4j_DuplicateUserIsConflict(t *testing.T) {
	store := NewNeo4j(graph.NewMemoryClient().WithError(&neo4j.Neo4jError{
		Code: "Neo.ClientError.Schema.ConstraintValidationFailed",
		Msg:  "Node(4) already exists with label `User` and property `username` = 'alice'",
	}))
	_, err := store.CreateUser(context.Background(), domain.User{Username: "alice", Email: "a@b.c"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestNeo4j_GetUserByUsernameMissing(t *testing.T) {
	store := NewNeo4j(graph.NewMemoryClient())
	if _, err := store.GetUserByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
