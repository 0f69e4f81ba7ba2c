package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
	"github.com/vanshika/campusnav/backend/internal/graph"
)

// Neo4j is a Store over a graph database. Locations are :Location nodes,
// every directed edge is a :CONNECTED_TO relationship carrying its distance,
// and POIs and emergency services hang off their location through :AT.
type Neo4j struct {
	client graph.Client
	nowFn  func() time.Time
}

// NewNeo4j instantiates a Store backed by the supplied graph client.
func NewNeo4j(client graph.Client) *Neo4j {
	return &Neo4j{client: client, nowFn: time.Now}
}

// EnsureSchema creates the uniqueness constraints the store relies on.
func (n *Neo4j) EnsureSchema(ctx context.Context) error {
	// Schema commands cannot share a transaction, so each runs on its own.
	for _, c := range neo4jConstraints {
		if _, err := n.client.Write(ctx, graph.Statement{Cypher: c}); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}
	return nil
}

// Ping verifies the database is reachable.
func (n *Neo4j) Ping(ctx context.Context) error {
	return n.client.VerifyConnectivity(ctx)
}

// Close releases the underlying driver.
func (n *Neo4j) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

func (n *Neo4j) writeOne(ctx context.Context, cypher string, params map[string]any) (graph.Result, error) {
	res, err := n.client.Write(ctx, graph.Statement{Cypher: cypher, Params: params})
	if err != nil {
		return graph.Result{}, classifyNeo4jError(err)
	}
	if len(res) == 0 {
		return graph.Result{}, nil
	}
	return res[0], nil
}

// constraintViolation is the server code for a uniqueness constraint hit,
// e.g. two writers racing on the same explicit location id.
const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

func classifyNeo4jError(err error) error {
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) && nerr.Code == constraintViolation {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return err
}

// --- graph ---

// Snapshot reads every location together with its outgoing edges in one query.
func (n *Neo4j) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	res, err := n.client.Read(ctx, graph.Statement{Cypher: snapshotCypher})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot query: %w", err)
	}

	var snap domain.Snapshot
	for _, record := range res.Records {
		loc := locationFromRecord(record)
		snap.Locations = append(snap.Locations, loc)

		edges, _ := record["edges"].([]any)
		for _, raw := range edges {
			edge, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			snap.Edges = append(snap.Edges, domain.Edge{
				FromID:   loc.ID,
				ToID:     toInt64(edge["to"]),
				Distance: toFloat64(edge["distance"]),
			})
		}
	}
	return snap, nil
}

// ConnectedIDs lists the heads of id's outgoing edges in ascending order.
func (n *Neo4j) ConnectedIDs(ctx context.Context, id int64) ([]int64, error) {
	res, err := n.client.Read(ctx, graph.Statement{Cypher: connectedIDsCypher, Params: map[string]any{"id": id}})
	if err != nil {
		return nil, fmt.Errorf("connections of %d: %w", id, err)
	}
	if len(res.Records) == 0 {
		return nil, notFound("location", id)
	}

	raw, _ := res.Records[0]["targets"].([]any)
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		ids = append(ids, toInt64(v))
	}
	slices.Sort(ids)
	return ids, nil
}

// Connect merges both directed relationships in one statement.
func (n *Neo4j) Connect(ctx context.Context, fromID, toID int64, distance float64) error {
	res, err := n.writeOne(ctx, connectCypher, map[string]any{
		"from":     fromID,
		"to":       toID,
		"distance": distance,
	})
	if err != nil {
		return fmt.Errorf("connect %d<->%d: %w", fromID, toID, err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("connect %d<->%d: %w", fromID, toID, domain.ErrNotFound)
	}
	return nil
}

// DisconnectAll deletes every :CONNECTED_TO relationship touching id.
func (n *Neo4j) DisconnectAll(ctx context.Context, id int64) error {
	if _, err := n.writeOne(ctx, disconnectAllCypher, map[string]any{"id": id}); err != nil {
		return fmt.Errorf("disconnect %d: %w", id, err)
	}
	return nil
}

// ReplaceConnections runs as a single statement: when the location or any
// target is missing the statement matches nothing and changes nothing.
func (n *Neo4j) ReplaceConnections(ctx context.Context, id int64, conns []domain.Connection) error {
	targets := make([]int64, 0, len(conns))
	params := make([]map[string]any, 0, len(conns))
	for _, c := range conns {
		if !slices.Contains(targets, c.TargetID) {
			targets = append(targets, c.TargetID)
		}
		params = append(params, map[string]any{"target": c.TargetID, "distance": c.Distance})
	}

	res, err := n.writeOne(ctx, replaceConnectionsCypher, map[string]any{
		"id":        id,
		"targetIds": targets,
		"conns":     params,
	})
	if err != nil {
		return fmt.Errorf("replace connections of %d: %w", id, err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("replace connections of %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// --- locations ---

// GetLocation fetches one location.
func (n *Neo4j) GetLocation(ctx context.Context, id int64) (domain.Location, error) {
	res, err := n.client.Read(ctx, graph.Statement{Cypher: getLocationCypher, Params: map[string]any{"id": id}})
	if err != nil {
		return domain.Location{}, fmt.Errorf("get location %d: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.Location{}, notFound("location", id)
	}
	return locationFromRecord(res.Records[0]), nil
}

// CreateLocation creates a :Location node. A zero ID draws the next value
// from the location sequence node.
func (n *Neo4j) CreateLocation(ctx context.Context, loc domain.Location) (domain.Location, error) {
	if loc.ID != 0 {
		res, err := n.client.Read(ctx, graph.Statement{Cypher: getLocationCypher, Params: map[string]any{"id": loc.ID}})
		if err != nil {
			return domain.Location{}, fmt.Errorf("lookup location %d: %w", loc.ID, err)
		}
		if len(res.Records) > 0 {
			return domain.Location{}, fmt.Errorf("location %d: %w", loc.ID, domain.ErrConflict)
		}
	}

	now := formatTime(n.nowFn())
	props := locationProperties(loc)
	props["createdAt"] = now
	props["updatedAt"] = now

	res, err := n.writeOne(ctx, createLocationCypher, map[string]any{"id": loc.ID, "props": props})
	if err != nil {
		return domain.Location{}, fmt.Errorf("create location: %w", err)
	}
	if len(res.Records) == 0 {
		return domain.Location{}, fmt.Errorf("create location: no record returned")
	}
	return locationFromRecord(res.Records[0]), nil
}

// UpdateLocation sets the patched properties on the node.
func (n *Neo4j) UpdateLocation(ctx context.Context, id int64, patch domain.LocationPatch) (domain.Location, error) {
	props := patchProperties(patch)
	props["updatedAt"] = formatTime(n.nowFn())

	res, err := n.writeOne(ctx, updateLocationCypher, map[string]any{"id": id, "props": props})
	if err != nil {
		return domain.Location{}, fmt.Errorf("update location %d: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.Location{}, notFound("location", id)
	}
	return locationFromRecord(res.Records[0]), nil
}

// DeleteLocation removes the attached amenities and then the node with all of
// its relationships, in one transaction.
func (n *Neo4j) DeleteLocation(ctx context.Context, id int64) error {
	params := map[string]any{"id": id}
	res, err := n.client.Write(ctx,
		graph.Statement{Cypher: deleteLocationAmenitiesCypher, Params: params},
		graph.Statement{Cypher: deleteLocationCypher, Params: params},
	)
	if err != nil {
		return fmt.Errorf("delete location %d: %w", id, err)
	}
	if len(res) < 2 || deletedCount(res[1]) == 0 {
		return notFound("location", id)
	}
	return nil
}

// ListLocations pages through locations; filter.Type matches the category.
func (n *Neo4j) ListLocations(ctx context.Context, filter domain.ListFilter) ([]domain.Location, error) {
	filter = filter.Normalize()
	res, err := n.client.Read(ctx, graph.Statement{Cypher: listLocationsCypher, Params: listParams(filter)})
	if err != nil {
		return nil, fmt.Errorf("list locations query: %w", err)
	}
	locs := make([]domain.Location, 0, len(res.Records))
	for _, record := range res.Records {
		locs = append(locs, locationFromRecord(record))
	}
	return locs, nil
}

// --- points of interest ---

// CreatePOI creates a :POI node at an existing location.
func (n *Neo4j) CreatePOI(ctx context.Context, poi domain.POI) (domain.POI, error) {
	id, err := n.createAmenity(ctx, labelPOI, poi.LocationID, poiProperties(poi))
	if err != nil {
		return domain.POI{}, err
	}
	poi.ID = id
	return poi, nil
}

// GetPOI fetches one point of interest.
func (n *Neo4j) GetPOI(ctx context.Context, id int64) (domain.POI, error) {
	record, err := n.getAmenity(ctx, labelPOI, id)
	if err != nil {
		return domain.POI{}, err
	}
	return poiFromRecord(record), nil
}

// UpdatePOI overwrites the stored point of interest and re-links it.
func (n *Neo4j) UpdatePOI(ctx context.Context, poi domain.POI) (domain.POI, error) {
	if err := n.updateAmenity(ctx, labelPOI, poi.ID, poi.LocationID, poiProperties(poi)); err != nil {
		return domain.POI{}, err
	}
	return poi, nil
}

// DeletePOI removes a point of interest.
func (n *Neo4j) DeletePOI(ctx context.Context, id int64) error {
	return n.deleteAmenity(ctx, labelPOI, id)
}

// ListPOIs pages through points of interest, optionally by type.
func (n *Neo4j) ListPOIs(ctx context.Context, filter domain.ListFilter) ([]domain.POI, error) {
	records, err := n.listAmenities(ctx, labelPOI, filter)
	if err != nil {
		return nil, err
	}
	pois := make([]domain.POI, 0, len(records))
	for _, record := range records {
		pois = append(pois, poiFromRecord(record))
	}
	return pois, nil
}

// --- emergency services ---

// CreateEmergencyService creates an :EmergencyService node at an existing location.
func (n *Neo4j) CreateEmergencyService(ctx context.Context, svc domain.EmergencyService) (domain.EmergencyService, error) {
	id, err := n.createAmenity(ctx, labelEmergency, svc.LocationID, emergencyProperties(svc))
	if err != nil {
		return domain.EmergencyService{}, err
	}
	svc.ID = id
	return svc, nil
}

// GetEmergencyService fetches one emergency marker.
func (n *Neo4j) GetEmergencyService(ctx context.Context, id int64) (domain.EmergencyService, error) {
	record, err := n.getAmenity(ctx, labelEmergency, id)
	if err != nil {
		return domain.EmergencyService{}, err
	}
	return emergencyFromRecord(record), nil
}

// UpdateEmergencyService overwrites the stored emergency marker.
func (n *Neo4j) UpdateEmergencyService(ctx context.Context, svc domain.EmergencyService) (domain.EmergencyService, error) {
	if err := n.updateAmenity(ctx, labelEmergency, svc.ID, svc.LocationID, emergencyProperties(svc)); err != nil {
		return domain.EmergencyService{}, err
	}
	return svc, nil
}

// DeleteEmergencyService removes an emergency marker.
func (n *Neo4j) DeleteEmergencyService(ctx context.Context, id int64) error {
	return n.deleteAmenity(ctx, labelEmergency, id)
}

// ListEmergencyServices pages through emergency markers, optionally by type.
func (n *Neo4j) ListEmergencyServices(ctx context.Context, filter domain.ListFilter) ([]domain.EmergencyService, error) {
	records, err := n.listAmenities(ctx, labelEmergency, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.EmergencyService, 0, len(records))
	for _, record := range records {
		out = append(out, emergencyFromRecord(record))
	}
	return out, nil
}

// --- amenity helpers (POI and EmergencyService share one shape) ---

type amenityLabel struct {
	label      string
	kind       string
	projection string
}

var (
	labelPOI = amenityLabel{
		label: "POI",
		kind:  "poi",
		projection: `a.id AS id, a.name AS name, a.type AS type, a.description AS description,
       a.isAvailable AS isAvailable, a.capacity AS capacity,
       a.currentOccupancy AS currentOccupancy, l.id AS locationId`,
	}
	labelEmergency = amenityLabel{
		label:      "EmergencyService",
		kind:       "emergency service",
		projection: `a.id AS id, a.type AS type, a.description AS description, l.id AS locationId`,
	}
)

func (n *Neo4j) createAmenity(ctx context.Context, al amenityLabel, locationID int64, props map[string]any) (int64, error) {
	query := fmt.Sprintf(createAmenityCypherTemplate, al.label)
	res, err := n.writeOne(ctx, query, map[string]any{
		"sequence":   al.label,
		"locationId": locationID,
		"props":      props,
	})
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", al.kind, err)
	}
	if len(res.Records) == 0 {
		return 0, notFound("location", locationID)
	}
	return toInt64(res.Records[0]["id"]), nil
}

func (n *Neo4j) getAmenity(ctx context.Context, al amenityLabel, id int64) (graph.Record, error) {
	query := fmt.Sprintf(getAmenityCypherTemplate, al.label, al.projection)
	res, err := n.client.Read(ctx, graph.Statement{Cypher: query, Params: map[string]any{"id": id}})
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", al.kind, id, err)
	}
	if len(res.Records) == 0 {
		return nil, notFound(al.kind, id)
	}
	return res.Records[0], nil
}

func (n *Neo4j) updateAmenity(ctx context.Context, al amenityLabel, id, locationID int64, props map[string]any) error {
	query := fmt.Sprintf(updateAmenityCypherTemplate, al.label)
	res, err := n.writeOne(ctx, query, map[string]any{
		"id":         id,
		"locationId": locationID,
		"props":      props,
	})
	if err != nil {
		return fmt.Errorf("update %s %d: %w", al.kind, id, err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("%s %d at location %d: %w", al.kind, id, locationID, domain.ErrNotFound)
	}
	return nil
}

func (n *Neo4j) deleteAmenity(ctx context.Context, al amenityLabel, id int64) error {
	query := fmt.Sprintf(deleteAmenityCypherTemplate, al.label)
	res, err := n.writeOne(ctx, query, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", al.kind, id, err)
	}
	if deletedCount(res) == 0 {
		return notFound(al.kind, id)
	}
	return nil
}

func (n *Neo4j) listAmenities(ctx context.Context, al amenityLabel, filter domain.ListFilter) ([]graph.Record, error) {
	filter = filter.Normalize()
	query := fmt.Sprintf(listAmenitiesCypherTemplate, al.label, al.projection)
	res, err := n.client.Read(ctx, graph.Statement{Cypher: query, Params: listParams(filter)})
	if err != nil {
		return nil, fmt.Errorf("list %s query: %w", al.kind, err)
	}
	return res.Records, nil
}

// --- record mapping ---

func listParams(filter domain.ListFilter) map[string]any {
	return map[string]any{
		"type":  filter.Type,
		"skip":  int64(filter.Skip),
		"limit": int64(filter.Limit),
	}
}

func deletedCount(res graph.Result) int64 {
	if len(res.Records) == 0 {
		return 0
	}
	return toInt64(res.Records[0]["deleted"])
}

func locationProperties(loc domain.Location) map[string]any {
	return map[string]any{
		"name":        loc.Name,
		"description": loc.Description,
		"building":    loc.Building,
		"floor":       intPtrParam(loc.Floor),
		"roomNumber":  loc.RoomNumber,
		"category":    loc.Category,
		"lon":         loc.Coordinates.Lon(),
		"lat":         loc.Coordinates.Lat(),
	}
}

func patchProperties(p domain.LocationPatch) map[string]any {
	props := map[string]any{}
	if p.Name != nil {
		props["name"] = *p.Name
	}
	if p.Description != nil {
		props["description"] = *p.Description
	}
	if p.Building != nil {
		props["building"] = *p.Building
	}
	if p.Floor != nil {
		props["floor"] = int64(*p.Floor)
	}
	if p.RoomNumber != nil {
		props["roomNumber"] = *p.RoomNumber
	}
	if p.Category != nil {
		props["category"] = *p.Category
	}
	if p.Coordinates != nil {
		props["lon"] = p.Coordinates.Lon()
		props["lat"] = p.Coordinates.Lat()
	}
	return props
}

func poiProperties(poi domain.POI) map[string]any {
	return map[string]any{
		"name":             poi.Name,
		"type":             poi.Type,
		"description":      poi.Description,
		"isAvailable":      poi.IsAvailable,
		"capacity":         intPtrParam(poi.Capacity),
		"currentOccupancy": intPtrParam(poi.CurrentOccupancy),
	}
}

func emergencyProperties(svc domain.EmergencyService) map[string]any {
	return map[string]any{
		"type":        svc.Type,
		"description": svc.Description,
	}
}

func locationFromRecord(record graph.Record) domain.Location {
	return domain.Location{
		ID:          toInt64(record["id"]),
		Name:        toString(record["name"]),
		Description: toString(record["description"]),
		Building:    toString(record["building"]),
		Floor:       toIntPtr(record["floor"]),
		RoomNumber:  toString(record["roomNumber"]),
		Category:    toString(record["category"]),
		Coordinates: geo.NewPoint(toFloat64(record["lon"]), toFloat64(record["lat"])),
		CreatedAt:   parseTime(toString(record["createdAt"])),
		UpdatedAt:   parseTime(toString(record["updatedAt"])),
	}
}

func poiFromRecord(record graph.Record) domain.POI {
	available, _ := record["isAvailable"].(bool)
	return domain.POI{
		ID:               toInt64(record["id"]),
		Name:             toString(record["name"]),
		Type:             toString(record["type"]),
		Description:      toString(record["description"]),
		IsAvailable:      available,
		Capacity:         toIntPtr(record["capacity"]),
		CurrentOccupancy: toIntPtr(record["currentOccupancy"]),
		LocationID:       toInt64(record["locationId"]),
	}
}

func emergencyFromRecord(record graph.Record) domain.EmergencyService {
	return domain.EmergencyService{
		ID:          toInt64(record["id"]),
		Type:        toString(record["type"]),
		Description: toString(record["description"]),
		LocationID:  toInt64(record["locationId"]),
	}
}

func intPtrParam(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toIntPtr(val any) *int {
	if val == nil {
		return nil
	}
	v := int(toInt64(val))
	return &v
}

// --- cypher ---

var neo4jConstraints = []string{
	`CREATE CONSTRAINT location_id IF NOT EXISTS FOR (l:Location) REQUIRE l.id IS UNIQUE`,
	`CREATE CONSTRAINT poi_id IF NOT EXISTS FOR (p:POI) REQUIRE p.id IS UNIQUE`,
	`CREATE CONSTRAINT emergency_id IF NOT EXISTS FOR (e:EmergencyService) REQUIRE e.id IS UNIQUE`,
	`CREATE CONSTRAINT sequence_name IF NOT EXISTS FOR (s:Sequence) REQUIRE s.name IS UNIQUE`,
	`CREATE CONSTRAINT user_username IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE`,
	`CREATE CONSTRAINT user_email IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE`,
}

const locationProjection = `l.id AS id,
       l.name AS name,
       l.description AS description,
       l.building AS building,
       l.floor AS floor,
       l.roomNumber AS roomNumber,
       l.category AS category,
       l.lon AS lon,
       l.lat AS lat,
       l.createdAt AS createdAt,
       l.updatedAt AS updatedAt`

const snapshotCypher = `
MATCH (l:Location)
OPTIONAL MATCH (l)-[r:CONNECTED_TO]->(t:Location)
WITH l, collect(CASE WHEN t IS NULL THEN NULL ELSE {to: t.id, distance: r.distance} END) AS edges
RETURN ` + locationProjection + `,
       edges
ORDER BY id
`

const connectedIDsCypher = `
MATCH (l:Location {id: $id})
OPTIONAL MATCH (l)-[:CONNECTED_TO]->(t:Location)
RETURN l.id AS id, collect(t.id) AS targets
`

const connectCypher = `
MATCH (a:Location {id: $from}), (b:Location {id: $to})
MERGE (a)-[ab:CONNECTED_TO]->(b)
SET ab.distance = $distance
MERGE (b)-[ba:CONNECTED_TO]->(a)
SET ba.distance = $distance
RETURN a.id AS from, b.id AS to
`

const disconnectAllCypher = `
MATCH (l:Location {id: $id})-[r:CONNECTED_TO]-()
DELETE r
`

const replaceConnectionsCypher = `
MATCH (l:Location {id: $id})
OPTIONAL MATCH (t:Location) WHERE t.id IN $targetIds
WITH l, count(t) AS found
WHERE found = size($targetIds)
OPTIONAL MATCH (l)-[old:CONNECTED_TO]-()
DELETE old
WITH DISTINCT l
CALL {
    WITH l
    UNWIND $conns AS c
    MATCH (t:Location {id: c.target})
    CREATE (l)-[:CONNECTED_TO {distance: c.distance}]->(t)
    CREATE (t)-[:CONNECTED_TO {distance: c.distance}]->(l)
}
RETURN l.id AS id
`

const getLocationCypher = `
MATCH (l:Location {id: $id})
RETURN ` + locationProjection + `
`

const createLocationCypher = `
MERGE (seq:Sequence {name: "Location"})
ON CREATE SET seq.value = 0
SET seq.value = CASE
    WHEN $id > 0 AND $id > seq.value THEN $id
    WHEN $id > 0 THEN seq.value
    ELSE seq.value + 1
END
WITH seq
CREATE (l:Location {id: CASE WHEN $id > 0 THEN $id ELSE seq.value END})
SET l += $props
RETURN ` + locationProjection + `
`

const updateLocationCypher = `
MATCH (l:Location {id: $id})
SET l += $props
RETURN ` + locationProjection + `
`

const deleteLocationAmenitiesCypher = `
MATCH (a)-[:AT]->(:Location {id: $id})
WHERE a:POI OR a:EmergencyService
DETACH DELETE a
`

const deleteLocationCypher = `
MATCH (l:Location {id: $id})
DETACH DELETE l
RETURN count(*) AS deleted
`

const listLocationsCypher = `
MATCH (l:Location)
WHERE $type = "" OR l.category = $type
RETURN ` + locationProjection + `
ORDER BY id
SKIP $skip
LIMIT $limit
`

const createAmenityCypherTemplate = `
MATCH (l:Location {id: $locationId})
MERGE (seq:Sequence {name: $sequence})
ON CREATE SET seq.value = 0
SET seq.value = seq.value + 1
CREATE (a:%s {id: seq.value})-[:AT]->(l)
SET a += $props
RETURN a.id AS id
`

const getAmenityCypherTemplate = `
MATCH (a:%s {id: $id})-[:AT]->(l:Location)
RETURN %s
`

const updateAmenityCypherTemplate = `
MATCH (a:%s {id: $id})
MATCH (l:Location {id: $locationId})
OPTIONAL MATCH (a)-[old:AT]->()
DELETE old
WITH DISTINCT a, l
CREATE (a)-[:AT]->(l)
SET a += $props
RETURN a.id AS id
`

const deleteAmenityCypherTemplate = `
MATCH (a:%s {id: $id})
DETACH DELETE a
RETURN count(*) AS deleted
`

const listAmenitiesCypherTemplate = `
MATCH (a:%s)-[:AT]->(l:Location)
WHERE $type = "" OR a.type = $type
RETURN %s
ORDER BY id
SKIP $skip
LIMIT $limit
`
