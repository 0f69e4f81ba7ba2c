package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
)

// SQLite is a Store backed by a SQLite database file. Writes go through db,
// whose transactions begin IMMEDIATE; snapshots go through the query-only
// read pool, whose transactions stay deferred and never take the write lock.
type SQLite struct {
	db    *sql.DB
	read  *sql.DB
	nowFn func() time.Time
}

// NewSQLite opens (and if needed creates) the database at path and applies
// the schema.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}

	for _, stmt := range allSchemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	read, err := sql.Open("sqlite", sqliteReadDSN(path))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening sqlite read pool: %w", err)
	}
	if err := read.PingContext(ctx); err != nil {
		_ = read.Close()
		_ = db.Close()
		return nil, fmt.Errorf("connecting sqlite read pool: %w", err)
	}

	return &SQLite{db: db, read: read, nowFn: time.Now}, nil
}

// sqliteDSN applies the pragmas on every pooled connection. Transactions
// begin IMMEDIATE so a read-then-write transaction waits on busy_timeout
// instead of failing when another writer got in first.
func sqliteDSN(path string) string {
	q := url.Values{}
	for _, p := range allPragmas() {
		q.Add("_pragma", p)
	}
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// sqliteReadDSN opens query-only connections with deferred transactions.
// The journal mode is already persisted by the writer.
func sqliteReadDSN(path string) string {
	q := url.Values{}
	for _, p := range readPragmas() {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// Close closes both SQLite connection pools.
func (s *SQLite) Close(context.Context) error {
	return errors.Join(s.read.Close(), s.db.Close())
}

// Ping verifies the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) now() string {
	return formatTime(s.nowFn())
}

// inTx runs fn inside a transaction and commits when it returns nil.
func (s *SQLite) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func locationExists(ctx context.Context, q queryer, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM locations WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup location %d: %w", id, err)
	}
	return true, nil
}

func requireLocations(ctx context.Context, q queryer, ids ...int64) error {
	for _, id := range ids {
		ok, err := locationExists(ctx, q, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("location", id)
		}
	}
	return nil
}

// readTx runs fn inside a deferred transaction on the read pool. Under WAL
// it sees one committed state and runs alongside an open writer.
func (s *SQLite) readTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.read.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	return fn(tx)
}

// --- graph ---

const upsertEdgeSQL = `
INSERT INTO path_edges (from_id, to_id, distance) VALUES (?, ?, ?)
ON CONFLICT (from_id, to_id) DO UPDATE SET distance = excluded.distance`

// Snapshot reads every location and edge inside one read transaction, so
// both queries see the same committed state.
func (s *SQLite) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.readTx(ctx, func(tx *sql.Tx) error {
		locs, err := queryLocations(ctx, tx, selectLocationSQL+` ORDER BY id`)
		if err != nil {
			return err
		}
		snap.Locations = locs

		rows, err := tx.QueryContext(ctx, `SELECT from_id, to_id, distance FROM path_edges ORDER BY from_id, to_id`)
		if err != nil {
			return fmt.Errorf("query edges: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var e domain.Edge
			if err := rows.Scan(&e.FromID, &e.ToID, &e.Distance); err != nil {
				return fmt.Errorf("scan edge: %w", err)
			}
			snap.Edges = append(snap.Edges, e)
		}
		return rows.Err()
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// ConnectedIDs lists the heads of id's outgoing edges.
func (s *SQLite) ConnectedIDs(ctx context.Context, id int64) ([]int64, error) {
	if err := requireLocations(ctx, s.db, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT to_id FROM path_edges WHERE from_id = ? ORDER BY to_id`, id)
	if err != nil {
		return nil, fmt.Errorf("query connections of %d: %w", id, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var to int64
		if err := rows.Scan(&to); err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		ids = append(ids, to)
	}
	return ids, rows.Err()
}

// Connect writes both directed edges in one transaction.
func (s *SQLite) Connect(ctx context.Context, fromID, toID int64, distance float64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireLocations(ctx, tx, fromID, toID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertEdgeSQL, fromID, toID, distance); err != nil {
			return fmt.Errorf("insert edge %d->%d: %w", fromID, toID, err)
		}
		if _, err := tx.ExecContext(ctx, upsertEdgeSQL, toID, fromID, distance); err != nil {
			return fmt.Errorf("insert edge %d->%d: %w", toID, fromID, err)
		}
		return nil
	})
}

// DisconnectAll deletes every edge with id at either end.
func (s *SQLite) DisconnectAll(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM path_edges WHERE from_id = ? OR to_id = ?`, id, id); err != nil {
		return fmt.Errorf("delete edges of %d: %w", id, err)
	}
	return nil
}

// ReplaceConnections deletes id's edges and inserts the new pairs in one
// transaction, so readers see either the old or the new list.
func (s *SQLite) ReplaceConnections(ctx context.Context, id int64, conns []domain.Connection) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		ids := make([]int64, 0, len(conns)+1)
		ids = append(ids, id)
		for _, c := range conns {
			ids = append(ids, c.TargetID)
		}
		if err := requireLocations(ctx, tx, ids...); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM path_edges WHERE from_id = ? OR to_id = ?`, id, id); err != nil {
			return fmt.Errorf("delete edges of %d: %w", id, err)
		}
		for _, c := range conns {
			if _, err := tx.ExecContext(ctx, upsertEdgeSQL, id, c.TargetID, c.Distance); err != nil {
				return fmt.Errorf("insert edge %d->%d: %w", id, c.TargetID, err)
			}
			if _, err := tx.ExecContext(ctx, upsertEdgeSQL, c.TargetID, id, c.Distance); err != nil {
				return fmt.Errorf("insert edge %d->%d: %w", c.TargetID, id, err)
			}
		}
		return nil
	})
}

// --- locations ---

const selectLocationSQL = `
SELECT id, name, description, building, floor, room_number, category, lon, lat, created_at, updated_at
FROM locations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (domain.Location, error) {
	var (
		loc       domain.Location
		floor     sql.NullInt64
		lon, lat  float64
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Description, &loc.Building, &floor,
		&loc.RoomNumber, &loc.Category, &lon, &lat, &createdAt, &updatedAt); err != nil {
		return domain.Location{}, err
	}
	if floor.Valid {
		f := int(floor.Int64)
		loc.Floor = &f
	}
	loc.Coordinates = geo.NewPoint(lon, lat)
	loc.CreatedAt = parseTime(createdAt)
	loc.UpdatedAt = parseTime(updatedAt)
	return loc, nil
}

func queryLocations(ctx context.Context, q queryer, query string, args ...any) ([]domain.Location, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

func getLocation(ctx context.Context, q queryer, id int64) (domain.Location, error) {
	loc, err := scanLocation(q.QueryRowContext(ctx, selectLocationSQL+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Location{}, notFound("location", id)
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("get location %d: %w", id, err)
	}
	return loc, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

// GetLocation fetches one location.
func (s *SQLite) GetLocation(ctx context.Context, id int64) (domain.Location, error) {
	return getLocation(ctx, s.db, id)
}

// CreateLocation inserts loc. A zero ID lets the database assign one.
func (s *SQLite) CreateLocation(ctx context.Context, loc domain.Location) (domain.Location, error) {
	now := s.now()
	var created domain.Location
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var id any
		if loc.ID != 0 {
			exists, err := locationExists(ctx, tx, loc.ID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("location %d: %w", loc.ID, domain.ErrConflict)
			}
			id = loc.ID
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO locations (id, name, description, building, floor, room_number, category, lon, lat, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, loc.Name, loc.Description, loc.Building, nullableInt(loc.Floor), loc.RoomNumber,
			loc.Category, loc.Coordinates.Lon(), loc.Coordinates.Lat(), now, now)
		if err != nil {
			return fmt.Errorf("insert location: %w", err)
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("location id: %w", err)
		}
		created, err = getLocation(ctx, tx, newID)
		return err
	})
	if err != nil {
		return domain.Location{}, err
	}
	return created, nil
}

// UpdateLocation applies patch to the stored location.
func (s *SQLite) UpdateLocation(ctx context.Context, id int64, patch domain.LocationPatch) (domain.Location, error) {
	var updated domain.Location
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		loc, err := getLocation(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.Apply(&loc)

		_, err = tx.ExecContext(ctx, `
			UPDATE locations
			SET name = ?, description = ?, building = ?, floor = ?, room_number = ?, category = ?,
			    lon = ?, lat = ?, updated_at = ?
			WHERE id = ?`,
			loc.Name, loc.Description, loc.Building, nullableInt(loc.Floor), loc.RoomNumber, loc.Category,
			loc.Coordinates.Lon(), loc.Coordinates.Lat(), s.now(), id)
		if err != nil {
			return fmt.Errorf("update location %d: %w", id, err)
		}
		updated, err = getLocation(ctx, tx, id)
		return err
	})
	if err != nil {
		return domain.Location{}, err
	}
	return updated, nil
}

// DeleteLocation removes the location together with its edges, POIs and
// emergency services.
func (s *SQLite) DeleteLocation(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireLocations(ctx, tx, id); err != nil {
			return err
		}
		for _, stmt := range []string{
			`DELETE FROM path_edges WHERE from_id = ?1 OR to_id = ?1`,
			`DELETE FROM points_of_interest WHERE location_id = ?1`,
			`DELETE FROM emergency_services WHERE location_id = ?1`,
			`DELETE FROM locations WHERE id = ?1`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("delete location %d: %w", id, err)
			}
		}
		return nil
	})
}

// ListLocations pages through locations; filter.Type matches the category.
func (s *SQLite) ListLocations(ctx context.Context, filter domain.ListFilter) ([]domain.Location, error) {
	filter = filter.Normalize()
	query, args := withTypeFilter(selectLocationSQL, "category", filter)
	return queryLocations(ctx, s.db, query, args...)
}

func withTypeFilter(base, column string, filter domain.ListFilter) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(base)
	if filter.Type != "" {
		b.WriteString(" WHERE " + column + " = ?")
		args = append(args, filter.Type)
	}
	b.WriteString(" ORDER BY id LIMIT ? OFFSET ?")
	args = append(args, filter.Limit, filter.Skip)
	return b.String(), args
}

// --- points of interest ---

const selectPOISQL = `
SELECT id, name, type, description, is_available, capacity, current_occupancy, location_id
FROM points_of_interest`

func scanPOI(row rowScanner) (domain.POI, error) {
	var (
		poi       domain.POI
		available int
		capacity  sql.NullInt64
		occupancy sql.NullInt64
	)
	if err := row.Scan(&poi.ID, &poi.Name, &poi.Type, &poi.Description, &available,
		&capacity, &occupancy, &poi.LocationID); err != nil {
		return domain.POI{}, err
	}
	poi.IsAvailable = available != 0
	if capacity.Valid {
		c := int(capacity.Int64)
		poi.Capacity = &c
	}
	if occupancy.Valid {
		o := int(occupancy.Int64)
		poi.CurrentOccupancy = &o
	}
	return poi, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CreatePOI inserts a point of interest at an existing location.
func (s *SQLite) CreatePOI(ctx context.Context, poi domain.POI) (domain.POI, error) {
	var created domain.POI
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireLocations(ctx, tx, poi.LocationID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO points_of_interest (name, type, description, is_available, capacity, current_occupancy, location_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			poi.Name, poi.Type, poi.Description, boolToInt(poi.IsAvailable),
			nullableInt(poi.Capacity), nullableInt(poi.CurrentOccupancy), poi.LocationID)
		if err != nil {
			return fmt.Errorf("insert poi: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("poi id: %w", err)
		}
		created = poi
		created.ID = id
		return nil
	})
	if err != nil {
		return domain.POI{}, err
	}
	return created, nil
}

// GetPOI fetches one point of interest.
func (s *SQLite) GetPOI(ctx context.Context, id int64) (domain.POI, error) {
	poi, err := scanPOI(s.db.QueryRowContext(ctx, selectPOISQL+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.POI{}, notFound("poi", id)
	}
	if err != nil {
		return domain.POI{}, fmt.Errorf("get poi %d: %w", id, err)
	}
	return poi, nil
}

// UpdatePOI overwrites every field of the stored point of interest.
func (s *SQLite) UpdatePOI(ctx context.Context, poi domain.POI) (domain.POI, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireLocations(ctx, tx, poi.LocationID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE points_of_interest
			SET name = ?, type = ?, description = ?, is_available = ?, capacity = ?, current_occupancy = ?, location_id = ?
			WHERE id = ?`,
			poi.Name, poi.Type, poi.Description, boolToInt(poi.IsAvailable),
			nullableInt(poi.Capacity), nullableInt(poi.CurrentOccupancy), poi.LocationID, poi.ID)
		if err != nil {
			return fmt.Errorf("update poi %d: %w", poi.ID, err)
		}
		return expectOneRow(res, "poi", poi.ID)
	})
	if err != nil {
		return domain.POI{}, err
	}
	return poi, nil
}

// DeletePOI removes a point of interest.
func (s *SQLite) DeletePOI(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM points_of_interest WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete poi %d: %w", id, err)
	}
	return expectOneRow(res, "poi", id)
}

// ListPOIs pages through points of interest, optionally by type.
func (s *SQLite) ListPOIs(ctx context.Context, filter domain.ListFilter) ([]domain.POI, error) {
	filter = filter.Normalize()
	query, args := withTypeFilter(selectPOISQL, "type", filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pois: %w", err)
	}
	defer rows.Close()

	var pois []domain.POI
	for rows.Next() {
		poi, err := scanPOI(rows)
		if err != nil {
			return nil, fmt.Errorf("scan poi: %w", err)
		}
		pois = append(pois, poi)
	}
	return pois, rows.Err()
}

// --- emergency services ---

const selectEmergencySQL = `SELECT id, type, description, location_id FROM emergency_services`

func scanEmergency(row rowScanner) (domain.EmergencyService, error) {
	var svc domain.EmergencyService
	err := row.Scan(&svc.ID, &svc.Type, &svc.Description, &svc.LocationID)
	return svc, err
}

// CreateEmergencyService inserts an emergency marker at an existing location.
func (s *SQLite) CreateEmergencyService(ctx context.Context, svc domain.EmergencyService) (domain.EmergencyService, error) {
	var created domain.EmergencyService
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireLocations(ctx, tx, svc.LocationID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO emergency_services (type, description, location_id) VALUES (?, ?, ?)`,
			svc.Type, svc.Description, svc.LocationID)
		if err != nil {
			return fmt.Errorf("insert emergency service: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("emergency service id: %w", err)
		}
		created = svc
		created.ID = id
		return nil
	})
	if err != nil {
		return domain.EmergencyService{}, err
	}
	return created, nil
}

// GetEmergencyService fetches one emergency marker.
func (s *SQLite) GetEmergencyService(ctx context.Context, id int64) (domain.EmergencyService, error) {
	svc, err := scanEmergency(s.db.QueryRowContext(ctx, selectEmergencySQL+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EmergencyService{}, notFound("emergency service", id)
	}
	if err != nil {
		return domain.EmergencyService{}, fmt.Errorf("get emergency service %d: %w", id, err)
	}
	return svc, nil
}

// UpdateEmergencyService overwrites the stored emergency marker.
func (s *SQLite) UpdateEmergencyService(ctx context.Context, svc domain.EmergencyService) (domain.EmergencyService, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := requireLocations(ctx, tx, svc.LocationID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE emergency_services SET type = ?, description = ?, location_id = ? WHERE id = ?`,
			svc.Type, svc.Description, svc.LocationID, svc.ID)
		if err != nil {
			return fmt.Errorf("update emergency service %d: %w", svc.ID, err)
		}
		return expectOneRow(res, "emergency service", svc.ID)
	})
	if err != nil {
		return domain.EmergencyService{}, err
	}
	return svc, nil
}

// DeleteEmergencyService removes an emergency marker.
func (s *SQLite) DeleteEmergencyService(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM emergency_services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete emergency service %d: %w", id, err)
	}
	return expectOneRow(res, "emergency service", id)
}

// ListEmergencyServices pages through emergency markers, optionally by type.
func (s *SQLite) ListEmergencyServices(ctx context.Context, filter domain.ListFilter) ([]domain.EmergencyService, error) {
	filter = filter.Normalize()
	query, args := withTypeFilter(selectEmergencySQL, "type", filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query emergency services: %w", err)
	}
	defer rows.Close()

	var out []domain.EmergencyService
	for rows.Next() {
		svc, err := scanEmergency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan emergency service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

func expectOneRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %d rows affected: %w", kind, id, err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}
