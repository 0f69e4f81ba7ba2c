package repository

// SQLite schema DDL. path_edges mirrors the relational edge table: one row per
// directed edge, keyed by (from_id, to_id).

const schemaLocations = `
CREATE TABLE IF NOT EXISTS locations (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    building TEXT NOT NULL DEFAULT '',
    floor INTEGER,
    room_number TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    lon REAL NOT NULL,
    lat REAL NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

const schemaPathEdges = `
CREATE TABLE IF NOT EXISTS path_edges (
    from_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
    to_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
    distance REAL NOT NULL CHECK (distance >= 0),
    PRIMARY KEY (from_id, to_id)
)`

const schemaPOIs = `
CREATE TABLE IF NOT EXISTS points_of_interest (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_available INTEGER NOT NULL DEFAULT 1,
    capacity INTEGER,
    current_occupancy INTEGER,
    location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE
)`

const schemaEmergencyServices = `
CREATE TABLE IF NOT EXISTS emergency_services (
    id INTEGER PRIMARY KEY,
    type TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE
)`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL
)`

const indexLocationsName = `CREATE INDEX IF NOT EXISTS idx_locations_name ON locations(name)`
const indexLocationsBuilding = `CREATE INDEX IF NOT EXISTS idx_locations_building ON locations(building)`
const indexLocationsCategory = `CREATE INDEX IF NOT EXISTS idx_locations_category ON locations(category)`
const indexPathEdgesTo = `CREATE INDEX IF NOT EXISTS idx_path_edges_to ON path_edges(to_id)`
const indexPOIsType = `CREATE INDEX IF NOT EXISTS idx_poi_type ON points_of_interest(type)`
const indexPOIsLocation = `CREATE INDEX IF NOT EXISTS idx_poi_location ON points_of_interest(location_id)`
const indexEmergencyType = `CREATE INDEX IF NOT EXISTS idx_emergency_type ON emergency_services(type)`
const indexEmergencyLocation = `CREATE INDEX IF NOT EXISTS idx_emergency_location ON emergency_services(location_id)`

func allSchemaStatements() []string {
	return []string{
		schemaLocations,
		schemaPathEdges,
		schemaPOIs,
		schemaEmergencyServices,
		schemaUsers,
		indexLocationsName,
		indexLocationsBuilding,
		indexLocationsCategory,
		indexPathEdgesTo,
		indexPOIsType,
		indexPOIsLocation,
		indexEmergencyType,
		indexEmergencyLocation,
	}
}

// Pragmas are passed through the DSN so every pooled connection gets them.
func allPragmas() []string {
	return []string{
		"journal_mode(WAL)",
		"foreign_keys(1)",
		"busy_timeout(5000)",
		"synchronous(NORMAL)",
	}
}

// readPragmas configure the snapshot pool.
func readPragmas() []string {
	return []string{
		"foreign_keys(1)",
		"busy_timeout(5000)",
		"query_only(1)",
	}
}
