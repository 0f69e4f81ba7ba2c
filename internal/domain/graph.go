package domain

// Edge is one directed, weighted connection between two locations.
type Edge struct {
	FromID   int64
	ToID     int64
	Distance float64
}

// Connection is an undirected link requested from a location to a target. It
// is stored as two directed edges carrying the same distance.
type Connection struct {
	TargetID int64
	Distance float64
}

// Snapshot is a consistent read of every location and every directed edge.
type Snapshot struct {
	Locations []Location
	Edges     []Edge
}
