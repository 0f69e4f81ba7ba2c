package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

// Store is the persistence contract shared by every backend: the graph reads
// and edge mutations the navigator needs, CRUD for the campus entities, and
// the user accounts behind login.
type Store interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
	GetLocation(ctx context.Context, id int64) (domain.Location, error)
	ConnectedIDs(ctx context.Context, id int64) ([]int64, error)
	Connect(ctx context.Context, fromID, toID int64, distance float64) error
	DisconnectAll(ctx context.Context, id int64) error
	ReplaceConnections(ctx context.Context, id int64, conns []domain.Connection) error

	CreateLocation(ctx context.Context, loc domain.Location) (domain.Location, error)
	UpdateLocation(ctx context.Context, id int64, patch domain.LocationPatch) (domain.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
	ListLocations(ctx context.Context, filter domain.ListFilter) ([]domain.Location, error)

	CreatePOI(ctx context.Context, poi domain.POI) (domain.POI, error)
	GetPOI(ctx context.Context, id int64) (domain.POI, error)
	UpdatePOI(ctx context.Context, poi domain.POI) (domain.POI, error)
	DeletePOI(ctx context.Context, id int64) error
	ListPOIs(ctx context.Context, filter domain.ListFilter) ([]domain.POI, error)

	CreateEmergencyService(ctx context.Context, svc domain.EmergencyService) (domain.EmergencyService, error)
	GetEmergencyService(ctx context.Context, id int64) (domain.EmergencyService, error)
	UpdateEmergencyService(ctx context.Context, svc domain.EmergencyService) (domain.EmergencyService, error)
	DeleteEmergencyService(ctx context.Context, id int64) error
	ListEmergencyServices(ctx context.Context, filter domain.ListFilter) ([]domain.EmergencyService, error)

	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

func userNotFound(username string) error {
	return fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return parsed
	}
	if parsed, err := time.Parse(time.RFC3339, v); err == nil {
		return parsed
	}
	return time.Time{}
}
