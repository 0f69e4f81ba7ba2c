package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

// Memory is an in-process Store. Every method holds one lock for its whole
// duration, so each mutation is atomic and each snapshot consistent.
type Memory struct {
	mu        sync.RWMutex
	locations map[int64]domain.Location
	edges     map[int64]map[int64]float64
	pois      map[int64]domain.POI
	emergency map[int64]domain.EmergencyService
	users     map[int64]domain.User

	nextLocation  int64
	nextPOI       int64
	nextEmergency int64
	nextUser      int64

	nowFn func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		locations: make(map[int64]domain.Location),
		edges:     make(map[int64]map[int64]float64),
		pois:      make(map[int64]domain.POI),
		emergency: make(map[int64]domain.EmergencyService),
		users:     make(map[int64]domain.User),
		nowFn:     time.Now,
	}
}

func (m *Memory) Ping(context.Context) error  { return nil }
func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) requireLocked(ids ...int64) error {
	for _, id := range ids {
		if _, ok := m.locations[id]; !ok {
			return notFound("location", id)
		}
	}
	return nil
}

func (m *Memory) setEdgeLocked(from, to int64, distance float64) {
	out, ok := m.edges[from]
	if !ok {
		out = make(map[int64]float64)
		m.edges[from] = out
	}
	out[to] = distance
}

func (m *Memory) disconnectLocked(id int64) {
	for to := range m.edges[id] {
		delete(m.edges[to], id)
	}
	delete(m.edges, id)
}

// Snapshot copies every location and edge, ordered by id.
func (m *Memory) Snapshot(context.Context) (domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := domain.Snapshot{Locations: make([]domain.Location, 0, len(m.locations))}
	for _, id := range sortedKeys(m.locations) {
		snap.Locations = append(snap.Locations, cloneLocation(m.locations[id]))
	}
	for _, from := range sortedKeys(m.edges) {
		for _, to := range sortedKeys(m.edges[from]) {
			snap.Edges = append(snap.Edges, domain.Edge{FromID: from, ToID: to, Distance: m.edges[from][to]})
		}
	}
	return snap, nil
}

func (m *Memory) GetLocation(_ context.Context, id int64) (domain.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[id]
	if !ok {
		return domain.Location{}, notFound("location", id)
	}
	return cloneLocation(loc), nil
}

func (m *Memory) ConnectedIDs(_ context.Context, id int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.requireLocked(id); err != nil {
		return nil, err
	}
	return sortedKeys(m.edges[id]), nil
}

func (m *Memory) Connect(_ context.Context, fromID, toID int64, distance float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLocked(fromID, toID); err != nil {
		return err
	}
	m.setEdgeLocked(fromID, toID, distance)
	m.setEdgeLocked(toID, fromID, distance)
	return nil
}

func (m *Memory) DisconnectAll(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnectLocked(id)
	return nil
}

func (m *Memory) ReplaceConnections(_ context.Context, id int64, conns []domain.Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireLocked(id); err != nil {
		return err
	}
	for _, c := range conns {
		if err := m.requireLocked(c.TargetID); err != nil {
			return err
		}
	}

	m.disconnectLocked(id)
	for _, c := range conns {
		m.setEdgeLocked(id, c.TargetID, c.Distance)
		m.setEdgeLocked(c.TargetID, id, c.Distance)
	}
	return nil
}

func (m *Memory) CreateLocation(_ context.Context, loc domain.Location) (domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if loc.ID != 0 {
		if _, exists := m.locations[loc.ID]; exists {
			return domain.Location{}, fmt.Errorf("location %d: %w", loc.ID, domain.ErrConflict)
		}
	} else {
		loc.ID = m.nextLocation + 1
	}
	m.nextLocation = max(m.nextLocation, loc.ID)

	now := m.nowFn().UTC()
	loc.CreatedAt = now
	loc.UpdatedAt = now
	m.locations[loc.ID] = cloneLocation(loc)
	return cloneLocation(loc), nil
}

func (m *Memory) UpdateLocation(_ context.Context, id int64, patch domain.LocationPatch) (domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, ok := m.locations[id]
	if !ok {
		return domain.Location{}, notFound("location", id)
	}
	patch.Apply(&loc)
	loc.UpdatedAt = m.nowFn().UTC()
	m.locations[id] = loc
	return cloneLocation(loc), nil
}

func (m *Memory) DeleteLocation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireLocked(id); err != nil {
		return err
	}
	m.disconnectLocked(id)
	for pid, poi := range m.pois {
		if poi.LocationID == id {
			delete(m.pois, pid)
		}
	}
	for sid, svc := range m.emergency {
		if svc.LocationID == id {
			delete(m.emergency, sid)
		}
	}
	delete(m.locations, id)
	return nil
}

func (m *Memory) ListLocations(_ context.Context, filter domain.ListFilter) ([]domain.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.locations, filter, func(l domain.Location) bool {
		return filter.Type == "" || l.Category == filter.Type
	}, cloneLocation), nil
}

func (m *Memory) CreatePOI(_ context.Context, poi domain.POI) (domain.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLocked(poi.LocationID); err != nil {
		return domain.POI{}, err
	}
	m.nextPOI++
	poi.ID = m.nextPOI
	m.pois[poi.ID] = poi
	return poi, nil
}

func (m *Memory) GetPOI(_ context.Context, id int64) (domain.POI, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	poi, ok := m.pois[id]
	if !ok {
		return domain.POI{}, notFound("poi", id)
	}
	return poi, nil
}

func (m *Memory) UpdatePOI(_ context.Context, poi domain.POI) (domain.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLocked(poi.LocationID); err != nil {
		return domain.POI{}, err
	}
	if _, ok := m.pois[poi.ID]; !ok {
		return domain.POI{}, notFound("poi", poi.ID)
	}
	m.pois[poi.ID] = poi
	return poi, nil
}

func (m *Memory) DeletePOI(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pois[id]; !ok {
		return notFound("poi", id)
	}
	delete(m.pois, id)
	return nil
}

func (m *Memory) ListPOIs(_ context.Context, filter domain.ListFilter) ([]domain.POI, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.pois, filter, func(p domain.POI) bool {
		return filter.Type == "" || p.Type == filter.Type
	}, identity[domain.POI]), nil
}

func (m *Memory) CreateEmergencyService(_ context.Context, svc domain.EmergencyService) (domain.EmergencyService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLocked(svc.LocationID); err != nil {
		return domain.EmergencyService{}, err
	}
	m.nextEmergency++
	svc.ID = m.nextEmergency
	m.emergency[svc.ID] = svc
	return svc, nil
}

func (m *Memory) GetEmergencyService(_ context.Context, id int64) (domain.EmergencyService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	svc, ok := m.emergency[id]
	if !ok {
		return domain.EmergencyService{}, notFound("emergency service", id)
	}
	return svc, nil
}

func (m *Memory) UpdateEmergencyService(_ context.Context, svc domain.EmergencyService) (domain.EmergencyService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireLocked(svc.LocationID); err != nil {
		return domain.EmergencyService{}, err
	}
	if _, ok := m.emergency[svc.ID]; !ok {
		return domain.EmergencyService{}, notFound("emergency service", svc.ID)
	}
	m.emergency[svc.ID] = svc
	return svc, nil
}

func (m *Memory) DeleteEmergencyService(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emergency[id]; !ok {
		return notFound("emergency service", id)
	}
	delete(m.emergency, id)
	return nil
}

func (m *Memory) ListEmergencyServices(_ context.Context, filter domain.ListFilter) ([]domain.EmergencyService, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.emergency, filter, func(s domain.EmergencyService) bool {
		return filter.Type == "" || s.Type == filter.Type
	}, identity[domain.EmergencyService]), nil
}

// --- users ---

func (m *Memory) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username {
			return domain.User{}, fmt.Errorf("username %q: %w", user.Username, domain.ErrConflict)
		}
		if existing.Email == user.Email {
			return domain.User{}, fmt.Errorf("email %q: %w", user.Email, domain.ErrConflict)
		}
	}
	m.nextUser++
	user.ID = m.nextUser
	user.CreatedAt = m.nowFn().UTC()
	m.users[user.ID] = user
	return user, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, userNotFound(username)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func page[V any](items map[int64]V, filter domain.ListFilter, keep func(V) bool, clone func(V) V) []V {
	filter = filter.Normalize()
	out := []V{}
	skipped := 0
	for _, id := range sortedKeys(items) {
		item := items[id]
		if !keep(item) {
			continue
		}
		if skipped < filter.Skip {
			skipped++
			continue
		}
		if len(out) == filter.Limit {
			break
		}
		out = append(out, clone(item))
	}
	return out
}

func identity[V any](v V) V { return v }

func cloneLocation(loc domain.Location) domain.Location {
	if loc.Floor != nil {
		floor := *loc.Floor
		loc.Floor = &floor
	}
	return loc
}
