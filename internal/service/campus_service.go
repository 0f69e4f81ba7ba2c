package service

import (
	"context"
	"log/slog"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

// CampusStore is the storage contract required by the campus service.
type CampusStore interface {
	GetLocation(ctx context.Context, id int64) (domain.Location, error)
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
}

// Navigator is the routing contract required by the campus service.
type Navigator interface {
	ComputePath(ctx context.Context, start, end int64) (domain.PathResult, error)
	ReplaceConnections(ctx context.Context, id int64, targets []int64) error
	RemoveAllConnections(ctx context.Context, id int64) error
	Neighbors(ctx context.Context, id int64) ([]int64, error)
}

// CampusService orchestrates location, amenity and routing operations so
// that the connection graph follows every location change.
type CampusService struct {
	store  CampusStore
	nav    Navigator
	logger *slog.Logger
}

// NewCampusService constructs a CampusService.
func NewCampusService(store CampusStore, nav Navigator, logger *slog.Logger) *CampusService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CampusService{store: classifiedStore{next: store}, nav: nav, logger: logger}
}

// ListLocations returns a page of locations.
func (s *CampusService) ListLocations(ctx context.Context, filter domain.ListFilter) ([]domain.Location, error) {
	filter.Type = normalizeType(filter.Type)
	return s.store.ListLocations(ctx, filter.Normalize())
}

// GetLocation fetches one location.
func (s *CampusService) GetLocation(ctx context.Context, id int64) (domain.Location, error) {
	return s.store.GetLocation(ctx, id)
}

// CreateLocation stores the location and then connects it to ConnectedTo.
// If the connections cannot be applied the new location is removed again.
func (s *CampusService) CreateLocation(ctx context.Context, in LocationInput) (domain.Location, error) {
	loc := in.ToDomain()
	if err := validateLocation(loc); err != nil {
		return domain.Location{}, err
	}

	created, err := s.store.CreateLocation(ctx, loc)
	if err != nil {
		return domain.Location{}, err
	}
	if len(in.ConnectedTo) == 0 {
		return created, nil
	}

	if err := s.nav.ReplaceConnections(ctx, created.ID, in.ConnectedTo); err != nil {
		if rbErr := s.store.DeleteLocation(context.WithoutCancel(ctx), created.ID); rbErr != nil {
			s.logger.Error("failed to remove location after connection error",
				"location_id", created.ID, "error", rbErr)
		}
		return domain.Location{}, err
	}
	return created, nil
}

// UpdateLocation applies the patch and keeps the connections consistent:
// an explicit ConnectedTo replaces them, and a coordinate change without one
// re-applies the current neighbours so edge distances follow the move.
func (s *CampusService) UpdateLocation(ctx context.Context, id int64, in LocationUpdate) (domain.Location, error) {
	if err := validatePatch(in.Patch); err != nil {
		return domain.Location{}, err
	}
	patch := normalizePatch(in.Patch)

	if in.ConnectedTo != nil {
		for _, target := range *in.ConnectedTo {
			if target == id {
				continue
			}
			if _, err := s.store.GetLocation(ctx, target); err != nil {
				return domain.Location{}, err
			}
		}
	}

	current, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return domain.Location{}, err
	}
	loc := current
	if !patch.Empty() {
		if loc, err = s.store.UpdateLocation(ctx, id, patch); err != nil {
			return domain.Location{}, err
		}
	}

	switch {
	case in.ConnectedTo != nil:
		err = s.nav.ReplaceConnections(ctx, id, *in.ConnectedTo)
	case patch.Coordinates != nil:
		var neighbours []int64
		neighbours, err = s.nav.Neighbors(ctx, id)
		if err == nil && len(neighbours) > 0 {
			err = s.nav.ReplaceConnections(ctx, id, neighbours)
		}
	}
	if err != nil {
		if patch.Coordinates != nil {
			s.restoreCoordinates(ctx, current)
		}
		return domain.Location{}, err
	}
	return loc, nil
}

// restoreCoordinates puts back the position the stored edges were computed
// from after a move whose connections could not be applied.
func (s *CampusService) restoreCoordinates(ctx context.Context, previous domain.Location) {
	point := previous.Coordinates
	if _, err := s.store.UpdateLocation(context.WithoutCancel(ctx), previous.ID, domain.LocationPatch{Coordinates: &point}); err != nil {
		s.logger.Error("failed to restore coordinates after connection error",
			"location_id", previous.ID, "error", err)
	}
}

// DeleteLocation removes the location's connections first, then the
// location together with its POIs and emergency services.
func (s *CampusService) DeleteLocation(ctx context.Context, id int64) error {
	if _, err := s.store.GetLocation(ctx, id); err != nil {
		return err
	}
	if err := s.nav.RemoveAllConnections(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteLocation(ctx, id)
}

// ComputePath returns the walking route between two locations.
func (s *CampusService) ComputePath(ctx context.Context, start, end int64) (domain.PathResult, error) {
	return s.nav.ComputePath(ctx, start, end)
}

// Neighbors lists the locations id is connected to.
func (s *CampusService) Neighbors(ctx context.Context, id int64) ([]int64, error) {
	return s.nav.Neighbors(ctx, id)
}

// ListPOIs returns a page of points of interest, optionally by type.
func (s *CampusService) ListPOIs(ctx context.Context, filter domain.ListFilter) ([]domain.POI, error) {
	filter.Type = normalizeType(filter.Type)
	return s.store.ListPOIs(ctx, filter.Normalize())
}

// GetPOI fetches one point of interest.
func (s *CampusService) GetPOI(ctx context.Context, id int64) (domain.POI, error) {
	return s.store.GetPOI(ctx, id)
}

// CreatePOI validates and stores a point of interest.
func (s *CampusService) CreatePOI(ctx context.Context, in POIInput) (domain.POI, error) {
	poi := in.ToDomain()
	if err := validatePOI(poi); err != nil {
		return domain.POI{}, err
	}
	return s.store.CreatePOI(ctx, poi)
}

// UpdatePOI replaces the stored point of interest.
func (s *CampusService) UpdatePOI(ctx context.Context, id int64, in POIInput) (domain.POI, error) {
	poi := in.ToDomain()
	poi.ID = id
	if err := validatePOI(poi); err != nil {
		return domain.POI{}, err
	}
	return s.store.UpdatePOI(ctx, poi)
}

// DeletePOI removes a point of interest.
func (s *CampusService) DeletePOI(ctx context.Context, id int64) error {
	return s.store.DeletePOI(ctx, id)
}

// ListEmergencyServices returns a page of emergency markers, optionally by type.
func (s *CampusService) ListEmergencyServices(ctx context.Context, filter domain.ListFilter) ([]domain.EmergencyService, error) {
	filter.Type = normalizeType(filter.Type)
	return s.store.ListEmergencyServices(ctx, filter.Normalize())
}

// GetEmergencyService fetches one emergency marker.
func (s *CampusService) GetEmergencyService(ctx context.Context, id int64) (domain.EmergencyService, error) {
	return s.store.GetEmergencyService(ctx, id)
}

// CreateEmergencyService validates and stores an emergency marker.
func (s *CampusService) CreateEmergencyService(ctx context.Context, in EmergencyServiceInput) (domain.EmergencyService, error) {
	svc := in.ToDomain()
	if err := validateEmergency(svc); err != nil {
		return domain.EmergencyService{}, err
	}
	return s.store.CreateEmergencyService(ctx, svc)
}

// UpdateEmergencyService replaces the stored emergency marker.
func (s *CampusService) UpdateEmergencyService(ctx context.Context, id int64, in EmergencyServiceInput) (domain.EmergencyService, error) {
	svc := in.ToDomain()
	svc.ID = id
	if err := validateEmergency(svc); err != nil {
		return domain.EmergencyService{}, err
	}
	return s.store.UpdateEmergencyService(ctx, svc)
}

// DeleteEmergencyService removes an emergency marker.
func (s *CampusService) DeleteEmergencyService(ctx context.Context, id int64) error {
	return s.store.DeleteEmergencyService(ctx, id)
}
