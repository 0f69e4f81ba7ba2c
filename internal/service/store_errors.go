package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

// storeError classifies a repository failure. Errors the caller can act on
// pass through unchanged; driver and I/O failures, including deadlines,
// are reported as domain.ErrStoreUnavailable with the cause kept.
func storeError(err error) error {
	switch {
	case err == nil,
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, context.Canceled):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

// classifiedStore applies storeError to every CampusStore result.
type classifiedStore struct {
	next CampusStore
}

func (c classifiedStore) GetLocation(ctx context.Context, id int64) (domain.Location, error) {
	loc, err := c.next.GetLocation(ctx, id)
	return loc, storeError(err)
}

func (c classifiedStore) CreateLocation(ctx context.Context, loc domain.Location) (domain.Location, error) {
	created, err := c.next.CreateLocation(ctx, loc)
	return created, storeError(err)
}

func (c classifiedStore) UpdateLocation(ctx context.Context, id int64, patch domain.LocationPatch) (domain.Location, error) {
	loc, err := c.next.UpdateLocation(ctx, id, patch)
	return loc, storeError(err)
}

func (c classifiedStore) DeleteLocation(ctx context.Context, id int64) error {
	return storeError(c.next.DeleteLocation(ctx, id))
}

func (c classifiedStore) ListLocations(ctx context.Context, filter domain.ListFilter) ([]domain.Location, error) {
	locs, err := c.next.ListLocations(ctx, filter)
	return locs, storeError(err)
}

func (c classifiedStore) CreatePOI(ctx context.Context, poi domain.POI) (domain.POI, error) {
	created, err := c.next.CreatePOI(ctx, poi)
	return created, storeError(err)
}

func (c classifiedStore) GetPOI(ctx context.Context, id int64) (domain.POI, error) {
	poi, err := c.next.GetPOI(ctx, id)
	return poi, storeError(err)
}

func (c classifiedStore) UpdatePOI(ctx context.Context, poi domain.POI) (domain.POI, error) {
	updated, err := c.next.UpdatePOI(ctx, poi)
	return updated, storeError(err)
}

func (c classifiedStore) DeletePOI(ctx context.Context, id int64) error {
	return storeError(c.next.DeletePOI(ctx, id))
}

func (c classifiedStore) ListPOIs(ctx context.Context, filter domain.ListFilter) ([]domain.POI, error) {
	pois, err := c.next.ListPOIs(ctx, filter)
	return pois, storeError(err)
}

func (c classifiedStore) CreateEmergencyService(ctx context.Context, svc domain.EmergencyService) (domain.EmergencyService, error) {
	created, err := c.next.CreateEmergencyService(ctx, svc)
	return created, storeError(err)
}

func (c classifiedStore) GetEmergencyService(ctx context.Context, id int64) (domain.EmergencyService, error) {
	svc, err := c.next.GetEmergencyService(ctx, id)
	return svc, storeError(err)
}

func (c classifiedStore) UpdateEmergencyService(ctx context.Context, svc domain.EmergencyService) (domain.EmergencyService, error) {
	updated, err := c.next.UpdateEmergencyService(ctx, svc)
	return updated, storeError(err)
}

func (c classifiedStore) DeleteEmergencyService(ctx context.Context, id int64) error {
	return storeError(c.next.DeleteEmergencyService(ctx, id))
}

func (c classifiedStore) ListEmergencyServices(ctx context.Context, filter domain.ListFilter) ([]domain.EmergencyService, error) {
	svcs, err := c.next.ListEmergencyServices(ctx, filter)
	return svcs, storeError(err)
}
