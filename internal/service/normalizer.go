package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
)

// ErrInvalidInput marks payloads rejected before they reach the store.
var ErrInvalidInput = errors.New("invalid input")

var whitespaceRegex = regexp.MustCompile(`\s+`)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// normalizeType lowercases category and type tags so filters match
// regardless of how they were entered ("Restroom" and "restroom ").
func normalizeType(value string) string {
	return strings.ToLower(sanitizeString(value))
}

func validateLocation(loc domain.Location) error {
	if loc.ID < 0 {
		return invalidf("location id must not be negative")
	}
	if loc.Name == "" {
		return invalidf("location name is required")
	}
	if loc.Category == "" {
		return invalidf("location category is required")
	}
	if !geo.Valid(loc.Coordinates) {
		return invalidf("location coordinates must be finite")
	}
	return nil
}

func validatePatch(p domain.LocationPatch) error {
	if p.Name != nil && sanitizeString(*p.Name) == "" {
		return invalidf("location name must not be empty")
	}
	if p.Category != nil && normalizeType(*p.Category) == "" {
		return invalidf("location category must not be empty")
	}
	if p.Coordinates != nil && !geo.Valid(*p.Coordinates) {
		return invalidf("location coordinates must be finite")
	}
	return nil
}

func normalizePatch(p domain.LocationPatch) domain.LocationPatch {
	if p.Name != nil {
		v := sanitizeString(*p.Name)
		p.Name = &v
	}
	if p.Building != nil {
		v := sanitizeString(*p.Building)
		p.Building = &v
	}
	if p.RoomNumber != nil {
		v := sanitizeString(*p.RoomNumber)
		p.RoomNumber = &v
	}
	if p.Category != nil {
		v := normalizeType(*p.Category)
		p.Category = &v
	}
	return p
}

func validatePOI(poi domain.POI) error {
	if poi.Name == "" {
		return invalidf("poi name is required")
	}
	if poi.Type == "" {
		return invalidf("poi type is required")
	}
	if poi.Capacity != nil && *poi.Capacity < 0 {
		return invalidf("poi capacity must not be negative")
	}
	if poi.CurrentOccupancy != nil && *poi.CurrentOccupancy < 0 {
		return invalidf("poi occupancy must not be negative")
	}
	return nil
}

func validateEmergency(svc domain.EmergencyService) error {
	if svc.Type == "" {
		return invalidf("emergency service type is required")
	}
	return nil
}
