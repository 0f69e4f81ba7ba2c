package service

import (
	"strings"

	"github.com/vanshika/campusnav/backend/internal/domain"
	"github.com/vanshika/campusnav/backend/internal/geo"
)

// LocationInput is the inbound payload for creating a location.
type LocationInput struct {
	// ID is optional; zero lets the store assign one.
	ID          int64     `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Building    string    `json:"building,omitempty"`
	Floor       *int      `json:"floor,omitempty"`
	RoomNumber  string    `json:"room_number,omitempty"`
	Category    string    `json:"category"`
	Coordinates geo.Point `json:"coordinates"`
	ConnectedTo []int64   `json:"connected_to,omitempty"`
}

// LocationUpdate carries a partial location update. A nil ConnectedTo keeps
// the current connections; a non-nil one, even empty, replaces them.
type LocationUpdate struct {
	Patch       domain.LocationPatch
	ConnectedTo *[]int64
}

// POIInput is the inbound payload for creating or replacing a point of interest.
type POIInput struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	Description      string `json:"description,omitempty"`
	IsAvailable      *bool  `json:"is_available,omitempty"`
	Capacity         *int   `json:"capacity,omitempty"`
	CurrentOccupancy *int   `json:"current_occupancy,omitempty"`
	LocationID       int64  `json:"location_id"`
}

// EmergencyServiceInput is the inbound payload for creating or replacing an
// emergency marker.
type EmergencyServiceInput struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	LocationID  int64  `json:"location_id"`
}

// ToDomain converts the input to a domain.Location without an assigned ID
// unless one was requested.
func (in LocationInput) ToDomain() domain.Location {
	return domain.Location{
		ID:          in.ID,
		Name:        sanitizeString(in.Name),
		Description: strings.TrimSpace(in.Description),
		Building:    sanitizeString(in.Building),
		Floor:       in.Floor,
		RoomNumber:  sanitizeString(in.RoomNumber),
		Category:    normalizeType(in.Category),
		Coordinates: in.Coordinates,
	}
}

// ToDomain converts the input to a domain.POI. Availability defaults to true.
func (in POIInput) ToDomain() domain.POI {
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	return domain.POI{
		Name:             sanitizeString(in.Name),
		Type:             normalizeType(in.Type),
		Description:      strings.TrimSpace(in.Description),
		IsAvailable:      available,
		Capacity:         in.Capacity,
		CurrentOccupancy: in.CurrentOccupancy,
		LocationID:       in.LocationID,
	}
}

// ToDomain converts the input to a domain.EmergencyService.
func (in EmergencyServiceInput) ToDomain() domain.EmergencyService {
	return domain.EmergencyService{
		Type:        normalizeType(in.Type),
		Description: strings.TrimSpace(in.Description),
		LocationID:  in.LocationID,
	}
}
