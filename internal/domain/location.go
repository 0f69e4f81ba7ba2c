package domain

import (
	"time"

	"github.com/vanshika/campusnav/backend/internal/geo"
)

// Location is a named, addressable point on campus. It is the node of the
// navigation graph.
type Location struct {
	ID          int64
	Name        string
	Description string
	Building    string
	Floor       *int
	RoomNumber  string
	Category    string
	Coordinates geo.Point
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LocationPatch lists the fields of a location update. A nil field is left
// untouched.
type LocationPatch struct {
	Name        *string
	Description *string
	Building    *string
	Floor       *int
	RoomNumber  *string
	Category    *string
	Coordinates *geo.Point
}

// Empty reports whether the patch changes nothing.
func (p LocationPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Building == nil &&
		p.Floor == nil && p.RoomNumber == nil && p.Category == nil && p.Coordinates == nil
}

// Apply copies the set fields of the patch onto loc.
func (p LocationPatch) Apply(loc *Location) {
	if p.Name != nil {
		loc.Name = *p.Name
	}
	if p.Description != nil {
		loc.Description = *p.Description
	}
	if p.Building != nil {
		loc.Building = *p.Building
	}
	if p.Floor != nil {
		floor := *p.Floor
		loc.Floor = &floor
	}
	if p.RoomNumber != nil {
		loc.RoomNumber = *p.RoomNumber
	}
	if p.Category != nil {
		loc.Category = *p.Category
	}
	if p.Coordinates != nil {
		loc.Coordinates = *p.Coordinates
	}
}
