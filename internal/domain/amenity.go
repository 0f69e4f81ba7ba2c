package domain

// POI is a point of interest attached to a location (cafe, restroom, parking,
// elevator, ...).
type POI struct {
	ID               int64
	Name             string
	Type             string
	Description      string
	IsAvailable      bool
	Capacity         *int
	CurrentOccupancy *int
	LocationID       int64
}

// EmergencyService marks safety equipment or exits at a location.
type EmergencyService struct {
	ID          int64
	Type        string
	Description string
	LocationID  int64
}
