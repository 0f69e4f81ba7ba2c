package domain

import "github.com/vanshika/campusnav/backend/internal/geo"

// PathSegment is one stop along a computed route.
type PathSegment struct {
	LocationID  int64
	Name        string
	Coordinates geo.Point
}

// PathResult is the walking route between two locations. TotalDistance is in
// coordinate units, EstimatedTime in minutes.
type PathResult struct {
	Segments      []PathSegment
	TotalDistance float64
	EstimatedTime float64
}
