// Package geo holds the coordinate math used to weight the navigation graph.
//
// Coordinates are (lon, lat) pairs in SRID 4326 but distances are computed as
// if the plane were Euclidean. This is a known approximation: degrees are not
// meters and the error grows with latitude. It is kept because every stored
// edge weight was produced this way.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a [lon, lat] coordinate pair.
type Point = orb.Point

// NewPoint builds a Point from longitude and latitude.
func NewPoint(lon, lat float64) Point {
	return Point{lon, lat}
}

// Distance returns the planar distance between p and q using raw coordinate
// values.
func Distance(p, q Point) float64 {
	return planar.Distance(p, q)
}

// Valid reports whether both coordinates are finite numbers.
func Valid(p Point) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
