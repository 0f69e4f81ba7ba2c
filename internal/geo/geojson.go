package geo

import (
	"errors"
	"fmt"

	geojson "github.com/paulmach/go.geojson"
)

// ErrInvalidGeometry is returned when a GeoJSON value is not a finite Point.
var ErrInvalidGeometry = errors.New("coordinates must be a GeoJSON Point with finite [lon, lat]")

// ToGeoJSON encodes p as a GeoJSON Point geometry.
func ToGeoJSON(p Point) *geojson.Geometry {
	return geojson.NewPointGeometry([]float64{p.Lon(), p.Lat()})
}

// FromGeoJSON decodes a GeoJSON Point geometry.
func FromGeoJSON(g *geojson.Geometry) (Point, error) {
	if g == nil {
		return Point{}, ErrInvalidGeometry
	}
	if g.Type != geojson.GeometryPoint {
		return Point{}, fmt.Errorf("%w: got type %q", ErrInvalidGeometry, g.Type)
	}
	if len(g.Point) < 2 {
		return Point{}, ErrInvalidGeometry
	}
	p := NewPoint(g.Point[0], g.Point[1])
	if !Valid(p) {
		return Point{}, ErrInvalidGeometry
	}
	return p, nil
}
