package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/mousebrains/driftfollow/pkg/core"
)

// Geometry data is stored in the WKB format, which is a binary
// representation of the geometry data, with X=longitude and Y=latitude.

// Point converts a GeoPoint into a lon/lat geometry point for storage.
func Point(p core.GeoPoint) geom.Point {
	// Finite lon/lat coordinates never fail validation.
	pt, _ := geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: p.Lon, Y: p.Lat},
		},
	)
	return pt
}

// FromPoint converts a stored lon/lat geometry point back to a GeoPoint.
// ok is false for an empty point.
func FromPoint(pt geom.Point) (p core.GeoPoint, ok bool) {
	xy, ok := pt.XY()
	if !ok {
		return core.GeoPoint{}, false
	}
	return core.GeoPoint{Lat: xy.Y, Lon: xy.X}, true
}
