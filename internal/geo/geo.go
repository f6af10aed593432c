// Package geo converts between geographic coordinates and a local flat-earth
// tangent plane in meters anchored at a reference point.
//
// All distances use the same great-circle haversine on a spherical earth.
// The tangent-plane conversions are approximations good to well under a meter
// for offsets of a few kilometers, which is the scale a glider patrols at.
// They are not exact inverses: ToCartesian measures east offsets at the
// midpoint latitude while FromCartesian scales at the anchor, so a mixed
// north+east offset tens of kilometers wide round-trips with an east error of
// roughly tan(lat) * north/2 * east / EarthRadius meters, tens of meters at
// the 50 km extreme. Axis-aligned offsets round-trip cleanly at any scale.
package geo

import (
	"math"

	"github.com/mousebrains/driftfollow/pkg/core"
)

// EarthRadius is the mean earth radius in meters used by every distance
// computation in this package.
const EarthRadius = 6371000.0

// Distance returns the haversine great-circle distance between a and b in
// meters.
func Distance(a, b core.GeoPoint) float64 {
	lat0 := a.Lat * math.Pi / 180
	lon0 := a.Lon * math.Pi / 180
	lat1 := b.Lat * math.Pi / 180
	lon1 := b.Lon * math.Pi / 180

	sLat := math.Sin((lat1 - lat0) / 2)
	sLon := math.Sin((lon1 - lon0) / 2)
	h := sLat*sLat + math.Cos(lat0)*math.Cos(lat1)*sLon*sLon
	return EarthRadius * 2 * math.Asin(math.Sqrt(h))
}

// MetersPerDegree returns the local meters per degree of latitude and of
// longitude at a point, measured over a one degree span centered on it.
func MetersPerDegree(at core.GeoPoint) (latScale, lonScale float64) {
	latScale = Distance(
		core.GeoPoint{Lat: at.Lat - 0.5, Lon: at.Lon},
		core.GeoPoint{Lat: at.Lat + 0.5, Lon: at.Lon},
	)
	lonScale = Distance(
		core.GeoPoint{Lat: at.Lat, Lon: at.Lon - 0.5},
		core.GeoPoint{Lat: at.Lat, Lon: at.Lon + 0.5},
	)
	return latScale, lonScale
}

// ToCartesian returns the signed east/north offset of p relative to anchor in
// meters. Each axis is measured along the midpoint of the other axis, which
// keeps the two one-dimensional distances consistent with each other.
func ToCartesian(p, anchor core.GeoPoint) core.CartesianPoint {
	latMid := (anchor.Lat + p.Lat) / 2
	lonMid := (anchor.Lon + p.Lon) / 2

	dx := Distance(
		core.GeoPoint{Lat: latMid, Lon: anchor.Lon},
		core.GeoPoint{Lat: latMid, Lon: p.Lon},
	)
	dy := Distance(
		core.GeoPoint{Lat: anchor.Lat, Lon: lonMid},
		core.GeoPoint{Lat: p.Lat, Lon: lonMid},
	)
	if anchor.Lat > p.Lat {
		dy = -dy
	}
	if anchor.Lon > p.Lon {
		dx = -dx
	}
	return core.CartesianPoint{X: dx, Y: dy}
}

// FromCartesian returns the geographic point at the given east/north offset
// from anchor, using the meters-per-degree scales at the anchor.
func FromCartesian(offset core.CartesianPoint, anchor core.GeoPoint) core.GeoPoint {
	latScale, lonScale := MetersPerDegree(anchor)
	return core.GeoPoint{
		Lat: anchor.Lat + offset.Y/latScale,
		Lon: anchor.Lon + offset.X/lonScale,
	}
}
