// Package core holds the shared value types of the drifter-follower planner.
// Everything here is an immutable value: operations return new values and
// never mutate their receivers.
package core

import "math"

// GeoPoint is a geographic position in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CartesianPoint is an east/north offset in meters on a local tangent plane.
// A CartesianPoint is only meaningful relative to the GeoPoint anchor it was
// derived from; points from different anchors must never be mixed.
type CartesianPoint struct {
	X float64 `json:"x"` // eastwards
	Y float64 `json:"y"` // northwards
}

// Add returns the componentwise sum p + q.
func (p CartesianPoint) Add(q CartesianPoint) CartesianPoint {
	return CartesianPoint{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the componentwise difference p - q.
func (p CartesianPoint) Sub(q CartesianPoint) CartesianPoint {
	return CartesianPoint{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p CartesianPoint) Scale(s float64) CartesianPoint {
	return CartesianPoint{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of p and q.
func (p CartesianPoint) Dot(q CartesianPoint) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Rotate returns p rotated counterclockwise by theta radians.
func (p CartesianPoint) Rotate(theta float64) CartesianPoint {
	if theta == 0 {
		return p
	}
	ct := math.Cos(theta)
	st := math.Sin(theta)
	return CartesianPoint{
		X: p.X*ct - p.Y*st,
		Y: p.X*st + p.Y*ct,
	}
}

// Velocity is a horizontal velocity in m/s, east and north components.
type Velocity struct {
	VX float64 `json:"vx"` // eastwards
	VY float64 `json:"vy"` // northwards
}

// Speed returns the scalar speed in m/s.
func (v Velocity) Speed() float64 {
	return math.Hypot(v.VX, v.VY)
}

// Theta returns the velocity direction in radians, 0 = east,
// positive counterclockwise.
func (v Velocity) Theta() float64 {
	return math.Atan2(v.VY, v.VX)
}

// Displacement returns the Cartesian displacement covered in dt seconds.
func (v Velocity) Displacement(dt float64) CartesianPoint {
	return CartesianPoint{X: v.VX * dt, Y: v.VY * dt}
}

// DrifterState is the free-floating buoy at one instant.
type DrifterState struct {
	Position GeoPoint `json:"position"`
	Velocity Velocity `json:"velocity"`
}

// GliderState is the vehicle's location and its fixed commanded horizontal
// through-water speed in m/s. The speed is supplied by telemetry, never
// solved for.
type GliderState struct {
	Position          GeoPoint `json:"position"`
	ThroughWaterSpeed float64  `json:"throughWaterSpeed"`
}

// CurrentVector is the depth-averaged ocean current in m/s, held constant
// for the duration of one planning call.
type CurrentVector struct {
	VX float64 `json:"vx"` // eastwards
	VY float64 `json:"vy"` // northwards
}

// Pattern is one catalog entry: where, relative to the drifter, the glider
// should aim on a leg. If RotateWithHeading is set the offset is rotated by
// the drifter's heading before use, so Offset.X tracks the drifter's
// direction of travel.
type Pattern struct {
	Offset            CartesianPoint `json:"offset"`
	RotateWithHeading bool           `json:"rotateWithHeading"`
}

// Target returns the pattern's aim point relative to the drifter, given the
// drifter's heading theta in radians.
func (p Pattern) Target(theta float64) CartesianPoint {
	if p.RotateWithHeading {
		return p.Offset.Rotate(theta)
	}
	return p.Offset
}
