package core

import "time"

// DefaultThroughWaterSpeed is assumed when a surfacing report carries no
// measured average speed, in m/s.
const DefaultThroughWaterSpeed = 0.3

// Fix is one raw drifter GPS sample as delivered by the satellite listener.
type Fix struct {
	T        time.Time `json:"t"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	Accuracy float64   `json:"accuracy"` // meters
}

// TelemetrySnapshot is the glider's state at one surfacing, assembled by the
// telemetry collaborator from the most recent value of each reported sensor.
type TelemetrySnapshot struct {
	// T is when the glider surfaced.
	T time.Time `json:"t"`

	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// SpeedThroughWater is the measured average horizontal speed in m/s;
	// nil when the glider did not report one.
	SpeedThroughWater *float64 `json:"speedThroughWater,omitempty"`

	// CurrentVX, CurrentVY are the depth-averaged water current in m/s.
	CurrentVX float64 `json:"currentVx"`
	CurrentVY float64 `json:"currentVy"`

	// CommandedWptLat, CommandedWptLon are the waypoint the glider is
	// currently steering for, when known. Used to resume a patrol at the
	// matching pattern index.
	CommandedWptLat *float64 `json:"cWptLat,omitempty"`
	CommandedWptLon *float64 `json:"cWptLon,omitempty"`
}

// Glider returns the snapshot as a GliderState, applying the default
// through-water speed when none was reported.
func (s TelemetrySnapshot) Glider() GliderState {
	spd := DefaultThroughWaterSpeed
	if s.SpeedThroughWater != nil {
		spd = *s.SpeedThroughWater
	}
	return GliderState{
		Position:          GeoPoint{Lat: s.Lat, Lon: s.Lon},
		ThroughWaterSpeed: spd,
	}
}

// Current returns the snapshot's depth-averaged current.
func (s TelemetrySnapshot) Current() CurrentVector {
	return CurrentVector{VX: s.CurrentVX, VY: s.CurrentVY}
}

// CommandedWaypoint returns the currently commanded waypoint, if the glider
// reported one.
func (s TelemetrySnapshot) CommandedWaypoint() (GeoPoint, bool) {
	if s.CommandedWptLat == nil || s.CommandedWptLon == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *s.CommandedWptLat, Lon: *s.CommandedWptLon}, true
}
