package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mousebrains/driftfollow/internal/geo"
	"github.com/mousebrains/driftfollow/pkg/core"
)

func TestSolve_StraightLineCase(t *testing.T) {
	// Stationary drifter, no current, target 1000 m due east of the
	// glider: time to intercept is distance over speed, and the rotate
	// flag is irrelevant because a stationary drifter has zero heading.
	drifter := core.DrifterState{Position: core.GeoPoint{Lat: 44, Lon: -124}}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.4}

	for _, rotate := range []bool{false, true} {
		pattern := core.Pattern{Offset: core.CartesianPoint{X: 1000}, RotateWithHeading: rotate}
		leg, err := Solve(drifter, glider, core.CurrentVector{}, pattern, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1000/0.4, leg.DT, 1e-6, "rotate=%v", rotate)
	}
}

func TestSolve_ImmediateIntercept(t *testing.T) {
	// Glider already sitting on the target: a degenerate dt of zero is a
	// valid solution, not an error.
	drifter := core.DrifterState{Position: core.GeoPoint{Lat: 44, Lon: -124}}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.4}

	leg, err := Solve(drifter, glider, core.CurrentVector{}, core.Pattern{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, leg.DT)
}

func TestSolve_DegenerateSpeedMatch(t *testing.T) {
	// |V - U| exactly equals the glider speed: the quadratic collapses.
	drifter := core.DrifterState{
		Position: core.GeoPoint{Lat: 44, Lon: -124},
		Velocity: core.Velocity{VX: 0.4},
	}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44.01, Lon: -124}, ThroughWaterSpeed: 0.4}

	_, err := Solve(drifter, glider, core.CurrentVector{}, core.Pattern{Offset: core.CartesianPoint{X: 1000}}, 0)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestSolve_NoRealSolution(t *testing.T) {
	// Drifter runs east at 0.5 m/s, glider can only do 0.3 m/s, target
	// held perpendicular to the escape direction: the gap can never close.
	drifter := core.DrifterState{
		Position: core.GeoPoint{Lat: 44, Lon: -124},
		Velocity: core.Velocity{VX: 0.5},
	}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.3}

	_, err := Solve(drifter, glider, core.CurrentVector{}, core.Pattern{Offset: core.CartesianPoint{Y: 1000}}, 0)
	assert.ErrorIs(t, err, ErrNoRealSolution)
}

func TestSolve_NoFutureSolution(t *testing.T) {
	// Same runaway drifter but the target is dead ahead of it: both
	// mathematical intercepts lie in the past.
	drifter := core.DrifterState{
		Position: core.GeoPoint{Lat: 44, Lon: -124},
		Velocity: core.Velocity{VX: 0.5},
	}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.3}

	_, err := Solve(drifter, glider, core.CurrentVector{}, core.Pattern{Offset: core.CartesianPoint{X: 1000}}, 0)
	assert.ErrorIs(t, err, ErrNoFutureSolution)
}

func TestSolve_NorthboundDrifterScenario(t *testing.T) {
	// Drifter at (44, -124) moving north at 0.1 m/s, glider 0.01 degrees
	// north of it at 0.4 m/s, no current, target 1000 m east of the
	// drifter.
	drifter := core.DrifterState{
		Position: core.GeoPoint{Lat: 44, Lon: -124},
		Velocity: core.Velocity{VY: 0.1},
	}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44.01, Lon: -124}, ThroughWaterSpeed: 0.4}
	pattern := core.Pattern{Offset: core.CartesianPoint{X: 1000}}

	leg, err := Solve(drifter, glider, core.CurrentVector{}, pattern, 3)
	require.NoError(t, err)

	assert.Greater(t, leg.DT, 0.0)
	assert.Equal(t, 3, leg.PatternIndex)

	// Intercept lands north-east of the drifter's start.
	assert.Greater(t, leg.Intercept.Lat, 44.0)
	assert.Greater(t, leg.Intercept.Lon, -124.0)

	// The chosen dt satisfies the quadratic built from the same
	// tangent-plane quantities the solver used.
	glider0 := geo.ToCartesian(glider.Position, drifter.Position)
	d0 := pattern.Offset.Sub(glider0)
	dv := core.CartesianPoint{X: 0, Y: 0.1}
	a := dv.Dot(dv) - 0.4*0.4
	b := 2 * d0.Dot(dv)
	c := d0.Dot(d0)
	residual := a*leg.DT*leg.DT + b*leg.DT + c
	assert.InDelta(t, 0.0, residual, 1e-4)

	// And it is the smaller non-negative root.
	assert.Less(t, leg.DT, 4000.0)

	// The drifter advanced north by 0.1 m/s over the leg.
	assert.InDelta(t, 44.0, leg.Drifter.Position.Lat, 0.01)
	assert.Greater(t, leg.Drifter.Position.Lat, 44.0)
	assert.Equal(t, drifter.Velocity, leg.Drifter.Velocity)

	// The glider ends on the intercept with its speed unchanged.
	assert.Equal(t, leg.Intercept, leg.Glider.Position)
	assert.Equal(t, 0.4, leg.Glider.ThroughWaterSpeed)
}

func TestSolve_CurrentShiftsIntercept(t *testing.T) {
	// A current changes the relative velocity and therefore the intercept
	// time; the solved dt must differ from the no-current case.
	drifter := core.DrifterState{
		Position: core.GeoPoint{Lat: 44, Lon: -124},
		Velocity: core.Velocity{VY: 0.1},
	}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44.01, Lon: -124}, ThroughWaterSpeed: 0.4}
	pattern := core.Pattern{Offset: core.CartesianPoint{X: 1000}}

	still, err := Solve(drifter, glider, core.CurrentVector{}, pattern, 0)
	require.NoError(t, err)

	moving, err := Solve(drifter, glider, core.CurrentVector{VX: -0.1, VY: 0.1}, pattern, 0)
	require.NoError(t, err)

	assert.NotEqual(t, still.DT, moving.DT)
}

func TestSolve_RotatedPattern(t *testing.T) {
	// Drifter heading north: a pattern offset of (d, 0) with rotation
	// enabled aims d meters ahead of the drifter, i.e. north.
	drifter := core.DrifterState{
		Position: core.GeoPoint{Lat: 44, Lon: -124},
		Velocity: core.Velocity{VY: 0.1},
	}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.4}
	pattern := core.Pattern{Offset: core.CartesianPoint{X: 1000}, RotateWithHeading: true}

	leg, err := Solve(drifter, glider, core.CurrentVector{}, pattern, 0)
	require.NoError(t, err)

	// Intercept is due north of the drifter, not east.
	assert.InDelta(t, -124.0, leg.Intercept.Lon, 1e-6)
	assert.Greater(t, leg.Intercept.Lat, 44.0)
}
