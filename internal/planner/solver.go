// Package planner computes rendezvous legs and multi-leg patrol plans for a
// glider chasing a drifting target through a current.
//
// The single-leg solver works in a tangent plane anchored at the drifter.
// With drifter velocity V, current U, glider speed s and initial separation
// d0 between the pattern target and the glider, the intercept time t solves
//
//	0 = t^2 (|V-U|^2 - s^2) + 2 t (d0 . (V-U)) + |d0|^2
//
// which follows from requiring the glider's through-water heading vector to
// have unit magnitude. The smallest non-negative root is the first reachable
// rendezvous.
package planner

import (
	"math"

	"github.com/mousebrains/driftfollow/internal/geo"
	"github.com/mousebrains/driftfollow/pkg/core"
)

// Solve computes the leg that takes the glider from its current position to
// the pattern's aim point in the drifter's moving frame. patternIndex is
// carried through to the resulting leg untouched.
//
// The drifter velocity is held constant over the leg; the resulting drifter
// and glider states are fresh values suitable for chaining into the next
// Solve call.
func Solve(
	drifter core.DrifterState,
	glider core.GliderState,
	current core.CurrentVector,
	pattern core.Pattern,
	patternIndex int,
) (core.Leg, error) {
	anchor := drifter.Position

	// The drifter sits at the origin of the tangent plane.
	target0 := pattern.Target(drifter.Velocity.Theta())
	glider0 := geo.ToCartesian(glider.Position, anchor)

	d0 := target0.Sub(glider0)
	dv := core.CartesianPoint{
		X: drifter.Velocity.VX - current.VX,
		Y: drifter.Velocity.VY - current.VY,
	}
	spd := glider.ThroughWaterSpeed

	a := dv.Dot(dv) - spd*spd
	b := 2 * d0.Dot(dv)
	c := d0.Dot(d0)

	if a == 0 {
		return core.Leg{}, ErrNoSolution
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return core.Leg{}, ErrNoRealSolution
	}

	root := math.Sqrt(disc)
	tp := (-b + root) / (2 * a)
	tm := (-b - root) / (2 * a)

	var dt float64
	switch {
	case tp < 0 && tm < 0:
		return core.Leg{}, ErrNoFutureSolution
	case tp < 0:
		dt = tm
	case tm < 0:
		dt = tp
	default:
		dt = math.Min(tp, tm)
	}

	// The drifter, and with it the target, moved while the glider was
	// under way.
	delta := drifter.Velocity.Displacement(dt)
	intercept := geo.FromCartesian(target0.Add(delta), anchor)

	return core.Leg{
		DT:        dt,
		Intercept: intercept,
		Drifter: core.DrifterState{
			Position: geo.FromCartesian(delta, anchor),
			Velocity: drifter.Velocity,
		},
		Glider: core.GliderState{
			Position:          intercept,
			ThroughWaterSpeed: glider.ThroughWaterSpeed,
		},
		PatternIndex: patternIndex,
	}, nil
}
