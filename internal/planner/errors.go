package planner

import "errors"

// Solver errors. All three mean "this pattern is currently geometrically
// unreachable" and are expected transient conditions, e.g. the glider is
// slower than the combined drift and current. Callers log and move on to the
// next pattern or skip the planning cycle.
var (
	// ErrNoSolution: the drifter-relative speed exactly matches the glider
	// speed, so the intercept equation degenerates.
	ErrNoSolution = errors.New("planner: water plus drifter speed equals glider speed")

	// ErrNoRealSolution: the glider can never close the gap, the quadratic
	// discriminant is negative.
	ErrNoRealSolution = errors.New("planner: no real intercept time")

	// ErrNoFutureSolution: both intercept times lie in the past.
	ErrNoFutureSolution = errors.New("planner: no future intercept time")
)

// ErrEmptyPatternList is a configuration error: a plan was requested against
// an empty pattern catalog.
var ErrEmptyPatternList = errors.New("planner: empty pattern list")
