package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mousebrains/driftfollow/internal/geo"
	"github.com/mousebrains/driftfollow/pkg/core"
)

// boxPatterns is a square patrol box around the drifter, 1 km on a side.
func boxPatterns() []core.Pattern {
	return []core.Pattern{
		{Offset: core.CartesianPoint{X: 1000}},
		{Offset: core.CartesianPoint{Y: 1000}},
		{Offset: core.CartesianPoint{X: -1000}},
		{Offset: core.CartesianPoint{Y: -1000}},
	}
}

func TestSequence_MaxLegsCap(t *testing.T) {
	drifter := core.DrifterState{Position: core.GeoPoint{Lat: 44, Lon: -124}}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.4}
	cfg := SequenceConfig{MaxLegs: 7, TargetDuration: 1e9}

	plan, err := Sequence(drifter, glider, core.CurrentVector{}, boxPatterns(), 0, cfg)
	require.NoError(t, err)
	require.Len(t, plan.Legs, 7)
	assert.Equal(t, 0, plan.StartIndex)

	// Pattern indices cycle through the catalog and elapsed time is
	// strictly increasing.
	prev := 0.0
	for i, leg := range plan.Legs {
		assert.Equal(t, i%4, leg.PatternIndex)
		assert.Greater(t, leg.Elapsed, prev)
		prev = leg.Elapsed
	}
	assert.Equal(t, prev, plan.Duration())
}

func TestSequence_TargetDurationStopsAfterTwoLegs(t *testing.T) {
	// The first leg alone blows the duration budget, but a plan still
	// carries at least two legs so the glider always has a follow-on
	// waypoint.
	drifter := core.DrifterState{Position: core.GeoPoint{Lat: 44, Lon: -124}}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.4}
	cfg := SequenceConfig{MaxLegs: 7, TargetDuration: 1000}

	plan, err := Sequence(drifter, glider, core.CurrentVector{}, boxPatterns(), 0, cfg)
	require.NoError(t, err)
	assert.Len(t, plan.Legs, 2)
}

func TestSequence_StartIndexWraps(t *testing.T) {
	drifter := core.DrifterState{Position: core.GeoPoint{Lat: 44, Lon: -124}}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.4}
	cfg := SequenceConfig{MaxLegs: 2, TargetDuration: 1e9}

	plan, err := Sequence(drifter, glider, core.CurrentVector{}, boxPatterns(), 5, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.StartIndex)
	assert.Equal(t, 1, plan.Legs[0].PatternIndex)
	assert.Equal(t, 2, plan.Legs[1].PatternIndex)
}

func TestSequence_EmptyPatternList(t *testing.T) {
	drifter := core.DrifterState{Position: core.GeoPoint{Lat: 44, Lon: -124}}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.4}

	_, err := Sequence(drifter, glider, core.CurrentVector{}, nil, 0, SequenceConfig{MaxLegs: 7})
	assert.ErrorIs(t, err, ErrEmptyPatternList)
}

func TestSequence_ClosestSearchPicksNearestPattern(t *testing.T) {
	// Glider parked just west of the drifter: the (-1000, 0) corner of
	// the box is the quickest to reach.
	anchor := core.GeoPoint{Lat: 44, Lon: -124}
	drifter := core.DrifterState{Position: anchor}
	glider := core.GliderState{
		Position:          geo.FromCartesian(core.CartesianPoint{X: -900}, anchor),
		ThroughWaterSpeed: 0.4,
	}
	cfg := SequenceConfig{MaxLegs: 2, TargetDuration: 1e9}

	plan, err := Sequence(drifter, glider, core.CurrentVector{}, boxPatterns(), NoStartIndex, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.StartIndex)
	assert.Equal(t, 2, plan.Legs[0].PatternIndex)
}

func TestSequence_ClosestSearchTieGoesToFirst(t *testing.T) {
	// Glider on the drifter: every corner of the box is equidistant, so
	// the search settles on catalog order.
	drifter := core.DrifterState{Position: core.GeoPoint{Lat: 44, Lon: -124}}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.4}
	cfg := SequenceConfig{MaxLegs: 1, TargetDuration: 1e9}

	plan, err := Sequence(drifter, glider, core.CurrentVector{}, boxPatterns(), NoStartIndex, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, plan.StartIndex)
}

// runawayCase builds a drifter escaping east faster than the glider can
// swim. The perpendicular pattern has no real intercept; only the trailing
// pattern is reachable.
func runawayCase() (core.DrifterState, core.GliderState, []core.Pattern) {
	drifter := core.DrifterState{
		Position: core.GeoPoint{Lat: 44, Lon: -124},
		Velocity: core.Velocity{VX: 0.5},
	}
	glider := core.GliderState{Position: core.GeoPoint{Lat: 44, Lon: -124}, ThroughWaterSpeed: 0.3}
	patterns := []core.Pattern{
		{Offset: core.CartesianPoint{Y: 1000}},
		{Offset: core.CartesianPoint{X: -1000}},
	}
	return drifter, glider, patterns
}

func TestSequence_ClosestSearchSkipsUnsolvable(t *testing.T) {
	drifter, glider, patterns := runawayCase()
	cfg := SequenceConfig{MaxLegs: 1, TargetDuration: 1e9}

	plan, err := Sequence(drifter, glider, core.CurrentVector{}, patterns, NoStartIndex, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.StartIndex)
	require.Len(t, plan.Legs, 1)
}

func TestSequence_ClosestSearchAbortOnError(t *testing.T) {
	drifter, glider, patterns := runawayCase()
	cfg := SequenceConfig{MaxLegs: 1, TargetDuration: 1e9, AbortOnSearchError: true}

	_, err := Sequence(drifter, glider, core.CurrentVector{}, patterns, NoStartIndex, cfg)
	assert.ErrorIs(t, err, ErrNoRealSolution)
}

func TestSequence_AllPatternsUnsolvable(t *testing.T) {
	drifter, glider, _ := runawayCase()
	patterns := []core.Pattern{
		{Offset: core.CartesianPoint{Y: 1000}},
		{Offset: core.CartesianPoint{Y: -1000}},
	}

	_, err := Sequence(drifter, glider, core.CurrentVector{}, patterns, NoStartIndex, SequenceConfig{MaxLegs: 1})
	assert.ErrorIs(t, err, ErrNoRealSolution)
}

func TestSequence_MidPlanSolverErrorPropagates(t *testing.T) {
	// The reachable pattern solves but the cycle then comes around to the
	// unreachable one; the failure surfaces rather than truncating the
	// plan silently.
	drifter, glider, patterns := runawayCase()
	cfg := SequenceConfig{MaxLegs: 3, TargetDuration: 1e9}

	_, err := Sequence(drifter, glider, core.CurrentVector{}, patterns, 1, cfg)
	assert.ErrorIs(t, err, ErrNoRealSolution)
}
