package planner

import (
	"fmt"

	"github.com/mousebrains/driftfollow/pkg/core"
)

// NoStartIndex asks Sequence to search for the pattern the glider can reach
// soonest instead of starting at a fixed catalog index.
const NoStartIndex = -1

// SequenceConfig bounds a plan.
type SequenceConfig struct {
	// MaxLegs is the hard cap on waypoints per plan.
	MaxLegs int

	// TargetDuration is the patrol horizon in seconds. Sequencing stops
	// once the cumulative time exceeds it, but never before two legs have
	// been planned: a single waypoint gives the vehicle no patrol
	// structure.
	TargetDuration float64

	// AbortOnSearchError makes the closest-in-time start search fail on
	// the first unsolvable pattern instead of skipping it.
	AbortOnSearchError bool
}

// Sequence chains solver legs through the cyclic pattern catalog into a plan.
// startIndex selects the first pattern; pass NoStartIndex to search for the
// pattern closest in time from the initial state. Each subsequent leg solves
// against the next catalog entry, wrapping at the end, using the drifter and
// glider states the previous leg produced.
func Sequence(
	drifter core.DrifterState,
	glider core.GliderState,
	current core.CurrentVector,
	patterns []core.Pattern,
	startIndex int,
	cfg SequenceConfig,
) (core.Plan, error) {
	if len(patterns) == 0 {
		return core.Plan{}, ErrEmptyPatternList
	}

	index := startIndex
	if index == NoStartIndex {
		var err error
		index, err = findClosest(drifter, glider, current, patterns, cfg.AbortOnSearchError)
		if err != nil {
			return core.Plan{}, err
		}
	} else {
		index = index % len(patterns)
	}

	plan := core.Plan{
		StartIndex: index,
		Patterns:   patterns,
	}

	cum := 0.0
	d, g := drifter, glider
	for {
		if index >= len(patterns) {
			index = 0
		}
		leg, err := Solve(d, g, current, patterns[index], index)
		if err != nil {
			return core.Plan{}, fmt.Errorf("leg %d against pattern %d: %w", len(plan.Legs), index, err)
		}
		cum += leg.DT
		leg.Elapsed = cum
		plan.Legs = append(plan.Legs, leg)

		d, g = leg.Drifter, leg.Glider
		index++

		if len(plan.Legs) == cfg.MaxLegs {
			break
		}
		if cum > cfg.TargetDuration && len(plan.Legs) >= 2 {
			break
		}
	}

	return plan, nil
}

// findClosest solves every pattern once from the unchanged initial state and
// returns the index of the smallest intercept time; ties go to the first
// minimum in catalog order. Unsolvable patterns are skipped unless abort is
// set; if no pattern solves, the last solver error is propagated.
func findClosest(
	drifter core.DrifterState,
	glider core.GliderState,
	current core.CurrentVector,
	patterns []core.Pattern,
	abort bool,
) (int, error) {
	best := NoStartIndex
	bestDT := 0.0
	var lastErr error

	for i, pattern := range patterns {
		leg, err := Solve(drifter, glider, current, pattern, i)
		if err != nil {
			if abort {
				return NoStartIndex, fmt.Errorf("start search at pattern %d: %w", i, err)
			}
			lastErr = err
			continue
		}
		if best == NoStartIndex || leg.DT < bestDT {
			best = i
			bestDT = leg.DT
		}
	}

	if best == NoStartIndex {
		return NoStartIndex, fmt.Errorf("start search, no solvable pattern: %w", lastErr)
	}
	return best, nil
}
