package planner

import (
	"github.com/mousebrains/driftfollow/internal/geo"
	"github.com/mousebrains/driftfollow/pkg/core"
)

// Suppression is the result of a stability check that decided the new plan
// is materially the same as the one already aboard the glider.
type Suppression struct {
	// MaxDeviation is the largest distance in meters between matched
	// intercept points.
	MaxDeviation float64

	// MatchedDuration is the summed duration in seconds of the matched
	// legs of the new plan.
	MatchedDuration float64
}

// ShouldSuppress compares a freshly computed plan against the most recently
// issued one and reports whether re-sending it should be suppressed.
//
// The last plan may be mid-execution, so the new plan's first leg is aligned
// against each occurrence of its pattern index in the old plan in turn. An
// alignment survives when every positionally matched leg agrees on pattern
// index and its intercept points lie within matchRadius meters. A surviving
// alignment suppresses only if it covers at least minDuration seconds of the
// new plan; a short overlap says nothing about the patrol as a whole.
//
// Satellite airtime to a glider is slow and expensive, and re-sending a
// command that differs from the active one by GPS noise alone can cause
// spurious course corrections. Suppression exists to stop both.
func ShouldSuppress(newPlan core.Plan, last *core.PlanRecord, matchRadius, minDuration float64) (Suppression, bool) {
	if last == nil || len(newPlan.Legs) == 0 {
		return Suppression{}, false
	}

	first := newPlan.Legs[0].PatternIndex
	for j, oldLeg := range last.Legs {
		if oldLeg.PatternIndex != first {
			continue
		}
		sup, ok := alignAt(newPlan, last, j, matchRadius)
		if !ok {
			continue
		}
		if sup.MatchedDuration >= minDuration {
			return sup, true
		}
	}
	return Suppression{}, false
}

// alignAt compares newPlan's legs against last's legs starting at offset j.
func alignAt(newPlan core.Plan, last *core.PlanRecord, j int, matchRadius float64) (Suppression, bool) {
	n := len(last.Legs) - j
	if len(newPlan.Legs) < n {
		n = len(newPlan.Legs)
	}

	var sup Suppression
	for i := 0; i < n; i++ {
		oldLeg := last.Legs[j+i]
		newLeg := newPlan.Legs[i]
		if oldLeg.PatternIndex != newLeg.PatternIndex {
			return Suppression{}, false
		}
		dist := geo.Distance(oldLeg.Point, newLeg.Intercept)
		if dist > matchRadius {
			return Suppression{}, false
		}
		if dist > sup.MaxDeviation {
			sup.MaxDeviation = dist
		}
		sup.MatchedDuration += newLeg.DT
	}
	return sup, true
}
