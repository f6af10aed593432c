package core

import "time"

// Leg is one solved rendezvous segment: a time-to-intercept and the state of
// drifter and glider once the leg completes. Legs chain: the resulting states
// of leg i are the inputs of leg i+1.
type Leg struct {
	// DT is the leg duration in seconds. Zero is a degenerate immediate
	// intercept; negative never occurs.
	DT float64 `json:"dt"`

	// Elapsed is the cumulative plan time in seconds at the end of this leg.
	Elapsed float64 `json:"elapsed"`

	// Intercept is where glider and target meet.
	Intercept GeoPoint `json:"intercept"`

	// Drifter and Glider are the states at the end of the leg. The drifter
	// velocity is assumed constant over the leg.
	Drifter DrifterState `json:"drifter"`
	Glider  GliderState  `json:"glider"`

	// PatternIndex is the catalog index this leg was solved against.
	PatternIndex int `json:"patternIndex"`
}

// Plan is an ordered chain of legs covering a target patrol duration or
// waypoint count. Legs have strictly increasing Elapsed times.
type Plan struct {
	// StartIndex is the catalog index of the first leg's pattern.
	StartIndex int `json:"startIndex"`

	// Legs has at least one entry for any plan a sequencer returns.
	Legs []Leg `json:"legs"`

	// Patterns is the full catalog the plan was sequenced against, kept for
	// plan-file annotation.
	Patterns []Pattern `json:"patterns"`
}

// Duration returns the total planned time in seconds.
func (p Plan) Duration() float64 {
	if len(p.Legs) == 0 {
		return 0
	}
	return p.Legs[len(p.Legs)-1].Elapsed
}

// RecordLeg is one persisted leg of a previously issued plan.
type RecordLeg struct {
	PatternIndex int      `json:"patternIndex"`
	Point        GeoPoint `json:"point"`
	DT           float64  `json:"dt"` // seconds
}

// PlanRecord is the persisted form of a previously issued plan, read back as
// the comparison input of the stability filter. Exactly one record — the most
// recently generated one — is relevant per comparison.
type PlanRecord struct {
	Generated time.Time   `json:"generated"`
	Legs      []RecordLeg `json:"legs"`
}

// Record reduces a plan to its persisted form.
func (p Plan) Record(generated time.Time) PlanRecord {
	legs := make([]RecordLeg, len(p.Legs))
	for i, leg := range p.Legs {
		legs[i] = RecordLeg{
			PatternIndex: leg.PatternIndex,
			Point:        leg.Intercept,
			DT:           leg.DT,
		}
	}
	return PlanRecord{Generated: generated, Legs: legs}
}
