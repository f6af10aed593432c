// Package gotofile renders an accepted plan as the goto_list command
// document the glider's onboard mission system executes. The numeric
// waypoint encoding must be reproduced byte for byte; the trailing comments
// are for the humans reading the archive.
package gotofile

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mousebrains/driftfollow/internal/geo"
	"github.com/mousebrains/driftfollow/pkg/core"
)

// timeLayout always prints a numeric UTC offset.
const timeLayout = "2006-01-02 15:04:05-07:00"

// DegMin encodes decimal degrees as the sign-preserved degrees*100 plus
// decimal minutes value the onboard interpreter expects:
// 44.5 -> 4430.0000, -124.25 -> -12415.0000.
func DegMin(deg float64) float64 {
	a := math.Abs(deg)
	val := math.Floor(a)*100 + math.Mod(a, 1)*60
	if deg < 0 {
		return -val
	}
	return val
}

// Render produces the goto_list document for a plan. origin is the glider's
// position at plan time, used for the first waypoint's distance-from-previous
// comment; t0 is the reference time ETAs are offset from.
func Render(plan core.Plan, origin core.GeoPoint, t0 time.Time) string {
	t0 = t0.Truncate(time.Second)

	var b strings.Builder
	b.WriteString("behavior_name=goto_list\n")
	b.WriteString("# Drifter follower\n")
	fmt.Fprintf(&b, "# Generated: %s\n", t0.Format(timeLayout))
	b.WriteString("\n")
	b.WriteString("<start:b_arg>\n")
	b.WriteString("b_arg: num_legs_to_run(nodim) -1\n")
	b.WriteString("b_arg: start_when(enum) 0 # BAW_IMMEDIATELY\n")
	b.WriteString("b_arg: list_stop_when(enum) 7 # BAW_WHEN_WPT_DIST\n")
	b.WriteString("b_arg: initial_wpt(enum) 0\n")
	fmt.Fprintf(&b, "b_arg: num_waypoints(enum) %d\n", len(plan.Legs))
	b.WriteString("<end:b_arg>\n")
	b.WriteString("<start:waypoints>\n")

	prev := origin
	for _, leg := range plan.Legs {
		dist := geo.Distance(prev, leg.Intercept)
		dur := time.Duration(math.Floor(leg.DT)) * time.Second
		eta := t0.Add(time.Duration(leg.Elapsed * float64(time.Second))).Truncate(time.Second)
		fmt.Fprintf(&b, "%.4f %.4f # i=%d, dist=%.0f m, dt=%s, eta=%s\n",
			DegMin(leg.Intercept.Lon), DegMin(leg.Intercept.Lat),
			leg.PatternIndex, dist, dur, eta.Format(timeLayout))
		prev = leg.Intercept
	}

	b.WriteString("<end:waypoints>\n")
	return b.String()
}
