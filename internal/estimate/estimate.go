// Package estimate extrapolates a drifter's position and velocity from a
// window of noisy GPS fixes.
//
// The estimator fits a weighted least-squares line to latitude and longitude
// independently against time. Each fix is weighted by its reported GPS
// accuracy and down-weighted exponentially with age, so a tight recent fix
// dominates a loose old one.
package estimate

import (
	"errors"
	"math"
	"time"

	"github.com/mousebrains/driftfollow/internal/geo"
	"github.com/mousebrains/driftfollow/pkg/core"
)

var (
	// ErrInsufficientData is returned when fewer than two fixes are supplied.
	ErrInsufficientData = errors.New("estimate: need at least two fixes")

	// ErrDegenerateFit is returned when the fixes give the regression no
	// time spread to fit against, e.g. all fixes share one timestamp.
	ErrDegenerateFit = errors.New("estimate: fixes share a single timestamp")
)

// Estimate extrapolates the drifter's state at target from the supplied
// fixes, which must be ordered most recent first. tau is the e-folding time
// in seconds of the recency down-weighting.
//
// The per-axis weights are the accuracy weight 1/(accuracy in degrees)^2
// normalized by its maximum, multiplied by exp(dt/tau), with the product
// normalized by its maximum again. The second normalization deliberately
// re-balances accuracy against recency and is kept for fidelity with the
// deployed estimator, quirky as it looks.
func Estimate(fixes []core.Fix, target time.Time, tau float64) (core.DrifterState, error) {
	if len(fixes) < 2 {
		return core.DrifterState{}, ErrInsufficientData
	}

	tMax := fixes[0].T
	latScale, lonScale := geo.MetersPerDegree(core.GeoPoint{Lat: fixes[0].Lat, Lon: fixes[0].Lon})

	n := len(fixes)
	dt := make([]float64, n)
	lat := make([]float64, n)
	lon := make([]float64, n)
	wLat := make([]float64, n)
	wLon := make([]float64, n)

	var maxWLat, maxWLon float64
	for i, f := range fixes {
		dt[i] = f.T.Sub(tMax).Seconds()
		lat[i] = f.Lat
		lon[i] = f.Lon

		accLat := f.Accuracy / latScale
		accLon := f.Accuracy / lonScale
		wLat[i] = 1 / (accLat * accLat)
		wLon[i] = 1 / (accLon * accLon)
		maxWLat = math.Max(maxWLat, wLat[i])
		maxWLon = math.Max(maxWLon, wLon[i])
	}

	var maxCombLat, maxCombLon float64
	for i := range fixes {
		wTime := math.Exp(dt[i] / tau)
		wLat[i] = wLat[i] / maxWLat * wTime
		wLon[i] = wLon[i] / maxWLon * wTime
		maxCombLat = math.Max(maxCombLat, wLat[i])
		maxCombLon = math.Max(maxCombLon, wLon[i])
	}
	for i := range fixes {
		wLat[i] /= maxCombLat
		wLon[i] /= maxCombLon
	}

	latSlope, latIntercept, ok := fitLine(dt, lat, wLat)
	if !ok {
		return core.DrifterState{}, ErrDegenerateFit
	}
	lonSlope, lonIntercept, ok := fitLine(dt, lon, wLon)
	if !ok {
		return core.DrifterState{}, ErrDegenerateFit
	}

	tt := target.Sub(tMax).Seconds()
	return core.DrifterState{
		Position: core.GeoPoint{
			Lat: latIntercept + latSlope*tt,
			Lon: lonIntercept + lonSlope*tt,
		},
		Velocity: core.Velocity{
			VX: lonSlope * lonScale, // deg/s -> m/s
			VY: latSlope * latScale,
		},
	}, nil
}

// fitLine fits y = intercept + slope*x by weighted least squares. ok is
// false when the normal equations are singular, which happens exactly when
// the weighted x values have no spread.
func fitLine(x, y, w []float64) (slope, intercept float64, ok bool) {
	var sw, swx, swy, swxx, swxy float64
	for i := range x {
		sw += w[i]
		swx += w[i] * x[i]
		swy += w[i] * y[i]
		swxx += w[i] * x[i] * x[i]
		swxy += w[i] * x[i] * y[i]
	}
	den := sw*swxx - swx*swx
	if den == 0 {
		return 0, 0, false
	}
	slope = (sw*swxy - swx*swy) / den
	intercept = (swy - slope*swx) / sw
	return slope, intercept, true
}
