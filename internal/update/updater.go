// Package update owns the planning cycle: each time the glider surfaces it
// estimates the drifter, sequences a fresh patrol plan, filters it against
// the last one issued, and on acceptance renders, delivers, and persists it.
package update

import (
	"context"
	"fmt"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mousebrains/driftfollow/internal/estimate"
	"github.com/mousebrains/driftfollow/internal/geo"
	"github.com/mousebrains/driftfollow/internal/gotofile"
	"github.com/mousebrains/driftfollow/internal/influx"
	"github.com/mousebrains/driftfollow/internal/pattern"
	"github.com/mousebrains/driftfollow/internal/planner"
	"github.com/mousebrains/driftfollow/pkg/core"
)

// Config carries the planning knobs for one glider.
type Config struct {
	Glider string

	// Drifter estimation
	NBack int     // fixes fed to the estimator
	Tau   float64 // weighting e-folding time, seconds

	// Plan sequencing
	SurfaceSeconds     float64 // expected time on the surface before diving
	ResumeRadius       float64 // meters; 0 disables patrol resumption
	MaxWaypoints       int
	TargetDuration     float64 // seconds
	AbortOnSearchError bool

	// Stability filter
	MatchRadius float64 // meters
	MinDuration float64 // seconds
}

// History is the persistence surface a cycle needs.
type History interface {
	RecentFixes(imei string, nBack int) ([]core.Fix, error)
	Latest(glider string) (*core.PlanRecord, error)
	SaveGeneration(glider string, plan core.Plan, origin core.GeoPoint, generated time.Time) error
}

// Source supplies surfacing reports.
type Source interface {
	LatestSnapshot(glider string) (*core.TelemetrySnapshot, error)
}

// Deliverer fans an accepted goto document out to its consumers.
type Deliverer interface {
	Deliver(ctx context.Context, glider, doc string) error
}

const instrumentationName = "github.com/mousebrains/driftfollow/internal/update"

// Updater drives planning cycles for one glider.
type Updater struct {
	cfg     Config
	cache   *pattern.Cache
	store   History
	deliver Deliverer
	metrics *influx.Manager
	logger  zerolog.Logger

	// resumeValid is cleared when the pattern catalog reloads: pattern
	// indices from the previous plan no longer mean the same thing.
	resumeValid bool
	lastCycleAt time.Time

	cycles     metric.Int64Counter
	suppressed metric.Int64Counter
	failures   metric.Int64Counter
}

// New creates an updater. metrics may be nil.
func New(cfg Config, cache *pattern.Cache, store History, deliver Deliverer, metrics *influx.Manager, logger zerolog.Logger) (*Updater, error) {
	u := &Updater{
		cfg:     cfg,
		cache:   cache,
		store:   store,
		deliver: deliver,
		metrics: metrics,
		logger:  logger.With().Str("glider", cfg.Glider).Logger(),
	}

	m := otel.Meter(instrumentationName)
	var err error
	u.cycles, err = m.Int64Counter(
		"update.cycles.accepted",
		metric.WithDescription("Planning cycles that produced a goto file"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cycle counter: %w", err)
	}
	u.suppressed, err = m.Int64Counter(
		"update.cycles.suppressed",
		metric.WithDescription("Planning cycles suppressed by the stability filter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating suppression counter: %w", err)
	}
	u.failures, err = m.Int64Counter(
		"update.cycles.failed",
		metric.WithDescription("Planning cycles that errored"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failure counter: %w", err)
	}
	return u, nil
}

// Run polls the telemetry source on the given interval and plans once per
// new surfacing report. It returns when the context is canceled.
func (u *Updater) Run(ctx context.Context, interval time.Duration, src Source) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	u.logger.Info().Dur("interval", interval).Msg("Updater running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			snap, err := src.LatestSnapshot(u.cfg.Glider)
			if err != nil {
				u.logger.Error().Err(err).Msg("Failed to load surfacing report")
				continue
			}
			if snap == nil || !snap.T.After(u.lastCycleAt) {
				continue
			}
			// A failed cycle is not retried against the same report;
			// solver failures only resolve when new telemetry arrives.
			u.lastCycleAt = snap.T
			if err := u.Cycle(ctx, *snap); err != nil {
				u.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("glider", u.cfg.Glider)))
				u.logger.Error().Err(err).Time("surfaced", snap.T).Msg("Planning cycle failed")
			}
		}
	}
}

// Cycle runs one planning cycle from a surfacing report.
func (u *Updater) Cycle(ctx context.Context, snap core.TelemetrySnapshot) error {
	catalog, changed, err := u.cache.Refresh()
	if err != nil {
		return fmt.Errorf("refreshing pattern catalog: %w", err)
	}
	if changed {
		u.resumeValid = false
		u.logger.Info().Msg("Pattern catalog reloaded")
	}

	if !catalog.Enabled(u.cfg.Glider) {
		u.logger.Info().Msg("Glider not enabled in pattern catalog, skipping")
		return nil
	}
	patterns := catalog.Patterns(u.cfg.Glider)
	imei := catalog.IMEI(u.cfg.Glider)

	fixes, err := u.store.RecentFixes(imei, u.cfg.NBack)
	if err != nil {
		return fmt.Errorf("loading drifter fixes: %w", err)
	}

	// Estimate the drifter at the glider's expected dive time, not at the
	// surfacing itself.
	diveTime := snap.T.Add(time.Duration(u.cfg.SurfaceSeconds * float64(time.Second)))
	drifter, err := estimate.Estimate(fixes, diveTime, u.cfg.Tau)
	if err != nil {
		return fmt.Errorf("estimating drifter %s: %w", imei, err)
	}

	// The glider drifts with the surface water while transmitting; advance
	// its reported position to the expected dive site.
	glider := snap.Glider()
	drift := drifter.Velocity.Displacement(u.cfg.SurfaceSeconds)
	glider.Position = geo.FromCartesian(drift, glider.Position)

	last, err := u.store.Latest(u.cfg.Glider)
	if err != nil {
		return fmt.Errorf("loading last plan: %w", err)
	}

	startIndex := u.resumeIndex(snap, last)

	plan, err := planner.Sequence(drifter, glider, snap.Current(), patterns, startIndex, planner.SequenceConfig{
		MaxLegs:            u.cfg.MaxWaypoints,
		TargetDuration:     u.cfg.TargetDuration,
		AbortOnSearchError: u.cfg.AbortOnSearchError,
	})
	if err != nil {
		return fmt.Errorf("sequencing plan: %w", err)
	}

	if sup, ok := planner.ShouldSuppress(plan, last, u.cfg.MatchRadius, u.cfg.MinDuration); ok {
		u.logger.Info().
			Float64("maxDeviationMeters", sup.MaxDeviation).
			Float64("matchedSeconds", sup.MatchedDuration).
			Msg("Plan unchanged, suppressing")
		u.suppressed.Add(ctx, 1, metric.WithAttributes(attribute.String("glider", u.cfg.Glider)))
		u.writeMetric(ctx, influx.BucketPlans, influx.SuppressionPoint(u.cfg.Glider, sup, snap.T))
		return nil
	}

	doc := gotofile.Render(plan, glider.Position, snap.T)

	// Delivery failures are logged by the fanout; the plan is still
	// recorded so the next cycle filters against what was computed.
	if err := u.deliver.Deliver(ctx, u.cfg.Glider, doc); err != nil {
		u.logger.Warn().Err(err).Msg("Partial goto delivery")
	}

	if err := u.store.SaveGeneration(u.cfg.Glider, plan, glider.Position, snap.T); err != nil {
		return fmt.Errorf("persisting plan: %w", err)
	}
	u.resumeValid = true

	u.cycles.Add(ctx, 1, metric.WithAttributes(attribute.String("glider", u.cfg.Glider)))
	u.writeMetric(ctx, influx.BucketPlans, influx.PlanPoint(u.cfg.Glider, plan, snap.T))
	u.writeMetric(ctx, influx.BucketTelemetry, influx.DrifterPoint(imei, drifter, diveTime))

	u.logger.Info().
		Int("legs", len(plan.Legs)).
		Int("startIndex", plan.StartIndex).
		Float64("durationSeconds", plan.Duration()).
		Msg("Issued goto plan")
	return nil
}

// resumeIndex picks the pattern index to continue a patrol from: the leg of
// the last plan whose waypoint is nearest the glider's currently commanded
// waypoint, when that distance is within ResumeRadius. Returns
// planner.NoStartIndex to search for the closest pattern instead.
func (u *Updater) resumeIndex(snap core.TelemetrySnapshot, last *core.PlanRecord) int {
	if !u.resumeValid || u.cfg.ResumeRadius <= 0 || last == nil {
		return planner.NoStartIndex
	}
	commanded, ok := snap.CommandedWaypoint()
	if !ok {
		return planner.NoStartIndex
	}

	index := planner.NoStartIndex
	minDist := u.cfg.ResumeRadius
	for _, leg := range last.Legs {
		dist := geo.Distance(commanded, leg.Point)
		if dist < minDist {
			minDist = dist
			index = leg.PatternIndex
		}
	}
	if index != planner.NoStartIndex {
		u.logger.Debug().Int("patternIndex", index).Float64("distanceMeters", minDist).
			Msg("Resuming patrol at commanded waypoint")
	}
	return index
}

func (u *Updater) writeMetric(ctx context.Context, bucket string, point *influxdb2_write.Point) {
	if u.metrics == nil {
		return
	}
	if err := u.metrics.WritePoint(ctx, bucket, point); err != nil {
		u.logger.Debug().Err(err).Str("bucket", bucket).Msg("Failed to write metric")
	}
}
