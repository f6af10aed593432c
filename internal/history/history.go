// Package history persists accepted plan generations and raw telemetry, and
// reads back the most recent generation for the stability check.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mousebrains/driftfollow/internal/geo"
	"github.com/mousebrains/driftfollow/internal/model"
	"github.com/mousebrains/driftfollow/pkg/core"
)

// Store wraps the plan-history tables.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewStore creates a store on an already connected database.
func NewStore(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, logger: log}
}

// SaveGeneration stores one accepted plan, one row per leg. origin is the
// glider's position at plan time, anchoring the first leg's
// distance-from-previous.
func (s *Store) SaveGeneration(glider string, plan core.Plan, origin core.GeoPoint, generated time.Time) error {
	gen := model.PlanGeneration{
		Glider:      glider,
		GeneratedAt: generated,
		StartIndex:  plan.StartIndex,
	}

	prev := origin
	for i, leg := range plan.Legs {
		gen.Legs = append(gen.Legs, model.PlanLeg{
			LegIndex:       i,
			PatternIndex:   leg.PatternIndex,
			Position:       geo.Point(leg.Intercept),
			DistanceMeters: geo.Distance(prev, leg.Intercept),
			DTSeconds:      leg.DT,
			ElapsedSeconds: leg.Elapsed,
		})
		prev = leg.Intercept
	}

	if err := s.db.Create(&gen).Error; err != nil {
		return fmt.Errorf("saving generation for %s: %w", glider, err)
	}
	s.logger.Debug().Str("glider", glider).Int("legs", len(gen.Legs)).
		Time("generated", generated).Msg("Saved plan generation")
	return nil
}

// Latest returns the glider's most recent generation as a plan record, or
// nil when none has been stored yet.
func (s *Store) Latest(glider string) (*core.PlanRecord, error) {
	var gen model.PlanGeneration
	err := s.db.
		Preload("Legs", func(db *gorm.DB) *gorm.DB { return db.Order("leg_index") }).
		Where("glider = ?", glider).
		Order("generated_at DESC").
		First(&gen).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest generation for %s: %w", glider, err)
	}

	record := core.PlanRecord{Generated: gen.GeneratedAt}
	for _, leg := range gen.Legs {
		point, ok := geo.FromPoint(leg.Position)
		if !ok {
			return nil, fmt.Errorf("generation %d leg %d has an empty position", gen.ID, leg.LegIndex)
		}
		record.Legs = append(record.Legs, core.RecordLeg{
			PatternIndex: leg.PatternIndex,
			Point:        point,
			DT:           leg.DTSeconds,
		})
	}
	return &record, nil
}

// SaveFix stores one drifter GPS fix.
func (s *Store) SaveFix(imei string, fix core.Fix) error {
	row := model.DrifterFix{
		IMEI:           imei,
		Time:           fix.T,
		Position:       geo.Point(core.GeoPoint{Lat: fix.Lat, Lon: fix.Lon}),
		AccuracyMeters: fix.Accuracy,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("saving fix for %s: %w", imei, err)
	}
	return nil
}

// RecentFixes returns up to nBack fixes for a drifter, most recent first,
// which is the order the estimator expects.
func (s *Store) RecentFixes(imei string, nBack int) ([]core.Fix, error) {
	var rows []model.DrifterFix
	err := s.db.
		Where("imei = ?", imei).
		Order("time DESC").
		Limit(nBack).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading fixes for %s: %w", imei, err)
	}

	fixes := make([]core.Fix, 0, len(rows))
	for _, row := range rows {
		point, ok := geo.FromPoint(row.Position)
		if !ok {
			continue
		}
		fixes = append(fixes, core.Fix{
			T:        row.Time,
			Lat:      point.Lat,
			Lon:      point.Lon,
			Accuracy: row.AccuracyMeters,
		})
	}
	return fixes, nil
}

// LatestSnapshot returns the glider's most recent surfacing report, or nil
// when none has been stored.
func (s *Store) LatestSnapshot(glider string) (*core.TelemetrySnapshot, error) {
	var row model.GliderSnapshot
	err := s.db.
		Where("glider = ?", glider).
		Order("time DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest snapshot for %s: %w", glider, err)
	}

	point, ok := geo.FromPoint(row.Position)
	if !ok {
		return nil, fmt.Errorf("snapshot %d has an empty position", row.ID)
	}
	snap := core.TelemetrySnapshot{
		T:         row.Time,
		Lat:       point.Lat,
		Lon:       point.Lon,
		CurrentVX: row.CurrentVX,
		CurrentVY: row.CurrentVY,
	}
	if row.SpeedThroughWater.Valid {
		spd := row.SpeedThroughWater.Float64
		snap.SpeedThroughWater = &spd
	}
	if row.CommandedWptLat.Valid && row.CommandedWptLon.Valid {
		lat := row.CommandedWptLat.Float64
		lon := row.CommandedWptLon.Float64
		snap.CommandedWptLat = &lat
		snap.CommandedWptLon = &lon
	}
	return &snap, nil
}

// SaveSnapshot stores the surfacing report a planning cycle ran from.
func (s *Store) SaveSnapshot(glider string, snap core.TelemetrySnapshot) error {
	row := model.GliderSnapshot{
		Glider:    glider,
		Time:      snap.T,
		Position:  geo.Point(core.GeoPoint{Lat: snap.Lat, Lon: snap.Lon}),
		CurrentVX: snap.CurrentVX,
		CurrentVY: snap.CurrentVY,
	}
	if snap.SpeedThroughWater != nil {
		row.SpeedThroughWater.Float64 = *snap.SpeedThroughWater
		row.SpeedThroughWater.Valid = true
	}
	if snap.CommandedWptLat != nil && snap.CommandedWptLon != nil {
		row.CommandedWptLat.Float64 = *snap.CommandedWptLat
		row.CommandedWptLat.Valid = true
		row.CommandedWptLon.Float64 = *snap.CommandedWptLon
		row.CommandedWptLon.Valid = true
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", glider, err)
	}
	return nil
}
