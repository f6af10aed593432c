package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&PlanGeneration{},
	&PlanLeg{},
	&DrifterFix{},
	&GliderSnapshot{},
}

// PlanGeneration is one accepted planning cycle for a glider. Its legs are
// the waypoints that were rendered into the goto file.
type PlanGeneration struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Glider      string    `json:"glider" gorm:"size:64;index:idx_plan_generation_glider"`
	GeneratedAt time.Time `json:"generatedAt" gorm:"index:idx_plan_generation_generated_at"`
	StartIndex  int       `json:"startIndex"`
	Legs        []PlanLeg `json:"legs" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:GenerationID"`
}

func (*PlanGeneration) TableName() string {
	return "plan_generations"
}

// PlanLeg is one waypoint of a generation, keyed by (generation, leg index).
type PlanLeg struct {
	GenerationID   uint       `json:"generationId" gorm:"uniqueIndex:idx_plan_leg_generation_leg"`
	LegIndex       int        `json:"legIndex" gorm:"uniqueIndex:idx_plan_leg_generation_leg"`
	PatternIndex   int        `json:"patternIndex"`
	Position       geom.Point `json:"position"`       // Intercept as lon/lat point
	DistanceMeters float64    `json:"distanceMeters"` // From the previous waypoint
	DTSeconds      float64    `json:"dtSeconds"`
	ElapsedSeconds float64    `json:"elapsedSeconds"`
}

func (*PlanLeg) TableName() string {
	return "plan_legs"
}

// DrifterFix is one GPS fix received from the drifter's satellite beacon.
type DrifterFix struct {
	ID             uint       `json:"id" gorm:"primarykey"`
	IMEI           string     `json:"imei" gorm:"size:32;index:idx_drifter_fix_imei"`
	Time           time.Time  `json:"time" gorm:"index:idx_drifter_fix_time"`
	Position       geom.Point `json:"position"` // lon/lat
	AccuracyMeters float64    `json:"accuracyMeters"`
}

func (*DrifterFix) TableName() string {
	return "drifter_fixes"
}

// GliderSnapshot is the parsed surfacing report a planning cycle ran from.
type GliderSnapshot struct {
	ID                uint            `json:"id" gorm:"primarykey"`
	Glider            string          `json:"glider" gorm:"size:64;index:idx_glider_snapshot_glider"`
	Time              time.Time       `json:"time" gorm:"index:idx_glider_snapshot_time"`
	Position          geom.Point      `json:"position"` // lon/lat
	SpeedThroughWater sql.NullFloat64 `json:"speedThroughWater" gorm:"default:NULL"`
	CurrentVX         float64         `json:"currentVx"`
	CurrentVY         float64         `json:"currentVy"`
	CommandedWptLat   sql.NullFloat64 `json:"commandedWptLat" gorm:"default:NULL"`
	CommandedWptLon   sql.NullFloat64 `json:"commandedWptLon" gorm:"default:NULL"`
}

func (*GliderSnapshot) TableName() string {
	return "glider_snapshots"
}
