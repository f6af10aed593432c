// Package pattern loads the per-glider patrol pattern catalog from a YAML
// file and keeps it fresh across planning cycles.
package pattern

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mousebrains/driftfollow/pkg/core"
)

// rawEntry is the on-disk shape of one glider's catalog entry.
type rawEntry struct {
	Pattern [][]float64 `yaml:"pattern"`
	Theta   float64     `yaml:"theta"`   // degrees, counterclockwise
	Norm    *float64    `yaml:"norm"`    // scale factor, default 1
	QRotate bool        `yaml:"qRotate"` // rotate offsets with drifter heading
	Enabled *bool       `yaml:"enabled"` // default true
	IMEI    string      `yaml:"IMEI"`
}

// Entry is one glider's catalog entry with the theta and norm transforms
// already applied to its offsets.
type Entry struct {
	Patterns []core.Pattern
	IMEI     string
	Enabled  bool
}

// Catalog maps glider name to its patrol entry.
type Catalog map[string]Entry

// Load reads and transforms a catalog file.
func Load(fn string) (Catalog, error) {
	body, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	var raw map[string]rawEntry
	if err := yaml.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fn, err)
	}

	catalog := make(Catalog, len(raw))
	for glider, entry := range raw {
		patterns, err := entry.transform()
		if err != nil {
			return nil, fmt.Errorf("%s: glider %s: %w", fn, glider, err)
		}
		enabled := true
		if entry.Enabled != nil {
			enabled = *entry.Enabled
		}
		catalog[glider] = Entry{
			Patterns: patterns,
			IMEI:     entry.IMEI,
			Enabled:  enabled,
		}
	}
	return catalog, nil
}

// transform applies the entry's theta rotation and norm scaling to its raw
// offset rows.
func (e rawEntry) transform() ([]core.Pattern, error) {
	theta := e.Theta * math.Pi / 180
	norm := 1.0
	if e.Norm != nil {
		norm = *e.Norm
	}

	patterns := make([]core.Pattern, 0, len(e.Pattern))
	for i, row := range e.Pattern {
		if len(row) != 2 {
			return nil, fmt.Errorf("pattern row %d has %d elements, want 2", i, len(row))
		}
		offset := core.CartesianPoint{X: row[0], Y: row[1]}
		offset = offset.Rotate(theta).Scale(norm)
		patterns = append(patterns, core.Pattern{
			Offset:            offset,
			RotateWithHeading: e.QRotate,
		})
	}
	return patterns, nil
}

// Enabled reports whether the glider is present and not disabled.
func (c Catalog) Enabled(glider string) bool {
	entry, ok := c[glider]
	return ok && entry.Enabled
}

// Patterns returns the glider's transformed patterns, or nil when unknown.
func (c Catalog) Patterns(glider string) []core.Pattern {
	return c[glider].Patterns
}

// IMEI returns the drifter IMEI paired with the glider, or "" when unknown.
func (c Catalog) IMEI(glider string) string {
	return c[glider].IMEI
}
