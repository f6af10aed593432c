package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Filer overwrites a fixed goto file path on every accepted plan, the path
// the dockserver-to-glider transfer watches.
type Filer struct {
	Path string
}

func (f *Filer) Name() string { return "filer" }

// Deliver writes the document to the configured path.
func (f *Filer) Deliver(_ context.Context, _ string, doc string) error {
	if err := os.WriteFile(f.Path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing goto file: %w", err)
	}
	return nil
}

// Archiver keeps a timestamped copy of every accepted plan.
type Archiver struct {
	Dir string

	// Now is a clock hook for tests; nil means time.Now.
	Now func() time.Time
}

func (a *Archiver) Name() string { return "archiver" }

// Deliver writes goto.GLIDER.YYYYMMDD.HHMMSS.ma into the archive directory.
func (a *Archiver) Deliver(_ context.Context, glider, doc string) error {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	fn := filepath.Join(a.Dir, fmt.Sprintf("goto.%s.%s.ma", glider, now().UTC().Format("20060102.150405")))
	if err := os.WriteFile(fn, []byte(doc), 0644); err != nil {
		return fmt.Errorf("archiving goto file: %w", err)
	}
	return nil
}
