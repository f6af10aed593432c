package pattern

import (
	"os"
	"time"
)

// Cache rereads the catalog file only when its modification time changes,
// so edits to the file take effect on the next planning cycle without a
// restart.
type Cache struct {
	path    string
	mtime   time.Time
	catalog Catalog
}

// NewCache wraps a catalog path. Nothing is read until the first Refresh.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Refresh returns the current catalog, reloading it when the file changed
// on disk. changed reports whether a reload happened. On a reload failure
// the previously loaded catalog is returned alongside the error.
func (c *Cache) Refresh() (catalog Catalog, changed bool, err error) {
	info, err := os.Stat(c.path)
	if err != nil {
		return c.catalog, false, err
	}

	mtime := info.ModTime()
	if c.catalog != nil && mtime.Equal(c.mtime) {
		return c.catalog, false, nil
	}

	fresh, err := Load(c.path)
	if err != nil {
		return c.catalog, false, err
	}
	c.catalog = fresh
	c.mtime = mtime
	return c.catalog, true, nil
}
