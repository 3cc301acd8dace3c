package products

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrCatalogMissing means the catalog file does not exist.
var ErrCatalogMissing = errors.New("products file not found")

// Catalog serves the product list from a spreadsheet, re-reading it only
// when the file's modification time or size changes.
type Catalog struct {
	path  string
	sheet string

	mu      sync.Mutex
	items   []Product
	modTime time.Time
	size    int64
}

// NewCatalog returns a Catalog for path. Nothing is read until All.
func NewCatalog(path, sheet string) *Catalog {
	return &Catalog{path: path, sheet: sheet}
}

// Path is the catalog file.
func (c *Catalog) Path() string {
	return c.path
}

// All returns every product. Callers must not modify the result.
func (c *Catalog) All() ([]Product, error) {
	info, err := os.Stat(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCatalogMissing, c.path)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items != nil && info.ModTime().Equal(c.modTime) && info.Size() == c.size {
		return c.items, nil
	}
	items, err := LoadProducts(c.path, c.sheet)
	if err != nil {
		return nil, err
	}
	c.items, c.modTime, c.size = items, info.ModTime(), info.Size()
	return items, nil
}
