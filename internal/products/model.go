package products

import (
	"fmt"
	"strings"
)

// PhotoKey is the column holding comma or semicolon separated photo filenames.
const PhotoKey = "Photo"

// Product is one spreadsheet row keyed by header name.
// Empty cells are omitted; PhotoKey always holds a []string.
type Product map[string]any

// Photos returns the normalized photo filenames.
func (p Product) Photos() []string {
	switch v := p[PhotoKey].(type) {
	case []string:
		return v
	case string:
		return NormalizePhotos(v)
	}
	return nil
}

// Get returns the value under key as text. Lists are joined with ", ".
func (p Product) Get(key string) string {
	return valueText(p[key])
}

func valueText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}

// ID returns the product id column ("ID" or "id").
func (p Product) ID() string {
	if id := p.Get("ID"); id != "" {
		return id
	}
	return p.Get("id")
}
