package products

import (
	"regexp"
	"strings"
)

var (
	NameKeys   = []string{"Name", "name", "ชื่อ", "Product Name", "Product name"}
	DetailKeys = []string{"Product detail", "Product Detail", "ProductDetail"}
	PriceKeys  = []string{
		"Price step 1", "Price step 2", "Price step 3", "Price step 4", "Price step 5",
		"Price 1", "Price 2", "Price 3", "Price 4", "Price 5",
	}
	NoteKey = "Note"
)

// trailing tier marker such as " (A)"
var tierSuffix = regexp.MustCompile(`\s*\([A-Z]\)\s*$`)

// StripTier removes a trailing "(A)"-style marker from a price value.
func StripTier(v string) string {
	return strings.TrimSpace(tierSuffix.ReplaceAllString(v, ""))
}

func firstOf(p Product, keys []string) string {
	for _, k := range keys {
		if v := p.Get(k); v != "" {
			return v
		}
	}
	return ""
}

// Name returns the first non-empty name column.
func Name(p Product) string { return firstOf(p, NameKeys) }

// PriceStepText formats one price step for copying, e.g. "Step 2: 150".
func PriceStepText(key, value string) string {
	label := strings.Replace(key, "Price step ", "Step ", 1)
	return label + ": " + StripTier(value)
}

// FullText is the shareable text of a product: name, detail, every price
// without its tier marker, then the note, one per line.
func FullText(p Product) string {
	lines := []string{}
	if name := Name(p); name != "" {
		lines = append(lines, name)
	}
	if detail := firstOf(p, DetailKeys); detail != "" {
		lines = append(lines, detail)
	}
	for _, k := range PriceKeys {
		if v := p.Get(k); v != "" {
			lines = append(lines, StripTier(v))
		}
	}
	if note := p.Get(NoteKey); note != "" {
		lines = append(lines, note)
	}
	return strings.Join(lines, "\n")
}
