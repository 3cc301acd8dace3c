package collection

import (
	"fmt"
	"strings"
)

// ExportText renders the collection as plain text, for `collect show`.
func ExportText(c *Collection) string {
	var lines []string
	if c.Name != "" {
		lines = append(lines, "# "+c.Name)
	}
	lines = append(lines, fmt.Sprintf("Images (%d/%d):", len(c.Images), MaxImages))
	for i, im := range c.Images {
		line := fmt.Sprintf("  %d. %s", i+1, im.URL)
		if im.Label != "" {
			line += " [" + im.Label + "]"
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("Texts (%d):", len(c.Texts)))
	for i, t := range c.Texts {
		first, _, more := strings.Cut(t.Text, "\n")
		if more {
			first += " ..."
		}
		line := fmt.Sprintf("  %d. %s", i+1, first)
		if t.Label != "" {
			line += " [" + t.Label + "]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
