package imagepkg

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Go Regular is parsed once per process, on first use.
var (
	goRegularOnce sync.Once
	goRegularFont *opentype.Font
	goRegularErr  error
)

// loadFont returns Go Regular for an empty path, else parses the TTF/OTF file.
func loadFont(path string) (*opentype.Font, error) {
	if path == "" {
		goRegularOnce.Do(func() {
			goRegularFont, goRegularErr = opentype.Parse(goregular.TTF)
		})
		return goRegularFont, goRegularErr
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	return f, nil
}

// newFace returns an unhinted face so widths scale linearly with size.
func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// wrapText greedily wraps text to maxWidth. Each "\n" starts a new
// paragraph; empty paragraphs yield no line. Words wider than maxWidth are
// split between runes.
func wrapText(face font.Face, text string, maxWidth float64) []string {
	limit := toFixed(maxWidth)
	fits := func(s string) bool {
		return font.MeasureString(face, s) <= limit
	}

	var lines []string
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if fits(candidate) {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if fits(word) {
				line = word
				continue
			}
			pieces := breakWord(word, fits)
			lines = append(lines, pieces[:len(pieces)-1]...)
			line = pieces[len(pieces)-1]
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// breakWord splits word into the fewest rune runs that fit. A single rune
// wider than the limit gets a line of its own.
func breakWord(word string, fits func(string) bool) []string {
	var pieces []string
	current := ""
	for _, r := range word {
		candidate := current + string(r)
		if current != "" && !fits(candidate) {
			pieces = append(pieces, current)
			current = string(r)
			continue
		}
		current = candidate
	}
	return append(pieces, current)
}
