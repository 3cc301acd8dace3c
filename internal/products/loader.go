package products

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	photoSeparators = regexp.MustCompile(`[,;]`)
	photoExtension  = regexp.MustCompile(`\.[a-zA-Z0-9]+$`)
)

// NormalizePhotos splits a Photo cell on "," or ";" and forces a .jpg
// extension on every entry, dropping blanks.
func NormalizePhotos(cell string) []string {
	out := []string{}
	for _, p := range photoSeparators.Split(cell, -1) {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		out = append(out, EnsureJPG(name))
	}
	return out
}

// EnsureJPG replaces any extension with .jpg.
func EnsureJPG(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	return photoExtension.ReplaceAllString(name, "") + ".jpg"
}

// LoadProducts reads the first (or named) sheet of an .xlsx file, or a .csv
// file, into products.
func LoadProducts(path, sheet string) ([]Product, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path, sheet)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return fromRows(rows), nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	return f.GetRows(sheet)
}

func readCSV(path string) ([][]string, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func fromRows(rows [][]string) []Product {
	out := []Product{}
	if len(rows) < 1 {
		return out
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	for _, row := range rows[1:] {
		p := Product{}
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			p[header[i]] = cell
		}
		if len(p) == 0 {
			continue
		}
		p[PhotoKey] = NormalizePhotos(p.Get(PhotoKey))
		out = append(out, p)
	}
	return out
}
