package products

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// FilterOptions narrows a product list.
type FilterOptions struct {
	Query     string // substring matched against every value
	Status    string // exact match on StatusKey, after trimming
	StatusKey string
}

// Filter returns the products matching opt, in input order.
func Filter(items []Product, opt FilterOptions) []Product {
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(opt.Query))

	out := []Product{}
	for _, p := range items {
		if opt.Status != "" && strings.TrimSpace(p.Get(opt.StatusKey)) != opt.Status {
			continue
		}
		if query != "" && !matches(fold, p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(fold cases.Caser, p Product, query string) bool {
	for _, v := range p {
		switch val := v.(type) {
		case []string:
			for _, item := range val {
				if strings.Contains(fold.String(item), query) {
					return true
				}
			}
		default:
			if strings.Contains(fold.String(valueText(val)), query) {
				return true
			}
		}
	}
	return false
}

// Statuses returns the distinct non-empty values of key, sorted.
func Statuses(items []Product, key string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range items {
		s := strings.TrimSpace(p.Get(key))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// FindByID returns the product whose ID column equals id.
func FindByID(items []Product, id string) (Product, bool) {
	for _, p := range items {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}
