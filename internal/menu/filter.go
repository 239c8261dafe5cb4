// Package menu narrows the catalog for display. Filtering is pure: same
// inputs, same output, no side effects.
package menu

import (
	"strings"

	"menucart/internal/catalog"
)

// AllCategories is the synthetic selector that disables category filtering.
const AllCategories = "all"

// Filter applies the category and search predicates in order and preserves
// the catalog's relative order. Category comparison is exact (categories are
// taken verbatim from the catalog); the search text is trimmed and matched
// case-insensitively against product name and category. An empty result is
// not an error.
func Filter(items []catalog.Product, category, search string) []catalog.Product {
	filtered := make([]catalog.Product, 0, len(items))

	search = strings.ToLower(strings.TrimSpace(search))

	for _, item := range items {
		if category != AllCategories && item.Category != category {
			continue
		}
		if search != "" {
			name := strings.ToLower(item.Name)
			cat := strings.ToLower(item.Category)
			if !strings.Contains(name, search) && !strings.Contains(cat, search) {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	return filtered
}
