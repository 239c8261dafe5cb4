package catalog

import (
	"encoding/json"
	"strings"
)

// Product is one orderable menu item. The catalog is immutable once loaded;
// everything downstream treats products as read-only values.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

// Menu data in the wild carries numeric as well as string ids; both decode
// into the opaque string identifier used everywhere else.
func (p *Product) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Name     string          `json:"name"`
		Category string          `json:"category"`
		Price    float64         `json:"price"`
		Image    string          `json:"image"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	id := strings.TrimSpace(string(raw.ID))
	id = strings.Trim(id, `"`)

	p.ID = id
	p.Name = raw.Name
	p.Category = raw.Category
	p.Price = raw.Price
	p.Image = raw.Image
	return nil
}

// Categories returns the distinct categories present in the catalog, in
// first-seen order. The synthetic "all" selector is the UI's concern and is
// not part of the result.
func Categories(items []Product) []string {
	seen := make(map[string]bool)
	var categories []string

	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}

	return categories
}
