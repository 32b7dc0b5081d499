package rules

import "fmt"

// Category selects which category-specific fields a form requires.
type Category string

const (
	Fire  Category = "Fire"
	Water Category = "Water"
	Air   Category = "Air"
)

// Categories lists every category in display order.
var Categories = []Category{Fire, Water, Air}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts s into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q: %w", s, ErrInvalidValue)
	}
	return c, nil
}

// CategoryNames returns the category names as strings.
func CategoryNames() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}
