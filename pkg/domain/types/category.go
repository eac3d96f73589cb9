package types

import "github.com/m-mizutani/goerr/v2"

// Category classifies a risk by its origin
type Category string

const (
	CategoryNetwork    Category = "Network"
	CategoryCompliance Category = "Compliance"
	CategoryPhysical   Category = "Physical"
	CategoryInsider    Category = "Insider"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategoryNetwork,
		CategoryCompliance,
		CategoryPhysical,
		CategoryInsider,
	}
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryNetwork,
		CategoryCompliance,
		CategoryPhysical,
		CategoryInsider:
		return true
	default:
		return false
	}
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", goerr.New("invalid category", goerr.V("category", s))
	}
	return c, nil
}
