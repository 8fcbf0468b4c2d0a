package enums

import "fmt"

// InventoryCategory groups stocked items: vehicle parts by workshop line plus
// the concession counter.
type InventoryCategory string

const (
	CategoryAuto       InventoryCategory = "auto"
	CategoryMotorcycle InventoryCategory = "motorcycle"
	CategoryConcession InventoryCategory = "concession"
)

var validInventoryCategories = []InventoryCategory{
	CategoryAuto,
	CategoryMotorcycle,
	CategoryConcession,
}

// String implements fmt.Stringer.
func (c InventoryCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known InventoryCategory.
func (c InventoryCategory) IsValid() bool {
	for _, candidate := range validInventoryCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseInventoryCategory converts raw input into an InventoryCategory.
func ParseInventoryCategory(value string) (InventoryCategory, error) {
	for _, candidate := range validInventoryCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory category %q", value)
}
