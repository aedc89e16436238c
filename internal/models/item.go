package models

import "strings"

// ItemType categorizes catalog items.
type ItemType string

const (
	ItemTypeFood        ItemType = "FOOD"
	ItemTypeDrink       ItemType = "DRINK"
	ItemTypeAccessories ItemType = "ACCESSORIES"
)

// ItemTypes lists every known item type.
var ItemTypes = []ItemType{ItemTypeFood, ItemTypeDrink, ItemTypeAccessories}

// ParseItemType maps a token to an ItemType, ignoring case and surrounding
// whitespace. The second result is false for unknown tokens.
func ParseItemType(token string) (ItemType, bool) {
	t := ItemType(strings.ToUpper(strings.TrimSpace(token)))
	for _, known := range ItemTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// EnergyBearing reports whether items of this type count towards readiness.
func (t ItemType) EnergyBearing() bool {
	return t == ItemTypeFood || t == ItemTypeDrink
}

// Item represents a catalog entry.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the display name (e.g., "Canned beans", "Water").
	Name string

	// Unit is the unit a quantity is counted in (e.g., "L", "pcs", "kg").
	Unit string

	// CaloriesPerUnit is the energy content of one unit, in kcal. Never negative.
	CaloriesPerUnit int64

	// Type is the item category.
	Type ItemType
}
