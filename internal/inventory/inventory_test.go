package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krisefikser/krisefikser/internal/apperr"
	"github.com/krisefikser/krisefikser/internal/models"
)

// fakeCatalog serves items from a map and counts lookups.
type fakeCatalog struct {
	items   map[string]models.Item
	lookups int
}

func newFakeCatalog(items ...models.Item) *fakeCatalog {
	c := &fakeCatalog{items: make(map[string]models.Item)}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

func (c *fakeCatalog) GetItem(_ context.Context, itemID string) (models.Item, error) {
	c.lookups++
	item, ok := c.items[itemID]
	if !ok {
		return models.Item{}, apperr.NotFound("item not found: %s", itemID)
	}
	return item, nil
}

var (
	beans = models.Item{ID: "beans", Name: "Canned beans", Unit: "pcs", CaloriesPerUnit: 400, Type: models.ItemTypeFood}
	water = models.Item{ID: "water", Name: "Bottled Water", Unit: "L", CaloriesPerUnit: 0, Type: models.ItemTypeDrink}
	torch = models.Item{ID: "torch", Name: "Flashlight", Unit: "pcs", CaloriesPerUnit: 0, Type: models.ItemTypeAccessories}
	juice = models.Item{ID: "juice", Name: "Apple juice", Unit: "L", CaloriesPerUnit: 460, Type: models.ItemTypeDrink}
)

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func batch(id, itemID, quantity string, exp *time.Time) models.StorageItem {
	return models.StorageItem{
		ID:             id,
		ItemID:         itemID,
		HouseholdID:    "h1",
		Quantity:       qty(quantity),
		ExpirationDate: exp,
	}
}
