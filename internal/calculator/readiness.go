// Package calculator computes how long a household can live off its stock.
package calculator

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krisefikser/krisefikser/internal/models"
	"github.com/krisefikser/krisefikser/internal/storage"
)

// DailyCaloricRequirement is the energy one person needs per day, in kcal.
const DailyCaloricRequirement = 2000

// ReadinessResult is how long a household can live off its stock.
type ReadinessResult struct {
	Days  int
	Hours int

	// TotalDays is the unrounded number of days.
	TotalDays decimal.Decimal
}

var hoursPerDay = decimal.NewFromInt(24)

// Calculate computes readiness from joined batches.
//
// Algorithm:
//  1. Skip batches that expired before now (nil expiry never expires)
//  2. Skip items that are neither FOOD nor DRINK
//  3. energy = Σ quantity × caloriesPerUnit
//  4. required = memberCount × DailyCaloricRequirement
//  5. totalDays = energy / required, or 0 when required is 0
//  6. days = ⌊totalDays⌋, hours = ⌊(totalDays − days) × 24⌋, computed
//     exactly as ⌊energy × 24 / required⌋ split into days and hours
func Calculate(batches []models.StorageItemView, memberCount int, now time.Time) ReadinessResult {
	if memberCount <= 0 {
		return ReadinessResult{TotalDays: decimal.Zero}
	}

	energy := decimal.Zero
	for _, b := range batches {
		if b.ExpiredAt(now) || !b.Item.Type.EnergyBearing() {
			continue
		}
		energy = energy.Add(b.Quantity.Mul(decimal.NewFromInt(b.Item.CaloriesPerUnit)))
	}

	required := decimal.NewFromInt(int64(memberCount) * DailyCaloricRequirement)

	// Hours must come from an exact quotient: Div rounds to DivisionPrecision.
	wholeHours, _ := energy.Mul(hoursPerDay).QuoRem(required, 0)
	totalHours := wholeHours.IntPart()

	return ReadinessResult{
		Days:      int(totalHours / 24),
		Hours:     int(totalHours % 24),
		TotalDays: energy.Div(required),
	}
}

// ReadinessCalculator resolves what Calculate needs for one household.
type ReadinessCalculator struct {
	catalog   storage.ItemCatalog
	directory storage.HouseholdDirectory
	now       func() time.Time
}

// NewReadinessCalculator creates a ReadinessCalculator. now defaults to time.Now.
func NewReadinessCalculator(catalog storage.ItemCatalog, directory storage.HouseholdDirectory, now func() time.Time) *ReadinessCalculator {
	if now == nil {
		now = time.Now
	}
	return &ReadinessCalculator{catalog: catalog, directory: directory, now: now}
}

// ForHousehold computes readiness of householdID from its batches.
// A batch whose item is missing from the catalog fails the call with KindNotFound.
func (c *ReadinessCalculator) ForHousehold(ctx context.Context, householdID string, batches []models.StorageItem) (ReadinessResult, error) {
	household, err := c.directory.GetHousehold(ctx, householdID)
	if err != nil {
		return ReadinessResult{}, fmt.Errorf("failed to get household: %w", err)
	}

	items := make(map[string]models.Item)
	views := make([]models.StorageItemView, 0, len(batches))
	for _, b := range batches {
		item, ok := items[b.ItemID]
		if !ok {
			item, err = c.catalog.GetItem(ctx, b.ItemID)
			if err != nil {
				return ReadinessResult{}, fmt.Errorf("failed to resolve item %s: %w", b.ItemID, err)
			}
			items[b.ItemID] = item
		}
		views = append(views, models.StorageItemView{StorageItem: b, Item: item})
	}

	return Calculate(views, household.MemberCount, c.now()), nil
}
