// Package inventory turns raw batches into the views households look at:
// item-level aggregates, joined raw rows, and the filter/search/sort
// pipeline over either.
//
// Nothing here mutates its input or holds state between calls, so every
// function is safe to call concurrently.
package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/krisefikser/krisefikser/internal/models"
	"github.com/krisefikser/krisefikser/internal/storage"
)

// Aggregator groups batches by item and resolves item metadata.
type Aggregator struct {
	catalog storage.ItemCatalog
}

// NewAggregator creates an Aggregator backed by the given catalog.
func NewAggregator(catalog storage.ItemCatalog) *Aggregator {
	return &Aggregator{catalog: catalog}
}

// Aggregate groups rows by ItemID.
//
// For each group:
//   - TotalQuantity is the sum of every batch quantity (expired batches included)
//   - EarliestExpirationDate is the earliest non-nil expiry, nil if none
//
// A batch referencing an item missing from the catalog fails the whole call
// with a KindNotFound error. Groups are returned in order of first appearance.
func (a *Aggregator) Aggregate(ctx context.Context, rows []models.StorageItem) ([]models.AggregatedStorageItem, error) {
	index := make(map[string]int)
	var result []models.AggregatedStorageItem

	for _, row := range rows {
		i, seen := index[row.ItemID]
		if !seen {
			i = len(result)
			index[row.ItemID] = i
			result = append(result, models.AggregatedStorageItem{
				ItemID:        row.ItemID,
				TotalQuantity: decimal.Zero,
			})
		}

		agg := &result[i]
		agg.TotalQuantity = agg.TotalQuantity.Add(row.Quantity)
		if row.ExpirationDate != nil &&
			(agg.EarliestExpirationDate == nil || row.ExpirationDate.Before(*agg.EarliestExpirationDate)) {
			exp := *row.ExpirationDate
			agg.EarliestExpirationDate = &exp
		}
	}

	items, err := a.resolve(ctx, rows)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Item = items[result[i].ItemID]
	}

	return result, nil
}

// Join attaches its catalog item to every row, keeping row order.
// Fails with KindNotFound on the first row whose item is missing.
func (a *Aggregator) Join(ctx context.Context, rows []models.StorageItem) ([]models.StorageItemView, error) {
	items, err := a.resolve(ctx, rows)
	if err != nil {
		return nil, err
	}

	views := make([]models.StorageItemView, len(rows))
	for i, row := range rows {
		views[i] = models.StorageItemView{
			StorageItem: row.Clone(),
			Item:        items[row.ItemID],
		}
	}
	return views, nil
}

// resolve looks up each distinct item once.
func (a *Aggregator) resolve(ctx context.Context, rows []models.StorageItem) (map[string]models.Item, error) {
	items := make(map[string]models.Item)
	for _, row := range rows {
		if _, ok := items[row.ItemID]; ok {
			continue
		}
		item, err := a.catalog.GetItem(ctx, row.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve item %s of storage item %s: %w", row.ItemID, row.ID, err)
		}
		items[row.ItemID] = item
	}
	return items, nil
}
