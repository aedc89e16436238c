// Package models defines the core domain models for Krisefikser.
//
// # Reference data
//
//   - Item: a catalog entry (name, unit, calories per unit, type). Read-only here.
//
// # Inventory
//
//   - StorageItem: one batch of an Item held by a household. A household may
//     hold several batches of the same item (distinct lots, or private/shared
//     splits of one lot). Batches are never merged automatically.
//   - StorageItemView: a batch joined with its Item.
//   - AggregatedStorageItem: an item-level summary over one or more batches.
//
// # Households and groups
//
//   - Household: the people sharing one physical inventory.
//   - EmergencyGroup: households that pool their shared batches.
//
// # Design Principles
//
// 1. **Exact quantities**: quantities are decimal.Decimal so splits never
// create or destroy stock through float rounding
// 2. **IDs, not pointers**: relationships are ID strings
// 3. **Values out**: derived views are plain values built by pure functions
package models
