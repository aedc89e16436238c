package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StorageItem represents one batch of an Item held by a household.
type StorageItem struct {
	// ID is the unique identifier for the batch (UUID format).
	ID string

	// ItemID references the catalog Item.
	ItemID string

	// HouseholdID is the owning household.
	HouseholdID string

	// Quantity is the amount held, in the item's unit. Never negative.
	Quantity decimal.Decimal

	// ExpirationDate is when the batch expires. Nil means it does not expire.
	ExpirationDate *time.Time

	// IsShared marks the batch as visible to the owner's emergency group.
	// New batches are private.
	IsShared bool

	// Version is bumped by every successful update and guards concurrent
	// read-modify-write cycles.
	Version int64
}

// Clone returns a copy that shares no memory with s.
func (s StorageItem) Clone() StorageItem {
	if s.ExpirationDate != nil {
		exp := *s.ExpirationDate
		s.ExpirationDate = &exp
	}
	return s
}

// ExpiredAt reports whether the batch expired strictly before now.
func (s StorageItem) ExpiredAt(now time.Time) bool {
	return s.ExpirationDate != nil && s.ExpirationDate.Before(now)
}

// StorageItemView is a batch joined with its catalog Item.
type StorageItemView struct {
	StorageItem
	Item Item
}

// AggregatedStorageItem summarizes every batch of one item within a scope
// (a household, or the shared batches of a group).
type AggregatedStorageItem struct {
	ItemID string
	Item   Item

	// TotalQuantity is the sum of the batch quantities.
	TotalQuantity decimal.Decimal

	// EarliestExpirationDate is the minimum non-nil expiry, or nil if no
	// batch expires.
	EarliestExpirationDate *time.Time
}

// SharedStorageItem is a shared batch together with the name of the
// household that owns it.
type SharedStorageItem struct {
	StorageItemView
	HouseholdName string
}

// CatalogItem returns the joined item.
func (v StorageItemView) CatalogItem() Item { return v.Item }

// Amount returns the batch quantity.
func (v StorageItemView) Amount() decimal.Decimal { return v.Quantity }

// ExpiresAt returns the batch expiry.
func (v StorageItemView) ExpiresAt() *time.Time { return v.ExpirationDate }

// CatalogItem returns the aggregated item.
func (a AggregatedStorageItem) CatalogItem() Item { return a.Item }

// Amount returns the total quantity.
func (a AggregatedStorageItem) Amount() decimal.Decimal { return a.TotalQuantity }

// ExpiresAt returns the earliest expiry.
func (a AggregatedStorageItem) ExpiresAt() *time.Time { return a.EarliestExpirationDate }
