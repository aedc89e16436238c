// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/krisefikser/krisefikser/internal/models"
)

// ItemCatalog is read-only access to catalog items.
type ItemCatalog interface {
	// GetItem retrieves an item by ID.
	// Returns an apperr.KindNotFound error if the item does not exist.
	GetItem(ctx context.Context, itemID string) (models.Item, error)
}

// HouseholdDirectory answers household and group membership questions.
type HouseholdDirectory interface {
	// GetHousehold retrieves a household with its member count and current group.
	// Returns an apperr.KindNotFound error if the household does not exist.
	GetHousehold(ctx context.Context, householdID string) (models.Household, error)

	// GetEmergencyGroup retrieves a group with its current member households.
	// Returns an apperr.KindNotFound error if the group does not exist.
	GetEmergencyGroup(ctx context.Context, groupID string) (models.EmergencyGroup, error)
}

// InventoryStore defines the storage operations on batches.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the inventory core or the service layer.
type InventoryStore interface {
	// ListStorageItemsByHousehold returns every batch owned by a household.
	ListStorageItemsByHousehold(ctx context.Context, householdID string) ([]models.StorageItem, error)

	// ListSharedStorageItemsByGroup returns the shared batches of every
	// household currently in the group.
	ListSharedStorageItemsByGroup(ctx context.Context, groupID string) ([]models.StorageItem, error)

	// ListExpiringStorageItems returns a household's batches expiring within [from, to].
	ListExpiringStorageItems(ctx context.Context, householdID string, from, to time.Time) ([]models.StorageItem, error)

	// GetStorageItem retrieves a batch by ID.
	// Returns an apperr.KindNotFound error if the batch does not exist.
	GetStorageItem(ctx context.Context, id string) (models.StorageItem, error)

	// CreateStorageItem persists a new batch. item.ID and item.Version are
	// populated by the store.
	CreateStorageItem(ctx context.Context, item *models.StorageItem) error

	// UpdateStorageItem persists quantity, expiration and shared flag of an
	// existing batch, provided its stored version still equals item.Version.
	// On success item.Version is advanced. Returns KindNotFound for a missing
	// batch and KindConflict for a version mismatch.
	UpdateStorageItem(ctx context.Context, item *models.StorageItem) error

	// SplitStorageItem updates remainder (same rules as UpdateStorageItem)
	// and inserts created in a single transaction.
	SplitStorageItem(ctx context.Context, remainder, created *models.StorageItem) error

	// DeleteStorageItem removes a batch owned by householdID, provided its
	// stored version still equals version. Returns KindNotFound if no such
	// batch exists and KindConflict for a version mismatch.
	DeleteStorageItem(ctx context.Context, id, householdID string, version int64) error
}

// Store is everything a backend provides.
type Store interface {
	ItemCatalog
	HouseholdDirectory
	InventoryStore

	// Close releases any resources held by the store.
	Close() error
}
