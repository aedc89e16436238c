package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/krisefikser/krisefikser/internal/models"
	"github.com/krisefikser/krisefikser/internal/storage"
)

// DefaultTTL is used when NewCatalog is given a non-positive ttl.
const DefaultTTL = 10 * time.Minute

const keyPrefix = "krisefikser:item:"

// Catalog is a storage.ItemCatalog that caches items of another catalog.
//
// The cache is best effort: KV failures are logged and the lookup falls
// through to the backing catalog. Missing items are not cached.
type Catalog struct {
	next storage.ItemCatalog
	kv   KVStore
	ttl  time.Duration
}

var _ storage.ItemCatalog = (*Catalog)(nil)

// NewCatalog wraps next with a cache stored in kv.
func NewCatalog(next storage.ItemCatalog, kv KVStore, ttl time.Duration) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Catalog{next: next, kv: kv, ttl: ttl}
}

type cachedItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Unit            string `json:"unit"`
	CaloriesPerUnit int64  `json:"calories_per_unit"`
	Type            string `json:"type"`
}

// GetItem returns the cached item, loading and caching it on a miss.
func (c *Catalog) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	key := keyPrefix + itemID

	val, err := c.kv.Get(ctx, key)
	switch {
	case err == nil:
		var ci cachedItem
		if err := json.Unmarshal([]byte(val), &ci); err == nil {
			return models.Item{
				ID:              ci.ID,
				Name:            ci.Name,
				Unit:            ci.Unit,
				CaloriesPerUnit: ci.CaloriesPerUnit,
				Type:            models.ItemType(ci.Type),
			}, nil
		}
		slog.Warn("Discarding undecodable cached item", "item_id", itemID)
	case !errors.Is(err, ErrCacheMiss):
		slog.Warn("Item cache read failed", "item_id", itemID, "error", err)
	}

	item, err := c.next.GetItem(ctx, itemID)
	if err != nil {
		return models.Item{}, err
	}

	data, err := json.Marshal(cachedItem{
		ID:              item.ID,
		Name:            item.Name,
		Unit:            item.Unit,
		CaloriesPerUnit: item.CaloriesPerUnit,
		Type:            string(item.Type),
	})
	if err == nil {
		err = c.kv.Set(ctx, key, string(data), c.ttl)
	}
	if err != nil {
		slog.Warn("Item cache write failed", "item_id", itemID, "error", err)
	}

	return item, nil
}
