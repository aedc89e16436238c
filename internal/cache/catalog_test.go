package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisefikser/krisefikser/internal/apperr"
	"github.com/krisefikser/krisefikser/internal/cache"
	"github.com/krisefikser/krisefikser/internal/models"
)

type countingCatalog struct {
	items   map[string]models.Item
	lookups int
}

func (c *countingCatalog) GetItem(_ context.Context, id string) (models.Item, error) {
	c.lookups++
	item, ok := c.items[id]
	if !ok {
		return models.Item{}, apperr.NotFound("item not found: %s", id)
	}
	return item, nil
}

var water = models.Item{ID: "water", Name: "Water", Unit: "L", Type: models.ItemTypeDrink}

func TestCatalog_CachesHits(t *testing.T) {
	backing := &countingCatalog{items: map[string]models.Item{"water": water}}
	kv := newFakeKVStore()
	catalog := cache.NewCatalog(backing, kv, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item, err := catalog.GetItem(ctx, "water")
		require.NoError(t, err)
		assert.Equal(t, water, item)
	}
	assert.Equal(t, 1, backing.lookups)
	assert.Len(t, kv.data, 1)
}

func TestCatalog_MissingItemsAreNotCached(t *testing.T) {
	backing := &countingCatalog{items: map[string]models.Item{}}
	kv := newFakeKVStore()
	catalog := cache.NewCatalog(backing, kv, time.Minute)

	_, err := catalog.GetItem(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = catalog.GetItem(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, 2, backing.lookups)
	assert.Empty(t, kv.data)
}

func TestCatalog_FallsThroughWhenKVFails(t *testing.T) {
	backing := &countingCatalog{items: map[string]models.Item{"water": water}}
	kv := newFakeKVStore()
	kv.failGets = true
	kv.failSets = true
	catalog := cache.NewCatalog(backing, kv, 0)

	item, err := catalog.GetItem(context.Background(), "water")
	require.NoError(t, err)
	assert.Equal(t, water, item)
	assert.Equal(t, 1, backing.lookups)
}

func TestCatalog_DiscardsCorruptEntries(t *testing.T) {
	backing := &countingCatalog{items: map[string]models.Item{"water": water}}
	kv := newFakeKVStore()
	require.NoError(t, kv.Set(context.Background(), "krisefikser:item:water", "{not json", 0))
	catalog := cache.NewCatalog(backing, kv, time.Minute)

	item, err := catalog.GetItem(context.Background(), "water")
	require.NoError(t, err)
	assert.Equal(t, water, item)

	// the corrupt entry was overwritten
	_, err = catalog.GetItem(context.Background(), "water")
	require.NoError(t, err)
	assert.Equal(t, 1, backing.lookups)
}
