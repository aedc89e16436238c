package cache_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/krisefikser/krisefikser/internal/cache"
)

// fakeKVStore is an in-memory KV with TTL, for tests only.
type fakeKVStore struct {
	mu   sync.Mutex
	data map[string]fakeKVItem

	failGets bool
	failSets bool
}

type fakeKVItem struct {
	value   string
	expires time.Time // zero = no ttl
}

var errKVDown = errors.New("kv unavailable")

func newFakeKVStore() *fakeKVStore {
	return &fakeKVStore{
		data: make(map[string]fakeKVItem),
	}
}

func (f *fakeKVStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failGets {
		return "", errKVDown
	}
	item, ok := f.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	if !item.expires.IsZero() && time.Now().After(item.expires) {
		delete(f.data, key)
		return "", cache.ErrCacheMiss
	}
	return item.value, nil
}

func (f *fakeKVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSets {
		return errKVDown
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	f.data[key] = fakeKVItem{value: value, expires: exp}
	return nil
}
