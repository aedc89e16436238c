package sharing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/krisefikser/krisefikser/internal/apperr"
	"github.com/krisefikser/krisefikser/internal/models"
	"github.com/krisefikser/krisefikser/internal/storage"
)

// memStore is an in-memory InventoryStore and HouseholdDirectory with the
// same version semantics as the SQL backends.
type memStore struct {
	mu         sync.Mutex
	items      map[string]models.StorageItem
	households map[string]models.Household
	nextID     int

	// beforeWrite runs inside the lock just before a conditional write.
	beforeWrite func()
}

var (
	_ storage.InventoryStore     = (*memStore)(nil)
	_ storage.HouseholdDirectory = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		items:      make(map[string]models.StorageItem),
		households: make(map[string]models.Household),
	}
}

func (s *memStore) addHousehold(id, groupID string) {
	s.households[id] = models.Household{ID: id, Name: "Household " + id, MemberCount: 2, EmergencyGroupID: groupID}
}

func (s *memStore) put(item models.StorageItem) models.StorageItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.Version = 1
	s.items[item.ID] = item.Clone()
	return item
}

func (s *memStore) GetHousehold(_ context.Context, id string) (models.Household, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.households[id]
	if !ok {
		return models.Household{}, apperr.NotFound("household not found: %s", id)
	}
	return h, nil
}

func (s *memStore) GetEmergencyGroup(_ context.Context, id string) (models.EmergencyGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	group := models.EmergencyGroup{ID: id}
	for _, h := range s.households {
		if h.EmergencyGroupID == id {
			group.HouseholdIDs = append(group.HouseholdIDs, h.ID)
		}
	}
	if len(group.HouseholdIDs) == 0 {
		return models.EmergencyGroup{}, apperr.NotFound("emergency group not found: %s", id)
	}
	return group, nil
}

func (s *memStore) ListStorageItemsByHousehold(_ context.Context, householdID string) ([]models.StorageItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StorageItem
	for _, item := range s.items {
		if item.HouseholdID == householdID {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (s *memStore) ListSharedStorageItemsByGroup(_ context.Context, groupID string) ([]models.StorageItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StorageItem
	for _, item := range s.items {
		if item.IsShared && s.households[item.HouseholdID].InGroup(groupID) {
			out = append(out, item.Clone())
		}
	}
	return out, nil
}

func (s *memStore) ListExpiringStorageItems(context.Context, string, time.Time, time.Time) ([]models.StorageItem, error) {
	return nil, nil
}

func (s *memStore) GetStorageItem(_ context.Context, id string) (models.StorageItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return models.StorageItem{}, apperr.NotFound("storage item not found: %s", id)
	}
	return item.Clone(), nil
}

func (s *memStore) CreateStorageItem(_ context.Context, item *models.StorageItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.create(item)
	return nil
}

func (s *memStore) create(item *models.StorageItem) {
	s.nextID++
	item.ID = fmt.Sprintf("new-%d", s.nextID)
	item.Version = 1
	s.items[item.ID] = item.Clone()
}

func (s *memStore) update(item *models.StorageItem) error {
	if s.beforeWrite != nil {
		s.beforeWrite()
	}
	current, ok := s.items[item.ID]
	if !ok {
		return apperr.NotFound("storage item not found: %s", item.ID)
	}
	if current.Version != item.Version {
		return apperr.Conflict("storage item %s was modified concurrently", item.ID)
	}
	item.Version++
	s.items[item.ID] = item.Clone()
	return nil
}

func (s *memStore) UpdateStorageItem(_ context.Context, item *models.StorageItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(item)
}

func (s *memStore) SplitStorageItem(_ context.Context, remainder, created *models.StorageItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.update(remainder); err != nil {
		return err
	}
	s.create(created)
	return nil
}

func (s *memStore) DeleteStorageItem(_ context.Context, id, householdID string, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beforeWrite != nil {
		s.beforeWrite()
	}
	item, ok := s.items[id]
	if !ok || item.HouseholdID != householdID {
		return apperr.NotFound("storage item not found: %s", id)
	}
	if item.Version != version {
		return apperr.Conflict("storage item %s was modified concurrently", id)
	}
	delete(s.items, id)
	return nil
}

type countingObserver struct {
	mu        sync.Mutex
	flips     int
	splits    int
	conflicts int
}

func (o *countingObserver) SharedStatusChanged(split bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if split {
		o.splits++
	} else {
		o.flips++
	}
}

func (o *countingObserver) ConflictDetected(string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conflicts++
}
