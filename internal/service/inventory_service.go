// Package service exposes the inventory over Connect RPC.
//
// Every handler reads the calling household from the request context once
// (set by middleware.RequireAuth) and passes it explicitly to the core.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/krisefikser/krisefikser/internal/apperr"
	"github.com/krisefikser/krisefikser/internal/calculator"
	"github.com/krisefikser/krisefikser/internal/inventory"
	"github.com/krisefikser/krisefikser/internal/middleware"
	"github.com/krisefikser/krisefikser/internal/models"
	"github.com/krisefikser/krisefikser/internal/sharing"
	"github.com/krisefikser/krisefikser/internal/storage"
)

// InventoryService implements the Connect InventoryService.
type InventoryService struct {
	store      storage.Store
	catalog    storage.ItemCatalog
	aggregator *inventory.Aggregator
	resolver   *sharing.Resolver
	readiness  *calculator.ReadinessCalculator
	now        func() time.Time
}

// Option customizes an InventoryService.
type Option func(*InventoryService)

// WithCatalog resolves items through catalog instead of the store,
// e.g. a cache.Catalog.
func WithCatalog(catalog storage.ItemCatalog) Option {
	return func(s *InventoryService) { s.catalog = catalog }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *InventoryService) { s.now = now }
}

// NewInventoryService creates an InventoryService on top of store.
// observer receives sharing events and may be nil.
func NewInventoryService(store storage.Store, observer sharing.Observer, opts ...Option) *InventoryService {
	s := &InventoryService{
		store:   store,
		catalog: store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.aggregator = inventory.NewAggregator(s.catalog)
	s.resolver = sharing.NewResolver(store, store, observer)
	s.readiness = calculator.NewReadinessCalculator(s.catalog, store, s.now)
	return s
}

// caller returns the authenticated household.
func caller(ctx context.Context) (string, error) {
	householdID := middleware.GetHouseholdID(ctx)
	if householdID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("not authenticated"))
	}
	return householdID, nil
}

// ListAggregated returns the caller's stock summed per item.
func (s *InventoryService) ListAggregated(ctx context.Context, req *connect.Request[ListAggregatedRequest]) (*connect.Response[ListAggregatedResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListStorageItemsByHousehold(ctx, householdID)
	if err != nil {
		return nil, toConnectError(err)
	}
	aggregated, err := s.aggregator.Aggregate(ctx, rows)
	if err != nil {
		return nil, toConnectError(err)
	}

	result := inventory.Apply(aggregated, req.Msg.Query.toInventory())
	return connect.NewResponse(&ListAggregatedResponse{Items: aggregatesToWire(result)}), nil
}

// ListBatches returns the caller's individual batches.
func (s *InventoryService) ListBatches(ctx context.Context, req *connect.Request[ListBatchesRequest]) (*connect.Response[ListBatchesResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListStorageItemsByHousehold(ctx, householdID)
	if err != nil {
		return nil, toConnectError(err)
	}
	views, err := s.aggregator.Join(ctx, rows)
	if err != nil {
		return nil, toConnectError(err)
	}

	result := inventory.Apply(views, req.Msg.Query.toInventory())
	return connect.NewResponse(&ListBatchesResponse{Batches: viewsToWire(result)}), nil
}

// ListSharedInGroup returns the shared stock of the caller's group summed
// per item. A household without a group gets an empty list.
func (s *InventoryService) ListSharedInGroup(ctx context.Context, req *connect.Request[ListSharedInGroupRequest]) (*connect.Response[ListSharedInGroupResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if household.EmergencyGroupID == "" {
		return connect.NewResponse(&ListSharedInGroupResponse{Items: []AggregatedItem{}}), nil
	}

	rows, err := s.store.ListSharedStorageItemsByGroup(ctx, household.EmergencyGroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	aggregated, err := s.aggregator.Aggregate(ctx, rows)
	if err != nil {
		return nil, toConnectError(err)
	}

	result := inventory.Apply(aggregated, req.Msg.Query.toInventory())
	return connect.NewResponse(&ListSharedInGroupResponse{
		GroupID: household.EmergencyGroupID,
		Items:   aggregatesToWire(result),
	}), nil
}

// ListSharedByItem returns the shared batches of one item in the caller's
// group, each with its owner's name.
func (s *InventoryService) ListSharedByItem(ctx context.Context, req *connect.Request[ListSharedByItemRequest]) (*connect.Response[ListSharedByItemResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ItemID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("item_id required"))
	}

	household, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if household.EmergencyGroupID == "" {
		return connect.NewResponse(&ListSharedByItemResponse{Batches: []SharedBatch{}}), nil
	}

	rows, err := s.store.ListSharedStorageItemsByGroup(ctx, household.EmergencyGroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	var matching []models.StorageItem
	for _, row := range rows {
		if row.ItemID == req.Msg.ItemID {
			matching = append(matching, row)
		}
	}
	views, err := s.aggregator.Join(ctx, matching)
	if err != nil {
		return nil, toConnectError(err)
	}

	names := make(map[string]string)
	shared := make([]models.SharedStorageItem, 0, len(views))
	for _, v := range views {
		name, ok := names[v.HouseholdID]
		if !ok {
			owner, err := s.store.GetHousehold(ctx, v.HouseholdID)
			if err != nil {
				return nil, toConnectError(err)
			}
			name = owner.Name
			names[v.HouseholdID] = name
		}
		shared = append(shared, models.SharedStorageItem{StorageItemView: v, HouseholdName: name})
	}

	return connect.NewResponse(&ListSharedByItemResponse{Batches: sharedToWire(shared)}), nil
}

// ListExpiring returns the caller's batches expiring within the next Days days.
func (s *InventoryService) ListExpiring(ctx context.Context, req *connect.Request[ListExpiringRequest]) (*connect.Response[ListExpiringResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Days < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("days cannot be negative, got %d", req.Msg.Days))
	}

	now := s.now()
	rows, err := s.store.ListExpiringStorageItems(ctx, householdID, now, now.AddDate(0, 0, req.Msg.Days))
	if err != nil {
		return nil, toConnectError(err)
	}
	views, err := s.aggregator.Join(ctx, rows)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ListExpiringResponse{Batches: viewsToWire(views)}), nil
}

// AddStorageItem creates a private batch for the caller.
func (s *InventoryService) AddStorageItem(ctx context.Context, req *connect.Request[AddStorageItemRequest]) (*connect.Response[AddStorageItemResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Quantity.IsNegative() {
		return nil, toConnectError(apperr.InvalidQuantity("quantity cannot be negative, got %s", req.Msg.Quantity))
	}

	item, err := s.catalog.GetItem(ctx, req.Msg.ItemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	batch := &models.StorageItem{
		ItemID:         item.ID,
		HouseholdID:    householdID,
		Quantity:       req.Msg.Quantity,
		ExpirationDate: req.Msg.ExpirationDate,
	}
	if err := s.store.CreateStorageItem(ctx, batch); err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Storage item added", "storage_item_id", batch.ID, "item_id", item.ID, "household_id", householdID)

	return connect.NewResponse(&AddStorageItemResponse{
		Batch: viewToWire(models.StorageItemView{StorageItem: *batch, Item: item}),
	}), nil
}

// UpdateStorageItem edits the quantity or expiry of a batch.
func (s *InventoryService) UpdateStorageItem(ctx context.Context, req *connect.Request[UpdateStorageItemRequest]) (*connect.Response[UpdateStorageItemResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	patch := sharing.Patch{Quantity: req.Msg.Quantity}
	switch {
	case req.Msg.ClearExpiration:
		patch.SetExpiration = true
	case req.Msg.ExpirationDate != nil:
		patch.SetExpiration = true
		patch.ExpirationDate = req.Msg.ExpirationDate
	}

	updated, err := s.resolver.Update(ctx, householdID, req.Msg.ID, patch)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&UpdateStorageItemResponse{Batch: storageItemToWire(updated)}), nil
}

// DeleteStorageItem removes a batch.
func (s *InventoryService) DeleteStorageItem(ctx context.Context, req *connect.Request[DeleteStorageItemRequest]) (*connect.Response[DeleteStorageItemResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Delete(ctx, householdID, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteStorageItemResponse{}), nil
}

// ChangeSharedStatus moves part or all of a batch between private and shared.
func (s *InventoryService) ChangeSharedStatus(ctx context.Context, req *connect.Request[ChangeSharedStatusRequest]) (*connect.Response[ChangeSharedStatusResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.resolver.ChangeSharedStatus(ctx, sharing.ChangeRequest{
		CallerHouseholdID: householdID,
		StorageItemID:     req.Msg.ID,
		Quantity:          req.Msg.Quantity,
		Share:             req.Msg.Share,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &ChangeSharedStatusResponse{Updated: storageItemToWire(result.Updated)}
	if result.Created != nil {
		created := storageItemToWire(*result.Created)
		resp.Created = &created
	}
	return connect.NewResponse(resp), nil
}

// GetReadiness reports how long the caller's stock lasts.
func (s *InventoryService) GetReadiness(ctx context.Context, req *connect.Request[GetReadinessRequest]) (*connect.Response[GetReadinessResponse], error) {
	householdID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListStorageItemsByHousehold(ctx, householdID)
	if err != nil {
		return nil, toConnectError(err)
	}
	result, err := s.readiness.ForHousehold(ctx, householdID, rows)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetReadinessResponse{
		Days:      result.Days,
		Hours:     result.Hours,
		TotalDays: result.TotalDays.Round(4),
	}), nil
}
