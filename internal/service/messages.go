package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/krisefikser/krisefikser/internal/inventory"
	"github.com/krisefikser/krisefikser/internal/models"
)

// Query selects and orders the rows of a listing.
type Query struct {
	// Types are item-type tokens (FOOD, DRINK, ACCESSORIES; any case).
	Types         []string `json:"types,omitempty"`
	Search        string   `json:"search,omitempty"`
	SortBy        string   `json:"sort_by,omitempty"`
	SortDirection string   `json:"sort_direction,omitempty"`
}

func (q Query) toInventory() inventory.Query {
	return inventory.Query{
		Types:         q.Types,
		Search:        q.Search,
		SortBy:        q.SortBy,
		SortDirection: q.SortDirection,
	}
}

// Item is a catalog entry.
type Item struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Unit            string `json:"unit"`
	CaloriesPerUnit int64  `json:"calories_per_unit"`
	Type            string `json:"type"`
}

// StorageItem is one batch. Quantities travel as decimal strings.
type StorageItem struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	HouseholdID    string          `json:"household_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	IsShared       bool            `json:"is_shared"`
	Version        int64           `json:"version"`
	Item           *Item           `json:"item,omitempty"`
}

// AggregatedItem sums the batches of one item.
type AggregatedItem struct {
	ItemID                 string          `json:"item_id"`
	Item                   Item            `json:"item"`
	TotalQuantity          decimal.Decimal `json:"total_quantity"`
	EarliestExpirationDate *time.Time      `json:"earliest_expiration_date,omitempty"`
}

// SharedBatch is a shared batch with the name of its household.
type SharedBatch struct {
	StorageItem
	HouseholdName string `json:"household_name"`
}

type ListAggregatedRequest struct {
	Query Query `json:"query"`
}

type ListAggregatedResponse struct {
	Items []AggregatedItem `json:"items"`
}

type ListBatchesRequest struct {
	Query Query `json:"query"`
}

type ListBatchesResponse struct {
	Batches []StorageItem `json:"batches"`
}

type ListSharedInGroupRequest struct {
	Query Query `json:"query"`
}

type ListSharedInGroupResponse struct {
	// GroupID is empty when the caller is not in a group.
	GroupID string           `json:"group_id"`
	Items   []AggregatedItem `json:"items"`
}

type ListSharedByItemRequest struct {
	ItemID string `json:"item_id"`
}

type ListSharedByItemResponse struct {
	Batches []SharedBatch `json:"batches"`
}

type ListExpiringRequest struct {
	// Days is the look-ahead window. Zero means batches expiring today.
	Days int `json:"days"`
}

type ListExpiringResponse struct {
	Batches []StorageItem `json:"batches"`
}

type AddStorageItemRequest struct {
	ItemID         string          `json:"item_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

type AddStorageItemResponse struct {
	Batch StorageItem `json:"batch"`
}

type UpdateStorageItemRequest struct {
	ID             string           `json:"id"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	// ClearExpiration removes the expiry. It wins over ExpirationDate.
	ClearExpiration bool `json:"clear_expiration,omitempty"`
}

type UpdateStorageItemResponse struct {
	Batch StorageItem `json:"batch"`
}

type DeleteStorageItemRequest struct {
	ID string `json:"id"`
}

type DeleteStorageItemResponse struct{}

type ChangeSharedStatusRequest struct {
	ID       string          `json:"id"`
	Quantity decimal.Decimal `json:"quantity"`
	Share    bool            `json:"share"`
}

type ChangeSharedStatusResponse struct {
	Updated StorageItem `json:"updated"`
	// Created is set when the batch was split.
	Created *StorageItem `json:"created,omitempty"`
}

type GetReadinessRequest struct{}

type GetReadinessResponse struct {
	Days      int             `json:"days"`
	Hours     int             `json:"hours"`
	TotalDays decimal.Decimal `json:"total_days"`
}

func itemToWire(item models.Item) Item {
	return Item{
		ID:              item.ID,
		Name:            item.Name,
		Unit:            item.Unit,
		CaloriesPerUnit: item.CaloriesPerUnit,
		Type:            string(item.Type),
	}
}

func storageItemToWire(s models.StorageItem) StorageItem {
	return StorageItem{
		ID:             s.ID,
		ItemID:         s.ItemID,
		HouseholdID:    s.HouseholdID,
		Quantity:       s.Quantity,
		ExpirationDate: s.ExpirationDate,
		IsShared:       s.IsShared,
		Version:        s.Version,
	}
}

func viewToWire(v models.StorageItemView) StorageItem {
	out := storageItemToWire(v.StorageItem)
	item := itemToWire(v.Item)
	out.Item = &item
	return out
}

func viewsToWire(views []models.StorageItemView) []StorageItem {
	out := make([]StorageItem, len(views))
	for i, v := range views {
		out[i] = viewToWire(v)
	}
	return out
}

func aggregatesToWire(rows []models.AggregatedStorageItem) []AggregatedItem {
	out := make([]AggregatedItem, len(rows))
	for i, r := range rows {
		out[i] = AggregatedItem{
			ItemID:                 r.ItemID,
			Item:                   itemToWire(r.Item),
			TotalQuantity:          r.TotalQuantity,
			EarliestExpirationDate: r.EarliestExpirationDate,
		}
	}
	return out
}

func sharedToWire(rows []models.SharedStorageItem) []SharedBatch {
	out := make([]SharedBatch, len(rows))
	for i, r := range rows {
		out[i] = SharedBatch{StorageItem: viewToWire(r.StorageItemView), HouseholdName: r.HouseholdName}
	}
	return out
}
