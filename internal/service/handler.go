package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// InventoryServiceName is the fully-qualified name of the inventory service.
const InventoryServiceName = "krisefikser.v1.InventoryService"

// Procedure paths of the inventory service.
const (
	ListAggregatedProcedure     = "/" + InventoryServiceName + "/ListAggregated"
	ListBatchesProcedure        = "/" + InventoryServiceName + "/ListBatches"
	ListSharedInGroupProcedure  = "/" + InventoryServiceName + "/ListSharedInGroup"
	ListSharedByItemProcedure   = "/" + InventoryServiceName + "/ListSharedByItem"
	ListExpiringProcedure       = "/" + InventoryServiceName + "/ListExpiring"
	AddStorageItemProcedure     = "/" + InventoryServiceName + "/AddStorageItem"
	UpdateStorageItemProcedure  = "/" + InventoryServiceName + "/UpdateStorageItem"
	DeleteStorageItemProcedure  = "/" + InventoryServiceName + "/DeleteStorageItem"
	ChangeSharedStatusProcedure = "/" + InventoryServiceName + "/ChangeSharedStatus"
	GetReadinessProcedure       = "/" + InventoryServiceName + "/GetReadiness"
)

// NewInventoryServiceHandler builds an HTTP handler serving every procedure
// of svc. It returns the path to mount the handler on.
func NewInventoryServiceHandler(svc *InventoryService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	handlers := map[string]http.Handler{
		ListAggregatedProcedure:     connect.NewUnaryHandler(ListAggregatedProcedure, svc.ListAggregated, opts...),
		ListBatchesProcedure:        connect.NewUnaryHandler(ListBatchesProcedure, svc.ListBatches, opts...),
		ListSharedInGroupProcedure:  connect.NewUnaryHandler(ListSharedInGroupProcedure, svc.ListSharedInGroup, opts...),
		ListSharedByItemProcedure:   connect.NewUnaryHandler(ListSharedByItemProcedure, svc.ListSharedByItem, opts...),
		ListExpiringProcedure:       connect.NewUnaryHandler(ListExpiringProcedure, svc.ListExpiring, opts...),
		AddStorageItemProcedure:     connect.NewUnaryHandler(AddStorageItemProcedure, svc.AddStorageItem, opts...),
		UpdateStorageItemProcedure:  connect.NewUnaryHandler(UpdateStorageItemProcedure, svc.UpdateStorageItem, opts...),
		DeleteStorageItemProcedure:  connect.NewUnaryHandler(DeleteStorageItemProcedure, svc.DeleteStorageItem, opts...),
		ChangeSharedStatusProcedure: connect.NewUnaryHandler(ChangeSharedStatusProcedure, svc.ChangeSharedStatus, opts...),
		GetReadinessProcedure:       connect.NewUnaryHandler(GetReadinessProcedure, svc.GetReadiness, opts...),
	}

	return "/" + InventoryServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// InventoryServiceClient calls the inventory service over Connect.
type InventoryServiceClient struct {
	listAggregated     *connect.Client[ListAggregatedRequest, ListAggregatedResponse]
	listBatches        *connect.Client[ListBatchesRequest, ListBatchesResponse]
	listSharedInGroup  *connect.Client[ListSharedInGroupRequest, ListSharedInGroupResponse]
	listSharedByItem   *connect.Client[ListSharedByItemRequest, ListSharedByItemResponse]
	listExpiring       *connect.Client[ListExpiringRequest, ListExpiringResponse]
	addStorageItem     *connect.Client[AddStorageItemRequest, AddStorageItemResponse]
	updateStorageItem  *connect.Client[UpdateStorageItemRequest, UpdateStorageItemResponse]
	deleteStorageItem  *connect.Client[DeleteStorageItemRequest, DeleteStorageItemResponse]
	changeSharedStatus *connect.Client[ChangeSharedStatusRequest, ChangeSharedStatusResponse]
	getReadiness       *connect.Client[GetReadinessRequest, GetReadinessResponse]
}

// NewInventoryServiceClient creates a client for the service at baseURL.
func NewInventoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *InventoryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &InventoryServiceClient{
		listAggregated:     connect.NewClient[ListAggregatedRequest, ListAggregatedResponse](httpClient, baseURL+ListAggregatedProcedure, opts...),
		listBatches:        connect.NewClient[ListBatchesRequest, ListBatchesResponse](httpClient, baseURL+ListBatchesProcedure, opts...),
		listSharedInGroup:  connect.NewClient[ListSharedInGroupRequest, ListSharedInGroupResponse](httpClient, baseURL+ListSharedInGroupProcedure, opts...),
		listSharedByItem:   connect.NewClient[ListSharedByItemRequest, ListSharedByItemResponse](httpClient, baseURL+ListSharedByItemProcedure, opts...),
		listExpiring:       connect.NewClient[ListExpiringRequest, ListExpiringResponse](httpClient, baseURL+ListExpiringProcedure, opts...),
		addStorageItem:     connect.NewClient[AddStorageItemRequest, AddStorageItemResponse](httpClient, baseURL+AddStorageItemProcedure, opts...),
		updateStorageItem:  connect.NewClient[UpdateStorageItemRequest, UpdateStorageItemResponse](httpClient, baseURL+UpdateStorageItemProcedure, opts...),
		deleteStorageItem:  connect.NewClient[DeleteStorageItemRequest, DeleteStorageItemResponse](httpClient, baseURL+DeleteStorageItemProcedure, opts...),
		changeSharedStatus: connect.NewClient[ChangeSharedStatusRequest, ChangeSharedStatusResponse](httpClient, baseURL+ChangeSharedStatusProcedure, opts...),
		getReadiness:       connect.NewClient[GetReadinessRequest, GetReadinessResponse](httpClient, baseURL+GetReadinessProcedure, opts...),
	}
}

func (c *InventoryServiceClient) ListAggregated(ctx context.Context, req *connect.Request[ListAggregatedRequest]) (*connect.Response[ListAggregatedResponse], error) {
	return c.listAggregated.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) ListBatches(ctx context.Context, req *connect.Request[ListBatchesRequest]) (*connect.Response[ListBatchesResponse], error) {
	return c.listBatches.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) ListSharedInGroup(ctx context.Context, req *connect.Request[ListSharedInGroupRequest]) (*connect.Response[ListSharedInGroupResponse], error) {
	return c.listSharedInGroup.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) ListSharedByItem(ctx context.Context, req *connect.Request[ListSharedByItemRequest]) (*connect.Response[ListSharedByItemResponse], error) {
	return c.listSharedByItem.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) ListExpiring(ctx context.Context, req *connect.Request[ListExpiringRequest]) (*connect.Response[ListExpiringResponse], error) {
	return c.listExpiring.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) AddStorageItem(ctx context.Context, req *connect.Request[AddStorageItemRequest]) (*connect.Response[AddStorageItemResponse], error) {
	return c.addStorageItem.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) UpdateStorageItem(ctx context.Context, req *connect.Request[UpdateStorageItemRequest]) (*connect.Response[UpdateStorageItemResponse], error) {
	return c.updateStorageItem.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) DeleteStorageItem(ctx context.Context, req *connect.Request[DeleteStorageItemRequest]) (*connect.Response[DeleteStorageItemResponse], error) {
	return c.deleteStorageItem.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) ChangeSharedStatus(ctx context.Context, req *connect.Request[ChangeSharedStatusRequest]) (*connect.Response[ChangeSharedStatusResponse], error) {
	return c.changeSharedStatus.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) GetReadiness(ctx context.Context, req *connect.Request[GetReadinessRequest]) (*connect.Response[GetReadinessResponse], error) {
	return c.getReadiness.CallUnary(ctx, req)
}
