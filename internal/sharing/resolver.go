// Package sharing governs a batch's private/shared flag and who may change
// or remove a batch.
//
// A batch is PRIVATE (IsShared=false) or SHARED (IsShared=true). Moving part
// of a batch to the other state splits it in two; moving all of it flips the
// flag in place. Quantity is conserved either way: the batch's quantity
// before the change equals the sum of the resulting batches' quantities.
//
// Every mutation is a read-modify-write guarded by the batch version. When
// another request changed the batch in between, the store rejects the write
// and the caller receives an apperr.KindConflict error. Nothing is retried here.
package sharing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krisefikser/krisefikser/internal/apperr"
	"github.com/krisefikser/krisefikser/internal/models"
	"github.com/krisefikser/krisefikser/internal/storage"
)

// Observer is notified about completed transitions and conflicts.
// It is satisfied by *metrics.Metrics.
type Observer interface {
	SharedStatusChanged(split bool)
	ConflictDetected(operation string)
}

type noopObserver struct{}

func (noopObserver) SharedStatusChanged(bool) {}
func (noopObserver) ConflictDetected(string)  {}

// Resolver applies shared-status transitions and the ownership rule.
type Resolver struct {
	store     storage.InventoryStore
	directory storage.HouseholdDirectory
	observer  Observer
}

// NewResolver creates a Resolver. observer may be nil.
func NewResolver(store storage.InventoryStore, directory storage.HouseholdDirectory, observer Observer) *Resolver {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Resolver{store: store, directory: directory, observer: observer}
}

// ChangeRequest asks to move Quantity of a batch into the Share state.
type ChangeRequest struct {
	// CallerHouseholdID is the household making the request.
	CallerHouseholdID string

	StorageItemID string
	Quantity      decimal.Decimal
	Share         bool
}

// SplitResult is the outcome of a transition. Created is nil when the batch
// was flipped in place.
type SplitResult struct {
	Updated models.StorageItem
	Created *models.StorageItem
}

// ChangeSharedStatus moves req.Quantity of a batch into the requested state.
//
//   - Quantity equal to the batch quantity flips IsShared on the batch itself.
//   - A smaller quantity splits the batch: the original keeps its ID, flag
//     and expiry with its quantity reduced, and a new batch with a fresh ID
//     holds the moved quantity in the requested state.
//
// Only the owning household may do this. Checks run in this order:
// NotFound, Unauthorized, AlreadyInRequestedState, InvalidQuantity.
func (r *Resolver) ChangeSharedStatus(ctx context.Context, req ChangeRequest) (SplitResult, error) {
	item, err := r.store.GetStorageItem(ctx, req.StorageItemID)
	if err != nil {
		return SplitResult{}, err
	}

	if item.HouseholdID != req.CallerHouseholdID {
		return SplitResult{}, apperr.Unauthorized("household %s may not change the shared status of storage item %s",
			req.CallerHouseholdID, item.ID)
	}

	result, err := Plan(item, req.Quantity, req.Share)
	if err != nil {
		return SplitResult{}, err
	}

	if result.Created == nil {
		err = r.store.UpdateStorageItem(ctx, &result.Updated)
	} else {
		err = r.store.SplitStorageItem(ctx, &result.Updated, result.Created)
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			r.observer.ConflictDetected("change_shared_status")
		}
		return SplitResult{}, err
	}

	r.observer.SharedStatusChanged(result.Created != nil)
	slog.Info("Shared status changed",
		"storage_item_id", item.ID,
		"household_id", item.HouseholdID,
		"quantity", req.Quantity.String(),
		"shared", req.Share,
		"split", result.Created != nil,
	)

	return result, nil
}

// Plan computes the outcome of moving q of item into state share without
// touching any store. item is not modified.
func Plan(item models.StorageItem, q decimal.Decimal, share bool) (SplitResult, error) {
	if item.IsShared == share {
		return SplitResult{}, apperr.AlreadyInRequestedState("storage item %s already has shared=%t", item.ID, share)
	}
	if !q.IsPositive() || q.GreaterThan(item.Quantity) {
		return SplitResult{}, apperr.InvalidQuantity("cannot move %s of storage item %s holding %s", q, item.ID, item.Quantity)
	}

	updated := item.Clone()
	if q.Equal(item.Quantity) {
		updated.IsShared = share
		return SplitResult{Updated: updated}, nil
	}

	updated.Quantity = item.Quantity.Sub(q)
	created := item.Clone()
	created.ID = ""
	created.Version = 0
	created.Quantity = q
	created.IsShared = share

	return SplitResult{Updated: updated, Created: &created}, nil
}

// Authorize reports whether callerHouseholdID may mutate or delete item.
//
// The owner always may. For a shared batch whose owner currently belongs to
// a group, so may every household currently in that same group. Membership
// is read now, not when the batch was shared.
func (r *Resolver) Authorize(ctx context.Context, callerHouseholdID string, item models.StorageItem) error {
	if item.HouseholdID == callerHouseholdID {
		return nil
	}
	denied := apperr.Unauthorized("household %s may not modify storage item %s", callerHouseholdID, item.ID)
	if !item.IsShared {
		return denied
	}

	owner, err := r.directory.GetHousehold(ctx, item.HouseholdID)
	if err != nil {
		return fmt.Errorf("failed to get owning household: %w", err)
	}
	if owner.EmergencyGroupID == "" {
		return denied
	}

	caller, err := r.directory.GetHousehold(ctx, callerHouseholdID)
	if err != nil {
		return fmt.Errorf("failed to get calling household: %w", err)
	}
	if !caller.InGroup(owner.EmergencyGroupID) {
		return denied
	}
	return nil
}

// Patch holds the editable fields of a batch. Nil fields are left unchanged.
type Patch struct {
	Quantity *decimal.Decimal

	// ExpirationDate replaces the expiry when SetExpiration is true; a nil
	// value then clears it.
	ExpirationDate *time.Time
	SetExpiration  bool
}

// Update applies patch to a batch the caller is allowed to modify.
func (r *Resolver) Update(ctx context.Context, callerHouseholdID, storageItemID string, patch Patch) (models.StorageItem, error) {
	item, err := r.store.GetStorageItem(ctx, storageItemID)
	if err != nil {
		return models.StorageItem{}, err
	}
	if err := r.Authorize(ctx, callerHouseholdID, item); err != nil {
		return models.StorageItem{}, err
	}

	updated := item.Clone()
	if patch.Quantity != nil {
		if patch.Quantity.IsNegative() {
			return models.StorageItem{}, apperr.InvalidQuantity("quantity cannot be negative, got %s", patch.Quantity)
		}
		updated.Quantity = *patch.Quantity
	}
	if patch.SetExpiration {
		updated.ExpirationDate = patch.ExpirationDate
	}

	if err := r.store.UpdateStorageItem(ctx, &updated); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			r.observer.ConflictDetected("update")
		}
		return models.StorageItem{}, err
	}
	return updated, nil
}

// Delete removes a batch the caller is allowed to modify. The delete only
// applies to the version that was authorized.
func (r *Resolver) Delete(ctx context.Context, callerHouseholdID, storageItemID string) error {
	item, err := r.store.GetStorageItem(ctx, storageItemID)
	if err != nil {
		return err
	}
	if err := r.Authorize(ctx, callerHouseholdID, item); err != nil {
		return err
	}

	if err := r.store.DeleteStorageItem(ctx, item.ID, item.HouseholdID, item.Version); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			r.observer.ConflictDetected("delete")
		}
		return err
	}
	slog.Info("Storage item deleted",
		"storage_item_id", item.ID,
		"owner_household_id", item.HouseholdID,
		"caller_household_id", callerHouseholdID,
	)
	return nil
}
