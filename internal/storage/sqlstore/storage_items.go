package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/krisefikser/krisefikser/internal/apperr"
	"github.com/krisefikser/krisefikser/internal/models"
)

const storageItemColumns = "s.id, s.item_id, s.household_id, s.quantity, s.expiration_date, s.is_shared, s.version"

// ListStorageItemsByHousehold returns every batch owned by a household.
func (s *Store) ListStorageItemsByHousehold(ctx context.Context, householdID string) ([]models.StorageItem, error) {
	return s.listStorageItems(ctx,
		"SELECT "+storageItemColumns+" FROM storage_items s WHERE s.household_id = ? ORDER BY s.item_id, s.id",
		householdID,
	)
}

// ListSharedStorageItemsByGroup returns the shared batches of every
// household currently in the group.
func (s *Store) ListSharedStorageItemsByGroup(ctx context.Context, groupID string) ([]models.StorageItem, error) {
	return s.listStorageItems(ctx,
		"SELECT "+storageItemColumns+` FROM storage_items s
		JOIN households h ON h.id = s.household_id
		WHERE h.emergency_group_id = ? AND s.is_shared = ?
		ORDER BY s.item_id, s.id`,
		groupID, true,
	)
}

// ListExpiringStorageItems returns a household's batches whose expiry
// falls within [from, to], soonest first.
func (s *Store) ListExpiringStorageItems(ctx context.Context, householdID string, from, to time.Time) ([]models.StorageItem, error) {
	return s.listStorageItems(ctx,
		"SELECT "+storageItemColumns+` FROM storage_items s
		WHERE s.household_id = ? AND s.expiration_date IS NOT NULL
		AND s.expiration_date >= ? AND s.expiration_date <= ?
		ORDER BY s.expiration_date, s.id`,
		householdID, from.Unix(), to.Unix(),
	)
}

func (s *Store) listStorageItems(ctx context.Context, query string, args ...any) ([]models.StorageItem, error) {
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage items: %w", err)
	}
	defer rows.Close()

	var items []models.StorageItem
	for rows.Next() {
		item, err := scanStorageItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage items: %w", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStorageItem(row scanner) (models.StorageItem, error) {
	var item models.StorageItem
	var exp sql.NullInt64
	if err := row.Scan(&item.ID, &item.ItemID, &item.HouseholdID, &item.Quantity, &exp, &item.IsShared, &item.Version); err != nil {
		return models.StorageItem{}, fmt.Errorf("failed to scan storage item: %w", err)
	}
	if exp.Valid {
		t := time.Unix(exp.Int64, 0).UTC()
		item.ExpirationDate = &t
	}
	return item, nil
}

// expiry stores dates as unix seconds; nil is NULL.
func expiry(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

// GetStorageItem retrieves a batch by ID.
func (s *Store) GetStorageItem(ctx context.Context, id string) (models.StorageItem, error) {
	item, err := scanStorageItem(s.queryRow(ctx, s.db,
		"SELECT "+storageItemColumns+" FROM storage_items s WHERE s.id = ?",
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StorageItem{}, apperr.NotFound("storage item not found: %s", id)
	}
	if err != nil {
		return models.StorageItem{}, err
	}
	return item, nil
}

// CreateStorageItem persists a new batch and assigns its ID and version.
func (s *Store) CreateStorageItem(ctx context.Context, item *models.StorageItem) error {
	return s.insertStorageItem(ctx, s.db, item)
}

func (s *Store) insertStorageItem(ctx context.Context, q querier, item *models.StorageItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.Version = 1

	_, err := s.exec(ctx, q,
		`INSERT INTO storage_items (id, item_id, household_id, quantity, expiration_date, is_shared, version)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ItemID, item.HouseholdID, item.Quantity, expiry(item.ExpirationDate), item.IsShared, item.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert storage item: %w", err)
	}
	return nil
}

// UpdateStorageItem writes quantity, expiry and shared flag if the stored
// version still matches item.Version, then advances item.Version.
func (s *Store) UpdateStorageItem(ctx context.Context, item *models.StorageItem) error {
	if err := s.updateStorageItem(ctx, s.db, item); err != nil {
		return err
	}
	item.Version++
	return nil
}

func (s *Store) updateStorageItem(ctx context.Context, q querier, item *models.StorageItem) error {
	res, err := s.exec(ctx, q,
		`UPDATE storage_items SET quantity = ?, expiration_date = ?, is_shared = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		item.Quantity, expiry(item.ExpirationDate), item.IsShared, item.ID, item.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update storage item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing matched: either the batch is gone or its version moved on.
	var one int
	err = s.queryRow(ctx, q, "SELECT 1 FROM storage_items WHERE id = ?", item.ID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("storage item not found: %s", item.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to check storage item: %w", err)
	}
	return apperr.Conflict("storage item %s was modified concurrently (version %d is stale)", item.ID, item.Version)
}

// SplitStorageItem updates remainder and inserts created in one transaction.
// remainder follows the rules of UpdateStorageItem.
func (s *Store) SplitStorageItem(ctx context.Context, remainder, created *models.StorageItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.updateStorageItem(ctx, tx, remainder); err != nil {
		return err
	}

	inserted := *created
	if err := s.insertStorageItem(ctx, tx, &inserted); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	remainder.Version++
	*created = inserted
	return nil
}

// DeleteStorageItem removes a batch owned by householdID if the stored
// version still matches.
func (s *Store) DeleteStorageItem(ctx context.Context, id, householdID string, version int64) error {
	res, err := s.exec(ctx, s.db,
		"DELETE FROM storage_items WHERE id = ? AND household_id = ? AND version = ?",
		id, householdID, version,
	)
	if err != nil {
		return fmt.Errorf("failed to delete storage item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var one int
	err = s.queryRow(ctx, s.db,
		"SELECT 1 FROM storage_items WHERE id = ? AND household_id = ?",
		id, householdID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("storage item not found: %s", id)
	}
	if err != nil {
		return fmt.Errorf("failed to check storage item: %w", err)
	}
	return apperr.Conflict("storage item %s was modified concurrently (version %d is stale)", id, version)
}
