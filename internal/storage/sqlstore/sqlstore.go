// Package sqlstore implements storage.Store on top of database/sql.
//
// Queries are written once with ? placeholders and rebound for the target
// dialect. The sqlite and postgres packages open the connection, apply
// their schema and hand the *sql.DB to New.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/krisefikser/krisefikser/internal/apperr"
	"github.com/krisefikser/krisefikser/internal/models"
	"github.com/krisefikser/krisefikser/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Dialect selects the placeholder syntax.
type Dialect int

const (
	// SQLite uses ? placeholders.
	SQLite Dialect = iota
	// Postgres uses $1, $2, ... placeholders.
	Postgres
)

// Rebind rewrites the ? placeholders of query for the dialect.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store implements storage.Store over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open, migrated database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// CreateItem adds an item to the catalog.
func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	_, err := s.exec(ctx, s.db,
		"INSERT INTO items (id, name, unit, calories_per_unit, type) VALUES (?, ?, ?, ?, ?)",
		item.ID, item.Name, item.Unit, item.CaloriesPerUnit, string(item.Type),
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// GetItem retrieves a catalog item by ID.
func (s *Store) GetItem(ctx context.Context, itemID string) (models.Item, error) {
	var item models.Item
	var itemType string
	err := s.queryRow(ctx, s.db,
		"SELECT id, name, unit, calories_per_unit, type FROM items WHERE id = ?",
		itemID,
	).Scan(&item.ID, &item.Name, &item.Unit, &item.CaloriesPerUnit, &itemType)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, apperr.NotFound("item not found: %s", itemID)
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("failed to get item: %w", err)
	}
	item.Type = models.ItemType(itemType)
	return item, nil
}

// CreateEmergencyGroup persists a new group. Membership is managed with
// SetHouseholdGroup.
func (s *Store) CreateEmergencyGroup(ctx context.Context, group *models.EmergencyGroup) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	_, err := s.exec(ctx, s.db,
		"INSERT INTO emergency_groups (id, name, created_at) VALUES (?, ?, ?)",
		group.ID, group.Name, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert emergency group: %w", err)
	}
	return nil
}

// GetEmergencyGroup retrieves a group and the households currently in it.
func (s *Store) GetEmergencyGroup(ctx context.Context, groupID string) (models.EmergencyGroup, error) {
	var group models.EmergencyGroup
	err := s.queryRow(ctx, s.db,
		"SELECT id, name, created_at FROM emergency_groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EmergencyGroup{}, apperr.NotFound("emergency group not found: %s", groupID)
	}
	if err != nil {
		return models.EmergencyGroup{}, fmt.Errorf("failed to get emergency group: %w", err)
	}

	rows, err := s.query(ctx, s.db,
		"SELECT id FROM households WHERE emergency_group_id = ? ORDER BY id",
		groupID,
	)
	if err != nil {
		return models.EmergencyGroup{}, fmt.Errorf("failed to get group households: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return models.EmergencyGroup{}, fmt.Errorf("failed to scan household id: %w", err)
		}
		group.HouseholdIDs = append(group.HouseholdIDs, id)
	}
	if err := rows.Err(); err != nil {
		return models.EmergencyGroup{}, fmt.Errorf("failed to iterate group households: %w", err)
	}

	return group, nil
}

// CreateHousehold persists a new household.
func (s *Store) CreateHousehold(ctx context.Context, household *models.Household) error {
	if household.ID == "" {
		household.ID = uuid.New().String()
	}
	_, err := s.exec(ctx, s.db,
		"INSERT INTO households (id, name, member_count, emergency_group_id) VALUES (?, ?, ?, ?)",
		household.ID, household.Name, household.MemberCount, nullString(household.EmergencyGroupID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert household: %w", err)
	}
	return nil
}

// SetHouseholdGroup moves a household into groupID, or out of any group
// when groupID is empty.
func (s *Store) SetHouseholdGroup(ctx context.Context, householdID, groupID string) error {
	res, err := s.exec(ctx, s.db,
		"UPDATE households SET emergency_group_id = ? WHERE id = ?",
		nullString(groupID), householdID,
	)
	if err != nil {
		return fmt.Errorf("failed to update household group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("household not found: %s", householdID)
	}
	return nil
}

// GetHousehold retrieves a household by ID.
func (s *Store) GetHousehold(ctx context.Context, householdID string) (models.Household, error) {
	var h models.Household
	var groupID sql.NullString
	err := s.queryRow(ctx, s.db,
		"SELECT id, name, member_count, emergency_group_id FROM households WHERE id = ?",
		householdID,
	).Scan(&h.ID, &h.Name, &h.MemberCount, &groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Household{}, apperr.NotFound("household not found: %s", householdID)
	}
	if err != nil {
		return models.Household{}, fmt.Errorf("failed to get household: %w", err)
	}
	h.EmergencyGroupID = groupID.String
	return h, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
