package inventory

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krisefikser/krisefikser/internal/models"
)

// Row is anything the filter/search/sort pipeline can work on: joined raw
// batches and item aggregates both qualify.
type Row interface {
	CatalogItem() models.Item
	Amount() decimal.Decimal
	ExpiresAt() *time.Time
}

// SortField selects the sort key.
type SortField int

const (
	SortByName SortField = iota
	SortByQuantity
	SortByCalories
	SortByExpirationDate
)

// ParseSortField maps a request token to a SortField. Unknown or empty
// tokens sort by name.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quantity", "totalquantity":
		return SortByQuantity
	case "calories":
		return SortByCalories
	case "expirationdate":
		return SortByExpirationDate
	default:
		return SortByName
	}
}

// SortDirection orders results ascending or descending.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// ParseSortDirection maps "desc" (any case) to Descending and anything else
// to Ascending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return Descending
	}
	return Ascending
}

// Query is a display request as it arrives from a caller.
type Query struct {
	// Types holds the raw item-type tokens. Nil or empty means no filtering.
	Types []string

	// Search is matched case-insensitively against item names.
	Search string

	SortBy        string
	SortDirection string
}

// Apply runs filter, then search, then sort. rows is left untouched.
//
// A non-empty Types list in which no token names a known type matches
// nothing: the caller asked for a filter, it just named no valid type.
func Apply[R Row](rows []R, q Query) []R {
	types := ParseItemTypes(q.Types)
	if len(q.Types) > 0 && len(types) == 0 {
		return []R{}
	}

	out := Filter(rows, types)
	out = Search(out, q.Search)
	return Sort(out, ParseSortField(q.SortBy), ParseSortDirection(q.SortDirection))
}

// ParseItemTypes converts type tokens, dropping the ones that name no known
// type. Duplicates collapse.
func ParseItemTypes(tokens []string) []models.ItemType {
	var types []models.ItemType
	for _, token := range tokens {
		t, ok := models.ParseItemType(token)
		if ok && !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	return types
}

// Filter keeps rows whose item type is in types. An empty set keeps every row.
func Filter[R Row](rows []R, types []models.ItemType) []R {
	if len(types) == 0 {
		return slices.Clone(rows)
	}
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if slices.Contains(types, row.CatalogItem().Type) {
			out = append(out, row)
		}
	}
	return out
}

// Search keeps rows whose item name contains term, ignoring case.
// A blank term keeps every row.
func Search[R Row](rows []R, term string) []R {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return slices.Clone(rows)
	}
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.CatalogItem().Name), term) {
			out = append(out, row)
		}
	}
	return out
}

// Sort returns a stably sorted copy of rows.
//
// Rows without an expiration date count as expiring last: they come after
// every dated row ascending, and before them descending.
func Sort[R Row](rows []R, field SortField, dir SortDirection) []R {
	compare := comparator[R](field)
	if dir == Descending {
		asc := compare
		compare = func(a, b R) int { return asc(b, a) }
	}

	out := slices.Clone(rows)
	slices.SortStableFunc(out, compare)
	return out
}

func comparator[R Row](field SortField) func(a, b R) int {
	switch field {
	case SortByQuantity:
		return func(a, b R) int {
			return a.Amount().Cmp(b.Amount())
		}
	case SortByCalories:
		return func(a, b R) int {
			return cmp.Compare(a.CatalogItem().CaloriesPerUnit, b.CatalogItem().CaloriesPerUnit)
		}
	case SortByExpirationDate:
		return func(a, b R) int {
			return compareExpiry(a.ExpiresAt(), b.ExpiresAt())
		}
	default:
		return func(a, b R) int {
			return strings.Compare(strings.ToLower(a.CatalogItem().Name), strings.ToLower(b.CatalogItem().Name))
		}
	}
}

func compareExpiry(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
