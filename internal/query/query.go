// Package query filters, searches, sorts and pages in-memory record lists.
// Every function returns a new slice and leaves its input untouched.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/garyjia/erp-admin-console/internal/domain/entity"
)

// Record exposes the fields a list can be filtered, searched and sorted on
type Record interface {
	// Text returns the string value of field, false when the field is unknown
	Text(field string) (string, bool)
	// Number returns the numeric value of field, false when the field is unknown
	Number(field string) (float64, bool)
	// SearchText returns the fields free-text search matches against
	SearchText() []string
}

// Order is a sort direction
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder normalises a raw order string, defaulting to Asc
func ParseOrder(raw string) Order {
	if strings.EqualFold(strings.TrimSpace(raw), string(Desc)) {
		return Desc
	}
	return Asc
}

// FilterByField keeps records whose field equals value exactly.
// The "All" sentinel keeps everything.
func FilterByField[T Record](items []T, field, value string) []T {
	if value == entity.FilterAll {
		return slices.Clone(items)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if v, ok := item.Text(field); ok && v == value {
			out = append(out, item)
		}
	}
	return out
}

// Search keeps records with any search field containing q, ignoring case
func Search[T Record](items []T, q string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return slices.Clone(items)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, text := range item.SearchText() {
			if strings.Contains(strings.ToLower(text), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Sort orders records by key. Numeric keys compare numerically, text keys
// compare case-insensitively. An unknown key keeps the input order. Records
// with equal keys keep their input order in both directions, so flipping the
// order reverses distinct keys but not ties.
func Sort[T Record](items []T, key string, order Order) []T {
	out := slices.Clone(items)
	if len(out) == 0 {
		return out
	}

	var compare func(a, b T) int
	if _, ok := out[0].Number(key); ok {
		compare = func(a, b T) int {
			x, _ := a.Number(key)
			y, _ := b.Number(key)
			return cmp.Compare(x, y)
		}
	} else if _, ok := out[0].Text(key); ok {
		compare = func(a, b T) int {
			x, _ := a.Text(key)
			y, _ := b.Text(key)
			return strings.Compare(strings.ToLower(x), strings.ToLower(y))
		}
	} else {
		return out
	}

	if order == Desc {
		asc := compare
		compare = func(a, b T) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

// Paginate returns the 1-based page of items and the total count
func Paginate[T any](items []T, page, pageSize int) entity.Page[T] {
	page, pageSize = entity.NormalizePage(page, pageSize)
	total := len(items)

	// Compare before multiplying so a huge page number cannot overflow
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}

	return entity.Page[T]{
		Items:    slices.Clone(items[start:end]),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
