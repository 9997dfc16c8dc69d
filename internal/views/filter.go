// Package views holds the display-side logic of the vendor pages: local
// list filters, dashboard counters and request sequencing.
package views

import (
	"errors"
	"fmt"
)

// ErrUnknownFilter is returned by ParseFilter for unsupported tags.
var ErrUnknownFilter = errors.New("unknown filter")

type Filter string

const (
	All        Filter = "all"
	LowStock   Filter = "low-stock"
	OutOfStock Filter = "out-of-stock"
)

// ParseFilter maps a query value to a Filter; the empty string means All.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", All:
		return All, nil
	case LowStock, OutOfStock:
		return Filter(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
}

// StockLevel is implemented by SKUs and inventory items.
type StockLevel interface {
	Stock() int
	Threshold() int
}

// Matches reports whether item belongs to the filtered view. An item
// exactly at its reorder threshold is low on stock.
func (f Filter) Matches(item StockLevel) bool {
	switch f {
	case LowStock:
		return item.Stock() <= item.Threshold()
	case OutOfStock:
		return item.Stock() == 0
	}
	return true
}

// Apply returns a new slice with the matching items in their original
// order. items is never modified.
func Apply[T StockLevel](items []T, f Filter) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}
