// Package stock implements the stock adjustment flow: validate a quantity
// delta, classify it, attach the vendor identity and submit it. The server
// stays the authority for stock levels; nothing here computes one.
package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
)

// ErrInvalidAdjustment is returned before any request is issued.
var ErrInvalidAdjustment = errors.New("invalid adjustment")

// IdentitySource resolves the current vendor identity.
type IdentitySource interface {
	VendorIdentity(ctx context.Context) (string, error)
}

// InventoryAPI is the subset of the inventory endpoints the flow needs.
type InventoryAPI interface {
	Adjust(ctx context.Context, productID, sku string, req models.AdjustmentRequest) (client.Ack, error)
	Get(ctx context.Context, productID, sku string) (models.InventoryItem, error)
}

// Result is the advisory outcome of a submitted adjustment. Ack is the raw
// server acknowledgment; call Reload for the authoritative stock level.
type Result struct {
	ProductID string
	SKU       string
	VendorID  string
	Delta     float64
	Kind      string
	Ack       client.Ack
}

type Adjuster struct {
	identity IdentitySource
	api      InventoryAPI
	observe  func(kind string, err error)
}

func NewAdjuster(identity IdentitySource, api InventoryAPI) *Adjuster {
	return &Adjuster{identity: identity, api: api}
}

// WithObserver registers a hook called once per submitted adjustment.
func (a *Adjuster) WithObserver(f func(kind string, err error)) *Adjuster {
	a.observe = f
	return a
}

// Adjust validates quantityChange, resolves the vendor identity and submits
// the adjustment. Errors from the REST client are returned unchanged.
func (a *Adjuster) Adjust(ctx context.Context, productID, sku string, quantityChange any) (Result, error) {
	if strings.TrimSpace(productID) == "" || strings.TrimSpace(sku) == "" {
		return Result{}, fmt.Errorf("%w: product id and sku are required", ErrInvalidAdjustment)
	}

	delta, err := Coerce(quantityChange)
	if err != nil {
		return Result{}, err
	}
	kind := Classify(delta)

	vendorID, err := a.identity.VendorIdentity(ctx)
	if err != nil {
		return Result{}, err
	}

	ack, err := a.api.Adjust(ctx, productID, sku, models.AdjustmentRequest{
		VendorID:        vendorID,
		QuantityChange:  delta,
		TransactionType: kind,
	})
	if a.observe != nil {
		a.observe(kind, err)
	}
	if err != nil {
		obs.Logger.Warn("stock_adjustment_failed",
			"product_id", productID, "sku", sku, "delta", delta, "error", err)
		return Result{}, err
	}

	obs.Logger.Info("stock_adjustment_submitted",
		"product_id", productID, "sku", sku, "delta", delta, "transaction_type", kind)

	return Result{
		ProductID: productID,
		SKU:       sku,
		VendorID:  vendorID,
		Delta:     delta,
		Kind:      kind,
		Ack:       ack,
	}, nil
}

// Reload re-reads the stock record touched by r.
func (a *Adjuster) Reload(ctx context.Context, r Result) (models.InventoryItem, error) {
	return a.api.Get(ctx, r.ProductID, r.SKU)
}

// Classify returns STOCK_IN for positive deltas and STOCK_OUT otherwise.
func Classify(delta float64) string {
	if delta > 0 {
		return models.StockIn
	}
	return models.StockOut
}

// Coerce converts a caller supplied quantity to a finite, non-zero number.
// Strings are trimmed; an empty string counts as zero.
func Coerce(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAdjustment, n.String())
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, fmt.Errorf("%w: quantity change cannot be zero", ErrInvalidAdjustment)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAdjustment, n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: unsupported quantity type %T", ErrInvalidAdjustment, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: quantity change must be a finite number", ErrInvalidAdjustment)
	}
	if f == 0 {
		return 0, fmt.Errorf("%w: quantity change cannot be zero", ErrInvalidAdjustment)
	}
	return f, nil
}
