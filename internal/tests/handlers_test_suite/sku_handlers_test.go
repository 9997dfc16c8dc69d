package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rogerio-castellano/vendor-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/shopspring/decimal"
)

func TestCreateSKUHandler_DefaultsReorderThreshold(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := do(r, http.MethodPost, "/products/p-1/skus", handlers.SKURequest{
		VariantName:  "Blue / M",
		UnitPrice:    decimal.RequireFromString("12.50"),
		CurrentStock: 7,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	stored := upstream.storedSKUs("p-1")
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored SKU, got %d", len(stored))
	}
	if stored[0].ReorderThreshold != 10 {
		t.Errorf("expected default reorder threshold 10, got %d", stored[0].ReorderThreshold)
	}
	if stored[0].VendorID != vendorID || stored[0].ProductID != "p-1" {
		t.Errorf("expected vendor and product ids to be set, got %+v", stored[0])
	}

	var resp struct {
		Current models.SKUList `json:"current"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(resp.Current.SKUs) != 1 {
		t.Errorf("expected SKU list to be re-read, got %v", resp.Current.SKUs)
	}
}

func TestCreateSKUHandler_Invalid(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	negative := -1

	w := do(r, http.MethodPost, "/products/p-1/skus", handlers.SKURequest{
		UnitPrice:        decimal.NewFromInt(-1),
		CurrentStock:     -3,
		ReorderThreshold: &negative,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp []handlers.ValidationError
	json.NewDecoder(w.Body).Decode(&resp)
	for _, field := range []string{"variant_name", "unit_price", "current_stock", "reorder_threshold"} {
		if !hasField(resp, field) {
			t.Errorf("expected error for field %q", field)
		}
	}
}

func TestGetSKUsHandler_Filters(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	upstream.setSKUs("p-1",
		models.SKU{SKU: "a", CurrentStock: 0, ReorderThreshold: 5},
		models.SKU{SKU: "b", CurrentStock: 5, ReorderThreshold: 5},
		models.SKU{SKU: "c", CurrentStock: 50, ReorderThreshold: 5},
	)

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"a", "b", "c"}},
		{"all", []string{"a", "b", "c"}},
		{"low-stock", []string{"a", "b"}},
		{"out-of-stock", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run("filter="+tt.filter, func(t *testing.T) {
			w := do(r, http.MethodGet, "/products/p-1/skus?filter="+tt.filter, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var resp handlers.ListViewResponse[models.SKU]
			json.NewDecoder(w.Body).Decode(&resp)
			if len(resp.Items) != len(tt.want) {
				t.Fatalf("expected %v, got %d items", tt.want, len(resp.Items))
			}
			for i, sku := range resp.Items {
				if sku.SKU != tt.want[i] {
					t.Errorf("expected %v in order, got %q at %d", tt.want, sku.SKU, i)
				}
			}
		})
	}

	w := do(r, http.MethodGet, "/products/p-1/skus?filter=expiring", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown filter, got %d", w.Code)
	}
}

func TestUpdateSKUHandler_RereadsStock(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	upstream.setInventory(models.InventoryItem{ProductID: "p-1", SKU: "s-1", CurrentStock: 4, ReorderThreshold: 2})

	w := do(r, http.MethodPut, "/products/p-1/skus/s-1", handlers.SKURequest{
		VariantName: "Red / L",
		UnitPrice:   decimal.NewFromInt(10),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Current models.InventoryItem `json:"current"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Current.SKU != "s-1" || resp.Current.CurrentStock != 4 {
		t.Errorf("expected stock record to be re-read, got %+v", resp.Current)
	}
}
