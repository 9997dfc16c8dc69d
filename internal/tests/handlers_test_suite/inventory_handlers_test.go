package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rogerio-castellano/vendor-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
)

func seedInventory() {
	upstream.setInventory(
		models.InventoryItem{ProductID: "p-1", SKU: "a", CurrentStock: 0, ReorderThreshold: 5},
		models.InventoryItem{ProductID: "p-1", SKU: "b", CurrentStock: 5, ReorderThreshold: 5},
		models.InventoryItem{ProductID: "p-2", SKU: "c", CurrentStock: 20, ReorderThreshold: 5},
	)
}

func doView(r http.Handler, path, viewID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(handlers.ViewIDHeader, viewID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeInventory(t *testing.T, w *httptest.ResponseRecorder) handlers.ListViewResponse[models.InventoryItem] {
	t.Helper()
	var resp handlers.ListViewResponse[models.InventoryItem]
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return resp
}

func TestGetInventoryHandler_Filters(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	seedInventory()

	tests := []struct {
		filter string
		want   int
	}{
		{"all", 3},
		{"low-stock", 2},
		{"out-of-stock", 1},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			w := do(r, http.MethodGet, "/inventory?filter="+tt.filter, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			resp := decodeInventory(t, w)
			if resp.Total != tt.want || len(resp.Items) != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, resp.Total)
			}
			if resp.Filter != tt.filter {
				t.Errorf("expected filter %q echoed, got %q", tt.filter, resp.Filter)
			}
		})
	}

	q := upstream.query("/inventory")
	if !strings.Contains(q, "vendor_id="+vendorID) || strings.Contains(q, "filter") {
		t.Errorf("expected vendor id and no filter upstream, got %q", q)
	}
}

func TestGetInventoryHandler_UnknownFilter(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := do(r, http.MethodGet, "/inventory?filter=discontinued", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetInventoryHandler_SupersededRequest(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	seedInventory()

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	upstream.mu.Lock()
	upstream.onInventoryList = func() {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
	}
	upstream.mu.Unlock()

	slow := make(chan *httptest.ResponseRecorder)
	go func() { slow <- doView(r, "/inventory?filter=all", "tab-1") }()
	<-started

	fast := doView(r, "/inventory?filter=low-stock", "tab-1")
	close(release)
	older := <-slow

	if fast.Code != http.StatusOK {
		t.Fatalf("expected newest request to succeed, got %d", fast.Code)
	}
	if resp := decodeInventory(t, fast); resp.Generation == 0 {
		t.Errorf("expected a sequenced response to carry its generation")
	}
	if older.Code != http.StatusConflict {
		t.Errorf("expected overtaken request to get 409, got %d", older.Code)
	}
}

func TestGetInventoryHandler_SeparateViewsDoNotConflict(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	seedInventory()

	a := doView(r, "/inventory", "tab-a")
	b := doView(r, "/inventory", "tab-b")

	if a.Code != http.StatusOK || b.Code != http.StatusOK {
		t.Errorf("expected both views to succeed, got %d and %d", a.Code, b.Code)
	}
}

func TestGetLowStockHandler(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	seedInventory()

	w := do(r, http.MethodGet, "/inventory/low-stock", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp models.LowStockList
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Items) != 2 {
		t.Errorf("expected 2 low stock items, got %d", len(resp.Items))
	}
	if q := upstream.query("/inventory/low-stock"); q != "vendor_id="+vendorID {
		t.Errorf("expected vendor id query, got %q", q)
	}
}

func TestAdjustStockHandler(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantKind  string
		wantDelta float64
		wantStock int
	}{
		{"restock number", `{"quantity_change": 5}`, models.StockIn, 5, 10},
		{"sale as string", `{"quantity_change": " -2 "}`, models.StockOut, -2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(upstream.reset)
			r := newRouter()
			seedInventory()

			w := do(r, http.MethodPost, "/inventory/p-1/skus/b/adjust", tt.payload)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}

			var resp handlers.AdjustmentResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if resp.TransactionType != tt.wantKind || resp.QuantityChange != tt.wantDelta {
				t.Errorf("expected %s %v, got %s %v", tt.wantKind, tt.wantDelta, resp.TransactionType, resp.QuantityChange)
			}
			if resp.Current == nil || resp.Current.CurrentStock != tt.wantStock {
				t.Errorf("expected re-read stock %d, got %+v", tt.wantStock, resp.Current)
			}

			sent := upstream.adjustmentList()
			if len(sent) != 1 || sent[0].VendorID != vendorID || sent[0].TransactionType != tt.wantKind {
				t.Errorf("unexpected adjustment sent upstream: %+v", sent)
			}
		})
	}
}

func TestAdjustStockHandler_Invalid(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	seedInventory()

	for _, payload := range []string{
		`{"quantity_change": 0}`,
		`{"quantity_change": ""}`,
		`{"quantity_change": "ten"}`,
		`{"quantity_change": true}`,
		`{}`,
	} {
		w := do(r, http.MethodPost, "/inventory/p-1/skus/b/adjust", payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", payload, w.Code)
		}
	}

	if n := len(upstream.adjustmentList()); n != 0 {
		t.Errorf("expected no adjustment to reach the API, got %d", n)
	}
}

func TestAdjustStockHandler_UnknownSKU(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := do(r, http.MethodPost, "/inventory/p-1/skus/zzz/adjust", `{"quantity_change": 1}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected upstream 404, got %d", w.Code)
	}
}

func TestAdjustStockHandler_RefreshFailureKeepsSuccess(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	seedInventory()
	upstream.fail(http.MethodGet, "/inventory/p-1/skus/b", http.StatusInternalServerError)

	w := do(r, http.MethodPost, "/inventory/p-1/skus/b/adjust", `{"quantity_change": 1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected the adjustment to succeed, got %d", w.Code)
	}

	var resp handlers.AdjustmentResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Current != nil || resp.RefreshError == "" {
		t.Errorf("expected refresh error and no current record, got %+v", resp)
	}
}

func TestGetStockHistoryHandler(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := do(r, http.MethodGet, "/inventory/p-1/skus/a/history?limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp models.StockHistory
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Transactions) != 1 || resp.Transactions[0].SKU != "a" {
		t.Errorf("unexpected history %+v", resp.Transactions)
	}
	if q := upstream.query("/inventory/p-1/skus/a/history"); q != "limit=10" {
		t.Errorf("expected query to be forwarded, got %q", q)
	}
}

func TestGetTransactionsHandler_PassesThrough(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := do(r, http.MethodGet, "/transactions", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"transactions":[{"transaction_id":"t-1"}]}` {
		t.Errorf("expected upstream body unchanged, got %q", w.Body.String())
	}
}
