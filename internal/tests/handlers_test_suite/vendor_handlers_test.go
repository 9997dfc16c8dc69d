package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

func TestDashboardHandler(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	seedInventory()
	do(r, http.MethodPost, "/products", validProduct())

	w := do(r, http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats views.Stats
	json.NewDecoder(w.Body).Decode(&stats)
	want := views.Stats{TotalProducts: 1, TotalSKUs: 3, LowStockItems: 2, OutOfStock: 1}
	if stats != want {
		t.Errorf("expected %+v, got %+v", want, stats)
	}
}

func TestDashboardHandler_DegradesToZeros(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	seedInventory()
	upstream.fail(http.MethodGet, "/inventory/low-stock", http.StatusInternalServerError)

	w := do(r, http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var stats views.Stats
	json.NewDecoder(w.Body).Decode(&stats)
	if stats != (views.Stats{}) {
		t.Errorf("expected zeroed counters, got %+v", stats)
	}
}

func TestDashboardHandler_ExpiredSession(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	expired, err := signToken(vendorID, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("error signing token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestSendOrderEventHandler(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	order := models.OrderEvent{
		OrderID: "o-1",
		Items:   []models.OrderItem{{ProductID: "p-1", SKU: "a", Quantity: 2}},
	}
	for _, event := range []string{"placed", "confirmed", "cancelled", "refunded"} {
		w := do(r, http.MethodPost, "/orders/"+event, order)
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", event, w.Code)
		}
	}

	got := upstream.orderList()
	if len(got) != 4 || got[0] != "placed:o-1:"+vendorID {
		t.Errorf("unexpected events forwarded: %v", got)
	}

	if w := do(r, http.MethodPost, "/orders/shipped", order); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown event, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/orders/placed", models.OrderEvent{}); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without order id, got %d", w.Code)
	}
}

func TestVendorProfileHandlers(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := do(r, http.MethodGet, "/vendor/profile", nil)
	var profile models.VendorProfile
	json.NewDecoder(w.Body).Decode(&profile)
	if w.Code != http.StatusOK || profile.BusinessName != "Acme" {
		t.Fatalf("expected profile, got %d %+v", w.Code, profile)
	}

	profile.BusinessName = "Acme Outdoor"
	w = do(r, http.MethodPut, "/vendor/profile", profile)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Current models.VendorProfile `json:"current"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Current.BusinessName != "Acme Outdoor" {
		t.Errorf("expected re-read profile, got %+v", resp.Current)
	}

	profile.ContactEmail = "nope"
	if w := do(r, http.MethodPut, "/vendor/profile", profile); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid email, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
