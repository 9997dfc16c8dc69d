package stock

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/session"
)

type fakeIdentity struct {
	id  string
	err error
}

func (f fakeIdentity) VendorIdentity(context.Context) (string, error) { return f.id, f.err }

type fakeInventory struct {
	calls    int
	lastReq  models.AdjustmentRequest
	adjErr   error
	item     models.InventoryItem
	getCalls int
}

func (f *fakeInventory) Adjust(_ context.Context, productID, sku string, req models.AdjustmentRequest) (client.Ack, error) {
	f.calls++
	f.lastReq = req
	if f.adjErr != nil {
		return nil, f.adjErr
	}
	return client.Ack(`{"message":"ok"}`), nil
}

func (f *fakeInventory) Get(_ context.Context, productID, sku string) (models.InventoryItem, error) {
	f.getCalls++
	return f.item, nil
}

func TestAdjustClassifiesDeltas(t *testing.T) {
	tests := []struct {
		name  string
		input any
		delta float64
		kind  string
	}{
		{"positive int", 5, 5, models.StockIn},
		{"negative int", -5, -5, models.StockOut},
		{"positive string", "12", 12, models.StockIn},
		{"negative string with spaces", " -3 ", -3, models.StockOut},
		{"fractional", 0.5, 0.5, models.StockIn},
		{"negative fractional string", "-0.25", -0.25, models.StockOut},
		{"json number", json.Number("7"), 7, models.StockIn},
		{"int64", int64(-1), -1, models.StockOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInventory{}
			a := NewAdjuster(fakeIdentity{id: "v-1"}, inv)

			res, err := a.Adjust(context.Background(), "P-1", "SKU-1", tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Kind != tt.kind || res.Delta != tt.delta {
				t.Errorf("expected %s %v, got %s %v", tt.kind, tt.delta, res.Kind, res.Delta)
			}
			if inv.lastReq.TransactionType != tt.kind || inv.lastReq.QuantityChange != tt.delta || inv.lastReq.VendorID != "v-1" {
				t.Errorf("unexpected submitted request %+v", inv.lastReq)
			}
		})
	}
}

func TestAdjustRejectsInvalidInputWithoutRequest(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		sku       string
		input     any
	}{
		{"zero int", "P-1", "SKU-1", 0},
		{"zero string", "P-1", "SKU-1", "0"},
		{"negative zero", "P-1", "SKU-1", "-0"},
		{"empty string", "P-1", "SKU-1", ""},
		{"not a number", "P-1", "SKU-1", "abc"},
		{"NaN", "P-1", "SKU-1", math.NaN()},
		{"NaN string", "P-1", "SKU-1", "NaN"},
		{"infinity", "P-1", "SKU-1", math.Inf(1)},
		{"unsupported type", "P-1", "SKU-1", []int{1}},
		{"nil", "P-1", "SKU-1", nil},
		{"missing product", "", "SKU-1", 5},
		{"missing sku", "P-1", " ", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInventory{}
			a := NewAdjuster(fakeIdentity{id: "v-1"}, inv)

			_, err := a.Adjust(context.Background(), tt.productID, tt.sku, tt.input)
			if !errors.Is(err, ErrInvalidAdjustment) {
				t.Errorf("expected ErrInvalidAdjustment, got %v", err)
			}
			if inv.calls != 0 {
				t.Errorf("expected no request, got %d", inv.calls)
			}
		})
	}
}

func TestAdjustFailsClosedWithoutIdentity(t *testing.T) {
	inv := &fakeInventory{}
	a := NewAdjuster(fakeIdentity{err: session.ErrAuthUnavailable}, inv)

	_, err := a.Adjust(context.Background(), "P-1", "SKU-1", 3)
	if !errors.Is(err, session.ErrAuthUnavailable) {
		t.Errorf("expected ErrAuthUnavailable, got %v", err)
	}
	if inv.calls != 0 {
		t.Errorf("expected no request, got %d", inv.calls)
	}
}

func TestAdjustPropagatesClientErrorUnchanged(t *testing.T) {
	apiErr := &client.APIError{Status: 409, Body: "insufficient stock"}
	inv := &fakeInventory{adjErr: apiErr}

	var observed []string
	a := NewAdjuster(fakeIdentity{id: "v-1"}, inv).WithObserver(func(kind string, err error) {
		if err != nil {
			observed = append(observed, kind+":failed")
		}
	})

	_, err := a.Adjust(context.Background(), "P-1", "SKU-1", -10)
	if err != apiErr {
		t.Errorf("expected the same APIError, got %v", err)
	}
	if len(observed) != 1 || observed[0] != "STOCK_OUT:failed" {
		t.Errorf("expected one failed observation, got %v", observed)
	}
}

func TestReloadReadsServerState(t *testing.T) {
	inv := &fakeInventory{item: models.InventoryItem{ProductID: "P-1", SKU: "SKU-1", CurrentStock: 42}}
	a := NewAdjuster(fakeIdentity{id: "v-1"}, inv)

	res, err := a.Adjust(context.Background(), "P-1", "SKU-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.getCalls != 0 {
		t.Fatalf("adjust must not read back on its own")
	}

	item, err := a.Reload(context.Background(), res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.CurrentStock != 42 {
		t.Errorf("expected server stock 42, got %d", item.CurrentStock)
	}
}

func TestAdjustEndToEnd(t *testing.T) {
	var hits int32
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"new_stock":15}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL, nil)
	a := NewAdjuster(fakeIdentity{id: "vendor-7"}, client.NewInventory(c))

	res, err := a.Adjust(context.Background(), "P-1", "SKU-1", "-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hits != 1 || gotPath != "/inventory/P-1/skus/SKU-1/adjust" {
		t.Errorf("expected one POST to the adjust endpoint, got %d to %s", hits, gotPath)
	}
	want := map[string]any{"vendor_id": "vendor-7", "quantity_change": float64(-5), "transaction_type": "STOCK_OUT"}
	for k, v := range want {
		if gotBody[k] != v {
			t.Errorf("body[%s]: expected %v, got %v", k, v, gotBody[k])
		}
	}
	if string(res.Ack) != `{"new_stock":15}` {
		t.Errorf("expected raw ack, got %s", res.Ack)
	}
}
