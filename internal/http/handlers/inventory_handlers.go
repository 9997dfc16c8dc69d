package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

// GetInventoryHandler godoc
// @Summary List the vendor's stock records
// @Description The filter is applied locally to the records returned upstream
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param filter query string false "all, low-stock or out-of-stock"
// @Param X-View-Id header string false "Client view to sequence requests for"
// @Success 200 {object} ListViewResponse[models.InventoryItem]
// @Failure 400 {string} string "Unknown filter"
// @Failure 409 {string} string "Superseded by a newer request"
// @Router /inventory [get]
func GetInventoryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := views.ParseFilter(q.Get("filter"))
	if err != nil {
		writeError(w, err)
		return
	}
	q.Del("filter")

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	ticket, err := beginView(r, vendorID, "inventory")
	if err != nil {
		writeError(w, err)
		return
	}

	q.Set("vendor_id", vendorID)
	list, err := inventoryAPI.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}

	generation, err := commitView(r.Context(), ticket)
	if err != nil {
		writeError(w, err)
		return
	}

	items := views.Apply(list.Inventory, filter)
	respond(w, http.StatusOK, ListViewResponse[models.InventoryItem]{
		Filter:     string(filter),
		Generation: generation,
		Total:      len(items),
		Items:      items,
	})
}

// GetLowStockHandler godoc
// @Summary List low stock alerts
// @Description Low stock items as computed by the inventory API
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.LowStockList
// @Router /inventory/low-stock [get]
func GetLowStockHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	list, err := inventoryAPI.LowStock(r.Context(), vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	if list.Items == nil {
		list.Items = []models.InventoryItem{}
	}
	respond(w, http.StatusOK, list)
}

// GetStockHandler godoc
// @Summary Get the stock record of a SKU
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param sku path string true "SKU"
// @Success 200 {object} models.InventoryItem
// @Failure 404 {string} string "Not found"
// @Router /inventory/{id}/skus/{sku} [get]
func GetStockHandler(w http.ResponseWriter, r *http.Request) {
	item, err := inventoryAPI.Get(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sku"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, item)
}

// AdjustStockHandler godoc
// @Summary Adjust the stock of a SKU
// @Description Positive quantities are recorded as STOCK_IN, negative ones as STOCK_OUT
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param sku path string true "SKU"
// @Param adjustment body AdjustmentRequest true "Quantity change"
// @Success 200 {object} AdjustmentResponse
// @Failure 400 {string} string "Invalid adjustment"
// @Failure 401 {string} string "Authentication required"
// @Router /inventory/{id}/skus/{sku}/adjust [post]
func AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	result, err := adjuster.Adjust(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sku"), req.QuantityChange)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := AdjustmentResponse{
		TransactionType: result.Kind,
		QuantityChange:  result.Delta,
		Ack:             result.Ack,
	}
	item, err := adjuster.Reload(r.Context(), result)
	if err != nil {
		obs.Logger.Warn("refresh_after_mutation_failed", "product_id", result.ProductID, "sku", result.SKU, "error", err)
		resp.RefreshError = err.Error()
	} else {
		resp.Current = &item
	}
	respond(w, http.StatusOK, resp)
}

// GetStockHistoryHandler godoc
// @Summary Stock transaction history of a SKU
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param sku path string true "SKU"
// @Success 200 {object} models.StockHistory
// @Router /inventory/{id}/skus/{sku}/history [get]
func GetStockHistoryHandler(w http.ResponseWriter, r *http.Request) {
	history, err := inventoryAPI.History(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sku"), r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	if history.Transactions == nil {
		history.Transactions = []models.StockTransaction{}
	}
	respond(w, http.StatusOK, history)
}

// GetTransactionsHandler godoc
// @Summary Vendor-wide transaction history
// @Description The upstream response is passed through unchanged
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object
// @Router /transactions [get]
func GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	q.Set("vendor_id", vendorID)
	raw, err := transactionsAPI.History(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, raw)
}
