package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
)

// SendOrderEventHandler godoc
// @Summary Forward an order lifecycle event
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event path string true "placed, confirmed, cancelled or refunded"
// @Param order body models.OrderEvent true "Order event"
// @Success 200 {object} MutationResponse
// @Failure 400 {string} string "Unknown order event"
// @Router /orders/{event} [post]
func SendOrderEventHandler(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	var e models.OrderEvent
	if err := readJSON(w, r, &e); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if e.OrderID == "" {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}
	e.VendorID = vendorID

	ack, err := ordersAPI.Send(r.Context(), event, e)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.Logger.Info("order_event_sent", "event", event, "order_id", e.OrderID, "vendor_id", vendorID)

	respond(w, http.StatusOK, MutationResponse{Ack: ack})
}
