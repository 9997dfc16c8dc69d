package handlers

import (
	"net/http"
)

// GetDashboardHandler godoc
// @Summary Vendor dashboard counters
// @Description Counters are zero when the inventory API could not be reached
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} views.Stats
// @Failure 401 {string} string "Authentication required"
// @Router /dashboard [get]
func GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, dashboard.Stats(r.Context(), vendorID))
}
