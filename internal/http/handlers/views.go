package handlers

import (
	"context"
	"net/http"

	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

// ViewIDHeader names the client view (tab, widget) a list request belongs
// to. Requests carrying it are sequenced: a response whose request was
// overtaken by a newer one for the same view is answered with 409.
const ViewIDHeader = "X-View-Id"

// vendorIdentity writes a 401 and returns false when the session carries no
// vendor identity.
func vendorIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	vendorID, err := identity.VendorIdentity(r.Context())
	if err != nil {
		writeError(w, err)
		return "", false
	}
	return vendorID, true
}

func beginView(r *http.Request, vendorID, view string) (*views.Ticket, error) {
	viewID := r.Header.Get(ViewIDHeader)
	if tracker == nil || viewID == "" {
		return nil, nil
	}
	ticket, err := tracker.Begin(r.Context(), views.ViewKey(vendorID, view, viewID))
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// commitView returns the committed generation, zero for unsequenced requests.
func commitView(ctx context.Context, ticket *views.Ticket) (uint64, error) {
	if ticket == nil {
		return 0, nil
	}
	if err := tracker.Commit(ctx, *ticket); err != nil {
		return 0, err
	}
	return ticket.Generation, nil
}

// refresh re-reads the record touched by a successful mutation.
func refresh(ack client.Ack, fetch func() (any, error)) MutationResponse {
	resp := MutationResponse{Ack: ack}
	current, err := fetch()
	if err != nil {
		obs.Logger.Warn("refresh_after_mutation_failed", "error", err)
		resp.RefreshError = err.Error()
		return resp
	}
	resp.Current = current
	return resp
}
