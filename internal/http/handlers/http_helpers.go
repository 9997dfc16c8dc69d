package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/images"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
	"github.com/rogerio-castellano/vendor-inventory/internal/session"
	"github.com/rogerio-castellano/vendor-inventory/internal/stock"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func respond(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		obs.Logger.Error("response_write_failed", "error", err)
	}
}

// writeError maps SDK errors to gateway responses. Upstream API errors keep
// their status and body verbatim.
func writeError(w http.ResponseWriter, err error) {
	var (
		apiErr       *client.APIError
		netErr       *client.NetworkError
		malformedErr *client.MalformedResponseError
	)

	switch {
	case errors.As(err, &apiErr):
		if json.Valid([]byte(apiErr.Body)) {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		w.WriteHeader(apiErr.Status)
		_, _ = io.WriteString(w, apiErr.Body)
	case errors.Is(err, session.ErrAuthUnavailable):
		http.Error(w, "authentication required", http.StatusUnauthorized)
	case errors.Is(err, stock.ErrInvalidAdjustment),
		errors.Is(err, images.ErrTooManyImages),
		errors.Is(err, views.ErrUnknownFilter),
		errors.Is(err, client.ErrUnknownOrderEvent):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, views.ErrSuperseded):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &netErr):
		obs.Logger.Error("upstream_unreachable", "error", err)
		http.Error(w, "inventory API unreachable", http.StatusBadGateway)
	case errors.As(err, &malformedErr):
		obs.Logger.Error("upstream_malformed_response", "error", err)
		http.Error(w, "inventory API returned a malformed response", http.StatusBadGateway)
	default:
		obs.Logger.Error("request_failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
