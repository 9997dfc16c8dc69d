package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

// GetSKUsHandler godoc
// @Summary List the SKUs of a product
// @Tags skus
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param filter query string false "all, low-stock or out-of-stock"
// @Param X-View-Id header string false "Client view to sequence requests for"
// @Success 200 {object} ListViewResponse[models.SKU]
// @Failure 400 {string} string "Unknown filter"
// @Failure 409 {string} string "Superseded by a newer request"
// @Router /products/{id}/skus [get]
func GetSKUsHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	filter, err := views.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, err)
		return
	}

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	ticket, err := beginView(r, vendorID, "skus:"+id)
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := productsAPI.ListSKUs(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	generation, err := commitView(r.Context(), ticket)
	if err != nil {
		writeError(w, err)
		return
	}

	items := views.Apply(list.SKUs, filter)
	respond(w, http.StatusOK, ListViewResponse[models.SKU]{
		Filter:     string(filter),
		Generation: generation,
		Total:      len(items),
		Items:      items,
	})
}

// CreateSKUHandler godoc
// @Summary Add a SKU to a product
// @Tags skus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param sku body SKURequest true "SKU to add"
// @Success 201 {object} MutationResponse
// @Failure 400 {array} ValidationError
// @Router /products/{id}/skus [post]
func CreateSKUHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SKURequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateSKU(req)
	if len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	ack, err := productsAPI.CreateSKU(r.Context(), id, req.toModel(id, vendorID))
	if err != nil {
		writeError(w, err)
		return
	}
	obs.Logger.Info("sku_created", "product_id", id, "variant_name", req.VariantName)

	respond(w, http.StatusCreated, refresh(ack, func() (any, error) {
		return productsAPI.ListSKUs(r.Context(), id)
	}))
}

// UpdateSKUHandler godoc
// @Summary Update a SKU
// @Tags skus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param sku path string true "SKU"
// @Param data body SKURequest true "Updated SKU"
// @Success 200 {object} MutationResponse
// @Failure 400 {array} ValidationError
// @Router /products/{id}/skus/{sku} [put]
func UpdateSKUHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sku := chi.URLParam(r, "sku")

	var req SKURequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateSKU(req)
	if len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	data := req.toModel(id, vendorID)
	data.SKU = sku
	ack, err := productsAPI.UpdateSKU(r.Context(), id, sku, data)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.Logger.Info("sku_updated", "product_id", id, "sku", sku)

	respond(w, http.StatusOK, refresh(ack, func() (any, error) {
		return inventoryAPI.Get(r.Context(), id, sku)
	}))
}
