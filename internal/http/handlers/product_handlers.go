package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the vendor catalog and returns it as stored upstream
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductCreatedResponse
// @Failure 400 {array} ValidationError
// @Failure 401 {string} string "Authentication required"
// @Failure 502 {string} string "Inventory API unreachable"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	created, err := productsAPI.Create(r.Context(), req.toModel(vendorID))
	if err != nil {
		writeError(w, err)
		return
	}
	obs.Logger.Info("product_created", "product_id", created.ProductID, "vendor_id", vendorID)

	resp := ProductCreatedResponse{ProductID: created.ProductID, Message: created.Message}
	product, err := productsAPI.Get(r.Context(), created.ProductID)
	if err != nil {
		resp.RefreshError = err.Error()
	} else {
		resp.Current = &product
	}
	respond(w, http.StatusCreated, resp)
}

// GetProductsHandler godoc
// @Summary List the vendor's products
// @Description Query parameters are forwarded to the inventory API
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param X-View-Id header string false "Client view to sequence requests for"
// @Success 200 {object} ProductsResponse
// @Failure 401 {string} string "Authentication required"
// @Failure 409 {string} string "Superseded by a newer request"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	ticket, err := beginView(r, vendorID, "products")
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	q.Set("vendor_id", vendorID)
	list, err := productsAPI.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}

	generation, err := commitView(r.Context(), ticket)
	if err != nil {
		writeError(w, err)
		return
	}

	products := list.Products
	if products == nil {
		products = []models.Product{}
	}
	respond(w, http.StatusOK, ProductsResponse{Generation: generation, Total: len(products), Products: products})
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, err := productsAPI.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, product)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Updated product"
// @Success 200 {object} MutationResponse
// @Failure 400 {array} ValidationError
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		respond(w, http.StatusBadRequest, validationErrors)
		return
	}

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	ack, err := productsAPI.Update(r.Context(), id, req.toModel(vendorID))
	if err != nil {
		writeError(w, err)
		return
	}
	obs.Logger.Info("product_updated", "product_id", id, "vendor_id", vendorID)

	respond(w, http.StatusOK, refresh(ack, func() (any, error) {
		return productsAPI.Get(r.Context(), id)
	}))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} MutationResponse
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}

	ack, err := productsAPI.Delete(r.Context(), id, vendorID)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.Logger.Info("product_deleted", "product_id", id, "vendor_id", vendorID)

	respond(w, http.StatusOK, MutationResponse{Ack: ack})
}
