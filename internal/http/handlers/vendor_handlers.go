package handlers

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/vendor-inventory/internal/models"
)

// GetVendorProfileHandler godoc
// @Summary Get the vendor profile
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.VendorProfile
// @Router /vendor/profile [get]
func GetVendorProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := vendorAPI.Profile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, profile)
}

// UpdateVendorProfileHandler godoc
// @Summary Update the vendor profile
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body models.VendorProfile true "Profile"
// @Success 200 {object} MutationResponse
// @Failure 400 {array} ValidationError
// @Router /vendor/profile [put]
func UpdateVendorProfileHandler(w http.ResponseWriter, r *http.Request) {
	var profile models.VendorProfile
	if err := readJSON(w, r, &profile); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	errs := []ValidationError{}
	if strings.TrimSpace(profile.BusinessName) == "" {
		errs = append(errs, ValidationError{Field: "business_name", Description: "Business name is required"})
	}
	if !strings.Contains(profile.ContactEmail, "@") {
		errs = append(errs, ValidationError{Field: "contact_email", Description: "Contact email is invalid"})
	}
	if len(errs) > 0 {
		respond(w, http.StatusBadRequest, errs)
		return
	}

	vendorID, ok := vendorIdentity(w, r)
	if !ok {
		return
	}
	profile.VendorID = vendorID

	ack, err := vendorAPI.UpdateProfile(r.Context(), profile)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, refresh(ack, func() (any, error) {
		return vendorAPI.Profile(r.Context())
	}))
}
