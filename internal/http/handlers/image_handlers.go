package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/vendor-inventory/internal/images"
)

const maxUploadMemory = 32 << 20

// UploadImagesHandler godoc
// @Summary Upload product images
// @Description Each file is uploaded individually. When some uploads fail the response is 207 and the report lists the failures; uploaded images are kept.
// @Tags products
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param images formData file true "Image files"
// @Param existing formData int false "Number of images the product already has"
// @Success 201 {object} ImageUploadResponse
// @Success 207 {object} ImageUploadResponse
// @Failure 400 {string} string "Too many images"
// @Router /products/{id}/images [post]
func UploadImagesHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	existing := 0
	if v := r.FormValue("existing"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "existing must be a non-negative integer", http.StatusBadRequest)
			return
		}
		existing = n
	}

	headers := r.MultipartForm.File["images"]
	files := make([]images.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "could not read "+fh.Filename, http.StatusBadRequest)
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		files = append(files, images.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        f,
		})
	}

	report, err := uploader.UploadBatch(r.Context(), id, files, existing)
	if err != nil && !errors.Is(err, images.ErrPartialUpload) {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if err != nil {
		status = http.StatusMultiStatus
	}
	respond(w, status, ImageUploadResponse{
		Uploaded: len(report.Succeeded()),
		Failed:   len(report.Failed()),
		URLs:     report.URLs(),
		Report:   report,
	})
}
