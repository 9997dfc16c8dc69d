package handlers_test_suite

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rogerio-castellano/vendor-inventory/internal/http/handlers"
)

func uploadImages(r http.Handler, names []string, existing string) *httptest.ResponseRecorder {
	body, contentType := multipartImages(names, existing)
	req := httptest.NewRequest(http.MethodPost, "/products/p-1/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadImagesHandler_AllSucceed(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := uploadImages(r, []string{"front.png", "back.png"}, "1")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp handlers.ImageUploadResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Uploaded != 2 || resp.Failed != 0 {
		t.Errorf("expected 2 uploaded, got %d uploaded %d failed", resp.Uploaded, resp.Failed)
	}
	if len(resp.URLs) != 2 || resp.URLs[0] != "https://cdn.test/p-1/front.png" {
		t.Errorf("expected URLs in submission order, got %v", resp.URLs)
	}

	for _, img := range upstream.uploadList() {
		data, err := base64.StdEncoding.DecodeString(img.ImageData)
		if err != nil {
			t.Fatalf("expected base64 image data: %v", err)
		}
		if string(data) != "image-bytes-of-"+img.ImageName {
			t.Errorf("unexpected content for %s: %q", img.ImageName, data)
		}
		if img.VendorID != vendorID {
			t.Errorf("expected vendor id %q, got %q", vendorID, img.VendorID)
		}
	}
}

func TestUploadImagesHandler_TooMany(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := uploadImages(r, []string{"a.png", "b.png"}, "4")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if n := len(upstream.uploadList()); n != 0 {
		t.Errorf("expected nothing uploaded, got %d", n)
	}
}

func TestUploadImagesHandler_PartialFailure(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()
	upstream.mu.Lock()
	upstream.failImage = "b.png"
	upstream.mu.Unlock()

	w := uploadImages(r, []string{"a.png", "b.png", "c.png"}, "")
	if w.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207, got %d: %s", w.Code, w.Body.String())
	}

	var resp handlers.ImageUploadResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Uploaded != 2 || resp.Failed != 1 {
		t.Errorf("expected 2 uploaded 1 failed, got %d and %d", resp.Uploaded, resp.Failed)
	}
	failed := resp.Report.Items[1]
	if failed.Name != "b.png" || failed.Error == "" || failed.ImageURL != "" {
		t.Errorf("expected b.png to be reported as failed, got %+v", failed)
	}
	if n := len(upstream.uploadList()); n != 3 {
		t.Errorf("expected every file to be attempted, got %d", n)
	}
}

func TestUploadImagesHandler_InvalidExisting(t *testing.T) {
	t.Cleanup(upstream.reset)
	r := newRouter()

	w := uploadImages(r, []string{"a.png"}, "-1")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
