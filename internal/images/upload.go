// Package images uploads product image batches.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
	"golang.org/x/sync/errgroup"
)

// MaxPerProduct is the number of images a product may hold.
const MaxPerProduct = 5

var (
	ErrTooManyImages = errors.New("too many images")
	// ErrPartialUpload is returned when at least one image of a batch failed.
	// Images that were uploaded are not rolled back.
	ErrPartialUpload = errors.New("image batch partially failed")
)

// File is one image to upload. Data is read fully before encoding.
type File struct {
	Name        string
	ContentType string
	Data        io.Reader
}

type IdentitySource interface {
	VendorIdentity(ctx context.Context) (string, error)
}

type ImageAPI interface {
	UploadImage(ctx context.Context, productID string, img models.ImageUploadRequest) (models.ImageUploaded, error)
}

// ItemResult is the outcome of one file of a batch.
type ItemResult struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// Report lists every file of a batch in submission order.
type Report struct {
	Items []ItemResult `json:"items"`
}

func (r Report) Succeeded() []ItemResult {
	return r.filter(func(i ItemResult) bool { return i.Err == nil })
}

func (r Report) Failed() []ItemResult {
	return r.filter(func(i ItemResult) bool { return i.Err != nil })
}

// URLs returns the image URLs of the successful uploads.
func (r Report) URLs() []string {
	urls := []string{}
	for _, i := range r.Succeeded() {
		urls = append(urls, i.ImageURL)
	}
	return urls
}

func (r Report) filter(keep func(ItemResult) bool) []ItemResult {
	out := []ItemResult{}
	for _, i := range r.Items {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

type Uploader struct {
	identity IdentitySource
	api      ImageAPI
}

func NewUploader(identity IdentitySource, api ImageAPI) *Uploader {
	return &Uploader{identity: identity, api: api}
}

// UploadBatch uploads files concurrently, one request per file. A failing
// upload does not cancel its siblings; the report says which ones failed.
func (u *Uploader) UploadBatch(ctx context.Context, productID string, files []File, existing int) (Report, error) {
	if existing < 0 {
		return Report{}, fmt.Errorf("%w: existing image count %d is negative", ErrTooManyImages, existing)
	}
	if len(files) > MaxPerProduct || len(files)+existing > MaxPerProduct {
		return Report{}, fmt.Errorf("%w: %d new + %d existing exceeds %d per product",
			ErrTooManyImages, len(files), existing, MaxPerProduct)
	}
	if len(files) == 0 {
		return Report{Items: []ItemResult{}}, nil
	}

	vendorID, err := u.identity.VendorIdentity(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{Items: make([]ItemResult, len(files))}
	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			report.Items[i] = u.uploadOne(ctx, productID, vendorID, f)
			return nil
		})
	}
	_ = g.Wait()

	failed := report.Failed()
	if len(failed) == 0 {
		obs.Logger.Info("images_uploaded", "product_id", productID, "count", len(files))
		return report, nil
	}

	errs := make([]error, len(failed))
	for i, f := range failed {
		errs[i] = fmt.Errorf("%s: %w", f.Name, f.Err)
	}
	obs.Logger.Warn("images_upload_partial", "product_id", productID,
		"failed", len(failed), "total", len(files))
	return report, fmt.Errorf("%w: %d of %d failed: %w", ErrPartialUpload, len(failed), len(files), errors.Join(errs...))
}

func (u *Uploader) uploadOne(ctx context.Context, productID, vendorID string, f File) ItemResult {
	res := ItemResult{Name: f.Name}
	if f.Data == nil {
		res.Err = errors.New("file has no data")
		res.Error = res.Err.Error()
		return res
	}

	data, err := io.ReadAll(f.Data)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file: %w", err)
		res.Error = res.Err.Error()
		return res
	}

	uploaded, err := u.api.UploadImage(ctx, productID, models.ImageUploadRequest{
		VendorID:    vendorID,
		ImageData:   base64.StdEncoding.EncodeToString(data),
		ImageName:   f.Name,
		ContentType: f.ContentType,
	})
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		return res
	}
	res.ImageURL = uploaded.ImageURL
	return res
}
