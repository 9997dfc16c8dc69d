package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rogerio-castellano/vendor-inventory/internal/models"
)

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func productPath(productID string) string {
	return "/products/" + url.PathEscape(productID)
}

func skuPath(productID, sku string) string {
	return productPath(productID) + "/skus/" + url.PathEscape(sku)
}

// Products covers the product, SKU and image endpoints.
type Products struct {
	c *Client
}

func NewProducts(c *Client) *Products {
	return &Products{c: c}
}

func (p *Products) Create(ctx context.Context, product models.Product) (models.ProductCreated, error) {
	var created models.ProductCreated
	err := p.c.Do(ctx, http.MethodPost, "/products", product, &created)
	return created, err
}

func (p *Products) Get(ctx context.Context, productID string) (models.Product, error) {
	var product models.Product
	err := p.c.Do(ctx, http.MethodGet, productPath(productID), nil, &product)
	return product, err
}

func (p *Products) Update(ctx context.Context, productID string, product models.Product) (Ack, error) {
	return p.c.mutate(ctx, http.MethodPut, productPath(productID), product)
}

// Delete soft deletes a product; the server flips its active flag.
func (p *Products) Delete(ctx context.Context, productID, vendorID string) (Ack, error) {
	return p.c.mutate(ctx, http.MethodDelete, productPath(productID), map[string]string{"vendor_id": vendorID})
}

func (p *Products) List(ctx context.Context, q url.Values) (models.ProductList, error) {
	var list models.ProductList
	err := p.c.Do(ctx, http.MethodGet, withQuery("/products", q), nil, &list)
	return list, err
}

func (p *Products) CreateSKU(ctx context.Context, productID string, sku models.SKU) (Ack, error) {
	return p.c.mutate(ctx, http.MethodPost, productPath(productID)+"/skus", sku)
}

func (p *Products) UpdateSKU(ctx context.Context, productID, sku string, data models.SKU) (Ack, error) {
	return p.c.mutate(ctx, http.MethodPut, skuPath(productID, sku), data)
}

func (p *Products) ListSKUs(ctx context.Context, productID string) (models.SKUList, error) {
	var list models.SKUList
	err := p.c.Do(ctx, http.MethodGet, productPath(productID)+"/skus", nil, &list)
	return list, err
}

// UploadImage posts one base64 encoded image.
func (p *Products) UploadImage(ctx context.Context, productID string, img models.ImageUploadRequest) (models.ImageUploaded, error) {
	var uploaded models.ImageUploaded
	err := p.c.Do(ctx, http.MethodPost, productPath(productID)+"/images/upload", img, &uploaded)
	return uploaded, err
}
