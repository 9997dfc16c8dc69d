// Package models holds the wire types exchanged with the inventory API.
package models

import (
	"encoding/json"
	"strings"
)

// Product represents a vendor product in the catalog.
type Product struct {
	ID          string   `json:"product_id,omitempty"`
	VendorID    string   `json:"vendor_id,omitempty"`
	Name        string   `json:"product_name"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Description string   `json:"description,omitempty"`
	BasePrice   Price    `json:"base_price"`
	Tags        Tags     `json:"tags"`
	Active      bool     `json:"is_active"`
	Images      []string `json:"images,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// Tags is a set of strings; duplicates and blanks are dropped, first
// appearance order is kept.
type Tags []string

func NewTags(values ...string) Tags {
	seen := make(map[string]struct{}, len(values))
	out := Tags{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ParseTags splits a comma separated list, as typed in the product form.
func ParseTags(s string) Tags {
	return NewTags(strings.Split(s, ",")...)
}

func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(NewTags(t...)))
}

func (t *Tags) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = NewTags(raw...)
	return nil
}

type ProductList struct {
	Products []Product `json:"products"`
}

// ProductCreated is the acknowledgment of POST /products.
type ProductCreated struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message,omitempty"`
}

// ImageUploadRequest is the body of POST /products/{id}/images/upload.
type ImageUploadRequest struct {
	VendorID    string `json:"vendor_id"`
	ImageData   string `json:"image_data"`
	ImageName   string `json:"image_name"`
	ContentType string `json:"content_type"`
}

type ImageUploaded struct {
	ImageURL string `json:"image_url"`
}
