package handlers

import (
	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/images"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/shopspring/decimal"
)

// defaultReorderThreshold applies when a new SKU does not set one.
const defaultReorderThreshold = 10

type ProductRequest struct {
	Name        string          `json:"product_name"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Description string          `json:"description,omitempty"`
	BasePrice   decimal.Decimal `json:"base_price" swaggertype:"number"`
	Tags        []string        `json:"tags"`
	Active      *bool           `json:"is_active,omitempty"`
}

func (p ProductRequest) toModel(vendorID string) models.Product {
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return models.Product{
		VendorID:    vendorID,
		Name:        p.Name,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Brand:       p.Brand,
		Description: p.Description,
		BasePrice:   models.NewPrice(p.BasePrice),
		Tags:        models.NewTags(p.Tags...),
		Active:      active,
	}
}

type SKURequest struct {
	VariantName       string          `json:"variant_name"`
	VariantAttributes map[string]any  `json:"variant_attributes"`
	UnitPrice         decimal.Decimal `json:"unit_price" swaggertype:"number"`
	CurrentStock      int             `json:"current_stock"`
	ReservedStock     int             `json:"reserved_stock"`
	ReorderThreshold  *int            `json:"reorder_threshold,omitempty"`
}

func (s SKURequest) toModel(productID, vendorID string) models.SKU {
	threshold := defaultReorderThreshold
	if s.ReorderThreshold != nil {
		threshold = *s.ReorderThreshold
	}
	attrs := s.VariantAttributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	return models.SKU{
		ProductID:         productID,
		VendorID:          vendorID,
		VariantName:       s.VariantName,
		VariantAttributes: attrs,
		UnitPrice:         models.NewPrice(s.UnitPrice),
		CurrentStock:      s.CurrentStock,
		ReservedStock:     s.ReservedStock,
		ReorderThreshold:  threshold,
	}
}

// AdjustmentRequest accepts the quantity as a JSON number or a string.
type AdjustmentRequest struct {
	QuantityChange any `json:"quantity_change" swaggertype:"number"`
}

// MutationResponse carries the upstream acknowledgment together with the
// record re-read after the mutation. RefreshError is set when the re-read
// failed; the mutation itself still succeeded.
type MutationResponse struct {
	Ack          client.Ack `json:"ack" swaggertype:"object"`
	Current      any        `json:"current,omitempty"`
	RefreshError string     `json:"refresh_error,omitempty"`
}

type AdjustmentResponse struct {
	TransactionType string                `json:"transaction_type"`
	QuantityChange  float64               `json:"quantity_change"`
	Ack             client.Ack            `json:"ack" swaggertype:"object"`
	Current         *models.InventoryItem `json:"current,omitempty"`
	RefreshError    string                `json:"refresh_error,omitempty"`
}

type ListViewResponse[T any] struct {
	Filter     string `json:"filter"`
	Generation uint64 `json:"generation,omitempty"`
	Total      int    `json:"total"`
	Items      []T    `json:"items"`
}

type ProductsResponse struct {
	Generation uint64           `json:"generation,omitempty"`
	Total      int              `json:"total"`
	Products   []models.Product `json:"products"`
}

type ImageUploadResponse struct {
	Uploaded int           `json:"uploaded"`
	Failed   int           `json:"failed"`
	URLs     []string      `json:"urls"`
	Report   images.Report `json:"report"`
}

type ProductCreatedResponse struct {
	ProductID    string          `json:"product_id"`
	Message      string          `json:"message,omitempty"`
	Current      *models.Product `json:"current,omitempty"`
	RefreshError string          `json:"refresh_error,omitempty"`
}
