package handlers

import (
	"strings"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{Field: "product_name", Description: "Name is required"})
	}
	if strings.TrimSpace(p.Category) == "" {
		errs = append(errs, ValidationError{Field: "category", Description: "Category is required"})
	}
	if !p.BasePrice.IsPositive() {
		errs = append(errs, ValidationError{Field: "base_price", Description: "Price must be greater than zero"})
	}
	return errs
}

func validateSKU(s SKURequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(s.VariantName) == "" {
		errs = append(errs, ValidationError{Field: "variant_name", Description: "Variant name is required"})
	}
	if s.UnitPrice.IsNegative() {
		errs = append(errs, ValidationError{Field: "unit_price", Description: "Price cannot be negative"})
	}
	if s.CurrentStock < 0 {
		errs = append(errs, ValidationError{Field: "current_stock", Description: "Stock cannot be negative"})
	}
	if s.ReservedStock < 0 {
		errs = append(errs, ValidationError{Field: "reserved_stock", Description: "Reserved stock cannot be negative"})
	}
	if s.ReorderThreshold != nil && *s.ReorderThreshold < 0 {
		errs = append(errs, ValidationError{Field: "reorder_threshold", Description: "Reorder threshold cannot be negative"})
	}
	return errs
}
