package models

type VendorProfile struct {
	VendorID     string `json:"vendor_id"`
	BusinessName string `json:"business_name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
}

type OrderItem struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

// OrderEvent is forwarded to POST /orders/{placed|confirmed|cancelled|refunded}.
type OrderEvent struct {
	OrderID  string      `json:"order_id"`
	VendorID string      `json:"vendor_id,omitempty"`
	Items    []OrderItem `json:"items"`
	Reason   string      `json:"reason,omitempty"`
	Amount   *Price      `json:"amount,omitempty"`
}
