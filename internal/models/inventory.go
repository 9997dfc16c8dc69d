package models

// SKU is a purchasable variant of a product. AvailableStock is only ever
// what the server reports; it is never computed from current and reserved.
type SKU struct {
	ProductID         string         `json:"product_id,omitempty"`
	VendorID          string         `json:"vendor_id,omitempty"`
	SKU               string         `json:"sku,omitempty"`
	VariantName       string         `json:"variant_name"`
	VariantAttributes map[string]any `json:"variant_attributes"`
	UnitPrice         Price          `json:"unit_price"`
	CurrentStock      int            `json:"current_stock"`
	ReservedStock     int            `json:"reserved_stock"`
	ReorderThreshold  int            `json:"reorder_threshold"`
	AvailableStock    *int           `json:"available_stock,omitempty"`
}

func (s SKU) Stock() int     { return s.CurrentStock }
func (s SKU) Threshold() int { return s.ReorderThreshold }

type SKUList struct {
	SKUs []SKU `json:"skus"`
}

// InventoryItem is the stock record of one SKU as listed by /inventory.
type InventoryItem struct {
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name,omitempty"`
	VendorID         string `json:"vendor_id,omitempty"`
	SKU              string `json:"sku"`
	VariantName      string `json:"variant_name,omitempty"`
	CurrentStock     int    `json:"current_stock"`
	ReservedStock    int    `json:"reserved_stock"`
	ReorderThreshold int    `json:"reorder_threshold"`
	AvailableStock   *int   `json:"available_stock,omitempty"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

func (i InventoryItem) Stock() int     { return i.CurrentStock }
func (i InventoryItem) Threshold() int { return i.ReorderThreshold }

type InventoryList struct {
	Inventory []InventoryItem `json:"inventory"`
}

type LowStockList struct {
	Items []InventoryItem `json:"items"`
}

// Transaction kinds of a stock adjustment.
const (
	StockIn  = "STOCK_IN"
	StockOut = "STOCK_OUT"
)

// AdjustmentRequest is the body of POST /inventory/{id}/skus/{sku}/adjust.
type AdjustmentRequest struct {
	VendorID        string  `json:"vendor_id"`
	QuantityChange  float64 `json:"quantity_change"`
	TransactionType string  `json:"transaction_type"`
}

// StockTransaction is one row of a SKU's stock history.
type StockTransaction struct {
	TransactionID   string  `json:"transaction_id"`
	ProductID       string  `json:"product_id"`
	SKU             string  `json:"sku"`
	TransactionType string  `json:"transaction_type"`
	QuantityChange  float64 `json:"quantity_change"`
	StockBefore     int     `json:"stock_before"`
	StockAfter      int     `json:"stock_after"`
	Reference       string  `json:"reference,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type StockHistory struct {
	Transactions []StockTransaction `json:"transactions"`
}
