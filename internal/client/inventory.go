package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rogerio-castellano/vendor-inventory/internal/models"
)

// Inventory covers the stock endpoints.
type Inventory struct {
	c *Client
}

func NewInventory(c *Client) *Inventory {
	return &Inventory{c: c}
}

func inventoryPath(productID, sku string) string {
	return "/inventory/" + url.PathEscape(productID) + "/skus/" + url.PathEscape(sku)
}

func (i *Inventory) List(ctx context.Context, q url.Values) (models.InventoryList, error) {
	var list models.InventoryList
	err := i.c.Do(ctx, http.MethodGet, withQuery("/inventory", q), nil, &list)
	return list, err
}

func (i *Inventory) Get(ctx context.Context, productID, sku string) (models.InventoryItem, error) {
	var item models.InventoryItem
	err := i.c.Do(ctx, http.MethodGet, inventoryPath(productID, sku), nil, &item)
	return item, err
}

func (i *Inventory) LowStock(ctx context.Context, vendorID string) (models.LowStockList, error) {
	var list models.LowStockList
	q := url.Values{"vendor_id": {vendorID}}
	err := i.c.Do(ctx, http.MethodGet, withQuery("/inventory/low-stock", q), nil, &list)
	return list, err
}

// Adjust submits a stock adjustment. The server computes the new level;
// callers re-read with Get.
func (i *Inventory) Adjust(ctx context.Context, productID, sku string, req models.AdjustmentRequest) (Ack, error) {
	return i.c.mutate(ctx, http.MethodPost, inventoryPath(productID, sku)+"/adjust", req)
}

func (i *Inventory) History(ctx context.Context, productID, sku string, q url.Values) (models.StockHistory, error) {
	var history models.StockHistory
	err := i.c.Do(ctx, http.MethodGet, withQuery(inventoryPath(productID, sku)+"/history", q), nil, &history)
	return history, err
}
