package views

import (
	"context"
	"net/url"

	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
	"golang.org/x/sync/errgroup"
)

// Stats are the dashboard counters.
type Stats struct {
	TotalProducts int `json:"total_products"`
	TotalSKUs     int `json:"total_skus"`
	LowStockItems int `json:"low_stock_items"`
	OutOfStock    int `json:"out_of_stock"`
}

type InventoryReader interface {
	List(ctx context.Context, q url.Values) (models.InventoryList, error)
	LowStock(ctx context.Context, vendorID string) (models.LowStockList, error)
}

type ProductLister interface {
	List(ctx context.Context, q url.Values) (models.ProductList, error)
}

type Dashboard struct {
	inventory InventoryReader
	products  ProductLister
}

func NewDashboard(inventory InventoryReader, products ProductLister) *Dashboard {
	return &Dashboard{inventory: inventory, products: products}
}

// Stats fetches the three dashboard sources in parallel. Any upstream
// failure yields zeroed counters so the page stays usable; the error is
// logged, not returned.
func (d *Dashboard) Stats(ctx context.Context, vendorID string) Stats {
	q := url.Values{"vendor_id": {vendorID}}

	var (
		inventory models.InventoryList
		products  models.ProductList
		lowStock  models.LowStockList
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		inventory, err = d.inventory.List(gctx, q)
		return err
	})
	g.Go(func() (err error) {
		products, err = d.products.List(gctx, q)
		return err
	})
	g.Go(func() (err error) {
		lowStock, err = d.inventory.LowStock(gctx, vendorID)
		return err
	})

	if err := g.Wait(); err != nil {
		obs.Logger.Warn("dashboard_stats_degraded", "vendor_id", vendorID, "error", err)
		return Stats{}
	}

	return Stats{
		TotalProducts: len(products.Products),
		TotalSKUs:     len(inventory.Inventory),
		LowStockItems: len(lowStock.Items),
		OutOfStock:    len(Apply(inventory.Inventory, OutOfStock)),
	}
}
