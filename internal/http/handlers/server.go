package handlers

import (
	"context"

	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/images"
	"github.com/rogerio-castellano/vendor-inventory/internal/stock"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
)

// IdentitySource resolves the vendor identity of the request's session.
type IdentitySource interface {
	VendorIdentity(ctx context.Context) (string, error)
}

var (
	productsAPI     *client.Products
	inventoryAPI    *client.Inventory
	ordersAPI       *client.Orders
	transactionsAPI *client.Transactions
	vendorAPI       *client.Vendor

	identity  IdentitySource
	adjuster  *stock.Adjuster
	uploader  *images.Uploader
	dashboard *views.Dashboard
	tracker   *views.Tracker
)

// SetClient wires every endpoint group to c.
func SetClient(c *client.Client) {
	productsAPI = client.NewProducts(c)
	inventoryAPI = client.NewInventory(c)
	ordersAPI = client.NewOrders(c)
	transactionsAPI = client.NewTransactions(c)
	vendorAPI = client.NewVendor(c)
}

func SetIdentity(i IdentitySource) {
	identity = i
}

func SetAdjuster(a *stock.Adjuster) {
	adjuster = a
}

func SetUploader(u *images.Uploader) {
	uploader = u
}

func SetDashboard(d *views.Dashboard) {
	dashboard = d
}

// SetTracker enables request sequencing for clients sending X-View-Id.
func SetTracker(t *views.Tracker) {
	tracker = t
}
