package cli

import (
	"errors"
	"mime"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rogerio-castellano/vendor-inventory/internal/images"
	"github.com/rogerio-castellano/vendor-inventory/internal/models"
	"github.com/rogerio-castellano/vendor-inventory/internal/stock"
	"github.com/rogerio-castellano/vendor-inventory/internal/views"
	"github.com/spf13/cobra"
)

func newDashboardCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show catalog and stock counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			vendorID, err := e.accessor.VendorIdentity(ctx)
			if err != nil {
				return err
			}
			stats := views.NewDashboard(e.inventory, e.products).Stats(ctx, vendorID)
			return e.render(cmd.OutOrStdout(), stats, table.Row{"Counter", "Value"}, []table.Row{
				{"Products", stats.TotalProducts},
				{"SKUs", stats.TotalSKUs},
				{"Low stock", stats.LowStockItems},
				{"Out of stock", stats.OutOfStock},
			})
		},
	}
}

func newProductsCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Browse the product catalog"}

	var category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the vendor's products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			vendorID, err := e.accessor.VendorIdentity(ctx)
			if err != nil {
				return err
			}
			q := url.Values{"vendor_id": {vendorID}}
			if category != "" {
				q.Set("category", category)
			}
			list, err := e.products.List(ctx, q)
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(list.Products))
			for _, p := range list.Products {
				rows = append(rows, table.Row{p.ID, p.Name, p.Category, p.BasePrice.StringFixed(2), p.Active})
			}
			return e.render(cmd.OutOrStdout(), list, table.Row{"ID", "Name", "Category", "Price", "Active"}, rows)
		},
	}
	list.Flags().StringVar(&category, "category", "", "only products of this category")

	cmd.AddCommand(list)
	return cmd
}

func inventoryRows(items []models.InventoryItem) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, i := range items {
		rows = append(rows, table.Row{i.ProductID, i.SKU, i.VariantName, i.CurrentStock, i.ReservedStock, i.ReorderThreshold})
	}
	return rows
}

var inventoryHeader = table.Row{"Product", "SKU", "Variant", "Stock", "Reserved", "Reorder at"}

func newInventoryCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "inventory", Short: "Inspect and adjust stock"}

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List stock records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := views.ParseFilter(filter)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			vendorID, err := e.accessor.VendorIdentity(ctx)
			if err != nil {
				return err
			}
			list, err := e.inventory.List(ctx, url.Values{"vendor_id": {vendorID}})
			if err != nil {
				return err
			}
			items := views.Apply(list.Inventory, f)
			return e.render(cmd.OutOrStdout(), items, inventoryHeader, inventoryRows(items))
		},
	}
	list.Flags().StringVar(&filter, "filter", "all", "all, low-stock or out-of-stock")

	lowStock := &cobra.Command{
		Use:   "low-stock",
		Short: "List low stock alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			vendorID, err := e.accessor.VendorIdentity(ctx)
			if err != nil {
				return err
			}
			list, err := e.inventory.LowStock(ctx, vendorID)
			if err != nil {
				return err
			}
			return e.render(cmd.OutOrStdout(), list, inventoryHeader, inventoryRows(list.Items))
		},
	}

	adjust := &cobra.Command{
		Use:     "adjust PRODUCT SKU QUANTITY",
		Short:   "Add (positive) or remove (negative) stock",
		Example: "  vendorctl inventory adjust p-1 sku-1 12\n  vendorctl inventory adjust p-1 sku-1 -- -3",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			adjuster := stock.NewAdjuster(e.accessor, e.inventory)
			result, err := adjuster.Adjust(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			item, err := adjuster.Reload(ctx, result)
			if err != nil {
				return err
			}
			return e.render(cmd.OutOrStdout(), item,
				table.Row{"Product", "SKU", "Type", "Change", "Stock"},
				[]table.Row{{item.ProductID, item.SKU, result.Kind, result.Delta, item.CurrentStock}})
		},
	}

	history := &cobra.Command{
		Use:   "history PRODUCT SKU",
		Short: "Show the stock transactions of a SKU",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := e.inventory.History(cmd.Context(), args[0], args[1], nil)
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(h.Transactions))
			for _, tx := range h.Transactions {
				rows = append(rows, table.Row{tx.CreatedAt, tx.TransactionType, tx.QuantityChange, tx.StockBefore, tx.StockAfter, tx.Reference})
			}
			return e.render(cmd.OutOrStdout(), h, table.Row{"When", "Type", "Change", "Before", "After", "Reference"}, rows)
		},
	}

	cmd.AddCommand(list, lowStock, adjust, history)
	return cmd
}

func newImagesCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "images", Short: "Manage product images"}

	var existing int
	upload := &cobra.Command{
		Use:   "upload PRODUCT FILE...",
		Short: "Upload up to five images to a product",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, closeAll, err := openImages(args[1:])
			if err != nil {
				return err
			}
			defer closeAll()

			report, err := images.NewUploader(e.accessor, e.products).UploadBatch(cmd.Context(), args[0], files, existing)
			if err != nil && !errors.Is(err, images.ErrPartialUpload) {
				return err
			}

			rows := make([]table.Row, 0, len(report.Items))
			for _, item := range report.Items {
				rows = append(rows, table.Row{item.Name, item.ImageURL, item.Error})
			}
			if renderErr := e.render(cmd.OutOrStdout(), report, table.Row{"File", "URL", "Error"}, rows); renderErr != nil {
				return renderErr
			}
			return err
		},
	}
	upload.Flags().IntVar(&existing, "existing", 0, "images the product already has")

	cmd.AddCommand(upload)
	return cmd
}

func openImages(paths []string) ([]images.File, func(), error) {
	files := make([]images.File, 0, len(paths))
	opened := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opened = append(opened, f)
		files = append(files, images.File{Name: filepath.Base(p), ContentType: contentType(p), Data: f})
	}
	return files, closeAll, nil
}

func contentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
