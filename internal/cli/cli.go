// Package cli implements vendorctl, a terminal client for the inventory API
// built on the same SDK as the gateway.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rogerio-castellano/vendor-inventory/internal/client"
	"github.com/rogerio-castellano/vendor-inventory/internal/config"
	"github.com/rogerio-castellano/vendor-inventory/internal/session"
	"github.com/spf13/cobra"
)

// TokenEnv holds the ID token when --token is not given.
const TokenEnv = "VENDOR_ID_TOKEN"

type options struct {
	baseURL     string
	token       string
	vendorClaim string
	json        bool
}

// env is what every subcommand works with once flags are resolved.
type env struct {
	opts      *options
	accessor  *session.Accessor
	api       *client.Client
	products  *client.Products
	inventory *client.Inventory
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	e := &env{opts: opts}

	root := &cobra.Command{
		Use:           "vendorctl",
		Short:         "Manage a vendor catalog and stock from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.baseURL, "api-base-url", "", "inventory API base URL (defaults to VENDOR_API_BASE_URL)")
	flags.StringVar(&opts.token, "token", "", "ID token (defaults to $"+TokenEnv+")")
	flags.StringVar(&opts.vendorClaim, "vendor-claim", "", "claim holding the vendor id")
	flags.BoolVar(&opts.json, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newDashboardCommand(e),
		newProductsCommand(e),
		newInventoryCommand(e),
		newImagesCommand(e),
	)
	return root
}

func (e *env) init() error {
	if e.opts.baseURL == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		e.opts.baseURL = cfg.APIBaseURL
		if e.opts.vendorClaim == "" {
			e.opts.vendorClaim = cfg.IDP.VendorClaim
		}
	}
	if e.opts.token == "" {
		e.opts.token = os.Getenv(TokenEnv)
	}

	e.accessor = session.NewAccessor(session.StaticProvider{Token: e.opts.token}, e.opts.vendorClaim)
	e.api = client.New(e.opts.baseURL, e.accessor)
	e.products = client.NewProducts(e.api)
	e.inventory = client.NewInventory(e.api)
	return nil
}

// render prints v as JSON with --json, otherwise as a table.
func (e *env) render(w io.Writer, v any, header table.Row, rows []table.Row) error {
	if e.opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
	return nil
}

// Execute runs the root command and maps errors to an exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", describe(err))
		return 1
	}
	return 0
}

func describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("inventory API answered %d: %s", apiErr.Status, strings.TrimSpace(apiErr.Body))
	case errors.Is(err, session.ErrAuthUnavailable):
		return "no valid session, pass --token or set " + TokenEnv
	}
	return err.Error()
}
