package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/example/storefront/internal/bootstrap"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/event"
	"github.com/example/storefront/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	jsonOutput bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "storefront",
		Short: "Query the catalog and manage carts",
		Long: `storefront works against the same configuration as the API server.

Available subcommands:
  products - List products matching filters
  product  - Show one product page
  cart     - Show and change the cart of a session
  events   - Show the logged events of a cart or order`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default: environment only)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print JSON")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newProductsCmd(opts),
		newProductCmd(opts),
		newCartCmd(opts),
		newEventsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// env is what cart commands need, opened once per invocation
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
	stores  *bootstrap.Stores
	carts   *cart.Manager
}

func (o *rootOptions) open(ctx context.Context) (*env, error) {
	cfg, logger, err := o.load()
	if err != nil {
		return nil, err
	}
	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var pub event.Publisher = event.Discard
	if stores.EventLog != nil {
		pub = stores.EventLog
	}
	carts, err := cart.NewManager(stores.Slots, pub, logger, 1)
	if err != nil {
		stores.Close()
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, catalog: catalog.Seed(), stores: stores, carts: carts}, nil
}

func (e *env) Close() error {
	_ = e.logger.Sync()
	return e.stores.Close()
}

func (o *rootOptions) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func variantLabel(size, color string) string {
	switch {
	case size != "" && color != "":
		return size + " / " + color
	case size != "":
		return size
	default:
		return color
	}
}

func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
