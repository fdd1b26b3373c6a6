package main

import (
	"errors"
	"strconv"
	"text/tabwriter"

	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/checkout"
	"github.com/example/storefront/internal/query"
	"github.com/spf13/cobra"
)

func newCartCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart of a session",
		Long: `Carts are read from and written to the configured store backend.

Available subcommands:
  show   - Show the items and totals
  add    - Add a product variant
  remove - Remove a product variant
  clear  - Remove every item`,
	}
	cmd.AddCommand(
		newCartShowCmd(opts),
		newCartAddCmd(opts),
		newCartRemoveCmd(opts),
		newCartClearCmd(opts),
	)
	return cmd
}

func newCartShowCmd(opts *rootOptions) *cobra.Command {
	var shipping string

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show the items and totals of a cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			view, err := query.NewHandler(e.catalog, e.carts).GetCart(ctx, args[0])
			if err != nil {
				return err
			}
			summary, err := checkout.Summarize(view.Subtotal, checkout.ShippingMethod(shipping))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return opts.printJSON(out, struct {
					*query.CartView
					Summary checkout.Summary `json:"summary"`
				}{view, summary})
			}

			if len(view.Items) == 0 {
				fprintf(out, "cart is empty\n")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fprintf(tw, "ID\tNAME\tVARIANT\tQTY\tTOTAL\n")
			for _, item := range view.Items {
				fprintf(tw, "%d\t%s\t%s\t%d\t$%s\n", item.ID, item.Name, variantLabel(item.Size, item.Color), item.Quantity, item.LineTotal().StringFixed(2))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fprintf(out, "items:    %d\n", view.TotalItems)
			fprintf(out, "subtotal: $%s\n", summary.Subtotal.StringFixed(2))
			fprintf(out, "shipping: $%s\n", summary.Shipping.StringFixed(2))
			fprintf(out, "tax:      $%s\n", summary.Tax.StringFixed(2))
			fprintf(out, "total:    $%s\n", summary.Total.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&shipping, "shipping", string(checkout.ShippingStandard), "standard or express")
	return cmd
}

func newCartAddCmd(opts *rootOptions) *cobra.Command {
	var (
		quantity int
		size     string
		color    string
	)

	cmd := &cobra.Command{
		Use:   "add <session-id> <product-id>",
		Short: "Add a product variant to a cart",
		Long: `Add a product variant to a cart. Without --size and --color the first
size and color of the product are used, like the quick add button.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New("invalid product id " + args[1])
			}

			ctx := cmd.Context()
			e, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			commands := command.NewHandler(e.catalog, e.carts, nil)
			if size == "" && color == "" {
				p, err := e.catalog.Get(productID)
				if err != nil {
					return err
				}
				if len(p.Sizes) > 0 {
					size = p.Sizes[0]
				}
				if len(p.Colors) > 0 {
					color = p.Colors[0]
				}
			}
			item, err := commands.AddToCart(ctx, command.AddToCart{
				SessionID: args[0],
				ProductID: productID,
				Quantity:  quantity,
				Size:      size,
				Color:     color,
			})
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return opts.printJSON(cmd.OutOrStdout(), item)
			}
			fprintf(cmd.OutOrStdout(), "%s (%s) x%d\n", item.Name, variantLabel(item.Size, item.Color), item.Quantity)
			return nil
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")
	cmd.Flags().StringVar(&size, "size", "", "size")
	cmd.Flags().StringVar(&color, "color", "", "color")
	return cmd
}

func newCartRemoveCmd(opts *rootOptions) *cobra.Command {
	var size, color string

	cmd := &cobra.Command{
		Use:   "remove <session-id> <product-id>",
		Short: "Remove a product variant from a cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New("invalid product id " + args[1])
			}

			ctx := cmd.Context()
			e, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			item, err := command.NewHandler(e.catalog, e.carts, nil).RemoveFromCart(ctx, command.RemoveFromCart{
				SessionID: args[0],
				ProductID: productID,
				Size:      size,
				Color:     color,
			})
			if err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "removed %s (%s)\n", item.Name, variantLabel(item.Size, item.Color))
			return nil
		},
	}
	cmd.Flags().StringVar(&size, "size", "", "size")
	cmd.Flags().StringVar(&color, "color", "", "color")
	return cmd
}

func newCartClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Remove every item from a cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := command.NewHandler(e.catalog, e.carts, nil).ClearCart(ctx, command.ClearCart{SessionID: args[0]}); err != nil {
				return err
			}
			fprintf(cmd.OutOrStdout(), "cart cleared\n")
			return nil
		},
	}
}
