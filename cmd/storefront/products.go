package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/query"
	"github.com/spf13/cobra"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	var (
		search     string
		categories []string
		sizes      []string
		colors     []string
		minPrice   string
		maxPrice   string
		sort       string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products matching filters",
		Example: `  storefront products --category hoodies --sort price-asc
  storefront products --search neon --max-price 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := url.Values{}
			v.Set("search", search)
			v["category"] = categories
			v["size"] = sizes
			v["color"] = colors
			v.Set("min_price", minPrice)
			v.Set("max_price", maxPrice)
			v.Set("sort", sort)

			cr, err := catalog.ParseCriteria(v)
			if err != nil {
				return err
			}
			result := query.NewHandler(catalog.Seed(), nil).ListProducts(cr)

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return opts.printJSON(out, result)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fprintf(tw, "ID\tNAME\tCATEGORY\tPRICE\tBADGE\n")
			for _, p := range result.Products {
				fprintf(tw, "%d\t%s\t%s\t$%s\t%s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.Badge)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			filters := make([]string, 0, len(result.ActiveFilters))
			for _, f := range result.ActiveFilters {
				filters = append(filters, f.Label)
			}
			fprintf(out, "%d products", result.Count)
			if len(filters) > 0 {
				fprintf(out, " (%s)", strings.Join(filters, ", "))
			}
			fprintf(out, "\n")
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "text in the product name")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "category slug (repeatable)")
	cmd.Flags().StringSliceVar(&sizes, "size", nil, "size (repeatable)")
	cmd.Flags().StringSliceVar(&colors, "color", nil, "color (repeatable)")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "lowest price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "highest price")
	cmd.Flags().StringVar(&sort, "sort", string(catalog.SortFeatured), "featured, newest, price-asc or price-desc")
	return cmd
}

func newProductCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			detail, err := query.NewHandler(catalog.Seed(), nil).GetProduct(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return opts.printJSON(out, detail)
			}

			p := detail.Product
			fprintf(out, "%s  $%s\n", p.Name, p.Price.StringFixed(2))
			fprintf(out, "category: %s\n", p.Category)
			if len(p.Sizes) > 0 {
				fprintf(out, "sizes:    %s (default %s)\n", strings.Join(p.Sizes, ", "), detail.DefaultSize)
			} else {
				fprintf(out, "sizes:    one size\n")
			}
			if len(p.Colors) > 0 {
				fprintf(out, "colors:   %s (default %s)\n", strings.Join(p.Colors, ", "), detail.DefaultColor)
			}
			related := make([]string, 0, len(detail.Related))
			for _, r := range detail.Related {
				related = append(related, r.Name)
			}
			fprintf(out, "related:  %s\n", strings.Join(related, ", "))
			return nil
		},
	}
}
