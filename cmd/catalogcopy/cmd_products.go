package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/youruser/catalogapp/internal/clipboard"
	"github.com/youruser/catalogapp/internal/products"
)

func (a *app) products() ([]products.Product, error) {
	return products.LoadProducts(a.cfg.Catalog.Path, a.cfg.Catalog.Sheet)
}

func newProductsCmd(a *app) *cobra.Command {
	var (
		query, status string
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List or search products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.products()
			if err != nil {
				return err
			}
			items = products.Filter(items, products.FilterOptions{
				Query:     query,
				Status:    status,
				StatusKey: a.cfg.Catalog.StatusKey,
			})

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPHOTOS")
			for _, p := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					p.ID(), products.Name(p), p.Get(a.cfg.Catalog.StatusKey), strings.Join(p.Photos(), ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive search over every column")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Exact status value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newTextCmd(a *app) *cobra.Command {
	var (
		copyText bool
		step     int
	)
	cmd := &cobra.Command{
		Use:   "text <id>",
		Short: "Print a product's share text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.products()
			if err != nil {
				return err
			}
			p, ok := products.FindByID(items, args[0])
			if !ok {
				return fmt.Errorf("product %q not found", args[0])
			}

			text := products.FullText(p)
			if step > 0 {
				key := fmt.Sprintf("Price step %d", step)
				v := p.Get(key)
				if v == "" {
					return fmt.Errorf("product %q has no %s", args[0], key)
				}
				text = products.PriceStepText(key, v)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			if copyText {
				if err := clipboard.CopyText(text); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied text to clipboard")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&copyText, "copy", false, "Also copy the text to the clipboard")
	cmd.Flags().IntVar(&step, "step", 0, "Only the given price step")
	return cmd
}
