package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/catalogapp/internal/collection"
	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/products"
)

func newCollectCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Manage the working collection used by composite --use-collection",
	}
	cmd.PersistentFlags().StringVar(&file, "file", collection.DefaultPath(), "Collection file")

	// update loads the collection, applies fn and saves it.
	update := func(fn func(c *collection.Collection) error) error {
		c, err := collection.Load(file)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		return c.Save(file)
	}

	var imageLabel string
	addImage := &cobra.Command{
		Use:   "add-image <url>",
		Short: "Add a photo (up to 4)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(func(c *collection.Collection) error {
				if err := c.AddImage(imagepkg.ImageItem{URL: args[0], Label: imageLabel}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Images: %d/%d\n", len(c.Images), collection.MaxImages)
				return nil
			})
		},
	}
	addImage.Flags().StringVar(&imageLabel, "label", "", "Label shown by show")

	var textLabel string
	addText := &cobra.Command{
		Use:   "add-text <text>",
		Short: "Add a text block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(func(c *collection.Collection) error {
				c.AddText(imagepkg.TextItem{Text: args[0], Label: textLabel})
				fmt.Fprintf(cmd.OutOrStdout(), "Texts: %d\n", len(c.Texts))
				return nil
			})
		},
	}
	addText.Flags().StringVar(&textLabel, "label", "", "Label shown by show")

	addProduct := &cobra.Command{
		Use:   "add-product <id>",
		Short: "Add a product's first photo and its share text",
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
			return update(func(c *collection.Collection) error {
				if photos := p.Photos(); len(photos) > 0 {
					url := a.cfg.Images.URLPrefix + photos[0]
					if err := c.AddImage(imagepkg.ImageItem{URL: url, Label: products.Name(p)}); err != nil {
						return err
					}
				}
				c.AddText(imagepkg.TextItem{Text: products.FullText(p), Label: products.Name(p)})
				fmt.Fprintln(cmd.OutOrStdout(), collection.ExportText(c))
				return nil
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := collection.Load(file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), collection.ExportText(c))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(func(c *collection.Collection) error {
				c.Clear()
				fmt.Fprintln(cmd.OutOrStdout(), "Collection cleared")
				return nil
			})
		},
	}

	cmd.AddCommand(addImage, addText, addProduct, show, clearCmd)
	return cmd
}
