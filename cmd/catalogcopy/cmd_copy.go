package main

import (
	"github.com/spf13/cobra"

	"github.com/youruser/catalogapp/internal/clipboard"
	"github.com/youruser/catalogapp/internal/collection"
	imagepkg "github.com/youruser/catalogapp/internal/image"
)

func newCopyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <image>",
		Short: "Copy one image as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.builder()
			if err != nil {
				return err
			}
			out, err := b.Single(cmd.Context(), args[0])
			if err != nil {
				return renderErr(err)
			}
			return a.deliver(cmd, out, clipboard.SingleFilename)
		},
	}
}

func newBulkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <image>...",
		Short: "Copy several images stacked top to bottom",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.builder()
			if err != nil {
				return err
			}
			out, err := b.Stack(cmd.Context(), args)
			if err != nil {
				return renderErr(err)
			}
			return a.deliver(cmd, out, clipboard.BulkFilename)
		},
	}
}

func newCompositeCmd(a *app) *cobra.Command {
	var (
		images, texts  []string
		collectionFile string
		useCollection  bool
	)
	cmd := &cobra.Command{
		Use:   "composite",
		Short: "Copy photos and text blocks as one image",
		Long: `Builds a composite of up to four photos in a grid with the text blocks
stacked below, in the order given. With --collection (or --use-collection)
the collection's items come first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req imagepkg.Request
			if useCollection && collectionFile == "" {
				collectionFile = collection.DefaultPath()
			}
			if collectionFile != "" {
				c, err := collection.Load(collectionFile)
				if err != nil {
					return err
				}
				req = c.Request()
			}
			for _, u := range images {
				req.Images = append(req.Images, imagepkg.ImageItem{URL: u})
			}
			for _, t := range texts {
				req.Texts = append(req.Texts, imagepkg.TextItem{Text: t})
			}

			b, err := a.builder()
			if err != nil {
				return err
			}
			out, err := b.Build(cmd.Context(), req)
			if err != nil {
				return renderErr(err)
			}
			return a.deliver(cmd, out, clipboard.CompositeFilename)
		},
	}
	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Image URL or path (repeatable, up to 4 are used)")
	cmd.Flags().StringArrayVarP(&texts, "text", "t", nil, "Text block (repeatable)")
	cmd.Flags().StringVar(&collectionFile, "collection", "", "Collection file to build from")
	cmd.Flags().BoolVar(&useCollection, "use-collection", false, "Build from the default collection file")
	return cmd
}
