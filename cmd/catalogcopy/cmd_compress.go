package main

import (
	"fmt"

	"github.com/spf13/cobra"

	imagepkg "github.com/youruser/catalogapp/internal/image"
)

func newCompressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compress [dir]",
		Short: "Re-encode large photos in the image directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.ImagesDir()
			if len(args) == 1 {
				dir = args[0]
			}
			results, err := imagepkg.CompressDir(dir, a.cfg.CompressOptions(), a.logger)
			if err != nil {
				return err
			}

			var compressed, failed int
			var saved int64
			for _, r := range results {
				switch {
				case r.Err != nil:
					failed++
				case !r.Skipped:
					compressed++
					saved += r.Savings
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Images found: %d, compressed: %d, failed: %d, saved: %.1f KB\n",
				len(results), compressed, failed, float64(saved)/1024)
			return nil
		},
	}
}
