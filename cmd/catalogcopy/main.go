// Command catalogcopy builds product images and text from the terminal and
// puts them on the clipboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/catalogapp/internal/clipboard"
	"github.com/youruser/catalogapp/internal/config"
	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	verbose    bool
	userAgent  string
	out        string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "catalogcopy",
		Short: "Copy product photos, text and composites to the clipboard",
		Long: `catalogcopy reads the product catalog and builds shareable images.

Composites combine up to four photos in a grid with text blocks below it.
The result goes to the system clipboard, or to a file in the download
directory when no clipboard is reachable.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging, a.verbose)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", envOr("CATALOG_CONFIG", "catalog.yaml"), "Config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&a.userAgent, "user-agent", "", "Deliver as if to this client (e.g. an iPhone user agent)")
	root.PersistentFlags().StringVarP(&a.out, "out", "o", "", "Write the PNG to this file instead of the clipboard")

	root.AddCommand(
		newProductsCmd(a),
		newTextCmd(a),
		newCopyCmd(a),
		newBulkCmd(a),
		newCompositeCmd(a),
		newCollectCmd(a),
		newCompressCmd(a),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (a *app) loader() *imagepkg.Loader {
	return imagepkg.NewLoader(
		imagepkg.WithLocalDir(a.cfg.ImagesDir(), a.cfg.Images.URLPrefix),
		imagepkg.WithBaseURL(a.cfg.Images.BaseURL),
		imagepkg.WithTimeout(a.cfg.LoadTimeout()),
		imagepkg.WithLoaderLogger(a.logger.Named("loader")),
	)
}

func (a *app) builder() (*imagepkg.Builder, error) {
	return imagepkg.NewBuilder(a.loader(),
		imagepkg.WithFontFile(a.cfg.Composite.FontFile),
		imagepkg.WithBuilderLogger(a.logger.Named("composite")),
	)
}

func (a *app) chain() *clipboard.Chain {
	return clipboard.NewChain(
		clipboard.NativeStep{Hold: a.cfg.ClipboardHold()},
		clipboard.NewSelectionStep(),
		nil,
		clipboard.DownloadStep{Dir: a.cfg.Clipboard.DownloadDir},
		a.logger.Named("delivery"),
	)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
