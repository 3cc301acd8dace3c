package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/catalogapp/internal/api"
	"github.com/youruser/catalogapp/internal/clipboard"
	"github.com/youruser/catalogapp/internal/config"
	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/logging"
	"github.com/youruser/catalogapp/internal/products"
	"github.com/youruser/catalogapp/internal/watcher"
)

func main() {
	configPath := flag.String("config", envOr("CATALOG_CONFIG", "catalog.yaml"), "config file")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	if err := run(*configPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(configPath string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	imagesDir := cfg.ImagesDir()
	catalog := products.NewCatalog(cfg.Catalog.Path, cfg.Catalog.Sheet)
	// Best-effort warm-up; handlers report a missing file per request.
	if items, err := catalog.All(); err != nil {
		logger.Warn("products not loaded at startup", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	} else {
		logger.Info("products loaded", zap.Int("count", len(items)), zap.String("path", cfg.Catalog.Path))
	}

	loader := imagepkg.NewLoader(
		imagepkg.WithLocalDir(imagesDir, cfg.Images.URLPrefix),
		imagepkg.WithBaseURL(cfg.Images.BaseURL),
		imagepkg.WithLocalOnly(),
		imagepkg.WithTimeout(cfg.LoadTimeout()),
		imagepkg.WithLoaderLogger(logger.Named("loader")),
	)
	builder, err := imagepkg.NewBuilder(loader,
		imagepkg.WithFontFile(cfg.Composite.FontFile),
		imagepkg.WithBuilderLogger(logger.Named("composite")),
	)
	if err != nil {
		return err
	}

	compress := cfg.CompressOptions()
	if cfg.Watcher.Enabled {
		w, err := watcher.New(imagesDir, watcher.Options{
			Settle:   cfg.WatcherSettle(),
			Cooldown: cfg.WatcherCooldown(),
		}, func(path string) imagepkg.CompressResult {
			return imagepkg.CompressFile(path, compress, time.Now())
		}, logger.Named("watcher"))
		if err != nil {
			logger.Warn("image watcher unavailable", zap.Error(err))
		} else if err := w.Start(ctx); err != nil {
			logger.Warn("image watcher not started", zap.Error(err))
			w.Stop()
		} else {
			defer w.Stop()
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(logging.GinLogger(logger), logging.GinRecovery(logger))
	api.RegisterRoutes(r, api.New(api.Deps{
		Catalog:     catalog,
		StatusKey:   cfg.Catalog.StatusKey,
		Builder:     builder,
		Overlays:    clipboard.NewOverlayStore(cfg.OverlayTTL(), "/overlay/"),
		ImagesDir:   imagesDir,
		ImagesURL:   cfg.Images.URLPrefix,
		FrontendDir: cfg.Server.FrontendDir,
		Compress:    compress,
		Logger:      logger,
	}))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if cfg.HasTLS() {
			logger.Info("serving HTTPS", zap.String("addr", srv.Addr), zap.String("images", imagesDir))
			errCh <- srv.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
			return
		}
		logger.Warn("no TLS certificates found; serving plain HTTP, so mobile clipboard access is limited",
			zap.String("cert", cfg.Server.CertFile))
		logger.Info("serving HTTP", zap.String("addr", srv.Addr), zap.String("images", imagesDir))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
