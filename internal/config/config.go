package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	imagepkg "github.com/youruser/catalogapp/internal/image"
)

// Config holds the catalog server and CLI configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Images      ImagesConfig      `yaml:"images"`
	Composite   CompositeConfig   `yaml:"composite"`
	Clipboard   ClipboardConfig   `yaml:"clipboard"`
	Compression CompressionConfig `yaml:"compression"`
	Watcher     WatcherConfig     `yaml:"watcher"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	CertFile    string `yaml:"cert_file"`
	KeyFile     string `yaml:"key_file"`
	FrontendDir string `yaml:"frontend_dir"` // built SPA (dist)
}

// CatalogConfig points at the product spreadsheet.
type CatalogConfig struct {
	Path      string `yaml:"path"`  // .xlsx or .csv
	Sheet     string `yaml:"sheet"` // empty means first sheet
	StatusKey string `yaml:"status_key"`
}

// ImagesConfig locates product photos.
type ImagesConfig struct {
	Dir         string `yaml:"dir"`
	FallbackDir string `yaml:"fallback_dir"` // used when Dir does not exist
	URLPrefix   string `yaml:"url_prefix"`
	BaseURL     string `yaml:"base_url"` // resolves relative URLs outside URLPrefix
	LoadTimeout string `yaml:"load_timeout"`
}

// CompositeConfig tunes the composite renderer.
type CompositeConfig struct {
	FontFile string `yaml:"font_file"`
}

// ClipboardConfig tunes the delivery chain.
type ClipboardConfig struct {
	DownloadDir string `yaml:"download_dir"`
	OverlayTTL  string `yaml:"overlay_ttl"`
	Hold        string `yaml:"hold"` // keep clipboard ownership after a native write
}

// CompressionConfig mirrors the at-rest compression thresholds.
type CompressionConfig struct {
	MinBytes          int64   `yaml:"min_bytes"`
	RecentWindow      string  `yaml:"recent_window"`
	RecentMaxBytes    int64   `yaml:"recent_max_bytes"`
	JPEGQuality       int     `yaml:"jpeg_quality"`
	MinSavingsPercent float64 `yaml:"min_savings_percent"`
}

// WatcherConfig configures the image directory watcher.
type WatcherConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Settle   string `yaml:"settle"`
	Cooldown string `yaml:"cooldown"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "3001",
			CertFile:    filepath.Join("certs", "cert.pem"),
			KeyFile:     filepath.Join("certs", "key.pem"),
			FrontendDir: filepath.Join("frontend", "dist"),
		},
		Catalog: CatalogConfig{
			Path:      "products.xlsx",
			StatusKey: "สถานะ",
		},
		Images: ImagesConfig{
			Dir:         filepath.Join("frontend", "dist", "images"),
			FallbackDir: filepath.Join("frontend", "public", "images"),
			URLPrefix:   "/images/",
			LoadTimeout: "10s",
		},
		Clipboard: ClipboardConfig{
			DownloadDir: defaultDownloadDir(),
			OverlayTTL:  "10s",
			Hold:        "0s",
		},
		Compression: CompressionConfig{
			MinBytes:          500 * 1024,
			RecentWindow:      "5m",
			RecentMaxBytes:    2 * 1024 * 1024,
			JPEGQuality:       85,
			MinSavingsPercent: 5,
		},
		Watcher: WatcherConfig{
			Enabled:  true,
			Settle:   "2s",
			Cooldown: "5s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if p := os.Getenv("CATALOG_PRODUCTS"); p != "" {
		c.Catalog.Path = p
	}
	if dir := os.Getenv("CATALOG_IMAGES_DIR"); dir != "" {
		c.Images.Dir = dir
		c.Images.FallbackDir = ""
	}
	if u := os.Getenv("CATALOG_BASE_URL"); u != "" {
		c.Images.BaseURL = u
	}
	if f := os.Getenv("CATALOG_FONT"); f != "" {
		c.Composite.FontFile = f
	}
	if dir := os.Getenv("CATALOG_DOWNLOAD_DIR"); dir != "" {
		c.Clipboard.DownloadDir = dir
	}
	// The watcher stays on unless explicitly disabled.
	if v := os.Getenv("ENABLE_IMAGE_WATCHER"); v != "" {
		c.Watcher.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if lvl := os.Getenv("CATALOG_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate checks durations and thresholds.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"images.load_timeout":       c.Images.LoadTimeout,
		"clipboard.overlay_ttl":     c.Clipboard.OverlayTTL,
		"clipboard.hold":            c.Clipboard.Hold,
		"compression.recent_window": c.Compression.RecentWindow,
		"watcher.settle":            c.Watcher.Settle,
		"watcher.cooldown":          c.Watcher.Cooldown,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
	}
	if q := c.Compression.JPEGQuality; q < 1 || q > 100 {
		return fmt.Errorf("invalid compression.jpeg_quality %d: must be 1-100", q)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	return nil
}

// ImagesDir returns Dir if it exists, else FallbackDir if that exists, else Dir.
func (c *Config) ImagesDir() string {
	if _, err := os.Stat(c.Images.Dir); err == nil {
		return c.Images.Dir
	}
	if c.Images.FallbackDir != "" {
		if _, err := os.Stat(c.Images.FallbackDir); err == nil {
			return c.Images.FallbackDir
		}
	}
	return c.Images.Dir
}

// HasTLS reports whether both certificate files exist.
func (c *Config) HasTLS() bool {
	if c.Server.CertFile == "" || c.Server.KeyFile == "" {
		return false
	}
	if _, err := os.Stat(c.Server.CertFile); err != nil {
		return false
	}
	_, err := os.Stat(c.Server.KeyFile)
	return err == nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func duration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || v == "" {
		return def
	}
	return d
}

func (c *Config) LoadTimeout() time.Duration     { return duration(c.Images.LoadTimeout, 10*time.Second) }
func (c *Config) OverlayTTL() time.Duration      { return duration(c.Clipboard.OverlayTTL, 10*time.Second) }
func (c *Config) ClipboardHold() time.Duration   { return duration(c.Clipboard.Hold, 0) }
func (c *Config) RecentWindow() time.Duration    { return duration(c.Compression.RecentWindow, 5*time.Minute) }
func (c *Config) WatcherSettle() time.Duration   { return duration(c.Watcher.Settle, 2*time.Second) }
func (c *Config) WatcherCooldown() time.Duration { return duration(c.Watcher.Cooldown, 5*time.Second) }

// CompressOptions converts the compression section for the compressor.
func (c *Config) CompressOptions() imagepkg.CompressOptions {
	return imagepkg.CompressOptions{
		MinBytes:          c.Compression.MinBytes,
		RecentWindow:      c.RecentWindow(),
		RecentMaxBytes:    c.Compression.RecentMaxBytes,
		JPEGQuality:       c.Compression.JPEGQuality,
		MinSavingsPercent: c.Compression.MinSavingsPercent,
	}
}
