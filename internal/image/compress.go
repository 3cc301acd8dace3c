package imagepkg

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/youruser/catalogapp/internal/util"
)

// CompressOptions are the thresholds for at-rest compression.
type CompressOptions struct {
	// Files smaller than MinBytes are left alone.
	MinBytes int64
	// Files modified within RecentWindow and smaller than RecentMaxBytes
	// are treated as already processed.
	RecentWindow   time.Duration
	RecentMaxBytes int64
	JPEGQuality    int
	// A rewrite is kept only if it saves at least this percentage.
	MinSavingsPercent float64
}

// DefaultCompressOptions returns 500 KB / 5 min / 2 MB / q85 / 5%.
func DefaultCompressOptions() CompressOptions {
	return CompressOptions{
		MinBytes:          500 * 1024,
		RecentWindow:      5 * time.Minute,
		RecentMaxBytes:    2 * 1024 * 1024,
		JPEGQuality:       85,
		MinSavingsPercent: 5,
	}
}

// CompressResult describes what happened to one file.
type CompressResult struct {
	Path           string
	Skipped        bool
	Reason         string
	OriginalSize   int64
	NewSize        int64
	Savings        int64
	SavingsPercent float64
	Err            error
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// IsImageFile reports whether name has an image extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// CompressFile re-encodes a JPEG or PNG in place when that makes it
// meaningfully smaller. now is the reference time for the recency check.
func CompressFile(path string, opts CompressOptions, now time.Time) CompressResult {
	res := CompressResult{Path: path}
	info, err := os.Stat(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.OriginalSize = info.Size()

	skip := func(reason string) CompressResult {
		res.Skipped = true
		res.Reason = reason
		res.NewSize = res.OriginalSize
		return res
	}

	if info.Size() < opts.MinBytes {
		return skip("below size threshold")
	}
	if now.Sub(info.ModTime()) < opts.RecentWindow && info.Size() < opts.RecentMaxBytes {
		return skip("recently processed")
	}

	var format imaging.Format
	var encOpts []imaging.EncodeOption
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		format = imaging.JPEG
		encOpts = append(encOpts, imaging.JPEGQuality(opts.JPEGQuality))
	case ".png":
		format = imaging.PNG
		encOpts = append(encOpts, imaging.PNGCompressionLevel(png.BestCompression))
	default:
		return skip("unsupported format")
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		res.Err = fmt.Errorf("decoding %s: %w", path, err)
		return res
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, encOpts...); err != nil {
		res.Err = fmt.Errorf("encoding %s: %w", path, err)
		return res
	}

	newSize := int64(buf.Len())
	savings := res.OriginalSize - newSize
	percent := float64(savings) / float64(res.OriginalSize) * 100
	if percent < opts.MinSavingsPercent {
		return skip("insufficient savings")
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		res.Err = err
		return res
	}
	res.NewSize = newSize
	res.Savings = savings
	res.SavingsPercent = percent
	return res
}

// ListImages returns the image files directly under dir, sorted.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsImageFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// CompressDir runs CompressFile over every image in dir.
func CompressDir(dir string, opts CompressOptions, logger *zap.Logger) ([]CompressResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	paths, err := ListImages(dir)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}

	now := time.Now()
	results := make([]CompressResult, 0, len(paths))
	var saved int64
	compressed := 0
	for _, p := range paths {
		r := CompressFile(p, opts, now)
		results = append(results, r)
		switch {
		case r.Err != nil:
			logger.Warn("compression failed", zap.String("file", p), zap.Error(r.Err))
		case r.Skipped:
			logger.Debug("compression skipped", zap.String("file", p), zap.String("reason", r.Reason))
		default:
			compressed++
			saved += r.Savings
			logger.Info("compressed image",
				zap.String("file", filepath.Base(p)),
				zap.Int64("before", r.OriginalSize),
				zap.Int64("after", r.NewSize),
				zap.Float64("savings_percent", r.SavingsPercent))
		}
	}
	logger.Info("compression finished",
		zap.Int("files", len(paths)),
		zap.Int("compressed", compressed),
		zap.Int64("bytes_saved", saved))
	return results, nil
}
