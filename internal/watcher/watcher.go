// Package watcher compresses product photos as they land in the image
// directory.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	imagepkg "github.com/youruser/catalogapp/internal/image"
)

// CompressFunc processes one settled file.
type CompressFunc func(path string) imagepkg.CompressResult

// Options tunes the watcher.
type Options struct {
	// Settle is how long a file must stay quiet before it is processed.
	Settle time.Duration
	// Cooldown ignores events for a file after it was processed, which
	// covers the rename of our own rewrite.
	Cooldown time.Duration
	// Tick is how often settled files are looked for.
	Tick time.Duration
}

// DefaultOptions waits 2s for writes to finish and then ignores the file
// for 5s.
func DefaultOptions() Options {
	return Options{Settle: 2 * time.Second, Cooldown: 5 * time.Second, Tick: 100 * time.Millisecond}
}

// Stats counts watcher activity.
type Stats struct {
	Events     int
	Processed  int
	Compressed int
	Errors     int
}

// ImageWatcher watches one directory for new or changed images.
type ImageWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	opts     Options
	compress CompressFunc
	logger   *zap.Logger

	pending  map[string]time.Time
	cooldown map[string]time.Time
	stats    Stats

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a watcher for dir. Start must be called to begin watching.
func New(dir string, opts Options, compress CompressFunc, logger *zap.Logger) (*ImageWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultOptions()
	if opts.Tick <= 0 {
		opts.Tick = def.Tick
	}
	if opts.Settle < 0 {
		opts.Settle = def.Settle
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &ImageWatcher{
		watcher:  w,
		dir:      dir,
		opts:     opts,
		compress: compress,
		logger:   logger,
		pending:  make(map[string]time.Time),
		cooldown: make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. It does not block.
func (iw *ImageWatcher) Start(ctx context.Context) error {
	iw.mu.Lock()
	if iw.running {
		iw.mu.Unlock()
		return nil
	}
	if err := iw.watcher.Add(iw.dir); err != nil {
		iw.mu.Unlock()
		return fmt.Errorf("watching %s: %w", iw.dir, err)
	}
	iw.running = true
	iw.mu.Unlock()

	iw.logger.Info("watching images for compression", zap.String("dir", iw.dir))
	go iw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (iw *ImageWatcher) Stop() {
	iw.mu.Lock()
	if !iw.running {
		iw.mu.Unlock()
		iw.watcher.Close()
		return
	}
	iw.running = false
	iw.mu.Unlock()

	close(iw.stopCh)
	<-iw.doneCh

	if err := iw.watcher.Close(); err != nil {
		iw.logger.Error("closing watcher", zap.Error(err))
	}
}

// Stats returns a snapshot of the counters.
func (iw *ImageWatcher) Stats() Stats {
	iw.mu.Lock()
	defer iw.mu.Unlock()
	return iw.stats
}

func (iw *ImageWatcher) run(ctx context.Context) {
	defer close(iw.doneCh)

	ticker := time.NewTicker(iw.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-iw.stopCh:
			return
		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			iw.handleEvent(event)
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.logger.Error("watcher error", zap.Error(err))
			iw.mu.Lock()
			iw.stats.Errors++
			iw.mu.Unlock()
		case now := <-ticker.C:
			iw.processSettled(now)
		}
	}
}

func (iw *ImageWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || !imagepkg.IsImageFile(name) {
		return
	}

	now := time.Now()
	iw.mu.Lock()
	defer iw.mu.Unlock()
	iw.stats.Events++
	if until, ok := iw.cooldown[event.Name]; ok {
		if now.Before(until) {
			return
		}
		delete(iw.cooldown, event.Name)
	}
	iw.pending[event.Name] = now
}

func (iw *ImageWatcher) processSettled(now time.Time) {
	iw.mu.Lock()
	var ready []string
	for path, last := range iw.pending {
		if now.Sub(last) >= iw.opts.Settle {
			ready = append(ready, path)
			delete(iw.pending, path)
		}
	}
	iw.mu.Unlock()

	for _, path := range ready {
		res := iw.compress(path)

		iw.mu.Lock()
		iw.stats.Processed++
		iw.cooldown[path] = time.Now().Add(iw.opts.Cooldown)
		switch {
		case res.Err != nil:
			iw.stats.Errors++
		case !res.Skipped:
			iw.stats.Compressed++
		}
		iw.mu.Unlock()

		switch {
		case res.Err != nil:
			iw.logger.Warn("compressing new image failed", zap.String("file", path), zap.Error(res.Err))
		case res.Skipped:
			iw.logger.Debug("new image left as is", zap.String("file", filepath.Base(path)), zap.String("reason", res.Reason))
		default:
			iw.logger.Info("compressed new image",
				zap.String("file", filepath.Base(path)),
				zap.Int64("before", res.OriginalSize),
				zap.Int64("after", res.NewSize))
		}
	}
}
