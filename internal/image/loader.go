package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/catalogapp/internal/util"
)

const (
	// DefaultLoadTimeout bounds one image load, decode included.
	DefaultLoadTimeout = 10 * time.Second
	// DefaultLoadConcurrency caps in-flight loads in LoadAll.
	DefaultLoadConcurrency = 6
)

// ErrSourceNotAllowed is returned for sources a local-only Loader refuses.
var ErrSourceNotAllowed = errors.New("image source not allowed")

// Loader resolves image URLs into decoded bitmaps. A failed load is logged
// and reported as nil, never as an error.
type Loader struct {
	client    *http.Client
	timeout   time.Duration
	localDir  string
	urlPrefix string
	baseURL   *url.URL
	localOnly bool
	limit     int
	logger    *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the client used for remote images.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithTimeout overrides DefaultLoadTimeout.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLocalDir serves URLs under prefix (e.g. "/images/") straight from dir.
func WithLocalDir(dir, prefix string) LoaderOption {
	return func(l *Loader) {
		l.localDir = dir
		l.urlPrefix = prefix
	}
}

// WithBaseURL resolves relative URLs against base. Invalid bases are ignored.
func WithBaseURL(base string) LoaderOption {
	return func(l *Loader) {
		if base == "" {
			return
		}
		if u, err := url.Parse(base); err == nil && u.IsAbs() {
			l.baseURL = u
		}
	}
}

// WithLocalOnly restricts sources to URLs under the local prefix and
// URLs on the base URL's host. Plain paths, file:// and other hosts are
// refused.
func WithLocalOnly() LoaderOption {
	return func(l *Loader) { l.localOnly = true }
}

// WithConcurrency overrides DefaultLoadConcurrency.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader returns a Loader with a 10s timeout and no local directory.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:  http.DefaultClient,
		timeout: DefaultLoadTimeout,
		limit:   DefaultLoadConcurrency,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes src. It returns nil on network error, non-200
// response, decode error or timeout.
func (l *Loader) Load(ctx context.Context, src string) *Decoded {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	type result struct {
		img image.Image
		err error
	}
	done := make(chan result, 1)
	go func() {
		img, err := l.fetchAndDecode(ctx, src)
		done <- result{img, err}
	}()

	select {
	case <-ctx.Done():
		l.logger.Warn("image load timed out", zap.String("url", src), zap.Duration("timeout", l.timeout))
		return nil
	case r := <-done:
		if r.err != nil {
			l.logger.Warn("image load failed", zap.String("url", src), zap.Error(r.err))
			return nil
		}
		b := r.img.Bounds()
		return &Decoded{Source: src, Image: r.img, Width: b.Dx(), Height: b.Dy()}
	}
}

// LoadAll loads srcs with at most the configured number in flight. The
// result is index-aligned with srcs; failed entries are nil.
func (l *Loader) LoadAll(ctx context.Context, srcs []string) []*Decoded {
	out := make([]*Decoded, len(srcs))
	var g errgroup.Group
	g.SetLimit(l.limit)
	for i, src := range srcs {
		g.Go(func() error {
			out[i] = l.Load(ctx, src)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (l *Loader) fetchAndDecode(ctx context.Context, src string) (image.Image, error) {
	data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("empty image url")
	}
	if l.local(src) {
		return l.readLocal(strings.TrimPrefix(src, l.urlPrefix))
	}

	u, err := url.Parse(src)
	if err != nil {
		return nil, err
	}
	if l.localOnly {
		return l.fetchRestricted(ctx, u)
	}
	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		return util.FetchBytes(ctx, l.client, u.String())
	case u.Scheme == "file":
		return os.ReadFile(u.Path)
	case u.Scheme == "" && l.baseURL != nil:
		return util.FetchBytes(ctx, l.client, l.baseURL.ResolveReference(u).String())
	case u.Scheme == "":
		return os.ReadFile(src)
	}
	return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
}

func (l *Loader) local(path string) bool {
	return l.localDir != "" && l.urlPrefix != "" && strings.HasPrefix(path, l.urlPrefix)
}

// fetchRestricted serves absolute URLs whose path is under the local prefix
// from disk and only fetches remote URLs on the base URL's host.
func (l *Loader) fetchRestricted(ctx context.Context, u *url.URL) ([]byte, error) {
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrSourceNotAllowed, u.Scheme)
	}
	if u.Scheme != "" && l.local(u.EscapedPath()) {
		return l.readLocal(strings.TrimPrefix(u.EscapedPath(), l.urlPrefix))
	}
	if l.baseURL == nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotAllowed, u.Redacted())
	}
	target := l.baseURL.ResolveReference(u)
	if target.Scheme != l.baseURL.Scheme || target.Host != l.baseURL.Host {
		return nil, fmt.Errorf("%w: host %q", ErrSourceNotAllowed, target.Host)
	}
	return util.FetchBytes(ctx, l.client, target.String())
}

// readLocal reads an escaped, prefix-relative name from localDir without
// letting it escape the directory.
func (l *Loader) readLocal(escaped string) ([]byte, error) {
	name, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, err
	}
	clean := filepath.Clean("/" + filepath.FromSlash(name))
	return os.ReadFile(filepath.Join(l.localDir, clean))
}
