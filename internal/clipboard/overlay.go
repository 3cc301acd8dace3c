package clipboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	imagepkg "github.com/youruser/catalogapp/internal/image"
)

// DefaultOverlayTTL is how long an overlay stays up before it is dismissed.
const DefaultOverlayTTL = 10 * time.Second

// ErrNoPresenter means the overlay step has nothing to present with.
var ErrNoPresenter = errors.New("no overlay presenter configured")

// Presenter shows a PNG to the user for a manual long-press copy and
// returns where it can be viewed.
type Presenter interface {
	Present(ctx context.Context, png []byte) (string, error)
}

// OverlayStep hands the PNG to a Presenter. It is meant for mobile clients.
type OverlayStep struct {
	Presenter Presenter
}

func (OverlayStep) Method() Method { return MethodOverlay }

func (OverlayStep) Available(env Env) bool { return env.Mobile }

func (s OverlayStep) Deliver(ctx context.Context, png *imagepkg.Rendered, _ string) (string, error) {
	if s.Presenter == nil {
		return "", ErrNoPresenter
	}
	return s.Presenter.Present(ctx, png.Data)
}

type overlayEntry struct {
	png     []byte
	expires time.Time
	timer   *time.Timer
}

// OverlayStore keeps presented PNGs in memory until they expire or are
// dismissed. It is safe for concurrent use.
type OverlayStore struct {
	ttl      time.Duration
	basePath string
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*overlayEntry
}

// NewOverlayStore returns a store whose Present returns basePath + id.
func NewOverlayStore(ttl time.Duration, basePath string) *OverlayStore {
	if ttl <= 0 {
		ttl = DefaultOverlayTTL
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	return &OverlayStore{
		ttl:      ttl,
		basePath: basePath,
		now:      time.Now,
		entries:  make(map[string]*overlayEntry),
	}
}

// TTL is the overlay lifetime.
func (s *OverlayStore) TTL() time.Duration {
	return s.ttl
}

// Present stores png under a fresh id and schedules its eviction.
func (s *OverlayStore) Present(_ context.Context, png []byte) (string, error) {
	id := uuid.NewString()
	e := &overlayEntry{png: png, expires: s.now().Add(s.ttl)}

	s.mu.Lock()
	s.entries[id] = e
	e.timer = time.AfterFunc(s.ttl, func() { s.Dismiss(id) })
	s.mu.Unlock()

	return s.basePath + id, nil
}

// Get returns the PNG for id if it has not expired.
func (s *OverlayStore) Get(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || !s.now().Before(e.expires) {
		return nil, false
	}
	return e.png, true
}

// Remaining is the time left before id is dismissed.
func (s *OverlayStore) Remaining(id string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return 0
	}
	if d := e.expires.Sub(s.now()); d > 0 {
		return d
	}
	return 0
}

// Dismiss removes id. It is a no-op for unknown ids.
func (s *OverlayStore) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.timer.Stop()
		delete(s.entries, id)
	}
}

// Len is the number of live overlays.
func (s *OverlayStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
