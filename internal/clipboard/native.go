package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.design/x/clipboard"

	imagepkg "github.com/youruser/catalogapp/internal/image"
)

var (
	// ErrClipboardUnavailable means the system clipboard could not be opened.
	ErrClipboardUnavailable = errors.New("system clipboard unavailable")
	// ErrClipboardWrite means the clipboard refused the image.
	ErrClipboardWrite = errors.New("clipboard write failed")
)

// Package-level so tests can swap the system clipboard out.
var (
	nativeInit  = clipboard.Init
	nativeWrite = func(png []byte) <-chan struct{} { return clipboard.Write(clipboard.FmtImage, png) }
)

var (
	nativeOnce sync.Once
	nativeErr  error
)

func initNative() error {
	nativeOnce.Do(func() {
		if err := nativeInit(); err != nil {
			nativeErr = fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
		}
	})
	return nativeErr
}

// NativeStep writes the PNG to the system clipboard as an image.
type NativeStep struct {
	// Hold keeps the process owning the selection for a while after the
	// write, which X11 needs for paste to work once the CLI exits.
	Hold time.Duration
}

func (NativeStep) Method() Method { return MethodNative }

func (NativeStep) Available(env Env) bool { return env.SecureContext }

func (s NativeStep) Deliver(ctx context.Context, png *imagepkg.Rendered, _ string) (string, error) {
	if err := initNative(); err != nil {
		return "", err
	}
	changed := nativeWrite(png.Data)
	if changed == nil {
		return "", ErrClipboardWrite
	}
	if s.Hold > 0 {
		t := time.NewTimer(s.Hold)
		defer t.Stop()
		select {
		case <-changed:
		case <-t.C:
		case <-ctx.Done():
		}
	}
	return "", nil
}
