package clipboard

import (
	"context"
	"fmt"
	"path/filepath"

	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/util"
)

// DownloadStep saves the PNG into Dir. It is the terminal step on desktop.
type DownloadStep struct {
	Dir string
}

func (DownloadStep) Method() Method { return MethodDownload }

func (DownloadStep) Available(Env) bool { return true }

func (s DownloadStep) Deliver(_ context.Context, png *imagepkg.Rendered, filename string) (string, error) {
	if filename == "" {
		filename = "composite.png"
	}
	if err := util.EnsureDir(s.Dir); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, filepath.Base(filename))
	if err := util.WriteFileAtomic(path, png.Data, 0o644); err != nil {
		return "", fmt.Errorf("saving %s: %w", path, err)
	}
	return path, nil
}
