// Package collection is the working set of images and text blocks a user
// gathers before building a composite. The CLI persists it as YAML between
// invocations.
package collection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	imagepkg "github.com/youruser/catalogapp/internal/image"
	"github.com/youruser/catalogapp/internal/util"
)

// MaxImages matches the composite grid.
const MaxImages = 4

// ErrFull means the collection already holds MaxImages images.
var ErrFull = errors.New("collection already has the maximum number of images")

// Collection is an ordered set of images and texts.
type Collection struct {
	Name   string               `yaml:"name,omitempty"`
	Images []imagepkg.ImageItem `yaml:"images"`
	Texts  []imagepkg.TextItem  `yaml:"texts"`
}

// AddImage appends an image unless the collection is full or already has it.
func (c *Collection) AddImage(item imagepkg.ImageItem) error {
	for _, im := range c.Images {
		if im.URL == item.URL {
			return nil
		}
	}
	if len(c.Images) >= MaxImages {
		return fmt.Errorf("%w (%d)", ErrFull, MaxImages)
	}
	c.Images = append(c.Images, item)
	return nil
}

// AddText appends a text block. Blank text is ignored.
func (c *Collection) AddText(item imagepkg.TextItem) {
	if item.Text == "" {
		return
	}
	c.Texts = append(c.Texts, item)
}

// RemoveImage drops the image at index i.
func (c *Collection) RemoveImage(i int) error {
	if i < 0 || i >= len(c.Images) {
		return fmt.Errorf("image index %d out of range", i)
	}
	c.Images = append(c.Images[:i], c.Images[i+1:]...)
	return nil
}

// Clear empties the collection but keeps its name.
func (c *Collection) Clear() {
	c.Images = nil
	c.Texts = nil
}

// Empty reports whether there is nothing to build.
func (c *Collection) Empty() bool {
	return len(c.Images) == 0 && len(c.Texts) == 0
}

// Request converts the collection into a composite request.
func (c *Collection) Request() imagepkg.Request {
	return imagepkg.Request{
		Images: append([]imagepkg.ImageItem(nil), c.Images...),
		Texts:  append([]imagepkg.TextItem(nil), c.Texts...),
	}
}

// Load reads a collection file. A missing file yields an empty collection.
func Load(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}
	var c Collection
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse collection %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the collection atomically.
func (c *Collection) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}
	return util.WriteFileAtomic(path, data, 0o644)
}

// DefaultPath is the collection file under the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "collection.yaml"
	}
	return filepath.Join(dir, "catalogcopy", "collection.yaml")
}
