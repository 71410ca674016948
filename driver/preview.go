package driver

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/nixxel-company-limited/niimprint/adapter"
)

// PreviewName is the name the preview driver registers under.
const PreviewName = "preview"

// DefaultPreviewPath is where the registered preview driver writes. Use
// PreviewFactory to write elsewhere.
const DefaultPreviewPath = "label-preview.png"

func init() {
	Register(PreviewName, PreviewFactory(DefaultPreviewPath))
}

// PreviewFactory returns a factory for preview clients writing to path.
func PreviewFactory(path string) Factory {
	return func(a adapter.Adapter) (Client, error) {
		return NewPreview(a, path), nil
	}
}

// Preview is a dry-run client. It keeps the adapter connected but writes
// the job bitmap to a PNG file instead of sending it to the device.
type Preview struct {
	adapter adapter.Adapter
	path    string

	// Density holds the density of the last print.
	Density int
}

// NewPreview creates a preview client writing to path.
func NewPreview(a adapter.Adapter, path string) *Preview {
	return &Preview{adapter: a, path: path}
}

// Print writes img to the preview file.
func (p *Preview) Print(img image.Image, density int) error {
	if p.adapter != nil && !p.adapter.IsOpen() {
		return adapter.ErrNotOpen
	}

	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create preview directory: %w", err)
		}
	}

	f, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write preview file: %w", err)
	}

	p.Density = density
	return nil
}

// Status always reports an idle device without faults.
func (p *Preview) Status() (Status, error) {
	return Status{Idle: true}, nil
}

// Path returns the preview file path.
func (p *Preview) Path() string {
	return p.path
}
