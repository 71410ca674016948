// Package raster loads label images and rotates them into print
// orientation.
package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Formats beyond the standard library's PNG, JPEG and GIF.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Rotations lists the accepted clockwise rotations in degrees.
var Rotations = []int{0, 90, 180, 270}

// Normalized is an image ready for validation.
type Normalized struct {
	Image    image.Image
	Width    int
	Height   int
	Rotation int
}

// Open decodes the image file at path.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// ValidRotation reports whether deg is one of Rotations.
func ValidRotation(deg int) bool {
	for _, r := range Rotations {
		if r == deg {
			return true
		}
	}
	return false
}

// Rotate turns img clockwise by deg degrees. Quarter turns swap width and
// height so nothing is cropped. A zero rotation returns img unchanged.
func Rotate(img image.Image, deg int) (image.Image, error) {
	switch deg {
	case 0:
		return img, nil
	case 90:
		// imaging rotates counter-clockwise.
		return imaging.Rotate270(img), nil
	case 180:
		return imaging.Rotate180(img), nil
	case 270:
		return imaging.Rotate90(img), nil
	default:
		return nil, fmt.Errorf("unsupported rotation %d, want one of %v", deg, Rotations)
	}
}

// Normalize rotates img and records the resulting dimensions.
func Normalize(img image.Image, deg int) (Normalized, error) {
	rotated, err := Rotate(img, deg)
	if err != nil {
		return Normalized{}, err
	}

	b := rotated.Bounds()
	return Normalized{
		Image:    rotated,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Rotation: deg,
	}, nil
}
