package raster

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marker = color.NRGBA{R: 255, A: 255}

// testImage returns a w x h white image with a red pixel in the top left
// corner.
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	img.SetNRGBA(0, 0, marker)
	return img
}

func TestRotateZeroIsNoop(t *testing.T) {
	img := testImage(30, 10)

	out, err := Rotate(img, 0)
	require.NoError(t, err)
	assert.Same(t, img, out)
}

func TestRotateClockwise(t *testing.T) {
	img := testImage(30, 10)

	testCases := []struct {
		deg    int
		w, h   int
		markAt image.Point
	}{
		{90, 10, 30, image.Pt(9, 0)},
		{180, 30, 10, image.Pt(29, 9)},
		{270, 10, 30, image.Pt(0, 29)},
	}

	for _, tc := range testCases {
		out, err := Rotate(img, tc.deg)
		require.NoError(t, err)

		b := out.Bounds()
		assert.Equal(t, tc.w, b.Dx(), "width after %d", tc.deg)
		assert.Equal(t, tc.h, b.Dy(), "height after %d", tc.deg)

		r, g, _, _ := out.At(b.Min.X+tc.markAt.X, b.Min.Y+tc.markAt.Y).RGBA()
		assert.Equal(t, uint32(0xffff), r, "marker after %d", tc.deg)
		assert.Equal(t, uint32(0), g, "marker after %d", tc.deg)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	img := testImage(17, 5)

	for _, deg := range []int{90, 180, 270} {
		once, err := Rotate(img, deg)
		require.NoError(t, err)
		back, err := Rotate(once, 360-deg)
		require.NoError(t, err)

		assert.Equal(t, img.Bounds().Size(), back.Bounds().Size(), "rotation %d", deg)
		assert.Equal(t, img.Pix, back.(*image.NRGBA).Pix, "rotation %d", deg)
	}
}

func TestRotateUnsupported(t *testing.T) {
	_, err := Rotate(testImage(2, 2), 45)
	assert.Error(t, err)
	assert.False(t, ValidRotation(45))
	assert.True(t, ValidRotation(270))
}

func TestNormalize(t *testing.T) {
	n, err := Normalize(testImage(300, 120), 90)
	require.NoError(t, err)

	assert.Equal(t, 120, n.Width)
	assert.Equal(t, 300, n.Height)
	assert.Equal(t, 90, n.Rotation)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "label.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage(8, 4)))
	require.NoError(t, f.Close())

	img, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
	_, err = Open(bad)
	assert.Error(t, err)
}
