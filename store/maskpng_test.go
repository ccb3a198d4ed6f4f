package store

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nci/floodcube/raster"
)

func TestWriteMaskPNG(t *testing.T) {
	mask := raster.NewMaskGrid(raster.GridSpec{Width: 3, Height: 1})
	mask.Data[0] = raster.MaskFlooded
	mask.Data[1] = raster.MaskNotFlooded

	path := filepath.Join(t.TempDir(), "mask.png")
	require.NoError(t, WriteMaskPNG(path, mask))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())

	_, _, b, a := img.At(0, 0).RGBA()
	assert.NotZero(t, a)
	assert.NotZero(t, b)

	// No-data renders transparent.
	_, _, _, a = img.At(2, 0).RGBA()
	assert.Zero(t, a)
}

func TestWriteIndexPNGClampsRange(t *testing.T) {
	grid := raster.NewFloatGrid(raster.GridSpec{Width: 4, Height: 1}, -9999)
	grid.Data[0] = -1
	grid.Data[1] = 1
	grid.Data[2] = 5 // outside the codomain, clamped

	path := filepath.Join(t.TempDir(), "index.png")
	require.NoError(t, WriteIndexPNG(path, grid))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	r, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, a)

	r1, _, _, _ := img.At(1, 0).RGBA()
	r2, _, _, _ := img.At(2, 0).RGBA()
	assert.Equal(t, r1, r2)

	_, _, _, a = img.At(3, 0).RGBA()
	assert.Zero(t, a)
}
