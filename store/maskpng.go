package store

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/nci/floodcube/raster"
)

// Quicklook palette. No-data cells render fully transparent, matching
// the transparent-nodata convention of tiled raster services.
var (
	floodedColour    = color.NRGBA{R: 0x1f, G: 0x78, B: 0xb4, A: 0xff}
	notFloodedColour = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
)

// WriteMaskPNG renders a flood mask to a two-colour quicklook PNG.
func WriteMaskPNG(path string, mask *raster.MaskGrid) error {
	img := image.NewNRGBA(image.Rect(0, 0, mask.Spec.Width, mask.Spec.Height))
	for y := 0; y < mask.Spec.Height; y++ {
		row := y * mask.Spec.Width
		for x := 0; x < mask.Spec.Width; x++ {
			switch mask.Data[row+x] {
			case raster.MaskFlooded:
				img.SetNRGBA(x, y, floodedColour)
			case raster.MaskNotFlooded:
				img.SetNRGBA(x, y, notFloodedColour)
			}
		}
	}
	return writePNG(path, img)
}

// WriteIndexPNG renders an index grid as a grey ramp quicklook PNG,
// mapping the [-1, 1] codomain onto 0..255 and clamping anything
// outside it.
func WriteIndexPNG(path string, grid *raster.FloatGrid) error {
	img := image.NewNRGBA(image.Rect(0, 0, grid.Spec.Width, grid.Spec.Height))
	for y := 0; y < grid.Spec.Height; y++ {
		row := y * grid.Spec.Width
		for x := 0; x < grid.Spec.Width; x++ {
			i := row + x
			if !grid.Valid(i) {
				continue
			}
			val := (float64(grid.Data[i]) + 1) / 2
			if val < 0 {
				val = 0
			}
			if val > 1 {
				val = 1
			}
			grey := uint8(val * 255)
			img.SetNRGBA(x, y, color.NRGBA{R: grey, G: grey, B: grey, A: 0xff})
		}
	}
	return writePNG(path, img)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("png %v: %v", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("png %v: %v", path, err)
	}
	return nil
}
