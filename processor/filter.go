package processor

import (
	"fmt"

	"github.com/nci/floodcube/raster"
)

// MajorityFilter suppresses salt-and-pepper noise in a flood mask by
// replacing each valid cell with the majority class among the valid
// cells of its window x window neighbourhood (the cell itself
// included). Ties vote not-flooded so the filter never over-declares
// flood extent. Border neighbourhoods shrink to the in-bounds cells;
// there is no wrap-around and no padding. No-data cells cast no vote
// and stay no-data.
func MajorityFilter(mask *raster.MaskGrid, window int) (*raster.MaskGrid, error) {
	if window < 3 || window%2 == 0 {
		return nil, fmt.Errorf("window %d: %w", window, raster.ErrInvalidWindow)
	}

	width := mask.Spec.Width
	height := mask.Spec.Height
	half := window / 2

	out := raster.NewMaskGrid(mask.Spec)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !mask.Valid(i) {
				continue
			}

			y0, y1 := y-half, y+half
			if y0 < 0 {
				y0 = 0
			}
			if y1 > height-1 {
				y1 = height - 1
			}
			x0, x1 := x-half, x+half
			if x0 < 0 {
				x0 = 0
			}
			if x1 > width-1 {
				x1 = width - 1
			}

			flooded, dry := 0, 0
			for wy := y0; wy <= y1; wy++ {
				row := wy * width
				for wx := x0; wx <= x1; wx++ {
					switch mask.Data[row+wx] {
					case raster.MaskFlooded:
						flooded++
					case raster.MaskNotFlooded:
						dry++
					}
				}
			}

			if flooded > dry {
				out.Data[i] = raster.MaskFlooded
			} else {
				out.Data[i] = raster.MaskNotFlooded
			}
		}
	}
	return out, nil
}
