package processor

import (
	"fmt"

	"github.com/nci/floodcube/raster"
)

// Index thresholds outside the normalised difference codomain are
// operator errors, not observations.
const (
	minThreshold = -1.0
	maxThreshold = 1.0
)

// ApplyThreshold classifies an index grid into a binary flood mask.
// Valid cells with index > threshold become flooded; invalid cells
// stay no-data. The threshold is a fixed configuration value; there is
// no adaptive thresholding.
func ApplyThreshold(index *raster.FloatGrid, threshold float64) (*raster.MaskGrid, error) {
	if threshold < minThreshold || threshold > maxThreshold {
		return nil, fmt.Errorf("threshold %v not in [%v, %v]: %w",
			threshold, minThreshold, maxThreshold, raster.ErrInvalidThreshold)
	}

	out := raster.NewMaskGrid(index.Spec)
	thr := float32(threshold)
	for i := range index.Data {
		if !index.Valid(i) {
			continue
		}
		if index.Data[i] > thr {
			out.Data[i] = raster.MaskFlooded
		} else {
			out.Data[i] = raster.MaskNotFlooded
		}
	}
	return out, nil
}
