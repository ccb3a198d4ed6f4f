// Package processor implements the flood analysis engine: normalised
// difference index computation, threshold masking, neighbourhood
// majority filtering, and the multi-date datacube with its statistics
// and change products.
package processor

import (
	"fmt"

	"github.com/nci/floodcube/raster"
)

// IndexNoData is the no-data sentinel used for every derived index
// grid. The value sits well outside the [-1, 1] codomain of a
// normalised difference.
const IndexNoData = -9999.0

// ComputeIndex computes the normalised difference index
// (a - b) / (a + b) of two co-registered band grids, e.g. green and
// near-infrared reflectance for an NDWI-style water index.
//
// An output cell is no-data when either input cell is invalid or when
// a + b == 0; valid output cells are always finite. The inputs must
// share an identical GridSpec.
func ComputeIndex(a, b *raster.FloatGrid, noData float64) (*raster.FloatGrid, error) {
	if !a.Spec.Equal(b.Spec) {
		return nil, fmt.Errorf("index inputs %dx%d vs %dx%d: %w",
			a.Spec.Width, a.Spec.Height, b.Spec.Width, b.Spec.Height, raster.ErrShapeMismatch)
	}

	out := raster.NewFloatGrid(a.Spec, noData)
	for i := range a.Data {
		if !a.Valid(i) || !b.Valid(i) {
			continue
		}
		av := a.Data[i]
		bv := b.Data[i]
		sum := av + bv
		if sum == 0 {
			continue
		}
		out.Data[i] = (av - bv) / sum
	}
	return out, nil
}
