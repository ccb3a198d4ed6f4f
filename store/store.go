// Package store persists the engine's inputs and outputs: a pluggable
// grid storage backend, quicklook PNG rendering and the per-date
// statistics database. The engine itself never touches a file; the
// driver injects a GridStore and hands grids across.
package store

import (
	"github.com/nci/floodcube/raster"
)

// GridStore reads and writes single-band grids in one storage format.
// Implementations are injected into the driver; the engine only ever
// sees in-memory grids.
type GridStore interface {
	ReadGrid(path string) (*raster.FloatGrid, error)
	WriteGrid(path string, grid *raster.FloatGrid) error
}

// MaskNumericNoData is the numeric sentinel used when a class mask is
// exported through a GridStore.
const MaskNumericNoData = 255.0

// MaskToGrid converts a class mask into a numeric grid (0, 1, nodata)
// so mask products can travel through any GridStore backend.
func MaskToGrid(mask *raster.MaskGrid) *raster.FloatGrid {
	out := raster.NewFloatGrid(mask.Spec, MaskNumericNoData)
	for i, v := range mask.Data {
		if v != mask.NoData {
			out.Data[i] = float32(v)
		}
	}
	return out
}
