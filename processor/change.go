package processor

import (
	"fmt"

	"github.com/nci/floodcube/raster"
)

// TemporalMean reduces the cube along the time axis into a single
// grid. Each cell is averaged over the slices where it is valid; a
// cell valid in no slice is no-data. Requires at least one slice.
func TemporalMean(dc *Datacube) (*raster.FloatGrid, error) {
	slices := dc.Slices()
	if len(slices) == 0 {
		return nil, fmt.Errorf("temporal mean: %w", raster.ErrEmptyCube)
	}

	spec := slices[0].Grid.Spec
	sums := make([]float64, spec.Cells())
	counts := make([]int, spec.Cells())
	for _, sl := range slices {
		for i := range sl.Grid.Data {
			if sl.Grid.Valid(i) {
				sums[i] += float64(sl.Grid.Data[i])
				counts[i]++
			}
		}
	}

	out := raster.NewFloatGrid(spec, IndexNoData)
	for i := range out.Data {
		if counts[i] > 0 {
			out.Data[i] = float32(sums[i] / float64(counts[i]))
		}
	}
	return out, nil
}

// ChangeLastMinusFirst produces the cell-wise difference between the
// cube's last and first slices. Cells invalid at either endpoint are
// no-data. Requires at least two slices so the endpoints are distinct.
func ChangeLastMinusFirst(dc *Datacube) (*raster.FloatGrid, error) {
	slices := dc.Slices()
	if len(slices) < 2 {
		return nil, fmt.Errorf("change needs two temporal endpoints, have %d: %w",
			len(slices), raster.ErrEmptyCube)
	}

	first := slices[0].Grid
	last := slices[len(slices)-1].Grid

	out := raster.NewFloatGrid(first.Spec, IndexNoData)
	for i := range out.Data {
		if first.Valid(i) && last.Valid(i) {
			out.Data[i] = last.Data[i] - first.Data[i]
		}
	}
	return out, nil
}
