package processor

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/nci/floodcube/raster"
)

// StatsRecord summarises one cube slice. Mean, Min and Max cover the
// valid index cells; FloodedRatio is the share of valid mask cells
// classified flooded. When a slice has no valid cells Defined is false
// and the numeric fields are NaN, never a silent zero.
type StatsRecord struct {
	Mean         float64
	Min          float64
	Max          float64
	FloodedRatio float64
	ValidCells   int
	Defined      bool
}

// DateStats pairs a stats record with its acquisition date.
type DateStats struct {
	Date time.Time
	StatsRecord
}

// ComputeStats reduces every cube slice to a StatsRecord using the
// caller-supplied flood masks keyed by the same dates. The result is
// ordered as the cube is. A missing mask or a mask on a different grid
// is an error; a slice with no valid cells is reported as undefined
// and the computation continues.
func ComputeStats(dc *Datacube, masks map[time.Time]*raster.MaskGrid) ([]DateStats, error) {
	slices := dc.Slices()
	if len(slices) == 0 {
		return nil, fmt.Errorf("stats: %w", raster.ErrEmptyCube)
	}

	out := make([]DateStats, 0, len(slices))
	for _, sl := range slices {
		mask, found := masks[sl.Date]
		if !found {
			return nil, fmt.Errorf("stats: no mask for %v", sl.Date.Format("2006-01-02"))
		}
		if !mask.Spec.Equal(sl.Grid.Spec) {
			return nil, fmt.Errorf("stats mask for %v: %w", sl.Date.Format("2006-01-02"), raster.ErrShapeMismatch)
		}

		rec := sliceStats(sl.Grid, mask)
		out = append(out, DateStats{Date: sl.Date, StatsRecord: rec})
	}
	return out, nil
}

func sliceStats(grid *raster.FloatGrid, mask *raster.MaskGrid) StatsRecord {
	vals := make([]float64, 0, len(grid.Data))
	for i := range grid.Data {
		if grid.Valid(i) {
			vals = append(vals, float64(grid.Data[i]))
		}
	}

	maskValid, flooded := 0, 0
	for i := range mask.Data {
		switch mask.Data[i] {
		case raster.MaskFlooded:
			maskValid++
			flooded++
		case raster.MaskNotFlooded:
			maskValid++
		}
	}

	if len(vals) == 0 || maskValid == 0 {
		nan := math.NaN()
		return StatsRecord{Mean: nan, Min: nan, Max: nan, FloodedRatio: nan}
	}

	return StatsRecord{
		Mean:         stat.Mean(vals, nil),
		Min:          floats.Min(vals),
		Max:          floats.Max(vals),
		FloodedRatio: float64(flooded) / float64(maskValid),
		ValidCells:   len(vals),
		Defined:      true,
	}
}
