package processor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nci/floodcube/raster"
)

func TestComputeStatsFloodedRatio(t *testing.T) {
	dc := NewDatacube()
	d := date("2023-09-10")
	require.NoError(t, dc.Insert(d, constGrid(3, 3, 0.2)))

	masks := map[time.Time]*raster.MaskGrid{
		d: maskGrid(3, 3, []uint8{
			fl, fl, fl,
			nf, nf, nf,
			nf, nf, nf,
		}),
	}

	stats, err := ComputeStats(dc, masks)
	require.NoError(t, err)
	require.Len(t, stats, 1)

	rec := stats[0]
	assert.True(t, rec.Defined)
	assert.InDelta(t, 1.0/3.0, rec.FloodedRatio, 1e-9)
	assert.InDelta(t, 0.2, rec.Mean, 1e-6)
	assert.Equal(t, 9, rec.ValidCells)
}

func TestComputeStatsValidCellsOnly(t *testing.T) {
	dc := NewDatacube()
	d := date("2023-09-10")
	grid := valueGrid(2, 2, []float32{0.1, 0.5, float32(IndexNoData), -0.3})
	require.NoError(t, dc.Insert(d, grid))

	masks := map[time.Time]*raster.MaskGrid{
		d: maskGrid(2, 2, []uint8{nf, fl, nd, nf}),
	}

	stats, err := ComputeStats(dc, masks)
	require.NoError(t, err)

	rec := stats[0]
	assert.True(t, rec.Defined)
	assert.Equal(t, 3, rec.ValidCells)
	assert.InDelta(t, (0.1+0.5-0.3)/3, rec.Mean, 1e-6)
	assert.InDelta(t, -0.3, rec.Min, 1e-6)
	assert.InDelta(t, 0.5, rec.Max, 1e-6)
	assert.InDelta(t, 1.0/3.0, rec.FloodedRatio, 1e-9)
}

func TestComputeStatsUndefinedSlice(t *testing.T) {
	dc := NewDatacube()
	d1 := date("2023-09-10")
	d2 := date("2023-09-20")
	require.NoError(t, dc.Insert(d1, constGrid(2, 2, 0.4)))

	// All cells invalid on the second date.
	require.NoError(t, dc.Insert(d2, raster.NewFloatGrid(testSpec(2, 2), IndexNoData)))

	masks := map[time.Time]*raster.MaskGrid{
		d1: maskGrid(2, 2, []uint8{fl, fl, nf, nf}),
		d2: maskGrid(2, 2, []uint8{nd, nd, nd, nd}),
	}

	stats, err := ComputeStats(dc, masks)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.True(t, stats[0].Defined)

	undef := stats[1]
	assert.False(t, undef.Defined)
	assert.True(t, math.IsNaN(undef.Mean))
	assert.True(t, math.IsNaN(undef.Min))
	assert.True(t, math.IsNaN(undef.Max))
	assert.True(t, math.IsNaN(undef.FloodedRatio))
	assert.Equal(t, 0, undef.ValidCells)
}

func TestComputeStatsOrderedLikeCube(t *testing.T) {
	dc := NewDatacube()
	d1 := date("2023-09-10")
	d2 := date("2023-09-20")
	require.NoError(t, dc.Insert(d2, constGrid(2, 2, 0.6)))
	require.NoError(t, dc.Insert(d1, constGrid(2, 2, 0.4)))

	masks := map[time.Time]*raster.MaskGrid{
		d1: maskGrid(2, 2, []uint8{nf, nf, nf, nf}),
		d2: maskGrid(2, 2, []uint8{fl, fl, fl, fl}),
	}

	stats, err := ComputeStats(dc, masks)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, d1, stats[0].Date)
	assert.Equal(t, d2, stats[1].Date)
	assert.InDelta(t, 0.0, stats[0].FloodedRatio, 1e-9)
	assert.InDelta(t, 1.0, stats[1].FloodedRatio, 1e-9)
}

func TestComputeStatsMissingMask(t *testing.T) {
	dc := NewDatacube()
	require.NoError(t, dc.Insert(date("2023-09-10"), constGrid(2, 2, 0.4)))

	_, err := ComputeStats(dc, map[time.Time]*raster.MaskGrid{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no mask")
}

func TestComputeStatsMaskShapeMismatch(t *testing.T) {
	dc := NewDatacube()
	d := date("2023-09-10")
	require.NoError(t, dc.Insert(d, constGrid(2, 2, 0.4)))

	masks := map[time.Time]*raster.MaskGrid{
		d: raster.NewMaskGrid(testSpec(3, 3)),
	}
	_, err := ComputeStats(dc, masks)
	assert.ErrorIs(t, err, raster.ErrShapeMismatch)
}

func TestComputeStatsEmptyCube(t *testing.T) {
	_, err := ComputeStats(NewDatacube(), nil)
	assert.ErrorIs(t, err, raster.ErrEmptyCube)
}
