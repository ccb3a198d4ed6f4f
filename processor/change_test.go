package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nci/floodcube/raster"
)

func TestChangeLastMinusFirstConstant(t *testing.T) {
	dc := NewDatacube()
	require.NoError(t, dc.Insert(date("2023-09-10"), constGrid(3, 3, 0.2)))
	require.NoError(t, dc.Insert(date("2023-09-20"), constGrid(3, 3, 0.5)))

	change, err := ChangeLastMinusFirst(dc)
	require.NoError(t, err)

	for i := range change.Data {
		assert.True(t, change.Valid(i))
		assert.InDelta(t, 0.3, change.Data[i], 1e-6)
	}
}

func TestChangeUsesTemporalEndpoints(t *testing.T) {
	dc := NewDatacube()
	// Inserted out of order; change must still be last minus first by date.
	require.NoError(t, dc.Insert(date("2023-09-15"), constGrid(2, 2, 5)))
	require.NoError(t, dc.Insert(date("2023-09-20"), constGrid(2, 2, 0.7)))
	require.NoError(t, dc.Insert(date("2023-09-10"), constGrid(2, 2, 0.1)))

	change, err := ChangeLastMinusFirst(dc)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, change.Data[0], 1e-6)
}

func TestChangeNoDataAtEitherEndpoint(t *testing.T) {
	first := valueGrid(2, 2, []float32{0.1, float32(IndexNoData), 0.1, 0.1})
	last := valueGrid(2, 2, []float32{0.5, 0.5, float32(IndexNoData), 0.5})

	dc := NewDatacube()
	require.NoError(t, dc.Insert(date("2023-09-10"), first))
	require.NoError(t, dc.Insert(date("2023-09-20"), last))

	change, err := ChangeLastMinusFirst(dc)
	require.NoError(t, err)

	assert.True(t, change.Valid(0))
	assert.False(t, change.Valid(1))
	assert.False(t, change.Valid(2))
	assert.True(t, change.Valid(3))
}

func TestChangeNeedsTwoSlices(t *testing.T) {
	dc := NewDatacube()
	_, err := ChangeLastMinusFirst(dc)
	assert.ErrorIs(t, err, raster.ErrEmptyCube)

	require.NoError(t, dc.Insert(date("2023-09-10"), constGrid(2, 2, 0.1)))
	_, err = ChangeLastMinusFirst(dc)
	assert.ErrorIs(t, err, raster.ErrEmptyCube)
}

func TestTemporalMeanCellwise(t *testing.T) {
	s1 := valueGrid(2, 2, []float32{0.2, 0.2, float32(IndexNoData), float32(IndexNoData)})
	s2 := valueGrid(2, 2, []float32{0.4, float32(IndexNoData), 0.6, float32(IndexNoData)})

	dc := NewDatacube()
	require.NoError(t, dc.Insert(date("2023-09-10"), s1))
	require.NoError(t, dc.Insert(date("2023-09-20"), s2))

	mean, err := TemporalMean(dc)
	require.NoError(t, err)

	// Valid in both slices: averaged over both.
	assert.InDelta(t, 0.3, mean.Data[0], 1e-6)
	// Valid in one slice: that slice's value.
	assert.InDelta(t, 0.2, mean.Data[1], 1e-6)
	assert.InDelta(t, 0.6, mean.Data[2], 1e-6)
	// Valid nowhere: no-data.
	assert.False(t, mean.Valid(3))
}

func TestTemporalMeanSingleSlice(t *testing.T) {
	dc := NewDatacube()
	require.NoError(t, dc.Insert(date("2023-09-10"), constGrid(2, 2, 0.42)))

	mean, err := TemporalMean(dc)
	require.NoError(t, err)
	assert.InDelta(t, 0.42, mean.Data[0], 1e-6)
}

func TestTemporalMeanEmptyCube(t *testing.T) {
	_, err := TemporalMean(NewDatacube())
	assert.ErrorIs(t, err, raster.ErrEmptyCube)
}
