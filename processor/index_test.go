package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nci/floodcube/raster"
)

func TestComputeIndexValues(t *testing.T) {
	green := valueGrid(2, 2, []float32{0.7, 0.3, 0.5, 0.06})
	nir := valueGrid(2, 2, []float32{0.3, 0.7, 0.5, 0.02})

	index, err := ComputeIndex(green, nir, IndexNoData)
	require.NoError(t, err)

	expected := []float32{0.4, -0.4, 0, 0.5}
	for i, want := range expected {
		assert.True(t, index.Valid(i))
		assert.InDelta(t, want, index.Data[i], 1e-6)
		assert.GreaterOrEqual(t, float64(index.Data[i]), -1.0)
		assert.LessOrEqual(t, float64(index.Data[i]), 1.0)
	}
}

func TestComputeIndexSingularity(t *testing.T) {
	// a + b == 0 must degrade to no-data, never NaN.
	green := valueGrid(2, 1, []float32{0.5, -0.5})
	nir := valueGrid(2, 1, []float32{0.5, 0.5})

	index, err := ComputeIndex(green, nir, IndexNoData)
	require.NoError(t, err)

	assert.True(t, index.Valid(0))
	assert.False(t, index.Valid(1))
}

func TestComputeIndexNoDataPropagation(t *testing.T) {
	green := valueGrid(3, 1, []float32{0.7, float32(IndexNoData), 0.7})
	nir := valueGrid(3, 1, []float32{0.3, 0.3, float32(IndexNoData)})

	index, err := ComputeIndex(green, nir, IndexNoData)
	require.NoError(t, err)

	assert.True(t, index.Valid(0))
	assert.False(t, index.Valid(1))
	assert.False(t, index.Valid(2))
}

func TestComputeIndexShapeMismatch(t *testing.T) {
	green := constGrid(2, 2, 0.5)
	nir := constGrid(3, 2, 0.5)

	_, err := ComputeIndex(green, nir, IndexNoData)
	assert.ErrorIs(t, err, raster.ErrShapeMismatch)
}

func TestComputeIndexDoesNotMutateInputs(t *testing.T) {
	green := constGrid(2, 2, 0.7)
	nir := constGrid(2, 2, 0.3)

	_, err := ComputeIndex(green, nir, IndexNoData)
	require.NoError(t, err)

	for i := range green.Data {
		assert.Equal(t, float32(0.7), green.Data[i])
		assert.Equal(t, float32(0.3), nir.Data[i])
	}
}
