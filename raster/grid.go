// Package raster provides the in-memory grid types shared by every
// stage of the flood analysis engine. Grids are flat row-major slices
// with the origin at the top-left cell. Stages never mutate their
// inputs; each stage allocates its output grid.
package raster

// GridSpec describes the geometry of a grid: pixel dimensions plus an
// optional affine geotransform and CRS identifier. The transform
// follows the GDAL convention: x = t[0] + col*t[1] + row*t[2],
// y = t[3] + col*t[4] + row*t[5]. A zero transform means the grid
// carries no georeferencing.
type GridSpec struct {
	Width, Height int
	Transform     [6]float64
	CRS           string
}

// Cells returns the number of samples in a grid of this spec.
func (s GridSpec) Cells() int {
	return s.Width * s.Height
}

// Equal reports whether two specs describe the same pixel grid. The
// comparison is exact; grids on slightly offset transforms are not the
// same grid.
func (s GridSpec) Equal(o GridSpec) bool {
	return s == o
}

// FloatGrid is a single-band floating point raster. Cells equal to
// NoData are invalid and must be excluded from all computation.
type FloatGrid struct {
	Data   []float32
	NoData float64
	Spec   GridSpec
}

// NewFloatGrid allocates a grid of the given spec with every cell set
// to the no-data value.
func NewFloatGrid(spec GridSpec, noData float64) *FloatGrid {
	g := &FloatGrid{
		Data:   make([]float32, spec.Cells()),
		NoData: noData,
		Spec:   spec,
	}
	nd := float32(noData)
	for i := range g.Data {
		g.Data[i] = nd
	}
	return g
}

// GetNoData returns the no-data sentinel.
func (g *FloatGrid) GetNoData() float64 {
	return g.NoData
}

// Valid reports whether the cell at flat offset i holds data.
func (g *FloatGrid) Valid(i int) bool {
	return g.Data[i] != float32(g.NoData)
}

// Mask cell classes. A mask holds exactly the two observation classes
// plus the no-data sentinel; it is only ever produced by thresholding.
const (
	MaskNotFlooded = uint8(0)
	MaskFlooded    = uint8(1)
	MaskNoData     = uint8(255)
)

// MaskGrid is a binary flooded/not-flooded raster.
type MaskGrid struct {
	Data   []uint8
	NoData uint8
	Spec   GridSpec
}

// NewMaskGrid allocates a mask of the given spec with every cell set
// to no-data.
func NewMaskGrid(spec GridSpec) *MaskGrid {
	m := &MaskGrid{
		Data:   make([]uint8, spec.Cells()),
		NoData: MaskNoData,
		Spec:   spec,
	}
	for i := range m.Data {
		m.Data[i] = MaskNoData
	}
	return m
}

// Valid reports whether the cell at flat offset i holds a class value.
func (m *MaskGrid) Valid(i int) bool {
	return m.Data[i] != m.NoData
}
