package processor

import (
	"time"

	"github.com/nci/floodcube/raster"
)

func testSpec(width, height int) raster.GridSpec {
	return raster.GridSpec{Width: width, Height: height}
}

func constGrid(width, height int, value float32) *raster.FloatGrid {
	g := raster.NewFloatGrid(testSpec(width, height), IndexNoData)
	for i := range g.Data {
		g.Data[i] = value
	}
	return g
}

func valueGrid(width, height int, values []float32) *raster.FloatGrid {
	g := raster.NewFloatGrid(testSpec(width, height), IndexNoData)
	copy(g.Data, values)
	return g
}

func maskGrid(width, height int, values []uint8) *raster.MaskGrid {
	m := raster.NewMaskGrid(testSpec(width, height))
	copy(m.Data, values)
	return m
}

func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}
