package store

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nci/floodcube/raster"
)

// ASCIIGrid is a GridStore for the ESRI ASCII grid format: a short
// header (ncols, nrows, xllcorner, yllcorner, cellsize, NODATA_value)
// followed by whitespace-separated samples, top row first. The format
// carries no CRS; the grid's CRS field stays empty on read and is not
// persisted on write.
type ASCIIGrid struct{}

const defaultASCIINoData = -9999.0

// ReadGrid parses an ASCII grid file into a FloatGrid. The grid's
// transform is derived from the lower-left corner and cell size.
func (ASCIIGrid) ReadGrid(path string) (*raster.FloatGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ascii grid %v: %v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	scanner.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("unexpected end of file")
		}
		return scanner.Text(), nil
	}

	header := map[string]float64{}
	noData := defaultASCIINoData
	var firstSample string

	for {
		tok, err := next()
		if err != nil {
			return nil, fmt.Errorf("ascii grid %v header: %v", path, err)
		}
		key := strings.ToLower(tok)
		switch key {
		case "ncols", "nrows", "xllcorner", "yllcorner", "cellsize", "nodata_value":
			valTok, err := next()
			if err != nil {
				return nil, fmt.Errorf("ascii grid %v header %v: %v", path, tok, err)
			}
			val, err := strconv.ParseFloat(valTok, 64)
			if err != nil {
				return nil, fmt.Errorf("ascii grid %v header %v=%v: %v", path, tok, valTok, err)
			}
			if key == "nodata_value" {
				noData = val
			} else {
				header[key] = val
			}
			continue
		}
		firstSample = tok
		break
	}

	for _, required := range []string{"ncols", "nrows", "cellsize"} {
		if _, found := header[required]; !found {
			return nil, fmt.Errorf("ascii grid %v: missing header field %v", path, required)
		}
	}

	width := int(header["ncols"])
	height := int(header["nrows"])
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("ascii grid %v: invalid dimensions %dx%d", path, width, height)
	}

	cellSize := header["cellsize"]
	spec := raster.GridSpec{
		Width:  width,
		Height: height,
		Transform: [6]float64{
			header["xllcorner"], cellSize, 0,
			header["yllcorner"] + cellSize*float64(height), 0, -cellSize,
		},
	}

	grid := raster.NewFloatGrid(spec, noData)
	tok := firstSample
	for i := 0; i < spec.Cells(); i++ {
		if i > 0 {
			var err error
			tok, err = next()
			if err != nil {
				return nil, fmt.Errorf("ascii grid %v: short data section at cell %d: %v", path, i, err)
			}
		}
		val, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, fmt.Errorf("ascii grid %v: bad sample %q at cell %d: %v", path, tok, i, err)
		}
		grid.Data[i] = float32(val)
	}
	return grid, nil
}

// WriteGrid writes a FloatGrid as an ASCII grid file. An ungeoreferenced
// grid (zero transform) is written with a unit cell size at the origin.
func (ASCIIGrid) WriteGrid(path string, grid *raster.FloatGrid) error {
	cellSize := grid.Spec.Transform[1]
	if cellSize == 0 {
		cellSize = 1
	}
	xll := grid.Spec.Transform[0]
	yll := grid.Spec.Transform[3] + grid.Spec.Transform[5]*float64(grid.Spec.Height)
	if grid.Spec.Transform[5] == 0 {
		yll = grid.Spec.Transform[3] - cellSize*float64(grid.Spec.Height)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ascii grid %v: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "ncols %d\n", grid.Spec.Width)
	fmt.Fprintf(w, "nrows %d\n", grid.Spec.Height)
	fmt.Fprintf(w, "xllcorner %s\n", strconv.FormatFloat(xll, 'g', -1, 64))
	fmt.Fprintf(w, "yllcorner %s\n", strconv.FormatFloat(yll, 'g', -1, 64))
	fmt.Fprintf(w, "cellsize %s\n", strconv.FormatFloat(cellSize, 'g', -1, 64))
	fmt.Fprintf(w, "NODATA_value %s\n", strconv.FormatFloat(grid.NoData, 'g', -1, 64))

	for y := 0; y < grid.Spec.Height; y++ {
		row := y * grid.Spec.Width
		for x := 0; x < grid.Spec.Width; x++ {
			if x > 0 {
				if err := w.WriteByte(' '); err != nil {
					return fmt.Errorf("ascii grid %v: %v", path, err)
				}
			}
			val := grid.Data[row+x]
			if _, err := w.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 32)); err != nil {
				return fmt.Errorf("ascii grid %v: %v", path, err)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("ascii grid %v: %v", path, err)
		}
	}
	return w.Flush()
}
