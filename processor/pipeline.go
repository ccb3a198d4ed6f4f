package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/nci/floodcube/raster"
)

// BandGranule carries the prepared band grids of one acquisition date.
// Keys are band variable names as referenced by the index expression,
// e.g. "green" and "nir".
type BandGranule struct {
	Date  time.Time
	Bands map[string]*raster.FloatGrid
}

// DateProduct is the per-date output of the preprocessing pipeline:
// the index grid and the raw and filtered flood masks.
type DateProduct struct {
	Date    time.Time
	Index   *raster.FloatGrid
	RawMask *raster.MaskGrid
	Mask    *raster.MaskGrid
}

// FloodPipeline runs the per-date preprocessing (index, threshold,
// majority filter) across acquisition dates as a fork/join: dates are
// independent and execute on worker goroutines bounded by Conc, each
// producing immutable grids handed to the cube's single-writer insert.
//
// When Expr is nil the canonical normalised difference of GreenBand
// and NIRBand is computed; otherwise Expr decides the band math.
type FloodPipeline struct {
	Context   context.Context
	Expr      *IndexExpression
	GreenBand string
	NIRBand   string
	Threshold float64
	Window    int
	Conc      int
}

func NewFloodPipeline(ctx context.Context, expr *IndexExpression, threshold float64, window int, conc int) *FloodPipeline {
	return &FloodPipeline{
		Context:   ctx,
		Expr:      expr,
		GreenBand: "green",
		NIRBand:   "nir",
		Threshold: threshold,
		Window:    window,
		Conc:      conc,
	}
}

// Process runs every granule through the per-date stages and collects
// the results into a datacube plus the parallel mask collection the
// statistics stage consumes. The first error aborts the join; outputs
// are deterministic regardless of worker completion order.
func (p *FloodPipeline) Process(granules []*BandGranule) ([]*DateProduct, *Datacube, map[time.Time]*raster.MaskGrid, error) {
	cube := NewDatacube()
	products := make([]*DateProduct, len(granules))
	errChan := make(chan error, len(granules))

	ctx := p.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cLimiter := NewConcLimiter(p.Conc)
	for iGran, gran := range granules {
		select {
		case <-ctx.Done():
			return nil, nil, nil, fmt.Errorf("flood pipeline cancelled: %v", ctx.Err())
		default:
		}

		cLimiter.Increase()
		go func(iGran int, gran *BandGranule) {
			defer cLimiter.Decrease()
			prod, err := p.processGranule(gran)
			if err != nil {
				errChan <- fmt.Errorf("date %v: %w", gran.Date.Format("2006-01-02"), err)
				return
			}
			if err := cube.Insert(gran.Date, prod.Index); err != nil {
				errChan <- err
				return
			}
			products[iGran] = prod
		}(iGran, gran)
	}
	cLimiter.Wait()

	select {
	case err := <-errChan:
		return nil, nil, nil, err
	default:
	}

	masks := make(map[time.Time]*raster.MaskGrid, len(products))
	for _, prod := range products {
		masks[prod.Date] = prod.Mask
	}
	return products, cube, masks, nil
}

func (p *FloodPipeline) processGranule(gran *BandGranule) (*DateProduct, error) {
	var index *raster.FloatGrid
	var err error
	if p.Expr != nil {
		index, err = p.Expr.Compute(gran.Bands, IndexNoData)
	} else {
		green, found := gran.Bands[p.GreenBand]
		if !found {
			return nil, fmt.Errorf("missing band %v", p.GreenBand)
		}
		nir, found := gran.Bands[p.NIRBand]
		if !found {
			return nil, fmt.Errorf("missing band %v", p.NIRBand)
		}
		index, err = ComputeIndex(green, nir, IndexNoData)
	}
	if err != nil {
		return nil, err
	}

	rawMask, err := ApplyThreshold(index, p.Threshold)
	if err != nil {
		return nil, err
	}

	mask, err := MajorityFilter(rawMask, p.Window)
	if err != nil {
		return nil, err
	}

	return &DateProduct{Date: gran.Date, Index: index, RawMask: rawMask, Mask: mask}, nil
}
