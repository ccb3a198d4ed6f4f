package main

/* floodcube derives flood extent from multi-date satellite band
   grids. For every acquisition date it computes a water index from
   two spectral bands, thresholds it into a binary flood mask and
   removes salt-and-pepper noise with a neighbourhood majority filter.
   The per-date index grids are stacked into a date-ordered cube from
   which per-date statistics and temporal change products are derived.
   Configuration of a run is specified in a YAML file; band grids are
   read and products written through a pluggable grid store. */

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nci/floodcube/log"
	"github.com/nci/floodcube/processor"
	"github.com/nci/floodcube/raster"
	"github.com/nci/floodcube/store"
	"github.com/nci/floodcube/utils"
)

var (
	configFile = flag.String("conf", "config.yaml", "Run configuration file.")
	verbose    = flag.Bool("v", false, "Verbose mode for more outputs.")
)

func main() {
	flag.Parse()

	cfg, err := utils.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := log.Init(cfg.Verbose || *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

func run(cfg *utils.Config) error {
	start := time.Now()
	gridStore := store.ASCIIGrid{}

	granules, err := collectGranules(cfg, gridStore)
	if err != nil {
		return err
	}
	log.Infow("collected acquisitions", "dates", len(granules), "bands_dir", cfg.Paths.BandsDir)

	expr, err := indexExpression(cfg)
	if err != nil {
		return err
	}

	pipe := processor.NewFloodPipeline(context.Background(), expr, cfg.Index.Threshold, cfg.Filter.Window, cfg.Concurrency)
	products, cube, masks, err := pipe.Process(granules)
	if err != nil {
		return err
	}

	stats, err := processor.ComputeStats(cube, masks)
	if err != nil {
		return err
	}
	for _, ds := range stats {
		if !ds.Defined {
			// Reported and recorded; an empty slice does not abort the run.
			log.Warnw("statistics undefined", "date", ds.Date.Format("2006-01-02"),
				"reason", raster.ErrUndefinedStatistic.Error())
		}
	}

	meanGrid, err := processor.TemporalMean(cube)
	if err != nil {
		return err
	}
	var changeGrid *raster.FloatGrid
	if cube.Len() >= 2 {
		changeGrid, err = processor.ChangeLastMinusFirst(cube)
		if err != nil {
			return err
		}
	} else {
		log.Warnf("change product needs at least two dates, have %d; skipping", cube.Len())
	}

	outputs, err := writeProducts(cfg, gridStore, products, meanGrid, changeGrid)
	if err != nil {
		return err
	}

	if cfg.Outputs.StatsDB != "" {
		if err := recordStats(cfg, stats); err != nil {
			return err
		}
	}

	if err := writeRunLog(cfg, stats, outputs); err != nil {
		return err
	}

	log.Infow("run complete", "dates", len(products), "outputs", len(outputs),
		"elapsed", time.Since(start).String())
	return nil
}

// indexExpression decides between the canonical two-band fast path
// (nil expression) and the configurable band-math evaluator.
func indexExpression(cfg *utils.Config) (*processor.IndexExpression, error) {
	_, hasGreen := cfg.Index.Bands["green"]
	_, hasNIR := cfg.Index.Bands["nir"]
	if cfg.Index.Expression == utils.DefaultExpression && hasGreen && hasNIR {
		return nil, nil
	}
	return processor.NewIndexExpression(cfg.Index.Expression, cfg.BandNames())
}

func writeProducts(cfg *utils.Config, gridStore store.GridStore, products []*processor.DateProduct,
	meanGrid, changeGrid *raster.FloatGrid) ([]string, error) {

	outDir := cfg.Paths.OutputDir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %v: %v", outDir, err)
	}

	var outputs []string
	write := func(name string, grid *raster.FloatGrid) error {
		path := filepath.Join(outDir, name)
		if err := gridStore.WriteGrid(path, grid); err != nil {
			return err
		}
		outputs = append(outputs, path)
		return nil
	}

	for _, prod := range products {
		date := prod.Date.Format("2006-01-02")
		if err := write(fmt.Sprintf("index_%s.asc", date), prod.Index); err != nil {
			return nil, err
		}
		if err := write(fmt.Sprintf("flood_mask_%s.asc", date), store.MaskToGrid(prod.Mask)); err != nil {
			return nil, err
		}
		if cfg.Outputs.WriteRaw {
			if err := write(fmt.Sprintf("flood_mask_raw_%s.asc", date), store.MaskToGrid(prod.RawMask)); err != nil {
				return nil, err
			}
		}
		if cfg.Outputs.WritePNG {
			path := filepath.Join(outDir, fmt.Sprintf("flood_mask_%s.png", date))
			if err := store.WriteMaskPNG(path, prod.Mask); err != nil {
				return nil, err
			}
			outputs = append(outputs, path)
		}
	}

	if err := write("index_time_mean.asc", meanGrid); err != nil {
		return nil, err
	}
	if changeGrid != nil {
		if err := write("index_change_last_minus_first.asc", changeGrid); err != nil {
			return nil, err
		}
		if cfg.Outputs.WritePNG {
			path := filepath.Join(outDir, "index_change_last_minus_first.png")
			if err := store.WriteIndexPNG(path, changeGrid); err != nil {
				return nil, err
			}
			outputs = append(outputs, path)
		}
	}
	return outputs, nil
}

func recordStats(cfg *utils.Config, stats []processor.DateStats) error {
	db, err := store.NewStatsDB(cfg.Outputs.StatsDB)
	if err != nil {
		return fmt.Errorf("opening stats db %v: %v", cfg.Outputs.StatsDB, err)
	}
	defer db.Close()

	runID, err := db.RecordRun(cfg.Index.Expression, cfg.Index.Threshold, cfg.Filter.Window)
	if err != nil {
		return fmt.Errorf("recording run: %v", err)
	}
	for _, ds := range stats {
		if err := db.RecordStats(runID, ds); err != nil {
			return fmt.Errorf("recording stats for %v: %v", ds.Date.Format("2006-01-02"), err)
		}
	}
	log.Infow("recorded statistics", "db", cfg.Outputs.StatsDB, "run_id", runID, "dates", len(stats))
	return nil
}
