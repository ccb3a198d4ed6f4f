package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nci/floodcube/log"
	"github.com/nci/floodcube/processor"
	"github.com/nci/floodcube/raster"
	"github.com/nci/floodcube/store"
	"github.com/nci/floodcube/utils"
)

// bandFiles maps band variable name to the file path holding that
// band for one acquisition date.
type bandFiles map[string]string

// collectGranules scans the bands directory for grid files, pairs them
// per acquisition date via the date and band tokens embedded in the
// filenames, and loads the complete sets into prepared band granules.
// Dates with an incomplete band set are skipped with a warning, the
// way partial acquisitions are skipped on download.
func collectGranules(cfg *utils.Config, gridStore store.GridStore) ([]*processor.BandGranule, error) {
	entries, err := os.ReadDir(cfg.Paths.BandsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning bands directory: %v", err)
	}

	byDate := map[time.Time]bandFiles{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".asc") {
			continue
		}

		variable, found := utils.DetectBand(entry.Name(), cfg.Index.Bands)
		if !found {
			continue
		}
		date, err := utils.ExtractDate(entry.Name())
		if err != nil {
			log.Warnw("skipping band file without a date", "file", entry.Name())
			continue
		}

		if _, found := byDate[date]; !found {
			byDate[date] = bandFiles{}
		}
		byDate[date][variable] = filepath.Join(cfg.Paths.BandsDir, entry.Name())
	}

	dates := make([]time.Time, 0, len(byDate))
	for date, files := range byDate {
		if len(files) < len(cfg.Index.Bands) {
			log.Warnw("skipping date with incomplete band set",
				"date", date.Format("2006-01-02"), "have", len(files), "want", len(cfg.Index.Bands))
			continue
		}
		dates = append(dates, date)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("no complete band sets found in %v", cfg.Paths.BandsDir)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	granules := make([]*processor.BandGranule, 0, len(dates))
	for _, date := range dates {
		bands := make(map[string]*raster.FloatGrid, len(cfg.Index.Bands))
		for variable, path := range byDate[date] {
			grid, err := gridStore.ReadGrid(path)
			if err != nil {
				return nil, err
			}
			bands[variable] = prepareBand(grid, cfg.Index.Scale)
		}
		granules = append(granules, &processor.BandGranule{Date: date, Bands: bands})
	}
	return granules, nil
}

// prepareBand converts raw reflectance to scaled reflectance and
// applies the validity floor: samples at or below zero are export
// padding or missing observations, not measurements.
func prepareBand(grid *raster.FloatGrid, scale float64) *raster.FloatGrid {
	out := raster.NewFloatGrid(grid.Spec, processor.IndexNoData)
	s := float32(scale)
	for i, v := range grid.Data {
		if !grid.Valid(i) || v <= 0 {
			continue
		}
		out.Data[i] = v / s
	}
	return out
}
