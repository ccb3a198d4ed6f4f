package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/nci/floodcube/processor"
	"github.com/nci/floodcube/utils"
)

// statsEntry is the YAML shape of one date's statistics. Undefined
// statistics serialise as nulls, not zeros.
type statsEntry struct {
	Date         string   `yaml:"date"`
	Mean         *float64 `yaml:"mean"`
	Min          *float64 `yaml:"min"`
	Max          *float64 `yaml:"max"`
	FloodedRatio *float64 `yaml:"flooded_ratio"`
	ValidCells   int      `yaml:"valid_cells"`
	Defined      bool     `yaml:"defined"`
}

type runSummary struct {
	Config  *utils.Config `yaml:"config"`
	Stats   []statsEntry  `yaml:"stats"`
	Outputs []string      `yaml:"outputs"`
}

// writeRunLog records the configuration, statistics and artefact list
// of a run in a single YAML document for reproducibility.
func writeRunLog(cfg *utils.Config, stats []processor.DateStats, outputs []string) error {
	summary := runSummary{Config: cfg, Outputs: outputs}
	for _, ds := range stats {
		entry := statsEntry{
			Date:       ds.Date.Format("2006-01-02"),
			ValidCells: ds.ValidCells,
			Defined:    ds.Defined,
		}
		if ds.Defined {
			mean, min, max, ratio := ds.Mean, ds.Min, ds.Max, ds.FloodedRatio
			entry.Mean, entry.Min, entry.Max, entry.FloodedRatio = &mean, &min, &max, &ratio
		}
		summary.Stats = append(summary.Stats, entry)
	}

	data, err := yaml.Marshal(&summary)
	if err != nil {
		return fmt.Errorf("marshalling run log: %v", err)
	}

	path := filepath.Join(cfg.Paths.OutputDir, cfg.Outputs.RunLog)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing run log %v: %v", path, err)
	}
	return nil
}
