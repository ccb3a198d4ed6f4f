// Package utils holds the run configuration and the acquisition
// naming conventions shared by the driver.
package utils

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"

	"github.com/nci/floodcube/raster"
)

// DefaultExpression is the canonical NDWI-style water index. When the
// configured expression equals it the driver takes the two-band fast
// path instead of the expression evaluator.
const DefaultExpression = "(green - nir) / (green + nir)"

// PathsConfig locates the inputs and outputs of a run.
type PathsConfig struct {
	BandsDir  string `yaml:"bands_dir"`
	OutputDir string `yaml:"output_dir"`
}

// IndexConfig controls band math. Bands maps band variable names to
// the filename tokens that identify them, e.g. green: B03, nir: B08.
// Scale divides raw reflectance samples before band math; samples at
// or below zero are treated as no-data, which covers the export
// padding common on AOI downloads.
type IndexConfig struct {
	Expression string            `yaml:"expression"`
	Bands      map[string]string `yaml:"bands"`
	Scale      float64           `yaml:"scale"`
	Threshold  float64           `yaml:"threshold"`
}

// FilterConfig controls the majority filter.
type FilterConfig struct {
	Window int `yaml:"window"`
}

// OutputsConfig selects the artefacts a run persists.
type OutputsConfig struct {
	StatsDB  string `yaml:"stats_db"`
	WritePNG bool   `yaml:"write_png"`
	WriteRaw bool   `yaml:"write_raw_mask"`
	RunLog   string `yaml:"run_log"`
}

// Config is the full run configuration, loaded from YAML.
type Config struct {
	Paths       PathsConfig   `yaml:"paths"`
	Index       IndexConfig   `yaml:"index"`
	Filter      FilterConfig  `yaml:"filter"`
	Outputs     OutputsConfig `yaml:"outputs"`
	Concurrency int           `yaml:"concurrency"`
	Verbose     bool          `yaml:"verbose"`
}

// LoadConfig reads, defaults and validates a YAML run configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error while reading config file %v: %v", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error while parsing config file %v: %v", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %v: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = "data/output"
	}
	if c.Index.Expression == "" {
		c.Index.Expression = DefaultExpression
	}
	if len(c.Index.Bands) == 0 {
		c.Index.Bands = map[string]string{"green": "B03", "nir": "B08"}
	}
	if c.Index.Scale == 0 {
		c.Index.Scale = 10000.0
	}
	if c.Index.Threshold == 0 {
		c.Index.Threshold = 0.1
	}
	if c.Filter.Window == 0 {
		c.Filter.Window = 3
	}
	if c.Concurrency == 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if c.Outputs.RunLog == "" {
		c.Outputs.RunLog = "floodcube_run.yaml"
	}
}

// Validate rejects configurations the engine would reject later, so
// operator errors surface before any raster is read.
func (c *Config) Validate() error {
	if c.Paths.BandsDir == "" {
		return fmt.Errorf("paths.bands_dir is required")
	}
	if c.Index.Threshold < -1 || c.Index.Threshold > 1 {
		return fmt.Errorf("index.threshold %v: %w", c.Index.Threshold, raster.ErrInvalidThreshold)
	}
	if c.Filter.Window < 3 || c.Filter.Window%2 == 0 {
		return fmt.Errorf("filter.window %v: %w", c.Filter.Window, raster.ErrInvalidWindow)
	}
	if c.Index.Scale <= 0 {
		return fmt.Errorf("index.scale must be positive, got %v", c.Index.Scale)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %v", c.Concurrency)
	}
	return nil
}

// BandNames returns the configured band variable names.
func (c *Config) BandNames() []string {
	names := make([]string, 0, len(c.Index.Bands))
	for name := range c.Index.Bands {
		names = append(names, name)
	}
	return names
}
