package carelens

import (
	"io/fs"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Dashboard.
type Option interface {
	apply(*dashboardConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*dashboardConfig)

func (f optionFunc) apply(c *dashboardConfig) { f(c) }

type dashboardConfig struct {
	dataDir string
	fsys    fs.FS
	files   Files

	regionGroups []string
	highlight    string
	rankMetric   string
	topN         int
	colorMin     float64
	colorMax     float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// Files names the four dataset files relative to the data location.
// Empty names fall back to the defaults.
type Files struct {
	Counties   string
	Hospitals  string
	Procedures string
	Geography  string
}

// WithDataDir reads the datasets from a directory on disk.
func WithDataDir(dir string) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.dataDir = dir
	})
}

// WithFS reads the datasets from fsys. Takes precedence over WithDataDir.
func WithFS(fsys fs.FS) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.fsys = fsys
	})
}

// WithFiles overrides dataset file names.
func WithFiles(f Files) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.files = f
	})
}

// WithRegionGroups sets the state codes whose counties are ranked and shown.
// Default: MI, OH, IN, IL, WI.
func WithRegionGroups(groups ...string) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.regionGroups = groups
	})
}

// WithHighlight sets the region group emphasized in the ranking. Default: MI.
func WithHighlight(group string) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.highlight = group
	})
}

// WithRankMetric sets the county metric used for the per-group top-N.
// Default: discharges_sum.
func WithRankMetric(metric string) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.rankMetric = metric
	})
}

// WithInitialTopN sets the topN the session starts with. Default: 10.
func WithInitialTopN(n int) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.topN = n
	})
}

// WithColorDomain sets the z_spend range mapped onto the map color scale.
// Default: -2..2.
func WithColorDomain(lo, hi float64) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.colorMin, c.colorMax = lo, hi
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *dashboardConfig) {
		c.metricsReg = reg
	})
}
