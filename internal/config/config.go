package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/carelens/internal/domain/county"
	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
)

// Config holds the carelens server configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Data      DataConfig      `yaml:"data"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DataConfig locates the dataset files.
type DataConfig struct {
	Dir            string `yaml:"dir"`
	Counties       string `yaml:"counties"`
	Hospitals      string `yaml:"hospitals"`
	Procedures     string `yaml:"procedures"`
	Geography      string `yaml:"geography"`
	LoadTimeoutSec int    `yaml:"load_timeout_sec"`
}

// DashboardConfig holds presentation settings.
type DashboardConfig struct {
	RegionGroups []string `yaml:"region_groups"`
	Highlight    string   `yaml:"highlight"`
	RankMetric   string   `yaml:"rank_metric"`
	DefaultTopN  int      `yaml:"default_top_n"`
	ColorMin     float64  `yaml:"color_min"`
	ColorMax     float64  `yaml:"color_max"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Data.Counties == "" {
		c.Data.Counties = "counties_2023.csv"
	}
	if c.Data.Hospitals == "" {
		c.Data.Hospitals = "hospitals_2025.csv"
	}
	if c.Data.Procedures == "" {
		c.Data.Procedures = "hospital_drg_top5.csv"
	}
	if c.Data.Geography == "" {
		c.Data.Geography = "counties_geo_region.json"
	}
	if c.Data.LoadTimeoutSec <= 0 {
		c.Data.LoadTimeoutSec = 30
	}
	if len(c.Dashboard.RegionGroups) == 0 {
		c.Dashboard.RegionGroups = []string{"MI", "OH", "IN", "IL", "WI"}
	}
	if c.Dashboard.Highlight == "" {
		c.Dashboard.Highlight = "MI"
	}
	if c.Dashboard.RankMetric == "" {
		c.Dashboard.RankMetric = "discharges_sum"
	}
	if c.Dashboard.DefaultTopN == 0 {
		c.Dashboard.DefaultTopN = 10
	}
	if c.Dashboard.ColorMin == 0 && c.Dashboard.ColorMax == 0 {
		c.Dashboard.ColorMin, c.Dashboard.ColorMax = -2, 2
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	return c.Dashboard.validate()
}

func (d *DashboardConfig) validate() error {
	if len(d.RegionGroups) == 0 {
		return fmt.Errorf("dashboard.region_groups is required")
	}
	for _, g := range d.RegionGroups {
		if !regionGroupRegex.MatchString(g) {
			return fmt.Errorf("dashboard.region_groups: %q is not a two-letter code", g)
		}
	}
	if !slices.Contains(d.RegionGroups, d.Highlight) {
		return fmt.Errorf("dashboard.highlight %q must be one of region_groups", d.Highlight)
	}
	if _, err := county.ParseMetric(d.RankMetric); err != nil {
		return fmt.Errorf("dashboard.rank_metric: %w", err)
	}
	if d.DefaultTopN < domstate.MinTopN || d.DefaultTopN > domstate.MaxTopN {
		return fmt.Errorf("dashboard.default_top_n must be between %d and %d, got %d",
			domstate.MinTopN, domstate.MaxTopN, d.DefaultTopN)
	}
	if d.ColorMin >= d.ColorMax {
		return fmt.Errorf("dashboard.color_min must be below color_max, got %v >= %v", d.ColorMin, d.ColorMax)
	}
	return nil
}

var regionGroupRegex = regexp.MustCompile(`^[A-Z]{2}$`)

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
