package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/carelens/internal/domain"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Dashboard(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DashboardConfig)
		wantErr string
	}{
		{"lowercase group", func(d *DashboardConfig) { d.RegionGroups = []string{"mi"} }, "two-letter"},
		{"long group", func(d *DashboardConfig) { d.RegionGroups = []string{"MIC"} }, "two-letter"},
		{"highlight outside groups", func(d *DashboardConfig) { d.Highlight = "TX" }, "highlight"},
		{"unknown metric", func(d *DashboardConfig) { d.RankMetric = "revenue" }, "rank_metric"},
		{"topN too large", func(d *DashboardConfig) { d.DefaultTopN = 51 }, "default_top_n"},
		{"topN negative", func(d *DashboardConfig) { d.DefaultTopN = -1 }, "default_top_n"},
		{"inverted color domain", func(d *DashboardConfig) { d.ColorMin, d.ColorMax = 2, -2 }, "color_min"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg.Dashboard)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_UnknownMetricWrapsSentinel(t *testing.T) {
	cfg := validConfig()
	cfg.Dashboard.RankMetric = "revenue"

	if err := cfg.Validate(); !errors.Is(err, domain.ErrUnknownMetric) {
		t.Errorf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Data.Dir != "data" {
		t.Errorf("expected Dir='data', got %q", cfg.Data.Dir)
	}
	if cfg.Data.Geography != "counties_geo_region.json" {
		t.Errorf("expected default geography file, got %q", cfg.Data.Geography)
	}
	if got := strings.Join(cfg.Dashboard.RegionGroups, ","); got != "MI,OH,IN,IL,WI" {
		t.Errorf("expected default region groups, got %q", got)
	}
	if cfg.Dashboard.Highlight != "MI" {
		t.Errorf("expected Highlight=MI, got %q", cfg.Dashboard.Highlight)
	}
	if cfg.Dashboard.DefaultTopN != 10 {
		t.Errorf("expected DefaultTopN=10, got %d", cfg.Dashboard.DefaultTopN)
	}
	if cfg.Dashboard.ColorMin != -2 || cfg.Dashboard.ColorMax != 2 {
		t.Errorf("expected color domain [-2,2], got [%v,%v]", cfg.Dashboard.ColorMin, cfg.Dashboard.ColorMax)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Data:      DataConfig{Dir: "/srv/data", Counties: "c.csv"},
		Dashboard: DashboardConfig{RegionGroups: []string{"OH"}, Highlight: "OH", DefaultTopN: 5, ColorMin: -1, ColorMax: 3},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Data.Dir != "/srv/data" || cfg.Data.Counties != "c.csv" {
		t.Errorf("data overridden: %+v", cfg.Data)
	}
	if len(cfg.Dashboard.RegionGroups) != 1 || cfg.Dashboard.Highlight != "OH" {
		t.Errorf("dashboard overridden: %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.DefaultTopN != 5 || cfg.Dashboard.ColorMin != -1 || cfg.Dashboard.ColorMax != 3 {
		t.Errorf("dashboard numbers overridden: %+v", cfg.Dashboard)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CARELENS_TEST_PORT", "9090")
	t.Setenv("CARELENS_TEST_EMPTY", "")

	tests := []struct {
		input string
		want  string
	}{
		{"port: ${CARELENS_TEST_PORT}", "port: 9090"},
		{"port: ${CARELENS_TEST_PORT:-1}", "port: 9090"},
		{"dir: ${CARELENS_TEST_EMPTY:-data}", "dir: data"},
		{"dir: ${CARELENS_TEST_UNSET_VAR}", "dir: "},
		{"plain", "plain"},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.input))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CARELENS_DATA_DIR", "")

	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Dashboard.RankMetric != "discharges_sum" {
		t.Errorf("expected rank metric discharges_sum, got %q", cfg.Dashboard.RankMetric)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "broken.yaml"), []byte("http: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if _, err := Load("broken"); err == nil {
		t.Fatal("expected parse error")
	}
}
