// Package config loads the YAML configuration shared by the skmv-engine,
// skmv-api and skmv-feed binaries.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SketchConfig defines the parameters handed to skmv.New, plus the
// operational clean cadence (spec.md §4.6, §7).
type SketchConfig struct {
	WindowSize    uint64 `yaml:"window_size"`
	K             uint32 `yaml:"k"`
	M             uint32 `yaml:"m"`
	Delta1        uint32 `yaml:"delta1"`
	Delta2        uint32 `yaml:"delta2"`
	CleanInterval string `yaml:"clean_interval"`
}

// IngestConfig selects and configures the record source.
type IngestConfig struct {
	Source   string `yaml:"source"` // "file" or "nats"
	FilePath string `yaml:"file_path"`
	NATSURL  string `yaml:"nats_url"`
	Subject  string `yaml:"subject"`
}

// ClickHouseConfig names the ClickHouse connection used by a writer or the
// query API's historical reads.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Table    string `yaml:"table"`
}

// WriterDef configures one output sink for periodic Estimate() snapshots.
// This persists the derived estimate time series, never the raw bucket
// array (see SPEC_FULL.md §5).
type WriterDef struct {
	Type       string           `yaml:"type"` // "text" or "clickhouse"
	Enabled    bool             `yaml:"enabled"`
	Path       string           `yaml:"path"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// APIConfig configures the HTTP query server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the top-level configuration struct for all three binaries.
type Config struct {
	Sketch  SketchConfig  `yaml:"sketch"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Writers []WriterDef   `yaml:"writers"`
	API     APIConfig     `yaml:"api"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}

// FirstEnabledClickHouse returns the ClickHouse config of the first
// enabled clickhouse-type writer, used by skmv-api to serve historical
// queries against the same store the engine writes to.
func (c *Config) FirstEnabledClickHouse() (*ClickHouseConfig, bool) {
	for _, w := range c.Writers {
		if w.Enabled && w.Type == "clickhouse" {
			ch := w.ClickHouse
			return &ch, true
		}
	}
	return nil, false
}
