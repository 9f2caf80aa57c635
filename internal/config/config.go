package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Watcher  WatcherConfig  `yaml:"watcher"`
	API      APIConfig      `yaml:"api"`
	Parser   ParserConfig   `yaml:"parser"`
}

type DatabaseConfig struct {
	// Backend selects the dataset store: "mongodb" or "memory".
	Backend  string `yaml:"backend"`
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	AuthDB   string `yaml:"auth_db"`
}

type WatcherConfig struct {
	InputDir     string        `yaml:"input_dir"`
	OutputDir    string        `yaml:"output_dir"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Workers      int           `yaml:"workers"`
	// MinConfidence is the detection score below which a file is
	// rejected instead of imported. Imports between MinConfidence and
	// the medium band proceed but are flagged as forced.
	MinConfidence int `yaml:"min_confidence"`
}

type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ParserConfig struct {
	// CapacityRounding is "round" (half-up, default) or "truncate".
	// The exports do not document their own rounding, so it is a knob.
	CapacityRounding string `yaml:"capacity_rounding"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Backend == "" {
		c.Database.Backend = "mongodb"
	}
	if c.Watcher.Workers <= 0 {
		c.Watcher.Workers = 2
	}
	if c.Watcher.PollInterval <= 0 {
		c.Watcher.PollInterval = 10 * time.Second
	}
	if c.Watcher.MinConfidence <= 0 {
		c.Watcher.MinConfidence = 20
	}
}

func (c *DatabaseConfig) GetMongoURI() string {
	if c.URI != "" {
		return c.URI
	}
	return "mongodb://localhost:27017"
}
