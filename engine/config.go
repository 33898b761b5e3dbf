// CLAUDE:SUMMARY Engine configuration — YAML file with environment override for the vision API key.
package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/vision"
)

// Config holds the pipeline settings.
type Config struct {
	// OutputDir is where rendered outputs are persisted.
	OutputDir string `yaml:"output_dir"`

	// HistoryDB enables the SQLite run log when non-empty.
	HistoryDB string `yaml:"history_db"`

	Vision vision.Config `yaml:"vision"`
}

func (c *Config) defaults() {
	if c.OutputDir == "" {
		c.OutputDir = "outputs"
	}
	if c.Vision.APIKey == "" {
		c.Vision.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if c.Vision.Timeout <= 0 {
		c.Vision.Timeout = 60 * time.Second
	}
}

// LoadConfig reads a YAML config file. An empty path or a missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.defaults()
	return cfg, nil
}
