package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Browser configures the driven browser.
type Browser struct {
	ExecPath string `json:"exec_path,omitempty" yaml:"exec_path,omitempty"` // chrome binary override
	Headless bool   `json:"headless" yaml:"headless"`
	Width    int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// Report configures the optional test reporting backend.
type Report struct {
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Project    string `json:"project,omitempty" yaml:"project,omitempty"`
	APIKeyFile string `json:"api_key_file,omitempty" yaml:"api_key_file,omitempty"`
}

// Enabled reports whether the backend is configured at all.
func (r Report) Enabled() bool { return r.URL != "" }

// Config is the full run configuration.
type Config struct {
	BaseURL        string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	ResultsDir     string  `json:"results_dir,omitempty" yaml:"results_dir,omitempty"`
	Workers        int     `json:"workers,omitempty" yaml:"workers,omitempty"`
	TimeoutSeconds int     `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	LogLevel       string  `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat      string  `json:"log_format,omitempty" yaml:"log_format,omitempty"`
	Browser        Browser `json:"browser" yaml:"browser"`
	Report         Report  `json:"report,omitempty" yaml:"report,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ResultsDir:     "allure-results",
		Workers:        1,
		TimeoutSeconds: 10,
		LogFormat:      "text",
		Browser:        Browser{Headless: true},
	}
}

// Timeout is the per-operation browser deadline.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate rejects values a run cannot start with.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1, got %d", c.TimeoutSeconds)
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("results_dir must not be empty")
	}
	if c.Report.Enabled() && c.Report.Project == "" {
		return fmt.Errorf("report.project is required when report.url is set")
	}
	return nil
}

// LoadFromPath reads a config file (YAML or JSON) over the defaults.
// Format is detected by extension (.yaml/.yml → YAML, .json → JSON) or by
// content (first non-whitespace char).
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses a config from bytes over the defaults. ext is the file
// extension for format hint; empty = detect from content.
func Load(data []byte, ext string) (*Config, error) {
	c := Default()

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
	case ".yaml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
