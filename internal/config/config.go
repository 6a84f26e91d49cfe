package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration loaded from a YAML file with
// environment variable overrides.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Output     OutputConfig     `yaml:"output"`
	Collectors CollectorsConfig `yaml:"collectors"`
}

// ServerConfig configures the HTTP server and the refresh loop.
type ServerConfig struct {
	Port            int    `yaml:"port"`
	RefreshInterval string `yaml:"refresh_interval"` // "<int><unit>", units s|m|h|d|y
	WebDir          string `yaml:"web_dir"`
}

// OutputConfig configures the export and summary sinks.
type OutputConfig struct {
	Directory   string `yaml:"directory"`    // per-item Excel export root
	SummaryPath string `yaml:"summary_path"` // dashboard JSON document
	DBPath      string `yaml:"db_path"`      // run-history sqlite file
}

// CollectorsConfig holds per-collector settings and the registry blacklist.
type CollectorsConfig struct {
	Blacklist []string       `yaml:"blacklist"`
	Bilibili  BilibiliConfig `yaml:"bilibili"`
}

// BilibiliConfig configures the Bilibili collector.
type BilibiliConfig struct {
	UID            int64  `yaml:"uid"`
	PageSize       int    `yaml:"page_size"`
	PageDelayMs    int    `yaml:"page_delay_ms"`    // delay after each listing page
	RequestDelayMs int    `yaml:"request_delay_ms"` // spacing between API requests
	Workers        int    `yaml:"workers"`
	UserAgent      string `yaml:"user_agent"`
}

// Load reads the config file (CONFIG_PATH env var or ./config.yml),
// applies defaults and env overrides, and validates the result.
func Load() (*Config, error) {
	path := getEnv("CONFIG_PATH", "config.yml")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if port := getEnvInt("PORT", 0); port != 0 {
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			RefreshInterval: "1d",
			WebDir:          "Web",
		},
		Output: OutputConfig{
			Directory:   "Excel",
			SummaryPath: "Web/dashboard_data.json",
			DBPath:      "./bilidash.db",
		},
		Collectors: CollectorsConfig{
			Bilibili: BilibiliConfig{
				PageSize:       30,
				PageDelayMs:    500,
				RequestDelayMs: 200,
				Workers:        8,
			},
		},
	}
}

// Validate checks the configuration once at startup. A missing subject id
// for an active collector is a hard failure.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Output.Directory == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Output.SummaryPath == "" {
		return fmt.Errorf("summary path is required")
	}

	bilibiliActive := !slices.Contains(c.Collectors.Blacklist, "bilibili_fetcher")
	if bilibiliActive && c.Collectors.Bilibili.UID == 0 {
		return fmt.Errorf("collectors.bilibili.uid is required")
	}
	if c.Collectors.Bilibili.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Collectors.Bilibili.Workers)
	}
	return nil
}

// RefreshSeconds returns the refresh interval in seconds.
func (c *Config) RefreshSeconds() int {
	return ParseRefreshInterval(c.Server.RefreshInterval)
}

// ParseRefreshInterval parses an "<integer><unit>" duration string with
// units s, m, h, d, y. Malformed strings and unrecognized units fall back
// to one day.
func ParseRefreshInterval(s string) int {
	const defaultSeconds = 86400

	if len(s) < 2 {
		return defaultSeconds
	}
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return defaultSeconds
	}

	switch s[len(s)-1] {
	case 's', 'S':
		return value
	case 'm', 'M':
		return value * 60
	case 'h', 'H':
		return value * 3600
	case 'd', 'D':
		return value * 86400
	case 'y', 'Y':
		return value * 31536000
	default:
		return defaultSeconds
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
