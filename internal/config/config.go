// Package config loads application settings from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"github.com/contactkeval/option-lattice/internal/pricing"
)

// DefaultsConfig seeds the web form and the price command when the user
// omits an input. Values mirror the classic textbook scenario.
type DefaultsConfig struct {
	CurrentPrice   float64 `yaml:"current_price"`
	Strike         float64 `yaml:"strike"`
	TimeToMaturity float64 `yaml:"time_to_maturity"`
	Volatility     float64 `yaml:"volatility"`
	InterestRate   float64 `yaml:"interest_rate"`
	Steps          int     `yaml:"steps"`
}

// Request converts the defaults into a pricing request.
func (d DefaultsConfig) Request() pricing.Request {
	return pricing.Request{
		CurrentPrice:   d.CurrentPrice,
		Strike:         d.Strike,
		TimeToMaturity: d.TimeToMaturity,
		Volatility:     d.Volatility,
		InterestRate:   d.InterestRate,
		Steps:          d.Steps,
	}
}

// DataConfig selects and parameterizes the market data provider.
type DataConfig struct {
	Provider string `yaml:"provider"` // "polygon", "csv" or "synthetic"
	Dir      string `yaml:"dir"`      // bar files for the csv provider
	Seed     int64  `yaml:"seed"`     // synthetic provider seed, 0 = time-based
}

type Config struct {
	// Server settings
	Port string `yaml:"port"`

	// Verbosity: 0=errors, 1=info, 2=debug, 3=trace
	Verbosity int `yaml:"verbosity"`

	// ReportDir receives result/heatmap files written by the CLI.
	ReportDir string `yaml:"report_dir"`

	// PolygonAPIKey comes from the environment, never from the file.
	PolygonAPIKey string `yaml:"-"`

	Data     DataConfig     `yaml:"data"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// Load reads the YAML file at path (skipped when path is empty or the
// file does not exist), then applies environment overrides. Missing
// values fall back to built-in defaults, so a bare `Load("")` always
// yields a usable config.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:      "8080",
		Verbosity: 1,
		ReportDir: "./out",
		Data:      DataConfig{Provider: "synthetic"},
		Defaults: DefaultsConfig{
			CurrentPrice:   100,
			Strike:         100,
			TimeToMaturity: 1,
			Volatility:     0.2,
			InterestRate:   0.05,
			Steps:          100,
		},
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		} else if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.PolygonAPIKey = getEnv("POLYGON_API_KEY", "")
	if v := os.Getenv("VERBOSITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Verbosity = n
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
