package service

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBind         = ":7441"
	DefaultMaxRows      = 4096
	DefaultMaxCols      = 4096
	DefaultCacheSize    = 128
	DefaultMaxFrameSize = 64 << 20
	DefaultMetricsBind  = ":9641"
	DefaultMetricsPath  = "/metrics"
	DefaultLogLevel     = "info"
)

type EchelonConfig struct {
	Bind string `toml:"bind"`
	// Cutoff overrides the engine's recursion cutoff when positive.
	Cutoff       int `toml:"cutoff"`
	ProgressStep int `toml:"progressStep"`
	// Requests above these bounds are rejected before decoding.
	MaxRows      int `toml:"maxRows"`
	MaxCols      int `toml:"maxCols"`
	MaxFrameSize int `toml:"maxFrameSize"`
	// CacheSize is the number of responses kept; zero disables the cache.
	CacheSize int `toml:"cacheSize"`
}

type MetricsConfig struct {
	// An empty Bind disables the metrics endpoint.
	Bind string `toml:"bind"`
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type Settings struct {
	Echelon EchelonConfig `toml:"echelon"`
	Metrics MetricsConfig `toml:"metrics"`
	Log     LogConfig     `toml:"log"`
}

func DefaultSettings() Settings {
	return Settings{
		Echelon: EchelonConfig{
			Bind:         DefaultBind,
			ProgressStep: 1024,
			MaxRows:      DefaultMaxRows,
			MaxCols:      DefaultMaxCols,
			MaxFrameSize: DefaultMaxFrameSize,
			CacheSize:    DefaultCacheSize,
		},
		Metrics: MetricsConfig{
			Bind: DefaultMetricsBind,
			Path: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// ParseSettings decodes a TOML document over the defaults.
func ParseSettings(data string) (*Settings, error) {
	s := DefaultSettings()
	md, err := toml.Decode(data, &s)
	if err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown settings: %v", undecoded)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSettings reads and parses the file at path.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSettings(string(data))
}

func (s *Settings) validate() error {
	e := &s.Echelon
	switch {
	case e.Cutoff < 0:
		return fmt.Errorf("cutoff must not be negative, got %d", e.Cutoff)
	case e.ProgressStep < 0:
		return fmt.Errorf("progressStep must not be negative, got %d", e.ProgressStep)
	case e.MaxRows <= 0 || e.MaxCols <= 0:
		return fmt.Errorf("maxRows and maxCols must be positive, got %d and %d", e.MaxRows, e.MaxCols)
	case e.MaxFrameSize <= 0:
		return fmt.Errorf("maxFrameSize must be positive, got %d", e.MaxFrameSize)
	case e.CacheSize < 0:
		return fmt.Errorf("cacheSize must not be negative, got %d", e.CacheSize)
	}
	if s.Metrics.Path == "" {
		s.Metrics.Path = DefaultMetricsPath
	}
	return nil
}
