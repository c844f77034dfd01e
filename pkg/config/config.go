// Package config loads editor configuration from defaults, an optional
// config file, environment variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the topology editor
type Config struct {
	Port           int     `koanf:"port"`
	LogLevel       string  `koanf:"log-level"`
	CanvasWidth    float64 `koanf:"canvas-width"`
	CanvasHeight   float64 `koanf:"canvas-height"`
	NodeHalfExtent float64 `koanf:"node-half-extent"`
	ExportPath     string  `koanf:"export-path"`
	Compress       bool    `koanf:"compress"`
}

// Load loads configuration with priority: Flags > Env > Config File > Defaults.
// The config file is topoforge.toml in the working directory; environment
// variables use the TOPOFORGE_ prefix (TOPOFORGE_PORT=9090).
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"port":             8080,
		"log-level":        "info",
		"canvas-width":     1600.0,
		"canvas-height":    900.0,
		"node-half-extent": 25.0,
		"export-path":      "topology.yaml",
		"compress":         false,
	}
	if err := k.Load(mapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Optional; missing file is fine
	_ = k.Load(file.Provider("topoforge.toml"), toml.Parser())

	if err := k.Load(env.Provider("TOPOFORGE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "TOPOFORGE_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Flags returns the flag set understood by Load
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("topoforge", pflag.ContinueOnError)
	f.Int("port", 8080, "HTTP listen port")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.Float64("canvas-width", 1600, "canvas width in canvas units")
	f.Float64("canvas-height", 900, "canvas height in canvas units")
	f.Float64("node-half-extent", 25, "half-width of a node's hit region")
	f.String("export-path", "topology.yaml", "path for exported topology documents")
	f.Bool("compress", false, "snappy-compress exported documents")
	return f
}

// mapProvider adapts a plain map to a koanf provider
type mapKoanfProvider struct {
	m map[string]interface{}
}

func mapProvider(m map[string]interface{}) *mapKoanfProvider {
	return &mapKoanfProvider{m: m}
}

func (p *mapKoanfProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapKoanfProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
