// Package config loads the migrate CLI's optional YAML config file,
// mirroring the teacher's GeneratorConfig loading (database.ParseGeneratorConfig)
// but via goccy/go-yaml, the library the teacher's current go.mod actually
// carries (gopkg.in/yaml.v3 is a stale indirect dependency — see DESIGN.md).
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Connection names one executor target: how cmd/inputlayer-migrate
// should reach the knowledge-graph engine for a given profile.
type Connection struct {
	Kind string `yaml:"kind"` // e.g. "demo-sqlite", "memstore"
	DSN  string `yaml:"dsn"`
}

// Config is the shape of the optional ./inputlayer.yml file.
type Config struct {
	// Connections maps a profile name (selected with --connection) to its
	// executor target.
	Connections map[string]Connection `yaml:"connections"`

	// MigrationsDir is where migrate/loader looks for migration files,
	// relative to the config file's directory if not absolute.
	MigrationsDir string `yaml:"migrations_dir"`

	// SkipRelations excludes named relations from makemigrations'
	// autodetected changes entirely, regardless of model state.
	SkipRelations []string `yaml:"skip_relations"`
}

// Default returns the config used when no config file is present.
func Default() Config {
	return Config{MigrationsDir: "migrations"}
}

// Load reads and parses a config file. A missing file is not an error —
// it returns Default() instead, since the config file itself is optional.
func Load(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(buf)
}

// Parse decodes YAML config bytes, filling in defaults for anything left
// unset.
func Parse(buf []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing yaml: %w", err)
	}
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}
	return cfg, nil
}

// SkipsRelation reports whether a relation name is filtered out of
// autodetection by skip_relations.
func (c Config) SkipsRelation(name string) bool {
	for _, r := range c.SkipRelations {
		if r == name {
			return true
		}
	}
	return false
}

// Connection looks up a named connection profile.
func (c Config) Connection(name string) (Connection, bool) {
	conn, ok := c.Connections[name]
	return conn, ok
}
