// Package config resolves harness settings from built-in defaults, the
// environment (optionally seeded from a .env file), a YAML file and
// command-line flags, in that order of precedence.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Base URLs used when none is configured. The integrity audit historically
// targets the indexer's internal port.
const (
	DefaultBaseURL          = "http://127.0.0.1:3000"
	DefaultIntegrityBaseURL = "http://127.0.0.1:8080"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Config holds every tunable of a run. Zero BaseURL means "use the
// command's default".
type Config struct {
	BaseURL         string        `yaml:"base_url" json:"base_url"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	TokenLimit      int           `yaml:"token_limit" json:"token_limit"`
	ValidateLimit   int           `yaml:"validate_limit" json:"validate_limit"`
	IntegrityLimit  int           `yaml:"integrity_limit" json:"integrity_limit"`
	InscriptionScan int           `yaml:"inscription_scan" json:"inscription_scan"`
	Concurrency     int           `yaml:"concurrency" json:"concurrency"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent"`
	Tick            string        `yaml:"tick" json:"tick"`
	Address         string        `yaml:"address" json:"address"`
	CrossCheck      bool          `yaml:"cross_check" json:"cross_check"`
	RecordDB        string        `yaml:"record_db" json:"record_db"`
	PushGateway     string        `yaml:"pushgateway" json:"pushgateway"`
	Format          string        `yaml:"format" json:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Timeout:         20 * time.Second,
		TokenLimit:      50,
		ValidateLimit:   200,
		IntegrityLimit:  500,
		InscriptionScan: 25,
		Concurrency:     1,
		UserAgent:       "zord-smoke/1.0",
		Format:          FormatText,
	}
}

// BaseURLFor returns the configured base URL, or the default for command.
func (c Config) BaseURLFor(command string) string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if command == "integrity" {
		return DefaultIntegrityBaseURL
	}
	return DefaultBaseURL
}

// LoadFile overlays a YAML file onto c. Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Normalize canonicalizes user-supplied identifiers.
func (c *Config) Normalize() {
	c.Tick = NormalizeTick(c.Tick)
	c.Address = strings.TrimSpace(c.Address)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
}

var lower = cases.Lower(language.Und)

// NormalizeTick trims, NFC-normalizes and lowercases a ticker so "ZÖRD"
// typed with a combining diaeresis matches the indexer's "zörd".
func NormalizeTick(tick string) string {
	return lower.String(norm.NFC.String(strings.TrimSpace(tick)))
}
