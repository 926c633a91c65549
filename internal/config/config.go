// Package config loads inferc settings from defaults, an inferc.yaml file,
// INFERC_ environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/roach88/inferc/internal/analyzer"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "INFERC_"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultFormat is the output format used when none is configured.
const DefaultFormat = FormatText

// Config holds the resolved settings for one command invocation.
type Config struct {
	BailOnFirstError bool   `koanf:"bail_on_first_error"`
	WarningsAsErrors bool   `koanf:"warnings_as_errors"`
	Verbose          bool   `koanf:"verbose"`
	Format           string `koanf:"format"`
	HistoryDB        string `koanf:"history_db"`

	// ConfigFile is the file that was read, or "" when none was found.
	ConfigFile string `koanf:"-"`
}

// flagKeys maps flag names to config keys where the two differ.
var flagKeys = map[string]string{
	"record": "history_db",
	"db":     "history_db",
}

// findConfigFile returns explicit if set, else the first of inferc.yaml or
// inferc.yml present in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"inferc.yaml", "inferc.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load resolves the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags the user set explicitly take part.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"bail_on_first_error": false,
		"warnings_as_errors":  false,
		"verbose":             false,
		"format":              DefaultFormat,
		"history_db":          "",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: INFERC_HISTORY_DB -> history_db
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[f.Name]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = used
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format %q: must be %q or %q", c.Format, FormatText, FormatJSON)
	}
}

// AnalyzerOptions returns the analyzer settings carried by c. Logger and
// Handler are left for the caller to set.
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		BailOnFirstError: c.BailOnFirstError,
		WarningsAsErrors: c.WarningsAsErrors,
		Verbose:          c.Verbose,
	}
}
