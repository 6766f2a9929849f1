// Package config holds the settings of a colq session.
//
// Settings are layered: Default, then an optional TOML file (Load), then
// command-line flags applied by the caller. Validate checks the result.
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/vegasq/colq/output"
)

var (
	// ErrInvalidConfig is wrapped by every Validate failure.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownKey is returned by Load for keys the config does not define.
	ErrUnknownKey = errors.New("unknown config key")
)

// Config is the complete set of session settings.
type Config struct {
	// Format is the result format: table, csv or jsonl.
	Format string `toml:"format"`

	// Limit caps the rows a query returns. Zero means no limit.
	Limit int `toml:"limit"`

	// Parallelism is the number of workers evaluating the filter.
	Parallelism int `toml:"parallelism"`

	// Delimiter separates cells in delimited input files. One character.
	Delimiter string `toml:"delimiter"`

	// LogLevel is a logrus level name.
	LogLevel string `toml:"log_level"`

	// Color enables coloured REPL output when stdout is a terminal.
	Color bool `toml:"color"`

	// MaxCellWidth truncates table cells. Zero disables truncation.
	MaxCellWidth int `toml:"max_cell_width"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Format:      output.FormatTable,
		Parallelism: 1,
		Delimiter:   ";",
		LogLevel:    "warn",
		Color:       true,
	}
}

// Load applies the TOML file at path on top of Default. Keys missing from
// the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%w in %s: %s", ErrUnknownKey, path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !validFormat(c.Format) {
		return fmt.Errorf("%w: format %q (want one of %s)", ErrInvalidConfig, c.Format, strings.Join(output.Formats, ", "))
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidConfig, c.Limit)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1, got %d", ErrInvalidConfig, c.Parallelism)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidConfig, c.Delimiter)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.MaxCellWidth < 0 {
		return fmt.Errorf("%w: max_cell_width must not be negative, got %d", ErrInvalidConfig, c.MaxCellWidth)
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune. Call after Validate.
func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Level returns the parsed log level, or warn if it does not parse.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}

func validFormat(name string) bool {
	for _, f := range output.Formats {
		if strings.EqualFold(name, f) {
			return true
		}
	}
	return false
}
