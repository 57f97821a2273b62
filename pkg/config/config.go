// Package config loads codemerge settings from defaults, an optional config file and
// CODEMERGE_ environment variables.
package config

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/siyuan-infoblox/codemerge/pkg/errors"
	"github.com/siyuan-infoblox/codemerge/pkg/formatter"
	"github.com/siyuan-infoblox/codemerge/pkg/merger"
	"github.com/siyuan-infoblox/codemerge/pkg/report"
	"github.com/siyuan-infoblox/codemerge/pkg/std"
	"github.com/siyuan-infoblox/codemerge/pkg/utils"
)

// Default values.
const (
	DefaultLanguage    = merger.LanguageCSharp
	DefaultMaxFileSize = "10MB"
)

// Config is the codemerge configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Language    string   `mapstructure:"language"`
	Directory   string   `mapstructure:"directory"`
	Output      string   `mapstructure:"output"`
	Recurse     bool     `mapstructure:"recurse"`
	MaxDepth    int      `mapstructure:"max_depth"`
	Ignore      []string `mapstructure:"ignore"`
	MaxFileSize string   `mapstructure:"max_file_size"` // human readable, "0" disables the limit
	Workers     int      `mapstructure:"workers"`
	IndentSize  int      `mapstructure:"indent_size"`
	Placement   string   `mapstructure:"placement"`
	StdPrefix   string   `mapstructure:"std_prefix"`
	BraceStyle  string   `mapstructure:"brace_style"`
	Report      string   `mapstructure:"report"` // empty disables the report
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	options := formatter.DefaultOptions()
	return Config{
		Language:    DefaultLanguage,
		MaxDepth:    utils.DefaultMaxDepth,
		Ignore:      []string{},
		MaxFileSize: DefaultMaxFileSize,
		Workers:     merger.DefaultWorkers,
		IndentSize:  options.IndentSize,
		Placement:   string(options.Placement),
		StdPrefix:   std.PrefixFor(DefaultLanguage),
		BraceStyle:  string(options.BraceStyle),
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := c.MergeOptions(); err != nil {
		return err
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("%w: %d", errors.ErrInvalidMaxDepth, c.MaxDepth)
	}
	if _, err := c.MaxFileSizeBytes(); err != nil {
		return err
	}
	if c.Report != "" {
		if _, err := report.ParseFormat(c.Report); err != nil {
			return err
		}
	}
	return nil
}

// MergeOptions converts the output settings to formatter options
func (c *Config) MergeOptions() (formatter.Options, error) {
	placement, err := formatter.ParsePlacement(c.Placement)
	if err != nil {
		return formatter.Options{}, err
	}
	braceStyle, err := formatter.ParseBraceStyle(c.BraceStyle)
	if err != nil {
		return formatter.Options{}, err
	}
	options := formatter.Options{
		IndentSize: c.IndentSize,
		Placement:  placement,
		StdPrefix:  c.StdPrefix,
		BraceStyle: braceStyle,
	}
	return options, options.Validate()
}

// MaxFileSizeBytes parses MaxFileSize; empty or zero disables the limit
func (c *Config) MaxFileSizeBytes() (uint64, error) {
	if c.MaxFileSize == "" {
		return 0, nil
	}
	size, err := humanize.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("max_file_size %q: %w", c.MaxFileSize, err)
	}
	return size, nil
}
