package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// UserConfigDir is the directory for the user-level config file,
	// relative to the home directory.
	UserConfigDir = ".config/linkguard"
	// UserConfigFile is the name of the user-level config file.
	UserConfigFile = "config.yaml"
)

// File is the on-disk YAML configuration. Zero values mean "not set".
type File struct {
	Verify  VerifySection  `yaml:"verify"`
	Filters FiltersSection `yaml:"filters"`
	Output  OutputSection  `yaml:"output"`
}

// VerifySection configures probing.
type VerifySection struct {
	Concurrency int           `yaml:"concurrency,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	Rate        float64       `yaml:"rate,omitempty"`
	UserAgent   string        `yaml:"user_agent,omitempty"`
}

// FiltersSection configures which results are shown.
type FiltersSection struct {
	OnlyValid         bool     `yaml:"only_valid,omitempty"`
	IncludeStatus     []int    `yaml:"include_status,omitempty"`
	ExcludeStatus     []int    `yaml:"exclude_status,omitempty"`
	ExcludeCategories []string `yaml:"exclude_categories,omitempty"`
}

// OutputSection configures result rendering.
type OutputSection struct {
	Format   string `yaml:"format,omitempty"`
	File     string `yaml:"file,omitempty"`
	Sort     string `yaml:"sort,omitempty"`
	Stats    bool   `yaml:"stats,omitempty"`
	NoColor  bool   `yaml:"no_color,omitempty"`
	OnResult string `yaml:"on_result,omitempty"`
}

// DefaultFile returns the path of the user-level config file, or "" when
// the home directory is unknown.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// LoadFile reads and parses a YAML config file. Unknown keys are an error.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	var cfg File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil // empty file
		}
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Merge copies the values set in f into o. explicit reports whether a
// flag was set on the command line; such options keep their flag value.
// Flag names are the long CLI names ("concurrency", "timeout", ...).
func (o *Options) Merge(f *File, explicit func(flag string) bool) {
	if f == nil {
		return
	}
	if explicit == nil {
		explicit = func(string) bool { return false }
	}
	set := func(flag string, notZero bool) bool { return notZero && !explicit(flag) }

	if set("concurrency", f.Verify.Concurrency != 0) {
		o.Concurrency = f.Verify.Concurrency
	}
	if set("timeout", f.Verify.Timeout != 0) {
		o.Timeout = f.Verify.Timeout
	}
	if set("rate", f.Verify.Rate != 0) {
		o.RateLimit = f.Verify.Rate
	}
	if set("user-agent", f.Verify.UserAgent != "") {
		o.UserAgent = f.Verify.UserAgent
	}

	if set("only-valid", f.Filters.OnlyValid) {
		o.OnlyValid = true
	}
	if set("include-status", len(f.Filters.IncludeStatus) > 0) {
		o.IncludeStatus = f.Filters.IncludeStatus
	}
	if set("exclude-status", len(f.Filters.ExcludeStatus) > 0) {
		o.ExcludeStatus = f.Filters.ExcludeStatus
	}
	if set("exclude-category", len(f.Filters.ExcludeCategories) > 0) {
		o.ExcludeCategories = f.Filters.ExcludeCategories
	}

	if set("format", f.Output.Format != "") {
		o.OutputFormat = f.Output.Format
	}
	if set("output", f.Output.File != "") {
		o.OutputFile = f.Output.File
	}
	if set("sort", f.Output.Sort != "") {
		o.SortBy = f.Output.Sort
	}
	if set("stats", f.Output.Stats) {
		o.Stats = true
	}
	if set("no-color", f.Output.NoColor) {
		o.NoColor = true
	}
	if set("on-result", f.Output.OnResult != "") {
		o.OnResultCmd = f.Output.OnResult
	}
}
