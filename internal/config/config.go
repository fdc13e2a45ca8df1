// Package config holds the options for a linkguard run and loads them from
// a YAML file.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/maxvaer/linkguard/internal/output"
)

// Options holds all configuration for a linkguard run.
type Options struct {
	// Target
	URLs     []string
	URLsFile string

	// Verify
	Concurrency int
	Timeout     time.Duration
	RateLimit   float64 // requests per second, 0 = unlimited
	CheckOnly   bool    // validate without network access

	// HTTP
	UserAgent string

	// Filters
	OnlyValid         bool
	IncludeStatus     []int
	ExcludeStatus     []int
	ExcludeCategories []string

	// Output
	OutputFile   string
	OutputFormat string // "text", "json", "csv", "urls"
	Quiet        bool
	NoColor      bool
	SortBy       string // "", "status", "url", "error"
	Stats        bool
	OnResultCmd  string

	// Configuration
	ConfigFile string

	// Logging
	Verbose bool

	FailOnInvalid bool
}

// Default returns Options with the built-in defaults.
func Default() *Options {
	return &Options{
		Concurrency:  5,
		Timeout:      5 * time.Second,
		OutputFormat: "text",
	}
}

// Validate checks that the options are usable.
func (o *Options) Validate() error {
	var errs []error
	if o.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", o.Concurrency))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", o.Timeout))
	}
	if o.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate must not be negative, got %g", o.RateLimit))
	}
	if !slices.Contains(output.Formats, o.OutputFormat) {
		errs = append(errs, fmt.Errorf("unknown output format %q (want one of %v)", o.OutputFormat, output.Formats))
	}
	if o.SortBy != "" && !slices.Contains(output.SortKeys, o.SortBy) {
		errs = append(errs, fmt.Errorf("unknown sort key %q (want one of %v)", o.SortBy, output.SortKeys))
	}
	for _, code := range slices.Concat(o.IncludeStatus, o.ExcludeStatus) {
		if code < 100 || code > 599 {
			errs = append(errs, fmt.Errorf("invalid HTTP status code %d", code))
		}
	}
	if len(o.IncludeStatus) > 0 && len(o.ExcludeStatus) > 0 {
		errs = append(errs, errors.New("include-status and exclude-status are mutually exclusive"))
	}
	return errors.Join(errs...)
}
