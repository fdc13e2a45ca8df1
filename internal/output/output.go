// Package output renders verification results as text, JSON, CSV or a
// plain URL list.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/maxvaer/linkguard/internal/verifier"
)

// Summary holds aggregate run statistics passed to WriteFooter.
type Summary struct {
	verifier.Stats
	Filtered int
	Duration time.Duration
	// Detailed requests the per-category error breakdown.
	Detailed bool
}

// Writer is implemented by each output format.
type Writer interface {
	WriteHeader() error
	WriteResult(result *verifier.Result) error
	WriteFooter(summary Summary) error
	Close() error
}

// Formats lists the accepted values for Open's format argument.
var Formats = []string{"text", "json", "csv", "urls"}

// Open creates a writer for format. If outputFile is empty, stdout is used.
func Open(format, outputFile string, noColor, quiet bool) (Writer, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, fmt.Errorf("creating output file: %w", err)
		}
		w, closer = f, f
		noColor = true
	}

	switch format {
	case "", "text":
		tw := NewTextWriter(w, noColor, quiet)
		tw.closer = closer
		return tw, nil
	case "json":
		jw := NewJSONWriter(w)
		jw.closer = closer
		return jw, nil
	case "csv":
		cw := NewCSVWriter(w)
		cw.closer = closer
		return cw, nil
	case "urls":
		uw := NewURLWriter(w)
		uw.closer = closer
		return uw, nil
	default:
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func closeIfSet(c io.Closer) error {
	if c != nil {
		return c.Close()
	}
	return nil
}
