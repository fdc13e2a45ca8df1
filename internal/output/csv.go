package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/maxvaer/linkguard/internal/verifier"
)

// CSVWriter writes results in CSV format.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV writer on w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"url", "valid", "status", "error", "kind"})
}

func (c *CSVWriter) WriteResult(result *verifier.Result) error {
	status := ""
	if result.Status != 0 {
		status = strconv.Itoa(result.Status)
	}
	return c.w.Write([]string{
		result.URL,
		strconv.FormatBool(result.Valid),
		status,
		result.Error,
		string(result.Kind),
	})
}

func (c *CSVWriter) WriteFooter(_ Summary) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	return closeIfSet(c.closer)
}
