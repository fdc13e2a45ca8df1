package output

import (
	"encoding/json"
	"io"

	"github.com/maxvaer/linkguard/internal/verifier"
)

type jsonReport struct {
	Results []verifier.Result `json:"results"`
	Stats   *verifier.Stats   `json:"stats,omitempty"`
}

// JSONWriter buffers results and writes them as one JSON document. Without
// detailed stats the document is a bare array.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	entries []verifier.Result
}

// NewJSONWriter creates a JSON writer on w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w, entries: []verifier.Result{}}
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(result *verifier.Result) error {
	j.entries = append(j.entries, *result)
	return nil
}

func (j *JSONWriter) WriteFooter(s Summary) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if !s.Detailed {
		return enc.Encode(j.entries)
	}
	stats := s.Stats
	return enc.Encode(jsonReport{Results: j.entries, Stats: &stats})
}

func (j *JSONWriter) Close() error {
	return closeIfSet(j.closer)
}
