package output

import (
	"sort"

	"github.com/maxvaer/linkguard/internal/verifier"
)

// SortKeys lists the accepted values for NewSortedWriter's sortBy argument.
var SortKeys = []string{"status", "url", "error"}

// SortedWriter buffers results and replays them sorted by a field when
// WriteFooter is called. It wraps any other Writer. Equal keys keep their
// input order.
type SortedWriter struct {
	inner   Writer
	sortBy  string
	results []verifier.Result
}

// NewSortedWriter wraps inner and buffers results for sorted replay.
func NewSortedWriter(inner Writer, sortBy string) *SortedWriter {
	return &SortedWriter{inner: inner, sortBy: sortBy}
}

func (w *SortedWriter) WriteHeader() error {
	return w.inner.WriteHeader()
}

func (w *SortedWriter) WriteResult(result *verifier.Result) error {
	w.results = append(w.results, *result)
	return nil
}

func (w *SortedWriter) WriteFooter(s Summary) error {
	sort.SliceStable(w.results, func(i, j int) bool {
		a, b := &w.results[i], &w.results[j]
		switch w.sortBy {
		case "status":
			return a.Status < b.Status
		case "url":
			return a.URL < b.URL
		case "error":
			return errorKey(a) < errorKey(b)
		default:
			return false
		}
	})
	for i := range w.results {
		if err := w.inner.WriteResult(&w.results[i]); err != nil {
			return err
		}
	}
	return w.inner.WriteFooter(s)
}

func (w *SortedWriter) Close() error {
	return w.inner.Close()
}

// errorKey sorts valid results ahead of every error category.
func errorKey(r *verifier.Result) string {
	if r.Error == "" {
		return ""
	}
	return verifier.ErrorCategory(r.Error)
}
