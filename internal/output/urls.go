package output

import (
	"bufio"
	"io"

	"github.com/maxvaer/linkguard/internal/verifier"
)

// URLWriter writes one URL per line and nothing else, for piping into other
// tools. Combined with a valid-only filter it lists the reachable URLs.
type URLWriter struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewURLWriter creates a URL list writer on w.
func NewURLWriter(w io.Writer) *URLWriter {
	return &URLWriter{w: bufio.NewWriter(w)}
}

func (u *URLWriter) WriteHeader() error { return nil }

func (u *URLWriter) WriteResult(result *verifier.Result) error {
	if _, err := u.w.WriteString(result.URL); err != nil {
		return err
	}
	return u.w.WriteByte('\n')
}

func (u *URLWriter) WriteFooter(_ Summary) error {
	return u.w.Flush()
}

func (u *URLWriter) Close() error {
	return closeIfSet(u.closer)
}
