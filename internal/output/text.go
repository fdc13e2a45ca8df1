package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/maxvaer/linkguard/internal/verifier"
)

// TextWriter writes colored, human-readable lines.
type TextWriter struct {
	w      io.Writer
	errw   io.Writer // footer destination
	closer io.Closer
	quiet  bool

	ok, warn, fail, dim *color.Color
}

// NewTextWriter creates a text writer on w. noColor disables ANSI escape
// codes; quiet suppresses the header and footer.
func NewTextWriter(w io.Writer, noColor, quiet bool) *TextWriter {
	t := &TextWriter{
		w:     w,
		errw:  os.Stderr,
		quiet: quiet,
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
		dim:   color.New(color.Faint),
	}
	if noColor {
		for _, c := range []*color.Color{t.ok, t.warn, t.fail, t.dim} {
			c.DisableColor()
		}
	}
	return t
}

func (t *TextWriter) WriteHeader() error {
	if t.quiet {
		return nil
	}
	_, err := fmt.Fprintln(t.w, t.dim.Sprint("Result  Code  URL"))
	return err
}

func (t *TextWriter) WriteResult(result *verifier.Result) error {
	code := "  -"
	if result.Status != 0 {
		code = fmt.Sprintf("%3d", result.Status)
	}

	if result.Valid {
		_, err := fmt.Fprintf(t.w, "%s    %s  %s\n", t.ok.Sprint("OK"), t.ok.Sprint(code), result.URL)
		return err
	}

	c := t.fail
	if result.Kind == verifier.KindHTTP || result.Kind == verifier.KindTimeout {
		c = t.warn
	}
	_, err := fmt.Fprintf(t.w, "%s  %s  %s  %s\n", c.Sprint("FAIL"), c.Sprint(code), result.URL, t.dim.Sprint(result.Error))
	return err
}

func (t *TextWriter) WriteFooter(s Summary) error {
	if t.quiet {
		return nil
	}
	_, err := fmt.Fprintf(t.errw,
		"\nCompleted: %d URLs | Valid: %d (%d%%) | Invalid: %d | Filtered: %d | Duration: %s\n",
		s.Total, s.Valid, s.ValidPercent, s.Invalid, s.Filtered,
		s.Duration.Round(time.Millisecond),
	)
	if err != nil || !s.Detailed || len(s.ErrorBreakdown) == 0 {
		return err
	}

	categories := make([]string, 0, len(s.ErrorBreakdown))
	for c := range s.ErrorBreakdown {
		categories = append(categories, c)
	}
	// Most frequent first, ties by name.
	sort.Slice(categories, func(i, j int) bool {
		ci, cj := s.ErrorBreakdown[categories[i]], s.ErrorBreakdown[categories[j]]
		if ci != cj {
			return ci > cj
		}
		return categories[i] < categories[j]
	})
	for _, c := range categories {
		if _, err := fmt.Fprintf(t.errw, "  %5d  %s\n", s.ErrorBreakdown[c], c); err != nil {
			return err
		}
	}
	return nil
}

func (t *TextWriter) Close() error {
	return closeIfSet(t.closer)
}
