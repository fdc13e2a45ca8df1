package output

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// Progress displays batch progress on a terminal. A nil *Progress is a
// no-op, which is what NewProgress returns in quiet mode.
type Progress struct {
	bar     *progressbar.ProgressBar
	invalid atomic.Int64
}

// NewProgress creates a progress bar for total URLs writing to w.
func NewProgress(w io.Writer, total int, quiet bool) *Progress {
	if quiet || total == 0 {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Verifying URLs..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("url"),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	return &Progress{bar: bar}
}

// Increment records a finished probe. Safe for concurrent use.
func (p *Progress) Increment(valid bool) {
	if p == nil {
		return
	}
	if !valid {
		n := p.invalid.Add(1)
		p.bar.Describe(fmt.Sprintf("Verifying URLs (%d invalid)", n))
	}
	_ = p.bar.Add(1)
}

// Stop ends the progress display.
func (p *Progress) Stop() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
