package runner

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/maxvaer/linkguard/internal/urllist"
)

var (
	stdin            io.Reader = os.Stdin
	stdinIsTerminal            = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	stderrIsTerminal           = func() bool { return term.IsTerminal(int(os.Stderr.Fd())) }
)

// readStdinTargets returns URLs piped on stdin, or nil when stdin is an
// interactive terminal.
func readStdinTargets() ([]string, error) {
	if stdinIsTerminal() {
		return nil, nil
	}
	return urllist.Read(stdin)
}
