// Package hook runs a user-supplied shell command for each verification
// result.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/maxvaer/linkguard/internal/verifier"
)

// DefaultTimeout bounds a single hook invocation.
const DefaultTimeout = 30 * time.Second

// resultJSON is the JSON payload sent to the hook command via stdin.
type resultJSON struct {
	URL        string `json:"url"`
	Valid      bool   `json:"valid"`
	Status     int    `json:"status,omitempty"`
	Error      string `json:"error,omitempty"`
	Kind       string `json:"kind,omitempty"`
	DurationMS int64  `json:"durationMs"`
}

// Runner executes a shell command for each non-filtered result.
type Runner struct {
	cmd     string
	timeout time.Duration
	stdout  io.Writer
	logger  *slog.Logger
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
// Hook output is copied to stdout.
func NewRunner(cmd string, stdout io.Writer, logger *slog.Logger) *Runner {
	if stdout == nil {
		stdout = os.Stderr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cmd: cmd, timeout: DefaultTimeout, stdout: stdout, logger: logger}
}

// Run executes the hook command with the result as JSON on stdin. The
// placeholders {url}, {status}, {valid}, {kind} and {error} are replaced
// with shell-quoted values. Errors are logged but do not halt the run.
func (r *Runner) Run(ctx context.Context, result *verifier.Result) error {
	payload := resultJSON{
		URL:        result.URL,
		Valid:      result.Valid,
		Status:     result.Status,
		Error:      result.Error,
		Kind:       string(result.Kind),
		DurationMS: result.Duration.Milliseconds(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal hook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, r.expand(result))...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = r.stdout
	cmd.Stderr = os.Stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		r.logger.Warn("Hook failed", slog.String("url", result.URL), slog.String("error", err.Error()))
		return fmt.Errorf("hook for %s: %w", result.URL, err)
	}
	return nil
}

func (r *Runner) expand(result *verifier.Result) string {
	status := ""
	if result.Status != 0 {
		status = strconv.Itoa(result.Status)
	}
	return strings.NewReplacer(
		"{url}", shellQuote(result.URL),
		"{status}", shellQuote(status),
		"{valid}", strconv.FormatBool(result.Valid),
		"{kind}", shellQuote(string(result.Kind)),
		"{error}", shellQuote(result.Error),
	).Replace(r.cmd)
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}

// shellQuote quotes s as a single shell word. URLs are untrusted input.
func shellQuote(s string) string {
	if runtime.GOOS == "windows" {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
