// Package runner wires target loading, verification, filtering and output
// into a single linkguard run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/maxvaer/linkguard/internal/config"
	"github.com/maxvaer/linkguard/internal/filter"
	"github.com/maxvaer/linkguard/internal/hook"
	"github.com/maxvaer/linkguard/internal/output"
	"github.com/maxvaer/linkguard/internal/urllist"
	"github.com/maxvaer/linkguard/internal/verifier"
	"github.com/maxvaer/linkguard/pkg/version"
)

// ErrInvalidFound is returned by Run when FailOnInvalid is set and at least
// one URL did not verify.
var ErrInvalidFound = errors.New("invalid URLs found")

// newVerifier is swapped in tests to reach httptest servers on loopback.
var newVerifier = verifier.New

// Run executes the full verification pipeline.
func Run(ctx context.Context, opts *config.Options, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	urls, err := resolveTargets(opts)
	if err != nil {
		return err
	}
	logger.Debug("Targets resolved", slog.Int("count", len(urls)))

	// 1. Build filter chain.
	chain := buildChain(opts)

	// 2. Create output writer.
	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	if err := out.WriteHeader(); err != nil {
		return err
	}

	// 3. Print banner.
	if !opts.Quiet {
		printBanner(opts, len(urls))
	}

	v := newVerifier(verifier.Config{
		UserAgent: opts.UserAgent,
		RateLimit: opts.RateLimit,
		Logger:    logger,
	})

	var hookRunner *hook.Runner
	if opts.OnResultCmd != "" {
		hookRunner = hook.NewRunner(opts.OnResultCmd, os.Stderr, logger)
	}

	// 4. Verify.
	startTime := time.Now()
	var results []verifier.Result
	if opts.CheckOnly {
		results = make([]verifier.Result, len(urls))
		for i, u := range urls {
			results[i] = v.Check(u)
		}
	} else {
		progress := output.NewProgress(os.Stderr, len(urls), opts.Quiet || !stderrIsTerminal())
		results = v.VerifyAll(ctx, urls, verifier.BatchOptions{
			Concurrency: opts.Concurrency,
			Timeout:     opts.Timeout,
			OnResult: func(_ int, r verifier.Result) {
				progress.Increment(r.Valid)
			},
		})
		progress.Stop()
	}

	// 5. Write results in input order.
	summary := output.Summary{
		Stats:    verifier.Summarize(results),
		Duration: time.Since(startTime),
		Detailed: opts.Stats,
	}
	for i := range results {
		result := &results[i]
		if filtered, reason := chain.Apply(result); filtered {
			summary.Filtered++
			logger.Debug("Result filtered", slog.String("url", result.URL), slog.String("filter", reason))
			continue
		}
		if err := out.WriteResult(result); err != nil {
			return err
		}
		if hookRunner != nil {
			// Hook failures are logged by the runner and never halt the run.
			_ = hookRunner.Run(ctx, result)
		}
	}

	// 6. Write footer.
	if err := out.WriteFooter(summary); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.FailOnInvalid && summary.Invalid > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInvalidFound, summary.Invalid, summary.Total)
	}
	return nil
}

// resolveTargets builds the URL list from -u, -l and, when neither is
// given, stdin.
func resolveTargets(opts *config.Options) ([]string, error) {
	urls := append([]string(nil), opts.URLs...)

	if opts.URLsFile != "" {
		fromFile, err := urllist.Load(opts.URLsFile)
		if err != nil {
			return nil, err
		}
		urls = urllist.Merge(urls, fromFile)
	}

	if len(opts.URLs) == 0 && opts.URLsFile == "" {
		fromStdin, err := readStdinTargets()
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		urls = fromStdin
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("no targets specified (-u, -l, or stdin)")
	}
	return urls, nil
}

func buildChain(opts *config.Options) *filter.Chain {
	chain := filter.NewChain()
	if opts.OnlyValid {
		chain.Add(filter.ValidFilter{})
	}
	if f := filter.NewStatusFilter(opts.IncludeStatus, opts.ExcludeStatus); f != nil {
		chain.Add(f)
	}
	if f := filter.NewCategoryFilter(opts.ExcludeCategories); f != nil {
		chain.Add(f)
	}
	return chain
}

func createWriter(opts *config.Options) (output.Writer, error) {
	w, err := output.Open(opts.OutputFormat, opts.OutputFile, opts.NoColor, opts.Quiet)
	if err != nil {
		return nil, err
	}
	if opts.SortBy != "" {
		w = output.NewSortedWriter(w, opts.SortBy)
	}
	return w, nil
}

func printBanner(opts *config.Options, urlCount int) {
	title := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	val := color.New(color.FgHiWhite)
	if opts.NoColor {
		title.DisableColor()
		dim.DisableColor()
		val.DisableColor()
	}

	mode := "verify"
	if opts.CheckOnly {
		mode = "check only (no network)"
	}
	rate := "unlimited"
	if opts.RateLimit > 0 {
		rate = fmt.Sprintf("%g req/s", opts.RateLimit)
	}

	fmt.Fprintf(os.Stderr, "\n  %s %s\n", title.Sprint("linkguard"), dim.Sprint("v"+version.Version))
	fmt.Fprintf(os.Stderr, "%s\n", dim.Sprint("  ──────────────────────────────────────"))
	fmt.Fprintf(os.Stderr, "  %s       %s\n", dim.Sprint("URLs:"), val.Sprint(urlCount))
	fmt.Fprintf(os.Stderr, "  %s       %s\n", dim.Sprint("Mode:"), val.Sprint(mode))
	if !opts.CheckOnly {
		fmt.Fprintf(os.Stderr, "  %s %s\n", dim.Sprint("Concurrency:"), val.Sprint(opts.Concurrency))
		fmt.Fprintf(os.Stderr, "  %s    %s\n", dim.Sprint("Timeout:"), val.Sprint(opts.Timeout))
		fmt.Fprintf(os.Stderr, "  %s       %s\n", dim.Sprint("Rate:"), val.Sprint(rate))
	}
	fmt.Fprintf(os.Stderr, "%s\n\n", dim.Sprint("  ──────────────────────────────────────"))
}
