package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/maxvaer/linkguard/internal/config"
	"github.com/maxvaer/linkguard/internal/runner"
	"github.com/maxvaer/linkguard/pkg/version"
)

// exitInvalid is the process exit code for --fail-on-invalid.
const exitInvalid = 2

var opts = config.Default()

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "urls-file"}},
	{"VERIFY", []string{"concurrency", "timeout", "rate", "check-only", "fail-on-invalid"}},
	{"HTTP", []string{"user-agent"}},
	{"FILTERS", []string{"only-valid", "include-status", "exclude-status", "exclude-category"}},
	{"OUTPUT", []string{"output", "format", "quiet", "no-color", "sort", "stats", "on-result"}},
	{"CONFIGURATION", []string{"config"}},
	{"LOGGING", []string{"verbose"}},
}

var rootCmd = &cobra.Command{
	Use:     "linkguard [-u <url>|-l <file>] [flags]",
	Short:   "SSRF-safe URL validation and reachability checking",
	Version: version.Version,
	Long: `linkguard checks candidate URLs before anything fetches them. Each URL is
validated against SSRF patterns (non-HTTP schemes, embedded schemes,
double encoding, percent-encoded hosts, internal and private addresses)
and, if it passes, probed with a single bounded GET request.`,
	Example: `  linkguard -u https://example.com
  linkguard -l urls.txt -c 10 --timeout 3s -o out.json --format json
  cat urls.txt | linkguard --check-only
  linkguard -l urls.txt --only-valid --format urls
  linkguard -l urls.txt --stats --exclude-category timeout
  linkguard -l urls.txt --fail-on-invalid -q
  linkguard -u https://example.com --on-result "notify-send {url}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfigFile(cmd); err != nil {
			return err
		}
		if opts.NoColor {
			color.NoColor = true
		}
		return opts.Validate()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, opts, newLogger(opts.Verbose))
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringSliceVarP(&opts.URLs, "url", "u", nil, "Target URL (repeatable, comma-separated)")
	f.StringVarP(&opts.URLsFile, "urls-file", "l", "", "File with one URL per line (default: stdin when piped)")

	// Verify
	f.IntVarP(&opts.Concurrency, "concurrency", "c", opts.Concurrency, "Maximum probes in flight")
	f.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Timeout for each probe")
	f.Float64Var(&opts.RateLimit, "rate", 0, "Maximum requests per second, slowed further on 429/503 (0 = unlimited)")
	f.BoolVar(&opts.CheckOnly, "check-only", false, "Only validate URLs, never send requests")
	f.BoolVar(&opts.FailOnInvalid, "fail-on-invalid", false, "Exit with status 2 if any URL is invalid")

	// HTTP
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent string (default linkguard/<version>)")

	// Filtering
	f.BoolVar(&opts.OnlyValid, "only-valid", false, "Only show valid URLs")
	f.VarP(&intSliceValue{target: &opts.IncludeStatus}, "include-status", "i", "Only show these status codes (comma-separated)")
	f.VarP(&intSliceValue{target: &opts.ExcludeStatus}, "exclude-status", "x", "Hide these status codes (comma-separated)")
	f.StringSliceVar(&opts.ExcludeCategories, "exclude-category", nil, "Hide errors of these categories (e.g. timeout,\"HTTP 404\")")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file path")
	f.StringVar(&opts.OutputFormat, "format", opts.OutputFormat, "Output format: text, json, csv, urls")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Minimal output")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.StringVar(&opts.SortBy, "sort", "", "Sort results: status, url, error")
	f.BoolVar(&opts.Stats, "stats", false, "Show error breakdown (text footer, JSON stats object)")
	f.StringVar(&opts.OnResultCmd, "on-result", "", "Shell command to run for each shown result (receives JSON on stdin)")

	// Configuration
	f.StringVar(&opts.ConfigFile, "config", "", "YAML config file (default ~/.config/linkguard/config.yaml)")

	// Logging
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprintf(w, "\n  linkguard %s\n\n", cmd.Version)
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})

	rootCmd.PreRunE = chainPreRun(rootCmd.PreRunE, func(cmd *cobra.Command, args []string) error {
		for i, u := range opts.URLs {
			opts.URLs[i] = strings.TrimSpace(u)
		}
		return nil
	})
}

// loadConfigFile merges the YAML config into opts. Flags set on the
// command line win. A missing default file is not an error.
func loadConfigFile(cmd *cobra.Command) error {
	path := opts.ConfigFile
	explicitPath := path != ""
	if !explicitPath {
		path = config.DefaultFile()
		if path == "" {
			return nil
		}
	}

	file, err := config.LoadFile(path)
	if err != nil {
		if !explicitPath && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	opts.Merge(file, cmd.Flags().Changed)
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, runner.ErrInvalidFound) {
			if !opts.Quiet {
				fmt.Fprintf(os.Stderr, "[!] %v\n", err)
			}
			os.Exit(exitInvalid)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chainPreRun combines two PreRunE functions.
func chainPreRun(first, second func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if first != nil {
			if err := first(cmd, args); err != nil {
				return err
			}
		}
		return second(cmd, args)
	}
}

// intSliceValue implements pflag.Value for comma-separated int slices.
type intSliceValue struct {
	target *[]int
}

func (v *intSliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *intSliceValue) Set(s string) error {
	parts := strings.Split(s, ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid status code %q: %w", p, err)
		}
		*v.target = append(*v.target, n)
	}
	return nil
}

func (v *intSliceValue) Type() string { return "ints" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}
