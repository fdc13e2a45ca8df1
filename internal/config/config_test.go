package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxvaer/linkguard/internal/output"
)

func TestDefault(t *testing.T) {
	o := Default()
	assert.Equal(t, 5, o.Concurrency)
	assert.Equal(t, 5*time.Second, o.Timeout)
	assert.Equal(t, "text", o.OutputFormat)
	assert.NoError(t, o.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
		errMsg string
	}{
		{"zero concurrency", func(o *Options) { o.Concurrency = 0 }, "concurrency must be at least 1"},
		{"zero timeout", func(o *Options) { o.Timeout = 0 }, "timeout must be positive"},
		{"negative rate", func(o *Options) { o.RateLimit = -1 }, "rate must not be negative"},
		{"bad format", func(o *Options) { o.OutputFormat = "xml" }, `unknown output format "xml"`},
		{"bad sort", func(o *Options) { o.SortBy = "size" }, `unknown sort key "size"`},
		{"bad status", func(o *Options) { o.ExcludeStatus = []int{42} }, "invalid HTTP status code 42"},
		{"both status lists", func(o *Options) {
			o.IncludeStatus = []int{200}
			o.ExcludeStatus = []int{404}
		}, "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Default()
			tt.mutate(o)
			assert.ErrorContains(t, o.Validate(), tt.errMsg)
		})
	}
}

func TestValidate_AcceptsEveryWriterOption(t *testing.T) {
	for _, format := range output.Formats {
		for _, sortBy := range append([]string{""}, output.SortKeys...) {
			o := Default()
			o.OutputFormat, o.SortBy = format, sortBy
			assert.NoError(t, o.Validate(), "%s/%s", format, sortBy)
		}
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	o := Default()
	o.Concurrency = 0
	o.OutputFormat = "xml"
	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency")
	assert.Contains(t, err.Error(), "output format")
}

const sampleYAML = `
verify:
  concurrency: 20
  timeout: 3s
  rate: 50
  user_agent: audit-bot/1.0
filters:
  only_valid: true
  exclude_categories: [Timeout]
output:
  format: json
  sort: url
  stats: true
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	f, err := LoadFile(writeFile(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 20, f.Verify.Concurrency)
	assert.Equal(t, 3*time.Second, f.Verify.Timeout)
	assert.Equal(t, 50.0, f.Verify.Rate)
	assert.Equal(t, "audit-bot/1.0", f.Verify.UserAgent)
	assert.True(t, f.Filters.OnlyValid)
	assert.Equal(t, []string{"Timeout"}, f.Filters.ExcludeCategories)
	assert.Equal(t, "json", f.Output.Format)
	assert.Equal(t, "url", f.Output.Sort)
	assert.True(t, f.Output.Stats)
}

func TestLoadFile_Empty(t *testing.T) {
	f, err := LoadFile(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, File{}, *f)
}

func TestLoadFile_UnknownKey(t *testing.T) {
	_, err := LoadFile(writeFile(t, "verify:\n  threads: 4\n"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMerge_FlagsWin(t *testing.T) {
	f, err := LoadFile(writeFile(t, sampleYAML))
	require.NoError(t, err)

	o := Default()
	o.Concurrency = 2 // set on the command line
	explicit := map[string]bool{"concurrency": true}
	o.Merge(f, func(flag string) bool { return explicit[flag] })

	assert.Equal(t, 2, o.Concurrency)
	assert.Equal(t, 3*time.Second, o.Timeout)
	assert.Equal(t, 50.0, o.RateLimit)
	assert.Equal(t, "audit-bot/1.0", o.UserAgent)
	assert.True(t, o.OnlyValid)
	assert.Equal(t, "json", o.OutputFormat)
	assert.Equal(t, "url", o.SortBy)
	assert.True(t, o.Stats)
	assert.NoError(t, o.Validate())
}

func TestMerge_ZeroValuesKeepDefaults(t *testing.T) {
	o := Default()
	o.Merge(&File{}, nil)
	assert.Equal(t, Default(), o)

	o.Merge(nil, nil)
	assert.Equal(t, Default(), o)
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".config", "linkguard", "config.yaml"), DefaultFile())
}
