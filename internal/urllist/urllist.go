// Package urllist reads candidate URLs from files and streams.
package urllist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single URL line.
const maxLineSize = 1 << 20

// Load reads URLs from the file at path. See Read for the format.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading URL list %s: %w", path, err)
	}
	defer f.Close()

	urls, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading URL list %s: %w", path, err)
	}
	return urls, nil
}

// Read returns one URL per non-empty line of r, in input order. Lines
// starting with '#' are comments. Duplicates are kept so that results line
// up one-to-one with the input.
func Read(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var urls []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

// Merge appends the URLs of each list in order.
func Merge(lists ...[]string) []string {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	out := make([]string, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
