package filter

import (
	"strings"

	"github.com/maxvaer/linkguard/internal/verifier"
)

// ValidFilter hides every invalid result.
type ValidFilter struct{}

func (ValidFilter) Name() string { return "invalid" }

func (ValidFilter) ShouldFilter(result *verifier.Result) bool { return !result.Valid }

// CategoryFilter hides invalid results whose error falls into one of the
// given categories, as reported by verifier.ErrorCategory. Matching ignores
// case, so "timeout" hides "Timeout after 5000ms".
type CategoryFilter struct {
	categories map[string]struct{}
}

// NewCategoryFilter returns nil when categories is empty.
func NewCategoryFilter(categories []string) *CategoryFilter {
	f := &CategoryFilter{categories: make(map[string]struct{}, len(categories))}
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			f.categories[c] = struct{}{}
		}
	}
	if len(f.categories) == 0 {
		return nil
	}
	return f
}

func (f *CategoryFilter) Name() string { return "category" }

func (f *CategoryFilter) ShouldFilter(result *verifier.Result) bool {
	if result.Valid {
		return false
	}
	_, ok := f.categories[strings.ToLower(verifier.ErrorCategory(result.Error))]
	return ok
}
