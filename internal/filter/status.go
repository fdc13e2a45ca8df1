package filter

import "github.com/maxvaer/linkguard/internal/verifier"

// StatusFilter includes or excludes results based on HTTP status codes.
// Results that never got a response have status 0.
type StatusFilter struct {
	include map[int]struct{}
	exclude map[int]struct{}
}

// NewStatusFilter creates a status code filter. If include is non-empty, only
// those codes pass through. If exclude is non-empty, those codes are filtered.
// It returns nil when both lists are empty.
func NewStatusFilter(include, exclude []int) *StatusFilter {
	if len(include) == 0 && len(exclude) == 0 {
		return nil
	}
	f := &StatusFilter{
		include: make(map[int]struct{}, len(include)),
		exclude: make(map[int]struct{}, len(exclude)),
	}
	for _, code := range include {
		f.include[code] = struct{}{}
	}
	for _, code := range exclude {
		f.exclude[code] = struct{}{}
	}
	return f
}

func (f *StatusFilter) Name() string { return "status" }

func (f *StatusFilter) ShouldFilter(result *verifier.Result) bool {
	if len(f.include) > 0 {
		_, ok := f.include[result.Status]
		return !ok // filter if NOT in include list
	}
	_, ok := f.exclude[result.Status]
	return ok
}
