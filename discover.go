package collapse

import (
	"context"
	"regexp"
)

// Discoverer finds the page locations of a site.
type Discoverer interface {
	// Discover returns the pages listed for siteURL. When siteURL has a
	// path, only pages below it are returned. A nil filter passes all.
	Discover(ctx context.Context, siteURL string, filter *LocationFilter) ([]string, error)
}

// LocationFilter selects locations by pattern.
type LocationFilter struct {
	// Include patterns. If set, a location must match at least one.
	Include []*regexp.Regexp

	// Exclude patterns, applied after Include.
	Exclude []*regexp.Regexp
}

// Match reports whether location passes the filter. A nil filter passes
// everything.
func (f *LocationFilter) Match(location string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, location) {
		return false
	}
	return !matchAny(f.Exclude, location)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
