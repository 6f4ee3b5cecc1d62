package collapse_test

import (
	"regexp"
	"testing"

	"github.com/fwojciec/collapse"
	"github.com/stretchr/testify/assert"
)

func TestLocationFilter_Match(t *testing.T) {
	t.Parallel()

	docs := regexp.MustCompile(`/docs/`)
	drafts := regexp.MustCompile(`/drafts?/`)

	tests := []struct {
		name     string
		filter   *collapse.LocationFilter
		location string
		want     bool
	}{
		{"nil filter passes", nil, "https://example.com/any", true},
		{"empty filter passes", &collapse.LocationFilter{}, "https://example.com/any", true},
		{"include matches", &collapse.LocationFilter{Include: []*regexp.Regexp{docs}}, "https://example.com/docs/intro", true},
		{"include misses", &collapse.LocationFilter{Include: []*regexp.Regexp{docs}}, "https://example.com/blog/post", false},
		{"exclude wins", &collapse.LocationFilter{Include: []*regexp.Regexp{docs}, Exclude: []*regexp.Regexp{drafts}}, "https://example.com/docs/draft/x", false},
		{"exclude only", &collapse.LocationFilter{Exclude: []*regexp.Regexp{drafts}}, "https://example.com/blog/post", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.filter.Match(tt.location))
		})
	}
}
