package mock

import (
	"context"

	"github.com/fwojciec/collapse"
)

var _ collapse.Source = (*Source)(nil)

// Source is a mock implementation of collapse.Source.
type Source struct {
	LoadFn func(ctx context.Context, location string) (*collapse.Input, error)
}

func (s *Source) Load(ctx context.Context, location string) (*collapse.Input, error) {
	return s.LoadFn(ctx, location)
}

var _ collapse.Store = (*Store)(nil)

// Store is a mock implementation of collapse.Store.
type Store struct {
	SaveFn   func(ctx context.Context, out *collapse.Output) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *Store) Save(ctx context.Context, out *collapse.Output) error {
	return s.SaveFn(ctx, out)
}

func (s *Store) Commit() error {
	return s.CommitFn()
}

func (s *Store) Abort() error {
	return s.AbortFn()
}

var _ collapse.URLFilter = (*URLFilter)(nil)

// URLFilter is a mock implementation of collapse.URLFilter. Without
// TestAndAddFn it behaves like an exact set.
type URLFilter struct {
	TestAndAddFn func(url string) bool
	seen         map[string]bool
}

func (f *URLFilter) TestAndAdd(url string) bool {
	if f.TestAndAddFn != nil {
		return f.TestAndAddFn(url)
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	seen := f.seen[url]
	f.seen[url] = true
	return seen
}
