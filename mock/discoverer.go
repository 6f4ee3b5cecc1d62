package mock

import (
	"context"

	"github.com/fwojciec/collapse"
)

var _ collapse.Discoverer = (*Discoverer)(nil)

// Discoverer is a mock implementation of collapse.Discoverer.
type Discoverer struct {
	DiscoverFn func(ctx context.Context, siteURL string, filter *collapse.LocationFilter) ([]string, error)
}

func (d *Discoverer) Discover(ctx context.Context, siteURL string, filter *collapse.LocationFilter) ([]string, error) {
	return d.DiscoverFn(ctx, siteURL, filter)
}
