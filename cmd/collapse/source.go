package main

import (
	"context"

	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/fs"
)

// Compile-time interface verification.
var _ collapse.Source = (*RoutingSource)(nil)

// RoutingSource implements collapse.Source by loading http(s) locations
// from the web source and everything else from the file source.
type RoutingSource struct {
	files collapse.Source
	web   collapse.Source
}

// NewRoutingSource creates a new RoutingSource.
func NewRoutingSource(files, web collapse.Source) *RoutingSource {
	return &RoutingSource{
		files: files,
		web:   web,
	}
}

// Load implements collapse.Source.
func (s *RoutingSource) Load(ctx context.Context, location string) (*collapse.Input, error) {
	if fs.IsURL(location) {
		return s.web.Load(ctx, location)
	}
	return s.files.Load(ctx, location)
}
