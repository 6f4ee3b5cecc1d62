package main

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/bus"
	"github.com/fwojciec/collapse/fs"
	"github.com/fwojciec/collapse/goquery"
	"github.com/fwojciec/collapse/htmltomarkdown"
	colslog "github.com/fwojciec/collapse/slog"
	"golang.org/x/sync/errgroup"
)

// prepared is one rewritten page.
type prepared struct {
	location    string
	output      *collapse.Output
	fingerprint uint64
}

// Run executes the prepare command.
func (c *PrepareCmd) Run(deps *Dependencies) error {
	opts := deps.Config.Options()
	if c.NoCollapse {
		opts.CollapseAllowed = false
	}

	limit := c.Concurrency
	if limit <= 0 {
		limit = deps.Config.Concurrency
	}

	inputs, err := c.inputs(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", collapse.ErrorMessage(err))
		return err
	}

	var store collapse.Store
	if c.Output != "" {
		dir := filepath.Clean(c.Output)
		store = fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir))
	}

	results := make([]*prepared, len(inputs))

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(limit)
	for i, location := range inputs {
		g.Go(func() error {
			p, err := c.prepare(ctx, deps, opts, location)
			if err != nil {
				return err
			}
			if store != nil {
				if err := store.Save(ctx, p.output); err != nil {
					return err
				}
			}
			results[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if store != nil {
			_ = store.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", collapse.ErrorMessage(err))
		return err
	}

	if store != nil {
		if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
			return err
		}
	}

	for _, p := range results {
		switch {
		case c.Fingerprint:
			fmt.Fprintf(deps.Stdout, "%016x  %s\n", p.fingerprint, p.location)
		case store == nil:
			fmt.Fprintln(deps.Stdout, string(p.output.Content))
		}
	}
	if store != nil {
		total := 0
		for _, p := range results {
			total += len(p.output.Content)
		}
		fmt.Fprintf(deps.Stdout, "Saved %d pages (%s) to %s\n", len(results), formatBytes(total), c.Output)
	}
	return nil
}

// inputs returns the explicit inputs followed by the pages discovered from
// the sitemaps, without duplicates.
func (c *PrepareCmd) inputs(deps *Dependencies) ([]string, error) {
	var filter *collapse.LocationFilter
	if len(c.Filter) > 0 {
		filter = &collapse.LocationFilter{}
		for _, pattern := range c.Filter {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, collapse.Errorf(collapse.EINVALID, "invalid filter pattern %q: %v", pattern, err)
			}
			filter.Include = append(filter.Include, re)
		}
	}

	seen := make(map[string]bool)
	var inputs []string
	add := func(locations []string) {
		for _, loc := range locations {
			if !seen[loc] {
				seen[loc] = true
				inputs = append(inputs, loc)
			}
		}
	}

	for _, input := range c.Inputs {
		matches, err := expandInput(input)
		if err != nil {
			return nil, err
		}
		add(matches)
	}
	for _, site := range c.Sitemap {
		pages, err := deps.Discoverer.Discover(deps.Ctx, site, filter)
		if err != nil {
			return nil, err
		}
		deps.Logger.Info("discovered", "site", site, "pages", len(pages))
		add(pages)
	}

	if len(inputs) == 0 {
		return nil, collapse.Errorf(collapse.EINVALID, "no inputs: name files or URLs, or a --sitemap")
	}
	return inputs, nil
}

// expandInput expands a file glob such as docs/**/*.md. URLs and plain
// paths are returned as is.
func expandInput(input string) ([]string, error) {
	if fs.IsURL(input) || !strings.ContainsAny(input, "*?[{") {
		return []string{input}, nil
	}
	matches, err := doublestar.FilepathGlob(input, doublestar.WithFilesOnly())
	if err != nil {
		return nil, collapse.Errorf(collapse.EINVALID, "invalid input pattern %q: %v", input, err)
	}
	if len(matches) == 0 {
		return nil, collapse.Errorf(collapse.ENOTFOUND, "no files match %s", input)
	}
	sort.Strings(matches)
	return matches, nil
}

// prepare loads one input and runs the rewrites on it.
func (c *PrepareCmd) prepare(ctx context.Context, deps *Dependencies, opts collapse.Options, location string) (*prepared, error) {
	logger := deps.Logger.With("input", location)

	pageOpts := []goquery.PageOption{
		goquery.WithOptions(opts),
		goquery.WithNotifier(colslog.NewLoggingBus(bus.New(), logger)),
	}
	if c.Hash != "" {
		pageOpts = append(pageOpts, goquery.WithHash(normalizeHash(c.Hash)))
	}

	page, err := loadPage(ctx, deps, location, pageOpts...)
	if err != nil {
		return nil, err
	}

	frag := page.Document().Selection
	if err := goquery.NewRewriter().Rewrite(frag); err != nil {
		return nil, err
	}
	page.Rewrite(frag)

	content, err := page.HTML()
	if err != nil {
		return nil, err
	}
	fingerprint, err := page.Fingerprint()
	if err != nil {
		return nil, err
	}

	ext := ".html"
	if c.Format == string(collapse.FormatMarkdown) {
		ext = ".md"
		md, err := htmltomarkdown.NewConverter(domainOf(location)).Convert(content)
		if err != nil {
			return nil, err
		}
		content = fs.FormatMarkdown(location, md)
	}

	path, err := fs.OutputPath(location, ext)
	if err != nil {
		return nil, err
	}

	logger.Debug("prepared", "blocks", len(page.Blocks()), "path", path)

	return &prepared{
		location:    location,
		output:      &collapse.Output{Path: path, Content: []byte(content)},
		fingerprint: fingerprint,
	}, nil
}
