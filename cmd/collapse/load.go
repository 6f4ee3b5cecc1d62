package main

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/collapse"
	"github.com/fwojciec/collapse/fs"
	"github.com/fwojciec/collapse/goquery"
)

// loadPage loads location and parses it into a page. Markdown is rendered
// to HTML first. URL locations become the page location; options in opts
// are applied after it.
func loadPage(ctx context.Context, deps *Dependencies, location string, opts ...goquery.PageOption) (*goquery.Page, error) {
	in, err := deps.Source.Load(ctx, location)
	if err != nil {
		return nil, err
	}

	src := string(in.Content)
	if in.Format == collapse.FormatMarkdown {
		if src, err = deps.Renderer.Render(in.Content); err != nil {
			return nil, err
		}
	}

	if fs.IsURL(location) {
		if u, err := url.Parse(location); err == nil {
			opts = append([]goquery.PageOption{goquery.WithLocation(u)}, opts...)
		}
	}
	return goquery.ParsePage(strings.NewReader(src), opts...)
}

// normalizeHash adds the leading '#' to a non-empty hash.
func normalizeHash(hash string) string {
	if hash == "" || strings.HasPrefix(hash, "#") {
		return hash
	}
	return "#" + hash
}

// domainOf returns the scheme and host of a URL location, or "" for files.
func domainOf(location string) string {
	if !fs.IsURL(location) {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
