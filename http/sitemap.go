package http

import (
	"bufio"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/collapse"
)

// Ensure Sitemap implements collapse.Discoverer at compile time.
var _ collapse.Discoverer = (*Sitemap)(nil)

// Sitemap discovers the pages of a site from the sitemaps named in its
// robots.txt, falling back to /sitemap.xml. Sitemap indexes are followed.
type Sitemap struct {
	client  *http.Client
	limiter *DomainLimiter
}

// NewSitemap returns a Sitemap. A nil client means http.DefaultClient; a
// nil limiter disables rate limiting.
func NewSitemap(client *http.Client, limiter *DomainLimiter) *Sitemap {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sitemap{client: client, limiter: limiter}
}

// Discover returns the pages listed in the site's sitemaps, deduplicated, in
// sitemap order. When siteURL has a path, only pages at or below that path
// are returned. A site without sitemaps yields an empty list.
func (s *Sitemap) Discover(ctx context.Context, siteURL string, filter *collapse.LocationFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(siteURL)
	if err != nil || base.Host == "" {
		return nil, collapse.Errorf(collapse.EINVALID, "invalid site URL %q", siteURL)
	}
	prefix := strings.TrimSuffix(base.Path, "/")

	queue, err := s.sitemapsOf(ctx, &url.URL{Scheme: base.Scheme, Host: base.Host})
	if err != nil {
		return nil, err
	}

	pages := []string{}
	visited := make(map[string]bool)
	seen := make(map[string]bool)
	for len(queue) > 0 {
		loc := queue[0]
		queue = queue[1:]
		if visited[loc] {
			continue
		}
		visited[loc] = true

		root, err := s.fetchSitemap(ctx, loc)
		if err != nil {
			return nil, err
		}
		if root.Tag == "sitemapindex" {
			queue = append(queue, locsOf(root, "sitemap")...)
			continue
		}
		for _, page := range locsOf(root, "url") {
			if seen[page] || !underPath(page, prefix) || !filter.Match(page) {
				continue
			}
			seen[page] = true
			pages = append(pages, page)
		}
	}
	return pages, nil
}

// sitemapsOf returns the sitemap URLs of the site at root.
func (s *Sitemap) sitemapsOf(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if sitemaps, err := s.robotsSitemaps(ctx, robots); err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	resp, err := s.do(ctx, http.MethodHead, fallback)
	if err != nil {
		// A missing sitemap is not an error; cancellation is.
		return nil, ctx.Err()
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return []string{fallback}, nil
}

// robotsSitemaps reads the Sitemap: directives of a robots.txt.
func (s *Sitemap) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	resp, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > len("sitemap:") && strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			if loc := strings.TrimSpace(line[len("sitemap:"):]); loc != "" {
				sitemaps = append(sitemaps, loc)
			}
		}
	}
	return sitemaps, scanner.Err()
}

// fetchSitemap fetches and parses the sitemap at loc and returns its root
// element.
func (s *Sitemap) fetchSitemap(ctx context.Context, loc string) (*etree.Element, error) {
	resp, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, collapse.Errorf(collapse.EINVALID, "invalid sitemap %s: %v", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, collapse.Errorf(collapse.EINVALID, "empty sitemap %s", loc)
	}
	return root, nil
}

// get issues a GET and fails on any status but 200.
func (s *Sitemap) get(ctx context.Context, target string) (*http.Response, error) {
	resp, err := s.do(ctx, http.MethodGet, target)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, collapse.Errorf(collapse.ENOTFOUND, "not found: %s", target)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, collapse.Errorf(collapse.EINTERNAL, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp, nil
}

func (s *Sitemap) do(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, collapse.Errorf(collapse.EINVALID, "invalid URL %q: %v", target, err)
	}
	if err := s.limiter.Wait(ctx, req.URL.Host); err != nil {
		return nil, err
	}
	return s.client.Do(req)
}

// locsOf returns the trimmed <loc> text of every child element named tag.
func locsOf(root *etree.Element, tag string) []string {
	var locs []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if text := strings.TrimSpace(loc.Text()); text != "" {
			locs = append(locs, text)
		}
	}
	return locs
}

// underPath reports whether the path of page is prefix or below it. An
// empty prefix matches everything; /docs matches /docs/intro but not
// /documentation.
func underPath(page, prefix string) bool {
	if prefix == "" {
		return true
	}
	u, err := url.Parse(page)
	if err != nil {
		return false
	}
	p := strings.TrimSuffix(u.Path, "/")
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
