// Package http provides an HTTP-based implementation of collapse.Source for
// pages served by static sites.
package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/fwojciec/collapse"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps the size of a fetched page.
const DefaultMaxBodySize = 32 << 20

// Ensure Source implements collapse.Source at compile time.
var _ collapse.Source = (*Source)(nil)

// Source retrieves pages from http and https URLs.
type Source struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
	limiter *DomainLimiter
}

// Option configures a Source.
type Option func(*Source)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// WithMaxBodySize sets the largest body the source reads.
func WithMaxBodySize(n int64) Option {
	return func(s *Source) {
		s.maxBody = n
	}
}

// WithRateLimiter throttles requests per host.
func WithRateLimiter(l *DomainLimiter) Option {
	return func(s *Source) {
		s.limiter = l
	}
}

// NewSource creates a new HTTP-based Source.
func NewSource(opts ...Option) *Source {
	s := &Source{
		timeout: DefaultFetchTimeout,
		maxBody: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}

	return s
}

// Load fetches the page at url. The format follows the response content
// type, falling back to the URL's extension.
func (s *Source) Load(ctx context.Context, url string) (*collapse.Input, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, collapse.Errorf(collapse.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("Accept", "text/html, text/markdown;q=0.9, */*;q=0.1")

	if err := s.limiter.Wait(ctx, req.URL.Host); err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, collapse.Errorf(collapse.ENOTFOUND, "page not found: %s", url)
	case resp.StatusCode != http.StatusOK:
		return nil, collapse.Errorf(collapse.EINTERNAL, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > s.maxBody {
		return nil, collapse.Errorf(collapse.EINVALID, "page %s exceeds %d bytes", url, s.maxBody)
	}

	return &collapse.Input{
		Location: url,
		Format:   formatOf(resp.Header.Get("Content-Type"), req.URL.Path),
		Content:  body,
	}, nil
}

func formatOf(contentType, urlPath string) collapse.Format {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "text/markdown", "text/x-markdown":
			return collapse.FormatMarkdown
		case "text/html", "application/xhtml+xml":
			return collapse.FormatHTML
		}
	}
	switch strings.ToLower(path.Ext(urlPath)) {
	case ".md", ".markdown":
		return collapse.FormatMarkdown
	}
	return collapse.FormatHTML
}
