package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/fwojciec/collapse"
	collapsehttp "github.com/fwojciec/collapse/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const urlsetTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">%s</urlset>`

func urlset(paths ...string) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString("<url><loc>{{BASE}}" + p + "</loc></url>")
	}
	return strings.Replace(urlsetTemplate, "%s", b.String(), 1)
}

// newSiteServer serves content by path. {{BASE}} in content is replaced
// with the server URL.
func newSiteServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.ReplaceAll(body, "{{BASE}}", srv.URL)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSitemap_Discover(t *testing.T) {
	t.Parallel()

	t.Run("reads sitemaps named in robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/robots.txt": "User-agent: *\nDisallow: /private/\nSitemap: {{BASE}}/one.xml\nsitemap: {{BASE}}/two.xml\n",
			"/one.xml":    urlset("/docs/intro"),
			"/two.xml":    urlset("/docs/guide"),
		})

		pages, err := collapsehttp.NewSitemap(srv.Client(), nil).Discover(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide"}, pages)
	})

	t.Run("falls back to sitemap.xml", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/sitemap.xml": urlset("/page1"),
		})

		pages, err := collapsehttp.NewSitemap(srv.Client(), nil).Discover(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/page1"}, pages)
	})

	t.Run("follows sitemap indexes and deduplicates", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/docs.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/api.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/docs.xml</loc></sitemap>
</sitemapindex>`,
			"/docs.xml": urlset("/docs/intro", "/docs/intro"),
			"/api.xml":  urlset("/api/reference"),
		})

		pages, err := collapsehttp.NewSitemap(srv.Client(), nil).Discover(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro", srv.URL + "/api/reference"}, pages)
	})

	t.Run("restricts to the site path", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/sitemap.xml": urlset("/docs", "/docs/intro", "/documentation", "/blog/post"),
		})

		pages, err := collapsehttp.NewSitemap(srv.Client(), nil).Discover(context.Background(), srv.URL+"/docs/", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs", srv.URL + "/docs/intro"}, pages)
	})

	t.Run("applies the filter", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/sitemap.xml": urlset("/docs/intro", "/docs/internal/debug", "/blog/post"),
		})
		filter := &collapse.LocationFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/docs/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/internal/`)},
		}

		pages, err := collapsehttp.NewSitemap(srv.Client(), nil).Discover(context.Background(), srv.URL, filter)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/docs/intro"}, pages)
	})

	t.Run("site without sitemaps yields nothing", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{})

		pages, err := collapsehttp.NewSitemap(srv.Client(), nil).Discover(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Empty(t, pages)
	})

	t.Run("malformed sitemap is invalid", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/sitemap.xml": "<<not xml",
		})

		_, err := collapsehttp.NewSitemap(srv.Client(), nil).Discover(context.Background(), srv.URL, nil)

		require.Error(t, err)
		assert.Equal(t, collapse.EINVALID, collapse.ErrorCode(err))
	})

	t.Run("rejects a site URL without host", func(t *testing.T) {
		t.Parallel()

		_, err := collapsehttp.NewSitemap(nil, nil).Discover(context.Background(), "docs/page", nil)

		require.Error(t, err)
		assert.Equal(t, collapse.EINVALID, collapse.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := newSiteServer(t, map[string]string{
			"/sitemap.xml": urlset("/page1"),
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := collapsehttp.NewSitemap(srv.Client(), nil).Discover(ctx, srv.URL, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}
