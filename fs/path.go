// Package fs provides file-based page sources and output storage.
package fs

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/collapse"
)

// OutputPath converts an input location to a relative output path with the
// given extension (including the dot).
//
//	https://example.com/docs/api/users → docs/api/users.html
//	https://example.com/docs/          → docs/index.html
//	notes/draft.md                     → draft.html
func OutputPath(location, ext string) (string, error) {
	if IsURL(location) {
		return urlToPath(location, ext)
	}
	base := filepath.Base(location)
	if base == "." || base == string(filepath.Separator) {
		return "", collapse.Errorf(collapse.EINVALID, "no file name in %q", location)
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext, nil
}

// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func urlToPath(rawURL, ext string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", collapse.Errorf(collapse.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	p := u.Path

	// Handle root or trailing slash → index
	if p == "" || p == "/" {
		return "index" + ext, nil
	}

	p = strings.TrimPrefix(path.Clean(p), "/")
	if strings.HasSuffix(u.Path, "/") {
		return p + "/index" + ext, nil
	}

	// Replace a known page extension
	switch path.Ext(p) {
	case ".html", ".htm", ".md", ".markdown":
		p = strings.TrimSuffix(p, path.Ext(p))
	}
	return p + ext, nil
}

// FormatMarkdown prefixes Markdown content with YAML frontmatter naming its
// source.
func FormatMarkdown(source, content string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(source)
	b.WriteString("\n---\n\n")
	b.WriteString(content)
	return b.String()
}
