package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/collapse"
)

// Ensure Source implements collapse.Source at compile time.
var _ collapse.Source = (*Source)(nil)

// Source loads pages from the local file system.
type Source struct{}

// NewSource returns a new Source.
func NewSource() *Source {
	return &Source{}
}

// Load reads the file at path. Files ending in .md or .markdown are
// Markdown; everything else is HTML.
func (s *Source) Load(ctx context.Context, path string) (*collapse.Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, collapse.Errorf(collapse.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return nil, err
	}
	return &collapse.Input{
		Location: path,
		Format:   FormatOf(path),
		Content:  content,
	}, nil
}

// FormatOf returns the format implied by a file name.
func FormatOf(path string) collapse.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return collapse.FormatMarkdown
	}
	return collapse.FormatHTML
}
