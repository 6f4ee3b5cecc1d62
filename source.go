package collapse

import "context"

// Format is the markup language of an input.
type Format string

// Format constants.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Input is raw page content loaded from a file or URL.
type Input struct {
	Location string
	Format   Format
	Content  []byte
}

// Source loads inputs by location.
type Source interface {
	Load(ctx context.Context, location string) (*Input, error)
}

// Output is a rewritten page ready to be stored.
type Output struct {
	// Path is relative to the store root.
	Path    string
	Content []byte
}

// Validate returns an error if the output contains invalid fields.
func (o *Output) Validate() error {
	if o.Path == "" {
		return Errorf(EINVALID, "output path required")
	}
	return nil
}

// Store persists outputs with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type Store interface {
	Save(ctx context.Context, out *Output) error
	Commit() error
	Abort() error
}

// Renderer renders Markdown source to HTML.
type Renderer interface {
	Render(src []byte) (string, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	Convert(html string) (string, error)
}

// URLFilter remembers URLs. False positives are allowed, so a filter may
// claim to have seen a URL it never saw.
type URLFilter interface {
	// TestAndAdd adds url and reports whether it was seen before.
	TestAndAdd(url string) bool
}
