package mock

import "github.com/fwojciec/collapse"

var _ collapse.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of collapse.Renderer.
type Renderer struct {
	RenderFn func(src []byte) (string, error)
}

func (r *Renderer) Render(src []byte) (string, error) {
	return r.RenderFn(src)
}

var _ collapse.Converter = (*Converter)(nil)

// Converter is a mock implementation of collapse.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
