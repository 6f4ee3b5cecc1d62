package collapse

import "time"

// Default timings.
const (
	DefaultHoverDelay            = 750 * time.Millisecond
	DefaultTransitionSuppression = 100 * time.Millisecond
	DefaultPrefetchDelay         = 800 * time.Millisecond
)

// DefaultAriaLabel labels injected disclosure controls.
const DefaultAriaLabel = "Open/close collapsed section"

// DefaultPopFrameSelector matches the body of a pop-frame.
const DefaultPopFrameSelector = ".popframe-body"

// Options configures how a page is rewritten and how its controls behave.
type Options struct {
	// CollapseAllowed selects the structural path: when false, collapse
	// blocks are permanently flattened instead of prepared.
	CollapseAllowed bool

	// HoverDelay is how long the pointer must rest on a collapsed
	// control before the block is previewed.
	HoverDelay time.Duration

	// TransitionSuppression is how long CSS transitions stay disabled on a
	// control after its block collapses.
	TransitionSuppression time.Duration

	// PrefetchDelay is how long the pointer must rest on a link before the
	// linked page is prefetched.
	PrefetchDelay time.Duration

	// PopFrameSelector matches the container of pop-frame content. Blocks
	// inside it scroll with the pop-frame scroller.
	PopFrameSelector string

	// AriaLabel is the accessible label of injected controls.
	AriaLabel string

	// AllowQueryString allows prefetching links with a query string.
	AllowQueryString bool

	// PrefetchWhitelist restricts prefetching to links marked data-instant.
	PrefetchWhitelist bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		CollapseAllowed:       true,
		HoverDelay:            DefaultHoverDelay,
		TransitionSuppression: DefaultTransitionSuppression,
		PrefetchDelay:         DefaultPrefetchDelay,
		PopFrameSelector:      DefaultPopFrameSelector,
		AriaLabel:             DefaultAriaLabel,
	}
}

// Validate returns an error if the options contain invalid values.
func (o *Options) Validate() error {
	if o.HoverDelay < 0 {
		return Errorf(EINVALID, "hover delay must not be negative")
	}
	if o.TransitionSuppression < 0 {
		return Errorf(EINVALID, "transition suppression must not be negative")
	}
	if o.PrefetchDelay < 0 {
		return Errorf(EINVALID, "prefetch delay must not be negative")
	}
	if o.PopFrameSelector == "" {
		return Errorf(EINVALID, "pop-frame selector required")
	}
	return nil
}
